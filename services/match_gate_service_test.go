package services

import (
	"context"
	"errors"
	"testing"

	"swingfox_server/models"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate_MutualEdgesAllowSend(t *testing.T) {
	edges := new(MockEdgeStore)
	messages := new(MockMessageStore)
	gate := &MatchGateService{Edges: edges, Messages: messages, FailOpen: true}

	edges.On("GetEdge", context.Background(), "alice", "bob").Return(&models.LikeEdge{FromID: "alice", ToID: "bob"}, nil)
	edges.On("GetEdge", context.Background(), "bob", "alice").Return(&models.LikeEdge{FromID: "bob", ToID: "alice"}, nil)

	decision := gate.Evaluate(context.Background(), "alice", "bob")

	assert.True(t, decision.CanSend)
	assert.True(t, decision.HasMatch)
	assert.Empty(t, decision.Reason)
	messages.AssertNotCalled(t, "HasMessages")
}

func TestEvaluate_NoEdgesNoHistoryDenies(t *testing.T) {
	edges := new(MockEdgeStore)
	messages := new(MockMessageStore)
	gate := &MatchGateService{Edges: edges, Messages: messages, FailOpen: true}

	edges.On("GetEdge", context.Background(), "alice", "bob").Return(nil, nil)
	edges.On("GetEdge", context.Background(), "bob", "alice").Return(nil, nil)
	messages.On("HasMessages", context.Background(), models.DirectConversationID("alice", "bob")).Return(false, nil)

	decision := gate.Evaluate(context.Background(), "alice", "bob")

	assert.False(t, decision.CanSend)
	assert.Equal(t, models.ReasonNoMatch, decision.Reason)
}

func TestEvaluate_OneSidedLikeDenies(t *testing.T) {
	edges := new(MockEdgeStore)
	messages := new(MockMessageStore)
	gate := &MatchGateService{Edges: edges, Messages: messages, FailOpen: true}

	edges.On("GetEdge", context.Background(), "alice", "bob").Return(&models.LikeEdge{FromID: "alice", ToID: "bob"}, nil)
	edges.On("GetEdge", context.Background(), "bob", "alice").Return(nil, nil)
	messages.On("HasMessages", context.Background(), models.DirectConversationID("alice", "bob")).Return(false, nil)

	decision := gate.Evaluate(context.Background(), "alice", "bob")

	assert.False(t, decision.CanSend)
	assert.Equal(t, models.ReasonNoMatch, decision.Reason)
}

func TestEvaluate_GrandfatheredConversationStaysOpen(t *testing.T) {
	edges := new(MockEdgeStore)
	messages := new(MockMessageStore)
	gate := &MatchGateService{Edges: edges, Messages: messages, FailOpen: true}

	edges.On("GetEdge", context.Background(), "alice", "bob").Return(nil, nil)
	edges.On("GetEdge", context.Background(), "bob", "alice").Return(nil, nil)
	messages.On("HasMessages", context.Background(), models.DirectConversationID("alice", "bob")).Return(true, nil)

	decision := gate.Evaluate(context.Background(), "alice", "bob")

	assert.True(t, decision.CanSend)
	assert.False(t, decision.HasMatch)
	assert.Empty(t, decision.Reason)
}

func TestEvaluate_SelfMessageDenied(t *testing.T) {
	edges := new(MockEdgeStore)
	gate := &MatchGateService{Edges: edges, Messages: new(MockMessageStore), FailOpen: true}

	decision := gate.Evaluate(context.Background(), "alice", "alice")

	assert.False(t, decision.CanSend)
	assert.Equal(t, models.ReasonSelfMessage, decision.Reason)
	edges.AssertNotCalled(t, "GetEdge")
}

func TestEvaluate_StoreErrorFailOpen(t *testing.T) {
	edges := new(MockEdgeStore)
	gate := &MatchGateService{Edges: edges, Messages: new(MockMessageStore), FailOpen: true}

	edges.On("GetEdge", context.Background(), "alice", "bob").Return(nil, errors.New("dynamo down"))

	decision := gate.Evaluate(context.Background(), "alice", "bob")

	assert.True(t, decision.CanSend)
	assert.Equal(t, models.ReasonFallbackAllow, decision.Reason)
	assert.NotEmpty(t, decision.Warning)
}

func TestEvaluate_StoreErrorFailClosed(t *testing.T) {
	edges := new(MockEdgeStore)
	gate := &MatchGateService{Edges: edges, Messages: new(MockMessageStore), FailOpen: false}

	edges.On("GetEdge", context.Background(), "alice", "bob").Return(nil, errors.New("dynamo down"))

	decision := gate.Evaluate(context.Background(), "alice", "bob")

	assert.False(t, decision.CanSend)
	assert.Equal(t, models.ReasonFallbackDeny, decision.Reason)
}

func TestEvaluate_HistoryErrorFallsBack(t *testing.T) {
	edges := new(MockEdgeStore)
	messages := new(MockMessageStore)
	gate := &MatchGateService{Edges: edges, Messages: messages, FailOpen: true}

	edges.On("GetEdge", context.Background(), "alice", "bob").Return(nil, nil)
	edges.On("GetEdge", context.Background(), "bob", "alice").Return(nil, nil)
	messages.On("HasMessages", context.Background(), models.DirectConversationID("alice", "bob")).Return(false, errors.New("dynamo down"))

	decision := gate.Evaluate(context.Background(), "alice", "bob")

	assert.True(t, decision.CanSend)
	assert.Equal(t, models.ReasonFallbackAllow, decision.Reason)
}

func TestMatchStatus_States(t *testing.T) {
	out := &models.LikeEdge{FromID: "alice", ToID: "bob"}
	in := &models.LikeEdge{FromID: "bob", ToID: "alice"}

	cases := []struct {
		name     string
		edgeOut  *models.LikeEdge
		edgeIn   *models.LikeEdge
		expected models.MatchState
	}{
		{"matched", out, in, models.MatchState{Status: models.MatchStatusMatched, CanChat: true}},
		{"waiting on other", out, nil, models.MatchState{Status: models.MatchStatusWaitingOnOther}},
		{"incoming", nil, in, models.MatchState{Status: models.MatchStatusIncoming}},
		{"none", nil, nil, models.MatchState{Status: models.MatchStatusNone}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			edges := new(MockEdgeStore)
			gate := &MatchGateService{Edges: edges, Messages: new(MockMessageStore)}

			if tc.edgeOut != nil {
				edges.On("GetEdge", context.Background(), "alice", "bob").Return(tc.edgeOut, nil)
			} else {
				edges.On("GetEdge", context.Background(), "alice", "bob").Return(nil, nil)
			}
			if tc.edgeIn != nil {
				edges.On("GetEdge", context.Background(), "bob", "alice").Return(tc.edgeIn, nil)
			} else {
				edges.On("GetEdge", context.Background(), "bob", "alice").Return(nil, nil)
			}

			state, err := gate.MatchStatus(context.Background(), "alice", "bob")

			assert.NoError(t, err)
			assert.Equal(t, tc.expected, state)
		})
	}
}

func TestMatchStatus_ErrorPropagates(t *testing.T) {
	edges := new(MockEdgeStore)
	gate := &MatchGateService{Edges: edges, Messages: new(MockMessageStore)}

	edges.On("GetEdge", context.Background(), "alice", "bob").Return(nil, errors.New("dynamo down"))

	_, err := gate.MatchStatus(context.Background(), "alice", "bob")

	assert.Error(t, err)
}
