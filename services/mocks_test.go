package services

import (
	"context"

	"swingfox_server/models"

	"github.com/stretchr/testify/mock"
)

// MockMessageStore is a mock implementation of the MessageStore interface
type MockMessageStore struct {
	mock.Mock
}

func (m *MockMessageStore) Append(ctx context.Context, msg models.Message) (models.Message, error) {
	args := m.Called(ctx, msg)
	return args.Get(0).(models.Message), args.Error(1)
}

func (m *MockMessageStore) History(ctx context.Context, conversationID string, limit, offset int) ([]models.Message, error) {
	args := m.Called(ctx, conversationID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockMessageStore) RecentMessages(ctx context.Context, identity string, limit int) ([]models.Message, error) {
	args := m.Called(ctx, identity, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockMessageStore) HasMessages(ctx context.Context, conversationID string) (bool, error) {
	args := m.Called(ctx, conversationID)
	return args.Bool(0), args.Error(1)
}

func (m *MockMessageStore) CountHumanMessagesBefore(ctx context.Context, conversationID string, seq int64) (int, error) {
	args := m.Called(ctx, conversationID, seq)
	return args.Int(0), args.Error(1)
}

func (m *MockMessageStore) CountUnread(ctx context.Context, conversationID, identity string) (int, error) {
	args := m.Called(ctx, conversationID, identity)
	return args.Int(0), args.Error(1)
}

func (m *MockMessageStore) LatestClubEventID(ctx context.Context, clubID, humanID string) (string, error) {
	args := m.Called(ctx, clubID, humanID)
	return args.String(0), args.Error(1)
}

// MockEdgeStore is a mock implementation of the EdgeStore interface
type MockEdgeStore struct {
	mock.Mock
}

func (m *MockEdgeStore) GetEdge(ctx context.Context, fromID, toID string) (*models.LikeEdge, error) {
	args := m.Called(ctx, fromID, toID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LikeEdge), args.Error(1)
}

// MockProfileResolver is a mock implementation of the ProfileResolver interface
type MockProfileResolver struct {
	mock.Mock
}

func (m *MockProfileResolver) Resolve(ctx context.Context, userID string) (*models.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

// MockParticipationStore is a mock implementation of the ParticipationStore interface
type MockParticipationStore struct {
	mock.Mock
}

func (m *MockParticipationStore) ParticipationStatus(ctx context.Context, eventID, userID string) (string, error) {
	args := m.Called(ctx, eventID, userID)
	return args.String(0), args.Error(1)
}

// MockEventStore is a mock implementation of the EventStore interface
type MockEventStore struct {
	mock.Mock
}

func (m *MockEventStore) UpcomingEvents(ctx context.Context, clubID string, limit int) ([]models.ClubEvent, error) {
	args := m.Called(ctx, clubID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ClubEvent), args.Error(1)
}

// MockBotRuleStore is a mock implementation of the BotRuleStore interface
type MockBotRuleStore struct {
	mock.Mock
}

func (m *MockBotRuleStore) GetBotRule(ctx context.Context, clubID, triggerType string) (*models.BotRule, error) {
	args := m.Called(ctx, clubID, triggerType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BotRule), args.Error(1)
}

// MockMatchGate is a mock implementation of the MatchGate interface
type MockMatchGate struct {
	mock.Mock
}

func (m *MockMatchGate) Evaluate(ctx context.Context, fromID, toID string) models.MatchDecision {
	args := m.Called(ctx, fromID, toID)
	return args.Get(0).(models.MatchDecision)
}

// MockNotifier is a mock implementation of the Notifier interface
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, userID, kind, text string, metadata map[string]string) error {
	args := m.Called(ctx, userID, kind, text, metadata)
	return args.Error(0)
}

// MockFanout is a mock implementation of the DeliveryFanout interface
type MockFanout struct {
	mock.Mock
}

func (m *MockFanout) Push(conversationID string, msg models.Message) error {
	args := m.Called(conversationID, msg)
	return args.Error(0)
}

// MockBotEngine is a mock implementation of the BotEngine interface
type MockBotEngine struct {
	mock.Mock
}

func (m *MockBotEngine) OnMessage(ctx context.Context, msg models.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockBotEngine) OnParticipantConfirmed(ctx context.Context, clubID, eventID, humanID string) error {
	args := m.Called(ctx, clubID, eventID, humanID)
	return args.Error(0)
}

// MockAttachmentCleaner is a mock implementation of the AttachmentCleaner interface
type MockAttachmentCleaner struct {
	mock.Mock
}

func (m *MockAttachmentCleaner) DeleteBlobs(ctx context.Context, keys []string) {
	m.Called(ctx, keys)
}
