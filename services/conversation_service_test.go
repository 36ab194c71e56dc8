package services

import (
	"context"
	"errors"
	"testing"

	"swingfox_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestGroupByConversation_KeepsNewestRowPerConversation(t *testing.T) {
	newestFirst := []models.Message{
		{ConversationID: "DIRECT#alice#bob", SenderID: "bob", RecipientID: "alice", Body: "latest", CreatedAt: "2026-03-10T12:00:00Z"},
		{ConversationID: "DIRECT#alice#carol", SenderID: "alice", RecipientID: "carol", Body: "hey carol", CreatedAt: "2026-03-10T11:00:00Z"},
		{ConversationID: "DIRECT#alice#bob", SenderID: "alice", RecipientID: "bob", Body: "older", CreatedAt: "2026-03-10T10:00:00Z"},
	}

	summaries := groupByConversation(newestFirst, "alice")

	assert.Len(t, summaries, 2)
	assert.Equal(t, "DIRECT#alice#bob", summaries[0].ConversationID)
	assert.Equal(t, "latest", summaries[0].LastMessage)
	assert.Equal(t, "bob", summaries[0].Peer)
	assert.Equal(t, "bob", summaries[0].LastMessageBy)
	assert.Equal(t, "carol", summaries[1].Peer)
}

func TestGroupByConversation_DeletedPreviewTombstoned(t *testing.T) {
	newestFirst := []models.Message{
		{ConversationID: "DIRECT#alice#bob", SenderID: "bob", RecipientID: "alice", Body: "secret", Deleted: true},
	}

	summaries := groupByConversation(newestFirst, "alice")

	assert.Equal(t, models.TombstoneBody, summaries[0].LastMessage)
}

func TestListConversations_UnreadAndProfiles(t *testing.T) {
	messages := new(MockMessageStore)
	profiles := new(MockProfileResolver)
	svc := &ConversationService{Messages: messages, Profiles: profiles}

	rows := []models.Message{
		{ConversationID: "DIRECT#alice#bob", SenderID: "bob", RecipientID: "alice", Body: "hi", CreatedAt: "2026-03-10T12:00:00Z"},
	}
	messages.On("RecentMessages", mock.Anything, "alice", mock.AnythingOfType("int")).Return(rows, nil)
	messages.On("CountUnread", mock.Anything, "DIRECT#alice#bob", "alice").Return(3, nil)
	profiles.On("Resolve", mock.Anything, "bob").Return(&models.UserProfile{UserID: "bob", Name: "Bob"}, nil)

	summaries, err := svc.ListConversations(context.Background(), "alice", 20, 0)

	assert.NoError(t, err)
	assert.Len(t, summaries, 1)
	assert.Equal(t, 3, summaries[0].UnreadCount)
	assert.Equal(t, "Bob", summaries[0].PeerProfile.Name)
}

func TestListConversations_PlaceholderForMissingProfile(t *testing.T) {
	messages := new(MockMessageStore)
	profiles := new(MockProfileResolver)
	svc := &ConversationService{Messages: messages, Profiles: profiles}

	rows := []models.Message{
		{ConversationID: "DIRECT#alice#ghost", SenderID: "ghost", RecipientID: "alice", Body: "boo", CreatedAt: "2026-03-10T12:00:00Z"},
	}
	messages.On("RecentMessages", mock.Anything, "alice", mock.AnythingOfType("int")).Return(rows, nil)
	messages.On("CountUnread", mock.Anything, "DIRECT#alice#ghost", "alice").Return(0, nil)
	profiles.On("Resolve", mock.Anything, "ghost").Return(nil, nil)

	summaries, err := svc.ListConversations(context.Background(), "alice", 20, 0)

	assert.NoError(t, err)
	assert.NotNil(t, summaries[0].PeerProfile)
	assert.Equal(t, "Deleted profile", summaries[0].PeerProfile.Name)
}

func TestListConversations_UnreadErrorIsNonFatal(t *testing.T) {
	messages := new(MockMessageStore)
	profiles := new(MockProfileResolver)
	svc := &ConversationService{Messages: messages, Profiles: profiles}

	rows := []models.Message{
		{ConversationID: "DIRECT#alice#bob", SenderID: "bob", RecipientID: "alice", Body: "hi", CreatedAt: "2026-03-10T12:00:00Z"},
	}
	messages.On("RecentMessages", mock.Anything, "alice", mock.AnythingOfType("int")).Return(rows, nil)
	messages.On("CountUnread", mock.Anything, "DIRECT#alice#bob", "alice").Return(0, errors.New("dynamo down"))
	profiles.On("Resolve", mock.Anything, "bob").Return(&models.UserProfile{UserID: "bob"}, nil)

	summaries, err := svc.ListConversations(context.Background(), "alice", 20, 0)

	assert.NoError(t, err)
	assert.Equal(t, 0, summaries[0].UnreadCount)
}

func TestListConversations_PaginatesGroupedList(t *testing.T) {
	messages := new(MockMessageStore)
	profiles := new(MockProfileResolver)
	svc := &ConversationService{Messages: messages, Profiles: profiles}

	rows := []models.Message{
		{ConversationID: "DIRECT#alice#bob", SenderID: "bob", RecipientID: "alice", Body: "1", CreatedAt: "2026-03-10T12:00:00Z"},
		{ConversationID: "DIRECT#alice#carol", SenderID: "carol", RecipientID: "alice", Body: "2", CreatedAt: "2026-03-10T11:00:00Z"},
		{ConversationID: "DIRECT#alice#dave", SenderID: "dave", RecipientID: "alice", Body: "3", CreatedAt: "2026-03-10T10:00:00Z"},
	}
	messages.On("RecentMessages", mock.Anything, "alice", mock.AnythingOfType("int")).Return(rows, nil)
	messages.On("CountUnread", mock.Anything, mock.AnythingOfType("string"), "alice").Return(0, nil)
	profiles.On("Resolve", mock.Anything, mock.AnythingOfType("string")).Return(&models.UserProfile{}, nil)

	page, err := svc.ListConversations(context.Background(), "alice", 1, 1)

	assert.NoError(t, err)
	assert.Len(t, page, 1)
	assert.Equal(t, "carol", page[0].Peer)
}

func TestListConversations_OffsetBeyondEnd(t *testing.T) {
	messages := new(MockMessageStore)
	svc := &ConversationService{Messages: messages, Profiles: new(MockProfileResolver)}

	messages.On("RecentMessages", mock.Anything, "alice", mock.AnythingOfType("int")).Return([]models.Message{}, nil)

	page, err := svc.ListConversations(context.Background(), "alice", 20, 10)

	assert.NoError(t, err)
	assert.Empty(t, page)
}

func TestListConversations_ClubPeerHasNoProfile(t *testing.T) {
	messages := new(MockMessageStore)
	profiles := new(MockProfileResolver)
	svc := &ConversationService{Messages: messages, Profiles: profiles}

	rows := []models.Message{
		{ConversationID: models.ClubConversationID("9", "e1", "alice"), SenderID: "alice", RecipientID: "club_9", Body: "hi", ClubID: "9", EventID: "e1", CreatedAt: "2026-03-10T12:00:00Z"},
	}
	messages.On("RecentMessages", mock.Anything, "alice", mock.AnythingOfType("int")).Return(rows, nil)
	messages.On("CountUnread", mock.Anything, rows[0].ConversationID, "alice").Return(0, nil)

	summaries, err := svc.ListConversations(context.Background(), "alice", 20, 0)

	assert.NoError(t, err)
	assert.Equal(t, "club_9", summaries[0].Peer)
	assert.Equal(t, "9", summaries[0].ClubID)
	assert.Nil(t, summaries[0].PeerProfile)
	profiles.AssertNotCalled(t, "Resolve")
}

func TestGroupByConversation_ClubPeerStableAcrossBotMessages(t *testing.T) {
	conversationID := models.ClubConversationID("9", "e1", "alice")
	newestFirst := []models.Message{
		{ConversationID: conversationID, SenderID: models.BotIdentityID, RecipientID: "alice", Body: "Welcome!", ClubID: "9", EventID: "e1", CreatedAt: "2026-03-10T12:00:00Z"},
	}

	summaries := groupByConversation(newestFirst, "alice")

	assert.Equal(t, "club_9", summaries[0].Peer)
}
