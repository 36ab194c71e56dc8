package services

import (
	"context"
	"fmt"
	"log"

	"swingfox_server/models"
)

// oversampleFactor controls how many raw rows the conversation list pulls
// per requested page: grouping collapses many rows into one peer entry.
const oversampleFactor = 5

// ConversationService derives a user's conversation list from the message
// log. There is no stored conversation entity; the log is the source of
// truth and this view is a rebuildable projection over it.
type ConversationService struct {
	Messages MessageStore
	Profiles ProfileResolver
}

// ListConversations returns the identity's distinct conversations, newest
// activity first, with last-message previews and unread counts. Pagination
// applies to the grouped list, not the raw row scan.
func (s *ConversationService) ListConversations(ctx context.Context, identity string, limit, offset int) ([]models.ConversationSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	sample := (offset + limit) * oversampleFactor
	rows, err := s.Messages.RecentMessages(ctx, identity, sample)
	if err != nil {
		return nil, fmt.Errorf("failed to scan messages: %w", err)
	}

	grouped := groupByConversation(rows, identity)
	if offset >= len(grouped) {
		return []models.ConversationSummary{}, nil
	}
	grouped = grouped[offset:]
	if len(grouped) > limit {
		grouped = grouped[:limit]
	}

	for i := range grouped {
		unread, err := s.Messages.CountUnread(ctx, grouped[i].ConversationID, identity)
		if err != nil {
			log.Printf("⚠️ Failed to count unread for %s: %v", grouped[i].ConversationID, err)
		} else {
			grouped[i].UnreadCount = unread
		}
		grouped[i].PeerProfile = s.resolvePeer(ctx, grouped[i].Peer)
	}
	return grouped, nil
}

// groupByConversation keeps the first (most recent) row per conversation
// from a newest-first scan: that row is the conversation's last message.
func groupByConversation(newestFirst []models.Message, identity string) []models.ConversationSummary {
	var summaries []models.ConversationSummary
	seen := map[string]bool{}

	for _, m := range newestFirst {
		if seen[m.ConversationID] {
			continue
		}
		seen[m.ConversationID] = true

		body := m.Body
		if m.Deleted {
			body = models.TombstoneBody
		}
		// A club channel's peer is always the club pseudo-identity, even
		// when the bot authored the last row.
		peer := m.Peer(identity)
		if m.IsClubChannel() {
			peer = models.ClubIdentityID(m.ClubID)
		}
		summaries = append(summaries, models.ConversationSummary{
			ConversationID: m.ConversationID,
			Peer:           peer,
			ClubID:         m.ClubID,
			EventID:        m.EventID,
			LastMessage:    body,
			LastMessageAt:  m.CreatedAt,
			LastMessageBy:  m.SenderID,
			HasAttachments: len(m.Attachments) > 0,
		})
	}
	return summaries
}

// resolvePeer fetches the peer's profile, falling back to a placeholder so
// the list stays consistent with the raw log even when a referenced
// identity was removed.
func (s *ConversationService) resolvePeer(ctx context.Context, peer string) *models.UserProfile {
	parsed := models.ParseIdentity(peer)
	if !parsed.IsHuman() {
		return nil
	}

	profile, err := s.Profiles.Resolve(ctx, peer)
	if err != nil {
		log.Printf("⚠️ Failed to resolve profile for %s: %v", peer, err)
		return models.PlaceholderProfile(peer)
	}
	if profile == nil {
		return models.PlaceholderProfile(peer)
	}
	return profile
}
