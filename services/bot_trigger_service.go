package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"swingfox_server/models"
)

// upcomingEventsInReply caps the event list appended to first-message
// replies.
const upcomingEventsInReply = 3

// BotTriggerService evaluates a club's bot rules against trigger events and
// injects at most one bot message per trigger. The rules are stateless:
// whether a trigger already fired is derived from the message log, so
// re-delivery of the same trigger cannot double-fire.
type BotTriggerService struct {
	Rules    BotRuleStore
	Messages MessageStore
	Events   EventStore
	Notifier Notifier
	Fanout   DeliveryFanout
}

var _ BotEngine = (*BotTriggerService)(nil)

// OnMessage handles a just-appended human message on a club channel. When it
// is the first human message ever on that channel, the first_message rule
// injects a greeting plus the club's soonest upcoming events. The caller
// still holds the conversation lock, so the prior-message count is exact.
func (s *BotTriggerService) OnMessage(ctx context.Context, msg models.Message) error {
	if !msg.IsClubChannel() || msg.IsBotAuthored() {
		return nil
	}

	rule, err := s.Rules.GetBotRule(ctx, msg.ClubID, models.BotTriggerFirstMessage)
	if err != nil {
		return fmt.Errorf("failed to load first_message rule: %w", err)
	}
	if rule == nil || !rule.Enabled {
		return nil
	}

	prior, err := s.Messages.CountHumanMessagesBefore(ctx, msg.ConversationID, msg.Seq)
	if err != nil {
		return fmt.Errorf("failed to count prior messages: %w", err)
	}
	if prior > 0 {
		return nil
	}

	body := rule.Template
	events, err := s.Events.UpcomingEvents(ctx, msg.ClubID, upcomingEventsInReply)
	if err != nil {
		log.Printf("⚠️ Failed to load upcoming events for club %s: %v", msg.ClubID, err)
	} else if list := formatEventList(events); list != "" {
		body += "\n\nUpcoming events:\n" + list
	}

	return s.inject(ctx, msg.ConversationID, msg.ClubID, msg.EventID, msg.SenderID, body)
}

// OnParticipantConfirmed handles a participation being confirmed for an
// event. The registration rule greets the participant, but only on a channel
// with no messages yet, which keeps retries of the confirmation idempotent.
func (s *BotTriggerService) OnParticipantConfirmed(ctx context.Context, clubID, eventID, humanID string) error {
	rule, err := s.Rules.GetBotRule(ctx, clubID, models.BotTriggerRegistration)
	if err != nil {
		return fmt.Errorf("failed to load registration rule: %w", err)
	}
	if rule == nil || !rule.Enabled {
		return nil
	}

	conversationID := models.ClubConversationID(clubID, eventID, humanID)
	hasMessages, err := s.Messages.HasMessages(ctx, conversationID)
	if err != nil {
		return fmt.Errorf("failed to probe channel: %w", err)
	}
	if hasMessages {
		return nil
	}

	return s.inject(ctx, conversationID, clubID, eventID, humanID, rule.Template)
}

// inject appends one bot message on the channel and runs the usual
// post-append side effects.
func (s *BotTriggerService) inject(ctx context.Context, conversationID, clubID, eventID, humanID, body string) error {
	msg := models.Message{
		ConversationID: conversationID,
		SenderID:       models.BotIdentityID,
		RecipientID:    humanID,
		Body:           body,
		ClubID:         clubID,
		EventID:        eventID,
	}

	persisted, err := s.Messages.Append(ctx, msg)
	if err != nil {
		return fmt.Errorf("failed to persist bot message: %w", err)
	}
	log.Printf("🤖 Bot message injected on %s", conversationID)

	if s.Notifier != nil {
		meta := map[string]string{"conversationId": conversationID, "clubId": clubID}
		if err := s.Notifier.Notify(ctx, humanID, models.NotificationKindBot, persisted.Body, meta); err != nil {
			log.Printf("⚠️ Bot notification failed for %s: %v", humanID, err)
		}
	}
	if s.Fanout != nil {
		if err := s.Fanout.Push(conversationID, persisted); err != nil {
			log.Printf("⚠️ Bot fan-out failed for %s: %v", conversationID, err)
		}
	}
	return nil
}

// formatEventList renders upcoming events as a bullet list.
func formatEventList(events []models.ClubEvent) string {
	var lines []string
	for _, e := range events {
		when := e.StartsAt
		if t, err := time.Parse(time.RFC3339, e.StartsAt); err == nil {
			when = t.Local().Format("Jan 2, 15:04")
		}
		lines = append(lines, fmt.Sprintf("• %s — %s", e.Title, when))
	}
	return strings.Join(lines, "\n")
}
