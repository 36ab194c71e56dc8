package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"swingfox_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ClubService exposes the club portal's data the chat core reads:
// participation records, upcoming events and bot rules. It also carries the
// portal's confirmation hook, which feeds the registration bot trigger.
type ClubService struct {
	Dynamo *DynamoService
	// Bot is wired after construction; the trigger engine reads from this
	// service in turn.
	Bot BotEngine
}

var (
	_ ParticipationStore = (*ClubService)(nil)
	_ EventStore         = (*ClubService)(nil)
	_ BotRuleStore       = (*ClubService)(nil)
)

// ParticipationStatus returns the user's standing for the event, empty when
// no record exists.
func (s *ClubService) ParticipationStatus(ctx context.Context, eventID, userID string) (string, error) {
	key := map[string]types.AttributeValue{
		"eventId": &types.AttributeValueMemberS{Value: eventID},
		"userId":  &types.AttributeValueMemberS{Value: userID},
	}

	item, err := s.Dynamo.GetItem(ctx, models.EventParticipantsTable, key)
	if err != nil {
		return "", fmt.Errorf("failed to fetch participation: %w", err)
	}
	if item == nil {
		return "", nil
	}

	var record models.EventParticipant
	if err := attributevalue.UnmarshalMap(item, &record); err != nil {
		return "", fmt.Errorf("failed to parse participation: %w", err)
	}
	return record.Status, nil
}

// ConfirmParticipant records the user as confirmed for the event and fires
// the registration bot trigger. The trigger runs in its own error boundary:
// the confirmation stands even if the bot message fails.
func (s *ClubService) ConfirmParticipant(ctx context.Context, clubID, eventID, userID string) error {
	record := models.EventParticipant{
		EventID:   eventID,
		UserID:    userID,
		ClubID:    clubID,
		Status:    models.ParticipationConfirmed,
		UpdatedAt: time.Now().Format(time.RFC3339),
	}
	if err := s.Dynamo.PutItem(ctx, models.EventParticipantsTable, record); err != nil {
		return fmt.Errorf("failed to save participation: %w", err)
	}
	log.Printf("✅ Participant %s confirmed for event %s", userID, eventID)

	if s.Bot != nil {
		if err := s.Bot.OnParticipantConfirmed(ctx, clubID, eventID, userID); err != nil {
			log.Printf("⚠️ Registration bot trigger failed for %s/%s: %v", eventID, userID, err)
		}
	}
	return nil
}

// UpcomingEvents lists the club's soonest events starting from now.
func (s *ClubService) UpcomingEvents(ctx context.Context, clubID string, limit int) ([]models.ClubEvent, error) {
	if limit <= 0 {
		limit = 5
	}

	keyCondition := "clubId = :clubId AND startsAt >= :now"
	expressionValues := map[string]types.AttributeValue{
		":clubId": &types.AttributeValueMemberS{Value: clubID},
		":now":    &types.AttributeValueMemberS{Value: time.Now().Format(time.RFC3339)},
	}

	items, err := s.Dynamo.QueryItemsWithOptions(ctx, models.ClubEventsTable, keyCondition, expressionValues, nil, int32(limit), false)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch upcoming events: %w", err)
	}

	var events []models.ClubEvent
	if err := attributevalue.UnmarshalListOfMaps(items, &events); err != nil {
		return nil, fmt.Errorf("failed to parse events: %w", err)
	}
	return events, nil
}

// GetBotRule fetches the club's rule for a trigger type; (nil, nil) when the
// club has none configured.
func (s *ClubService) GetBotRule(ctx context.Context, clubID, triggerType string) (*models.BotRule, error) {
	key := map[string]types.AttributeValue{
		"clubId":      &types.AttributeValueMemberS{Value: clubID},
		"triggerType": &types.AttributeValueMemberS{Value: triggerType},
	}

	item, err := s.Dynamo.GetItem(ctx, models.BotRulesTable, key)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bot rule: %w", err)
	}
	if item == nil {
		return nil, nil
	}

	var rule models.BotRule
	if err := attributevalue.UnmarshalMap(item, &rule); err != nil {
		return nil, fmt.Errorf("failed to parse bot rule: %w", err)
	}
	return &rule, nil
}
