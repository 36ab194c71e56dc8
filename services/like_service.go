package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"swingfox_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// LikeService owns the directed like edges and turns reciprocated likes
// into matches.
type LikeService struct {
	Dynamo   *DynamoService
	Notifier Notifier
}

var _ EdgeStore = (*LikeService)(nil)

// GetEdge fetches the directed edge from -> to; (nil, nil) when absent.
func (s *LikeService) GetEdge(ctx context.Context, fromID, toID string) (*models.LikeEdge, error) {
	key := map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: models.LikeEdgePK(fromID)},
		"SK": &types.AttributeValueMemberS{Value: models.LikeEdgeSK(toID)},
	}

	item, err := s.Dynamo.GetItem(ctx, models.LikeEdgesTable, key)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	var edge models.LikeEdge
	if err := attributevalue.UnmarshalMap(item, &edge); err != nil {
		return nil, fmt.Errorf("failed to parse like edge: %w", err)
	}
	return &edge, nil
}

// Like records a directed like. The conditional put keeps the pair unique;
// liking twice is a no-op. When the reverse edge already exists both edges
// are flipped to mutual and both parties get a match notification.
func (s *LikeService) Like(ctx context.Context, fromID, toID string) (bool, error) {
	if fromID == toID {
		return false, errors.New("cannot like yourself")
	}

	edge := models.LikeEdge{
		PK:        models.LikeEdgePK(fromID),
		SK:        models.LikeEdgeSK(toID),
		FromID:    fromID,
		ToID:      toID,
		CreatedAt: time.Now().Format(time.RFC3339),
	}

	err := s.Dynamo.PutItemIfNotExists(ctx, models.LikeEdgesTable, "PK", edge)
	if err != nil && !errors.Is(err, ErrItemExists) {
		return false, fmt.Errorf("failed to save like: %w", err)
	}

	reverse, err := s.GetEdge(ctx, toID, fromID)
	if err != nil {
		return false, fmt.Errorf("failed to check reverse like: %w", err)
	}
	if reverse == nil {
		return false, nil
	}

	s.markMutual(ctx, fromID, toID)
	s.markMutual(ctx, toID, fromID)
	log.Printf("🎉 Match confirmed: %s and %s", fromID, toID)

	if s.Notifier != nil {
		meta := map[string]string{"peer": fromID}
		_ = s.Notifier.Notify(ctx, toID, models.NotificationKindMatch, "You have a new match!", meta)
		meta = map[string]string{"peer": toID}
		_ = s.Notifier.Notify(ctx, fromID, models.NotificationKindMatch, "You have a new match!", meta)
	}
	return true, nil
}

func (s *LikeService) markMutual(ctx context.Context, fromID, toID string) {
	key := map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: models.LikeEdgePK(fromID)},
		"SK": &types.AttributeValueMemberS{Value: models.LikeEdgeSK(toID)},
	}
	updateExpression := "SET reciprocal = :mutual"
	expressionValues := map[string]types.AttributeValue{
		":mutual": &types.AttributeValueMemberS{Value: models.ReciprocalMutual},
	}
	if _, err := s.Dynamo.UpdateItem(ctx, models.LikeEdgesTable, updateExpression, key, expressionValues, nil); err != nil {
		log.Printf("❌ Failed to mark edge %s -> %s mutual: %v", fromID, toID, err)
	}
}
