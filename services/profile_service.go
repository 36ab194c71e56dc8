package services

import (
	"context"
	"fmt"

	"swingfox_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ProfileService resolves identity handles against the user profile table.
type ProfileService struct {
	Dynamo *DynamoService
}

var _ ProfileResolver = (*ProfileService)(nil)

// Resolve returns the profile behind a handle, or (nil, nil) when none
// exists.
func (s *ProfileService) Resolve(ctx context.Context, userID string) (*models.UserProfile, error) {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}

	item, err := s.Dynamo.GetItem(ctx, models.UserProfilesTable, key)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	if item == nil {
		return nil, nil
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	return &profile, nil
}
