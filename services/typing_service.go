package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// typingTTL bounds how long a typing indicator survives without renewal.
// Indicators are lossy and safe to drop on restart.
const typingTTL = 5 * time.Minute

// TypingService keeps ephemeral typing indicators in Redis.
type TypingService struct {
	Redis *redis.Client
}

// SetTyping marks the user as typing in the conversation until the TTL
// expires or ClearTyping runs.
func (s *TypingService) SetTyping(ctx context.Context, conversationID, userID string) error {
	return s.Redis.Set(ctx, typingKey(conversationID, userID), "1", typingTTL).Err()
}

// ClearTyping drops the indicator, typically when a message is sent.
func (s *TypingService) ClearTyping(ctx context.Context, conversationID, userID string) error {
	return s.Redis.Del(ctx, typingKey(conversationID, userID)).Err()
}

// IsTyping reports whether the user currently shows as typing.
func (s *TypingService) IsTyping(ctx context.Context, conversationID, userID string) (bool, error) {
	n, err := s.Redis.Exists(ctx, typingKey(conversationID, userID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func typingKey(conversationID, userID string) string {
	return fmt.Sprintf("typing:%s:%s", conversationID, userID)
}
