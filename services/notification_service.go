package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"swingfox_server/models"

	"github.com/google/uuid"
)

// notificationPreviewLimit is the longest text embedded in an alert.
const notificationPreviewLimit = 50

// NotificationService writes user-facing alert records. It is strictly
// best-effort: callers log the returned error and move on, the send path
// never depends on it.
type NotificationService struct {
	Dynamo *DynamoService
}

var _ Notifier = (*NotificationService)(nil)

// Notify stores one alert for the user, with the text truncated to the
// preview limit.
func (s *NotificationService) Notify(ctx context.Context, userID, kind, text string, metadata map[string]string) error {
	notification := models.Notification{
		UserID:         userID,
		CreatedAt:      time.Now().Format(time.RFC3339Nano),
		NotificationID: uuid.New().String(),
		Kind:           kind,
		Text:           truncatePreview(text),
		Metadata:       metadata,
	}

	if err := s.Dynamo.PutItem(ctx, models.NotificationsTable, notification); err != nil {
		log.Printf("❌ Failed to store notification for %s: %v", userID, err)
		return fmt.Errorf("failed to store notification: %w", err)
	}
	return nil
}

// truncatePreview cuts the text to the preview limit, rune-safe.
func truncatePreview(text string) string {
	runes := []rune(text)
	if len(runes) <= notificationPreviewLimit {
		return text
	}
	return string(runes[:notificationPreviewLimit]) + "..."
}
