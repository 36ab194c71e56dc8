package models

// Notification is a user-facing alert record written best-effort after a
// successful send.
type Notification struct {
	UserID         string            `dynamodbav:"userId" json:"userId"`       // Partition Key
	CreatedAt      string            `dynamodbav:"createdAt" json:"createdAt"` // Sort Key
	NotificationID string            `dynamodbav:"notificationId" json:"notificationId"`
	Kind           string            `dynamodbav:"kind" json:"kind"`
	Text           string            `dynamodbav:"text" json:"text"`
	Metadata       map[string]string `dynamodbav:"metadata,omitempty" json:"metadata,omitempty"`
	IsRead         bool              `dynamodbav:"isRead" json:"isRead"`
}

// NotificationsTable is the DynamoDB table name for notifications
const NotificationsTable = "Notifications"

// Notification kinds
const (
	NotificationKindMessage = "message"
	NotificationKindMatch   = "match"
	NotificationKindBot     = "bot_message"
)
