package services

import (
	"context"

	"swingfox_server/models"
)

// Collaborator contracts consumed across the chat core. The concrete
// implementations in this package sit on DynamoDB, S3 and Redis; the socket
// package provides the live fan-out. Tests substitute testify mocks.

// MessageStore is the append-only message log plus the derived-state reads
// the gate, the router, the bot engine and the conversation index need.
type MessageStore interface {
	Append(ctx context.Context, msg models.Message) (models.Message, error)
	History(ctx context.Context, conversationID string, limit, offset int) ([]models.Message, error)
	RecentMessages(ctx context.Context, identity string, limit int) ([]models.Message, error)
	HasMessages(ctx context.Context, conversationID string) (bool, error)
	CountHumanMessagesBefore(ctx context.Context, conversationID string, seq int64) (int, error)
	CountUnread(ctx context.Context, conversationID, identity string) (int, error)
	LatestClubEventID(ctx context.Context, clubID, humanID string) (string, error)
}

// EdgeStore reads directed like edges.
type EdgeStore interface {
	GetEdge(ctx context.Context, fromID, toID string) (*models.LikeEdge, error)
}

// ProfileResolver resolves an identity handle to a profile; (nil, nil) means
// the identity is unknown.
type ProfileResolver interface {
	Resolve(ctx context.Context, userID string) (*models.UserProfile, error)
}

// ParticipationStore reads a user's standing for an event; empty string
// means no record.
type ParticipationStore interface {
	ParticipationStatus(ctx context.Context, eventID, userID string) (string, error)
}

// EventStore lists a club's soonest upcoming events.
type EventStore interface {
	UpcomingEvents(ctx context.Context, clubID string, limit int) ([]models.ClubEvent, error)
}

// BotRuleStore reads a club's bot rule for a trigger type; (nil, nil) means
// no rule configured.
type BotRuleStore interface {
	GetBotRule(ctx context.Context, clubID, triggerType string) (*models.BotRule, error)
}

// MatchGate decides whether a direct message may be sent.
type MatchGate interface {
	Evaluate(ctx context.Context, fromID, toID string) models.MatchDecision
}

// Notifier writes a best-effort user alert. Callers treat failures as
// non-fatal.
type Notifier interface {
	Notify(ctx context.Context, userID, kind, text string, metadata map[string]string) error
}

// DeliveryFanout pushes a persisted message to live subscribers of its
// conversation. At-most-once, best-effort.
type DeliveryFanout interface {
	Push(conversationID string, msg models.Message) error
}

// BotEngine reacts to club channel triggers by injecting bot messages.
type BotEngine interface {
	OnMessage(ctx context.Context, msg models.Message) error
	OnParticipantConfirmed(ctx context.Context, clubID, eventID, humanID string) error
}

// AttachmentCleaner removes uploaded blobs that lost their message, the
// compensating action for failed sends and delete-for-all.
type AttachmentCleaner interface {
	DeleteBlobs(ctx context.Context, keys []string)
}
