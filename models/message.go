package models

import "fmt"

// Message is one row of the append-only conversation log stored in DynamoDB.
// Rows are immutable once appended except for the isRead flag and the
// soft-delete tombstone; "delete for all" removes the row.
type Message struct {
	ConversationID string   `dynamodbav:"conversationId" json:"conversationId"` // Partition Key
	Seq            int64    `dynamodbav:"seq" json:"seq"`                       // Sort Key (append sequence)
	MessageID      string   `dynamodbav:"messageId" json:"messageId"`
	SenderID       string   `dynamodbav:"senderId" json:"senderId"`
	RecipientID    string   `dynamodbav:"recipientId" json:"recipientId"`
	Body           string   `dynamodbav:"body" json:"body"`
	Attachments    []string `dynamodbav:"attachments,omitempty" json:"attachments,omitempty"`
	ClubID         string   `dynamodbav:"clubId,omitempty" json:"clubId,omitempty"`
	EventID        string   `dynamodbav:"eventId,omitempty" json:"eventId,omitempty"`
	CreatedAt      string   `dynamodbav:"createdAt" json:"createdAt"`
	IsRead         bool     `dynamodbav:"isRead" json:"isRead"`
	Deleted        bool     `dynamodbav:"deleted,omitempty" json:"deleted,omitempty"`
}

// MessagesTable is the DynamoDB table name for the message log
const MessagesTable = "Messages"

// ConversationSeqTable holds the per-conversation append counters
const ConversationSeqTable = "ConversationSeq"

// GSI names on the Messages table
const (
	SenderIndex    = "senderId-index"
	RecipientIndex = "recipientId-index"
	MessageIDIndex = "messageId-index"
)

// TombstoneBody replaces the body of a soft-deleted message.
const TombstoneBody = "Message deleted"

// DirectConversationID returns the canonical key of a direct thread. The two
// handles are ordered so that both parties derive the same key.
func DirectConversationID(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return fmt.Sprintf("DIRECT#%s#%s", a, b)
}

// ClubConversationID keys a club thread by the full (club, event, human)
// triple: one user may hold independent threads with the same club about
// different events.
func ClubConversationID(clubID, eventID, humanID string) string {
	return fmt.Sprintf("CLUB#%s#EVENT#%s#USER#%s", clubID, eventID, humanID)
}

// IsClubChannel reports whether the message sits on a club-event channel.
func (m Message) IsClubChannel() bool {
	return m.ClubID != ""
}

// IsBotAuthored reports whether the bot wrote the message.
func (m Message) IsBotAuthored() bool {
	return m.SenderID == BotIdentityID
}

// Peer returns the other party of the message from the given identity's
// point of view.
func (m Message) Peer(identity string) string {
	if m.SenderID == identity {
		return m.RecipientID
	}
	return m.SenderID
}

// DayGroup is one calendar day of a conversation, used by the grouped
// history view. Days with no messages are never emitted.
type DayGroup struct {
	Date     string    `json:"date"` // local calendar date, YYYY-MM-DD
	Messages []Message `json:"messages"`
}
