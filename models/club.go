package models

// ClubEvent is a scheduled club event stored in DynamoDB, keyed by clubId
// and sorted by start time so upcoming events query cheaply.
type ClubEvent struct {
	ClubID   string `dynamodbav:"clubId" json:"clubId"`     // Partition Key
	StartsAt string `dynamodbav:"startsAt" json:"startsAt"` // Sort Key (RFC3339)
	EventID  string `dynamodbav:"eventId" json:"eventId"`
	Title    string `dynamodbav:"title" json:"title"`
	Venue    string `dynamodbav:"venue,omitempty" json:"venue,omitempty"`
}

// ClubEventsTable is the DynamoDB table name for club events
const ClubEventsTable = "ClubEvents"

// EventParticipant records a user's standing for one event.
type EventParticipant struct {
	EventID   string `dynamodbav:"eventId" json:"eventId"` // Partition Key
	UserID    string `dynamodbav:"userId" json:"userId"`   // Sort Key
	ClubID    string `dynamodbav:"clubId" json:"clubId"`
	Status    string `dynamodbav:"status" json:"status"`
	UpdatedAt string `dynamodbav:"updatedAt" json:"updatedAt"`
}

// EventParticipantsTable is the DynamoDB table name for event participants
const EventParticipantsTable = "EventParticipants"

// Participation statuses
const (
	ParticipationConfirmed = "confirmed"
	ParticipationInvited   = "invited"
	ParticipationMaybe     = "maybe"
	ParticipationDeclined  = "declined"
)

// BotRule configures one automated reply for a club. The rule table is
// stateless: whether a rule already fired is derived from the message log,
// never stored here.
type BotRule struct {
	ClubID      string `dynamodbav:"clubId" json:"clubId"`           // Partition Key
	TriggerType string `dynamodbav:"triggerType" json:"triggerType"` // Sort Key
	Template    string `dynamodbav:"template" json:"template"`
	Enabled     bool   `dynamodbav:"enabled" json:"enabled"`
}

// BotRulesTable is the DynamoDB table name for club bot rules
const BotRulesTable = "BotRules"

// Bot trigger types
const (
	BotTriggerRegistration = "registration"
	BotTriggerFirstMessage = "first_message"
)
