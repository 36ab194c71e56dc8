package models

// ConversationSummary is one row of a user's conversation list. There is no
// stored conversation entity; summaries are derived from the message log.
type ConversationSummary struct {
	ConversationID string       `json:"conversationId"`
	Peer           string       `json:"peer"`
	PeerProfile    *UserProfile `json:"peerProfile,omitempty"`
	ClubID         string       `json:"clubId,omitempty"`
	EventID        string       `json:"eventId,omitempty"`
	LastMessage    string       `json:"lastMessage"`
	LastMessageAt  string       `json:"lastMessageAt"`
	LastMessageBy  string       `json:"lastMessageBy"`
	UnreadCount    int          `json:"unreadCount"`
	HasAttachments bool         `json:"hasAttachments"`
}
