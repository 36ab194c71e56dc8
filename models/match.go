package models

// MatchDecision is the outcome of the send-time permission check for a
// direct message.
type MatchDecision struct {
	HasMatch bool   `json:"hasMatch"`
	CanSend  bool   `json:"canSend"`
	Reason   string `json:"reason,omitempty"`
	Warning  string `json:"warning,omitempty"`
}

// MatchState is the read-only match status shown in the UI. It carries none
// of the send-time grandfathering or fallback rules.
type MatchState struct {
	Status  string `json:"status"`
	CanChat bool   `json:"canChat"`
}
