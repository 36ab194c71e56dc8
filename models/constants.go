package models

// Machine-readable reasons returned to clients alongside denials and
// validation failures.
const (
	ReasonNoMatch           = "no_match"
	ReasonSelfMessage       = "self_message"
	ReasonFallbackAllow     = "fallback_allow"
	ReasonFallbackDeny      = "fallback_deny"
	ReasonEmptyMessage      = "empty_message"
	ReasonRecipientNotFound = "recipient_not_found"
	ReasonNotParticipant    = "not_participant"
	ReasonEventRequired     = "event_required"
	ReasonInvalidQuery      = "invalid_query"
	ReasonForbidden         = "forbidden"
)

// Match status values reported to the UI by the read-only status check.
const (
	MatchStatusMatched        = "matched"
	MatchStatusWaitingOnOther = "waiting_on_other"
	MatchStatusIncoming       = "incoming"
	MatchStatusNone           = "none"
)
