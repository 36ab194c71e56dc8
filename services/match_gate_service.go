package services

import (
	"context"
	"log"

	"swingfox_server/models"
)

// MatchGateService decides, for an ordered pair of identities, whether a
// direct message may be sent right now.
type MatchGateService struct {
	Edges    EdgeStore
	Messages MessageStore
	// FailOpen keeps existing conversations usable when the edge store is
	// unreachable: the send is allowed with a fallback_allow reason and a
	// warning for the sender. Deliberate availability-over-enforcement
	// trade-off; can be configured closed.
	FailOpen bool
}

var _ MatchGate = (*MatchGateService)(nil)

// Evaluate runs the send-time permission check. Callers must hold the
// conversation lock for the whole send so the prior-history check and the
// append stay one logical operation.
func (s *MatchGateService) Evaluate(ctx context.Context, fromID, toID string) models.MatchDecision {
	if fromID == toID {
		return models.MatchDecision{Reason: models.ReasonSelfMessage}
	}

	edgeOut, err := s.Edges.GetEdge(ctx, fromID, toID)
	if err != nil {
		return s.fallback(fromID, toID, err)
	}
	edgeIn, err := s.Edges.GetEdge(ctx, toID, fromID)
	if err != nil {
		return s.fallback(fromID, toID, err)
	}

	if edgeOut != nil && edgeIn != nil {
		return models.MatchDecision{HasMatch: true, CanSend: true}
	}

	// Grandfather rule: an already-started conversation is never revoked,
	// whatever happened to the edges since.
	hasHistory, err := s.Messages.HasMessages(ctx, models.DirectConversationID(fromID, toID))
	if err != nil {
		return s.fallback(fromID, toID, err)
	}
	if hasHistory {
		return models.MatchDecision{CanSend: true}
	}

	return models.MatchDecision{Reason: models.ReasonNoMatch}
}

// fallback applies the configured degradation policy on store errors.
func (s *MatchGateService) fallback(fromID, toID string, err error) models.MatchDecision {
	if s.FailOpen {
		log.Printf("⚠️ Match gate store unreachable for %s -> %s, allowing send: %v", fromID, toID, err)
		return models.MatchDecision{
			CanSend: true,
			Reason:  models.ReasonFallbackAllow,
			Warning: "Match check unavailable, message delivered without verification",
		}
	}
	log.Printf("⚠️ Match gate store unreachable for %s -> %s, denying send: %v", fromID, toID, err)
	return models.MatchDecision{Reason: models.ReasonFallbackDeny}
}

// MatchStatus reports the like relation between two identities for the UI.
// Read-only and best-effort: no grandfathering, no fallback policy.
func (s *MatchGateService) MatchStatus(ctx context.Context, currentID, otherID string) (models.MatchState, error) {
	edgeOut, err := s.Edges.GetEdge(ctx, currentID, otherID)
	if err != nil {
		return models.MatchState{}, err
	}
	edgeIn, err := s.Edges.GetEdge(ctx, otherID, currentID)
	if err != nil {
		return models.MatchState{}, err
	}

	switch {
	case edgeOut != nil && edgeIn != nil:
		return models.MatchState{Status: models.MatchStatusMatched, CanChat: true}, nil
	case edgeOut != nil:
		return models.MatchState{Status: models.MatchStatusWaitingOnOther}, nil
	case edgeIn != nil:
		return models.MatchState{Status: models.MatchStatusIncoming}, nil
	default:
		return models.MatchState{Status: models.MatchStatusNone}, nil
	}
}
