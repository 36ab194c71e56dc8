package services

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"

	"swingfox_server/models"
)

// SendRequest is an outgoing message before routing. RecipientID may be a
// human handle or a club pseudo-identity; the router classifies it by shape.
type SendRequest struct {
	SenderID    string   `json:"senderId"`
	RecipientID string   `json:"recipientId"`
	Body        string   `json:"body"`
	Attachments []string `json:"attachments,omitempty"`
	// EventID is required on the first message to a club; ignored once a
	// channel with that club exists.
	EventID string `json:"eventId,omitempty"`
	// AdReply marks replies to a classified-ad inquiry, which are exempt
	// from match gating by product rule.
	AdReply bool `json:"adReply,omitempty"`
}

// SendResult is a routed, persisted message plus any non-fatal warning the
// sender should see (for example a fallback_allow degradation).
type SendResult struct {
	Message models.Message `json:"message"`
	Warning string         `json:"warning,omitempty"`
}

// SendDenial is a rejected send: an HTTP status, a machine-readable reason
// and, for match denials, the match data the client renders.
type SendDenial struct {
	Status    int                   `json:"-"`
	Reason    string                `json:"reason"`
	MatchData *models.MatchDecision `json:"matchData,omitempty"`
}

// ChannelRouterService resolves the channel kind of an outgoing message,
// validates the sender may use it, persists the message and dispatches the
// best-effort side effects.
type ChannelRouterService struct {
	Gate          MatchGate
	Messages      MessageStore
	Profiles      ProfileResolver
	Participation ParticipationStore
	Notifier      Notifier
	Fanout        DeliveryFanout
	Bot           BotEngine
	Attachments   AttachmentCleaner

	locks conversationLocks
}

// Send routes one message. A non-nil denial is a client error; error means
// the send itself failed.
func (s *ChannelRouterService) Send(ctx context.Context, req SendRequest) (*SendResult, *SendDenial, error) {
	sender := models.ParseIdentity(req.SenderID)
	target := models.ParseIdentity(req.RecipientID)

	if req.Body == "" && len(req.Attachments) == 0 {
		return nil, &SendDenial{Status: http.StatusBadRequest, Reason: models.ReasonEmptyMessage}, nil
	}

	if target.IsClub() {
		return s.sendClub(ctx, req, sender, target)
	}
	return s.sendDirect(ctx, req, sender, target)
}

func (s *ChannelRouterService) sendDirect(ctx context.Context, req SendRequest, sender, target models.Identity) (*SendResult, *SendDenial, error) {
	// Club pseudo-identities and the bot never open direct threads; their
	// traffic lives on club-event channels.
	if !sender.IsHuman() || target.IsBot() {
		s.compensateAttachments(ctx, req.Attachments)
		return nil, &SendDenial{Status: http.StatusForbidden, Reason: models.ReasonForbidden}, nil
	}

	profile, err := s.Profiles.Resolve(ctx, target.ID)
	if err != nil {
		s.compensateAttachments(ctx, req.Attachments)
		return nil, nil, fmt.Errorf("failed to resolve recipient: %w", err)
	}
	if profile == nil {
		s.compensateAttachments(ctx, req.Attachments)
		return nil, &SendDenial{Status: http.StatusNotFound, Reason: models.ReasonRecipientNotFound}, nil
	}

	conversationID := models.DirectConversationID(sender.ID, target.ID)
	unlock := s.locks.lock(conversationID)
	defer unlock()

	var decision models.MatchDecision
	if req.AdReply {
		decision = models.MatchDecision{CanSend: true}
	} else {
		decision = s.Gate.Evaluate(ctx, sender.ID, target.ID)
		if !decision.CanSend {
			s.compensateAttachments(ctx, req.Attachments)
			return nil, &SendDenial{Status: http.StatusForbidden, Reason: decision.Reason, MatchData: &decision}, nil
		}
	}

	msg := models.Message{
		ConversationID: conversationID,
		SenderID:       sender.ID,
		RecipientID:    target.ID,
		Body:           req.Body,
		Attachments:    req.Attachments,
	}
	persisted, err := s.Messages.Append(ctx, msg)
	if err != nil {
		s.compensateAttachments(ctx, req.Attachments)
		return nil, nil, err
	}

	s.dispatchSideEffects(ctx, persisted, decision)
	return &SendResult{Message: persisted, Warning: decision.Warning}, nil, nil
}

func (s *ChannelRouterService) sendClub(ctx context.Context, req SendRequest, sender, target models.Identity) (*SendResult, *SendDenial, error) {
	if !sender.IsHuman() {
		s.compensateAttachments(ctx, req.Attachments)
		return nil, &SendDenial{Status: http.StatusForbidden, Reason: models.ReasonForbidden}, nil
	}

	// An established channel with this club pins the event, whatever the
	// caller sent. Only a brand-new channel consults the request.
	eventID, err := s.Messages.LatestClubEventID(ctx, target.ClubID, sender.ID)
	if err != nil {
		s.compensateAttachments(ctx, req.Attachments)
		return nil, nil, fmt.Errorf("failed to resolve club channel: %w", err)
	}
	if eventID == "" {
		if req.EventID == "" {
			s.compensateAttachments(ctx, req.Attachments)
			return nil, &SendDenial{Status: http.StatusBadRequest, Reason: models.ReasonEventRequired}, nil
		}
		status, err := s.Participation.ParticipationStatus(ctx, req.EventID, sender.ID)
		if err != nil {
			s.compensateAttachments(ctx, req.Attachments)
			return nil, nil, fmt.Errorf("failed to check participation: %w", err)
		}
		if status != models.ParticipationConfirmed {
			s.compensateAttachments(ctx, req.Attachments)
			return nil, &SendDenial{Status: http.StatusForbidden, Reason: models.ReasonNotParticipant}, nil
		}
		eventID = req.EventID
	}

	conversationID := models.ClubConversationID(target.ClubID, eventID, sender.ID)
	unlock := s.locks.lock(conversationID)
	defer unlock()

	msg := models.Message{
		ConversationID: conversationID,
		SenderID:       sender.ID,
		RecipientID:    target.ID,
		Body:           req.Body,
		Attachments:    req.Attachments,
		ClubID:         target.ClubID,
		EventID:        eventID,
	}
	persisted, err := s.Messages.Append(ctx, msg)
	if err != nil {
		s.compensateAttachments(ctx, req.Attachments)
		return nil, nil, err
	}

	s.dispatchSideEffects(ctx, persisted, models.MatchDecision{CanSend: true})

	// The first-message trigger runs inside the conversation lock, after the
	// durable append, so its prior-message count is exact.
	if s.Bot != nil {
		if err := s.Bot.OnMessage(ctx, persisted); err != nil {
			log.Printf("⚠️ Bot trigger failed for %s: %v", conversationID, err)
		}
	}
	return &SendResult{Message: persisted}, nil, nil
}

// dispatchSideEffects runs the best-effort steps after a durable append.
// Each has its own error boundary; none may fail the send.
func (s *ChannelRouterService) dispatchSideEffects(ctx context.Context, msg models.Message, decision models.MatchDecision) {
	if s.Notifier != nil {
		preview := fmt.Sprintf("New message from %s: %s", msg.SenderID, msg.Body)
		meta := map[string]string{"conversationId": msg.ConversationID, "messageId": msg.MessageID}
		if err := s.Notifier.Notify(ctx, msg.RecipientID, models.NotificationKindMessage, preview, meta); err != nil {
			log.Printf("⚠️ Notification failed for %s: %v", msg.RecipientID, err)
		}
	}
	if s.Fanout != nil {
		if err := s.Fanout.Push(msg.ConversationID, msg); err != nil {
			log.Printf("⚠️ Fan-out failed for %s: %v", msg.ConversationID, err)
		}
	}
	if decision.Reason == models.ReasonFallbackAllow {
		log.Printf("🔓 Audit: message %s delivered under fallback_allow", msg.MessageID)
	}
}

// compensateAttachments removes uploaded blobs whose message never made it.
func (s *ChannelRouterService) compensateAttachments(ctx context.Context, keys []string) {
	if s.Attachments != nil && len(keys) > 0 {
		s.Attachments.DeleteBlobs(ctx, keys)
	}
}

// conversationLocks hands out one mutex per conversation key so the history
// probe, the append and the bot trigger count stay serialized per thread.
type conversationLocks struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func (l *conversationLocks) lock(key string) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*lockEntry)
	}
	entry, ok := l.locks[key]
	if !ok {
		entry = &lockEntry{}
		l.locks[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		// Keep the registry bounded; idle entries are rebuilt on demand.
		if entry.refs == 0 && len(l.locks) > 1024 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}
