package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"swingfox_server/models"
	"swingfox_server/services"
)

// ClubChatController handles club-event channel endpoints.
type ClubChatController struct {
	Router   *services.ChannelRouterService
	Messages *services.MessageService
	Clubs    *services.ClubService
}

// NewClubChatController initializes a ClubChatController.
func NewClubChatController(router *services.ChannelRouterService, messages *services.MessageService, clubs *services.ClubService) *ClubChatController {
	return &ClubChatController{Router: router, Messages: messages, Clubs: clubs}
}

// HandleSendMessage routes a message onto a club-event channel.
func (c *ClubChatController) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req services.SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "Invalid request payload"}`, http.StatusBadRequest)
		return
	}
	if req.SenderID == "" || req.RecipientID == "" {
		http.Error(w, `{"error": "senderId and recipientId are required"}`, http.StatusBadRequest)
		return
	}
	if !models.ParseIdentity(req.RecipientID).IsClub() {
		http.Error(w, `{"error": "recipientId must be a club identity"}`, http.StatusBadRequest)
		return
	}

	result, denial, err := c.Router.Send(r.Context(), req)
	if err != nil {
		log.Printf("❌ Failed to send club message from %s to %s: %v", req.SenderID, req.RecipientID, err)
		http.Error(w, `{"error": "Failed to send message"}`, http.StatusInternalServerError)
		return
	}
	if denial != nil {
		writeDenial(w, denial)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// HandleGetMessages returns a page of a club-event channel's history.
func (c *ClubChatController) HandleGetMessages(w http.ResponseWriter, r *http.Request) {
	clubID := r.URL.Query().Get("clubId")
	eventID := r.URL.Query().Get("eventId")
	userID := r.URL.Query().Get("userId")
	if clubID == "" || eventID == "" || userID == "" {
		http.Error(w, `{"error": "clubId, eventId and userId are required"}`, http.StatusBadRequest)
		return
	}
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	conversationID := models.ClubConversationID(clubID, eventID, userID)
	messages, err := c.Messages.History(r.Context(), conversationID, limit, offset)
	if err != nil {
		log.Printf("❌ Failed to fetch club messages for %s: %v", conversationID, err)
		http.Error(w, `{"error": "Failed to fetch messages"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"conversationId": conversationID,
		"messages":       messages,
	})
}

// HandleMarkAsRead marks every unread message addressed to the user on one
// club-event channel as read.
func (c *ClubChatController) HandleMarkAsRead(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ClubID  string `json:"clubId"`
		EventID string `json:"eventId"`
		UserID  string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "Invalid request payload"}`, http.StatusBadRequest)
		return
	}
	if req.ClubID == "" || req.EventID == "" || req.UserID == "" {
		http.Error(w, `{"error": "clubId, eventId and userId are required"}`, http.StatusBadRequest)
		return
	}

	conversationID := models.ClubConversationID(req.ClubID, req.EventID, req.UserID)
	if err := c.Messages.MarkRead(r.Context(), conversationID, req.UserID); err != nil {
		log.Printf("❌ Failed to mark club messages as read in %s: %v", conversationID, err)
		http.Error(w, `{"error": "Failed to mark messages as read"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// HandleConfirmParticipant records a confirmed event registration and fires
// the registration bot greeting.
func (c *ClubChatController) HandleConfirmParticipant(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ClubID  string `json:"clubId"`
		EventID string `json:"eventId"`
		UserID  string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "Invalid request payload"}`, http.StatusBadRequest)
		return
	}
	if req.ClubID == "" || req.EventID == "" || req.UserID == "" {
		http.Error(w, `{"error": "clubId, eventId and userId are required"}`, http.StatusBadRequest)
		return
	}

	if err := c.Clubs.ConfirmParticipant(r.Context(), req.ClubID, req.EventID, req.UserID); err != nil {
		log.Printf("❌ Failed to confirm participant %s for event %s: %v", req.UserID, req.EventID, err)
		http.Error(w, `{"error": "Failed to confirm participation"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "confirmed"})
}

// HandleGetUpcomingEvents lists a club's upcoming events, soonest first.
func (c *ClubChatController) HandleGetUpcomingEvents(w http.ResponseWriter, r *http.Request) {
	clubID := r.URL.Query().Get("clubId")
	if clubID == "" {
		http.Error(w, `{"error": "clubId is required"}`, http.StatusBadRequest)
		return
	}
	limit := queryInt(r, "limit", 10)

	events, err := c.Clubs.UpcomingEvents(r.Context(), clubID, limit)
	if err != nil {
		log.Printf("❌ Failed to fetch events for club %s: %v", clubID, err)
		http.Error(w, `{"error": "Failed to fetch events"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"events": events})
}
