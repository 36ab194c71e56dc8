package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"swingfox_server/services"
)

// ConversationController handles the unified inbox endpoint.
type ConversationController struct {
	Conversations *services.ConversationService
}

// NewConversationController initializes a ConversationController.
func NewConversationController(conversations *services.ConversationService) *ConversationController {
	return &ConversationController{Conversations: conversations}
}

// HandleListConversations returns the caller's conversations, newest
// activity first, with peer profiles and unread counts.
func (c *ConversationController) HandleListConversations(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, `{"error": "userId is required"}`, http.StatusBadRequest)
		return
	}
	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)

	summaries, err := c.Conversations.ListConversations(r.Context(), userID, limit, offset)
	if err != nil {
		log.Printf("❌ Failed to list conversations for %s: %v", userID, err)
		http.Error(w, `{"error": "Failed to fetch conversations"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"conversations": summaries})
}
