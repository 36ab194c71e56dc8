package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"swingfox_server/services"
)

// TypingController exposes the typing indicator over HTTP for clients that
// cannot hold a socket connection.
type TypingController struct {
	Typing *services.TypingService
}

// NewTypingController initializes a TypingController.
func NewTypingController(typing *services.TypingService) *TypingController {
	return &TypingController{Typing: typing}
}

// HandleSetTyping marks or clears a user's typing state in a conversation.
func (c *TypingController) HandleSetTyping(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConversationID string `json:"conversationId"`
		UserID         string `json:"userId"`
		Typing         bool   `json:"typing"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "Invalid request payload"}`, http.StatusBadRequest)
		return
	}
	if req.ConversationID == "" || req.UserID == "" {
		http.Error(w, `{"error": "conversationId and userId are required"}`, http.StatusBadRequest)
		return
	}

	var err error
	if req.Typing {
		err = c.Typing.SetTyping(r.Context(), req.ConversationID, req.UserID)
	} else {
		err = c.Typing.ClearTyping(r.Context(), req.ConversationID, req.UserID)
	}
	if err != nil {
		log.Printf("❌ Failed to update typing state for %s in %s: %v", req.UserID, req.ConversationID, err)
		http.Error(w, `{"error": "Failed to update typing state"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// HandleGetTyping reports whether a user is currently typing in a
// conversation.
func (c *TypingController) HandleGetTyping(w http.ResponseWriter, r *http.Request) {
	conversationID := r.URL.Query().Get("conversationId")
	userID := r.URL.Query().Get("userId")
	if conversationID == "" || userID == "" {
		http.Error(w, `{"error": "conversationId and userId are required"}`, http.StatusBadRequest)
		return
	}

	typing, err := c.Typing.IsTyping(r.Context(), conversationID, userID)
	if err != nil {
		log.Printf("❌ Failed to fetch typing state for %s in %s: %v", userID, conversationID, err)
		http.Error(w, `{"error": "Failed to fetch typing state"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"typing": typing})
}
