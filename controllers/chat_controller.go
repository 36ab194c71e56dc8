package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"swingfox_server/models"
	"swingfox_server/services"
)

// ChatController handles direct messaging endpoints.
type ChatController struct {
	Router   *services.ChannelRouterService
	Messages *services.MessageService
}

// NewChatController initializes a ChatController.
func NewChatController(router *services.ChannelRouterService, messages *services.MessageService) *ChatController {
	return &ChatController{Router: router, Messages: messages}
}

// HandleSendMessage routes a message through the match gate and persists it.
func (c *ChatController) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req services.SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "Invalid request payload"}`, http.StatusBadRequest)
		return
	}
	if req.SenderID == "" || req.RecipientID == "" {
		http.Error(w, `{"error": "senderId and recipientId are required"}`, http.StatusBadRequest)
		return
	}

	result, denial, err := c.Router.Send(r.Context(), req)
	if err != nil {
		log.Printf("❌ Failed to send message from %s to %s: %v", req.SenderID, req.RecipientID, err)
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

// HandleGetMessages returns a page of a conversation's history, oldest first.
func (c *ChatController) HandleGetMessages(w http.ResponseWriter, r *http.Request) {
	userA := r.URL.Query().Get("userA")
	userB := r.URL.Query().Get("userB")
	if userA == "" || userB == "" {
		http.Error(w, `{"error": "userA and userB are required"}`, http.StatusBadRequest)
		return
	}
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	conversationID := models.DirectConversationID(userA, userB)
	messages, err := c.Messages.History(r.Context(), conversationID, limit, offset)
	if err != nil {
		log.Printf("❌ Failed to fetch messages for %s: %v", conversationID, err)
		http.Error(w, `{"error": "Failed to fetch messages"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"conversationId": conversationID,
		"messages":       messages,
	})
}

// HandleGetMessagesByDay returns recent conversation history grouped by
// calendar day, most recent day first.
func (c *ChatController) HandleGetMessagesByDay(w http.ResponseWriter, r *http.Request) {
	userA := r.URL.Query().Get("userA")
	userB := r.URL.Query().Get("userB")
	if userA == "" || userB == "" {
		http.Error(w, `{"error": "userA and userB are required"}`, http.StatusBadRequest)
		return
	}
	sinceDays := queryInt(r, "sinceDays", 7)

	conversationID := models.DirectConversationID(userA, userB)
	groups, err := c.Messages.GroupByDay(r.Context(), conversationID, sinceDays)
	if err != nil {
		log.Printf("❌ Failed to group messages for %s: %v", conversationID, err)
		http.Error(w, `{"error": "Failed to fetch messages"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"conversationId": conversationID,
		"days":           groups,
	})
}

// HandleMarkAsRead marks every unread message addressed to the reader in one
// conversation as read.
func (c *ChatController) HandleMarkAsRead(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConversationID string `json:"conversationId"`
		UserID         string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "Invalid request payload"}`, http.StatusBadRequest)
		return
	}
	if req.ConversationID == "" || req.UserID == "" {
		http.Error(w, `{"error": "conversationId and userId are required"}`, http.StatusBadRequest)
		return
	}

	if err := c.Messages.MarkRead(r.Context(), req.ConversationID, req.UserID); err != nil {
		log.Printf("❌ Failed to mark messages as read in %s: %v", req.ConversationID, err)
		http.Error(w, `{"error": "Failed to mark messages as read"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// HandleDeleteMessage deletes a message for everyone, or tombstones it for
// the sender only.
func (c *ChatController) HandleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MessageID string `json:"messageId"`
		UserID    string `json:"userId"`
		ForAll    bool   `json:"forAll"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "Invalid request payload"}`, http.StatusBadRequest)
		return
	}
	if req.MessageID == "" || req.UserID == "" {
		http.Error(w, `{"error": "messageId and userId are required"}`, http.StatusBadRequest)
		return
	}

	err := c.Messages.DeleteMessage(r.Context(), req.MessageID, req.UserID, req.ForAll)
	switch {
	case errors.Is(err, services.ErrMessageNotFound):
		http.Error(w, `{"error": "Message not found"}`, http.StatusNotFound)
		return
	case errors.Is(err, services.ErrNotMessageSender):
		http.Error(w, `{"error": "Only the sender can delete a message", "reason": "forbidden"}`, http.StatusForbidden)
		return
	case err != nil:
		log.Printf("❌ Failed to delete message %s: %v", req.MessageID, err)
		http.Error(w, `{"error": "Failed to delete message"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// HandleSearchMessages searches a user's recent messages by substring.
func (c *ChatController) HandleSearchMessages(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	query := r.URL.Query().Get("q")
	if userID == "" {
		http.Error(w, `{"error": "userId is required"}`, http.StatusBadRequest)
		return
	}
	peer := r.URL.Query().Get("peer")

	matches, err := c.Messages.Search(r.Context(), userID, query, peer)
	if errors.Is(err, services.ErrQueryTooShort) {
		http.Error(w, `{"error": "Search query must be at least 2 characters", "reason": "invalid_query"}`, http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Printf("❌ Search failed for %s: %v", userID, err)
		http.Error(w, `{"error": "Search failed"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"matches": matches})
}

func writeDenial(w http.ResponseWriter, denial *services.SendDenial) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(denial.Status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":     "Message not delivered",
		"reason":    denial.Reason,
		"matchData": denial.MatchData,
	})
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
