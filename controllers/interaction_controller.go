package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"swingfox_server/services"
)

// InteractionController handles likes and match status lookups.
type InteractionController struct {
	Likes *services.LikeService
	Gate  *services.MatchGateService
}

// NewInteractionController initializes an InteractionController.
func NewInteractionController(likes *services.LikeService, gate *services.MatchGateService) *InteractionController {
	return &InteractionController{Likes: likes, Gate: gate}
}

// HandleLike records a directed like and reports whether it completed a
// mutual match.
func (c *InteractionController) HandleLike(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FromID string `json:"fromId"`
		ToID   string `json:"toId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "Invalid request payload"}`, http.StatusBadRequest)
		return
	}
	if req.FromID == "" || req.ToID == "" {
		http.Error(w, `{"error": "fromId and toId are required"}`, http.StatusBadRequest)
		return
	}
	if req.FromID == req.ToID {
		http.Error(w, `{"error": "Cannot like yourself"}`, http.StatusBadRequest)
		return
	}

	matched, err := c.Likes.Like(r.Context(), req.FromID, req.ToID)
	if err != nil {
		log.Printf("❌ Failed to record like %s -> %s: %v", req.FromID, req.ToID, err)
		http.Error(w, `{"error": "Failed to record like"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"matched": matched})
}

// HandleMatchStatus reports the like relationship between two users and
// whether chat is open between them.
func (c *InteractionController) HandleMatchStatus(w http.ResponseWriter, r *http.Request) {
	currentID := r.URL.Query().Get("userId")
	otherID := r.URL.Query().Get("otherId")
	if currentID == "" || otherID == "" {
		http.Error(w, `{"error": "userId and otherId are required"}`, http.StatusBadRequest)
		return
	}

	state, err := c.Gate.MatchStatus(r.Context(), currentID, otherID)
	if err != nil {
		log.Printf("❌ Failed to fetch match status for %s and %s: %v", currentID, otherID, err)
		http.Error(w, `{"error": "Failed to fetch match status"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(state)
}
