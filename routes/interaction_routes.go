package routes

import (
	"swingfox_server/controllers"
	"swingfox_server/services"

	"github.com/gorilla/mux"
)

// RegisterInteractionRoutes sets up like and match-status routes under /api/interactions
func RegisterInteractionRoutes(r *mux.Router, likes *services.LikeService, gate *services.MatchGateService) {
	controller := controllers.NewInteractionController(likes, gate)

	interactionRouter := r.PathPrefix("/api/interactions").Subrouter()

	interactionRouter.HandleFunc("/like", controller.HandleLike).Methods("POST")
	interactionRouter.HandleFunc("/match-status", controller.HandleMatchStatus).Methods("GET")
}
