package routes

import (
	"swingfox_server/controllers"
	"swingfox_server/services"

	"github.com/gorilla/mux"
)

// RegisterConversationRoutes sets up the inbox route under /api/conversations
func RegisterConversationRoutes(r *mux.Router, conversations *services.ConversationService) {
	controller := controllers.NewConversationController(conversations)

	convRouter := r.PathPrefix("/api/conversations").Subrouter()

	convRouter.HandleFunc("", controller.HandleListConversations).Methods("GET")
}
