package routes

import (
	"swingfox_server/controllers"
	"swingfox_server/services"

	"github.com/gorilla/mux"
)

// RegisterClubChatRoutes sets up routes for club-event channels under /api/club-chat
func RegisterClubChatRoutes(r *mux.Router, router *services.ChannelRouterService, messages *services.MessageService, clubs *services.ClubService) {
	controller := controllers.NewClubChatController(router, messages, clubs)

	clubRouter := r.PathPrefix("/api/club-chat").Subrouter()

	clubRouter.HandleFunc("/message", controller.HandleSendMessage).Methods("POST")
	clubRouter.HandleFunc("/messages", controller.HandleGetMessages).Methods("GET")
	clubRouter.HandleFunc("/mark-as-read", controller.HandleMarkAsRead).Methods("POST")
	clubRouter.HandleFunc("/participants/confirm", controller.HandleConfirmParticipant).Methods("POST")
	clubRouter.HandleFunc("/events", controller.HandleGetUpcomingEvents).Methods("GET")
}
