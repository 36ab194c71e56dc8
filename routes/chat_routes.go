package routes

import (
	"swingfox_server/controllers"
	"swingfox_server/services"

	"github.com/gorilla/mux"
)

// RegisterChatRoutes sets up routes for direct messaging under /api/chat
func RegisterChatRoutes(r *mux.Router, router *services.ChannelRouterService, messages *services.MessageService) {
	controller := controllers.NewChatController(router, messages)

	chatRouter := r.PathPrefix("/api/chat").Subrouter()

	chatRouter.HandleFunc("/message", controller.HandleSendMessage).Methods("POST")
	chatRouter.HandleFunc("/messages", controller.HandleGetMessages).Methods("GET")
	chatRouter.HandleFunc("/messages/by-day", controller.HandleGetMessagesByDay).Methods("GET")
	chatRouter.HandleFunc("/messages/mark-as-read", controller.HandleMarkAsRead).Methods("POST")
	chatRouter.HandleFunc("/messages/delete", controller.HandleDeleteMessage).Methods("POST")
	chatRouter.HandleFunc("/messages/search", controller.HandleSearchMessages).Methods("GET")
}
