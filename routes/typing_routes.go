package routes

import (
	"swingfox_server/controllers"
	"swingfox_server/services"

	"github.com/gorilla/mux"
)

// RegisterTypingRoutes sets up typing indicator routes under /api/typing
func RegisterTypingRoutes(r *mux.Router, typing *services.TypingService) {
	controller := controllers.NewTypingController(typing)

	typingRouter := r.PathPrefix("/api/typing").Subrouter()

	typingRouter.HandleFunc("", controller.HandleSetTyping).Methods("POST")
	typingRouter.HandleFunc("", controller.HandleGetTyping).Methods("GET")
}
