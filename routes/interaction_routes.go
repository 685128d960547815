package routes

import (
	"pawmatch_server/controllers"
	"pawmatch_server/middleware"
	"pawmatch_server/services"

	"github.com/gorilla/mux"
)

// RegisterInteractionRoutes sets up swipe routes under /api/interactions
func RegisterInteractionRoutes(r *mux.Router, interactionService *services.InteractionService, auth *middleware.JWTManager) {
	controller := controllers.NewInteractionController(interactionService)

	interactionRouter := r.PathPrefix("/api/interactions").Subrouter()
	interactionRouter.Use(auth.RequireAuth)
	interactionRouter.HandleFunc("/like", controller.HandleLike).Methods("POST")
	interactionRouter.HandleFunc("/pass", controller.HandlePass).Methods("POST")
	interactionRouter.HandleFunc("/admirers", controller.HandleGetAdmirers).Methods("GET")
	interactionRouter.HandleFunc("", controller.HandleGetMyInteractions).Methods("GET")
}
