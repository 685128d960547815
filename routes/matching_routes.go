package routes

import (
	"pawmatch_server/controllers"
	"pawmatch_server/middleware"
	"pawmatch_server/services"

	"github.com/gorilla/mux"
)

// RegisterMatchingRoutes sets up matching routes under /api/matching
func RegisterMatchingRoutes(r *mux.Router, matchingService *services.MatchingService, auth *middleware.JWTManager) {
	controller := controllers.NewMatchingController(matchingService)

	matchingRouter := r.PathPrefix("/api/matching").Subrouter()
	matchingRouter.Use(auth.RequireAuth)
	matchingRouter.HandleFunc("/profiles", controller.HandleGetProfiles).Methods("GET")
	matchingRouter.HandleFunc("/requests", controller.HandleSendRequest).Methods("POST")
	matchingRouter.HandleFunc("/requests/incoming", controller.HandleIncomingRequests).Methods("GET")
	matchingRouter.HandleFunc("/requests/decline", controller.HandleDeclineRequest).Methods("POST")
}
