package routes

import (
	"pawmatch_server/controllers"
	"pawmatch_server/middleware"
	"pawmatch_server/services"

	"github.com/gorilla/mux"
)

// RegisterUserProfileRoutes sets up auth and account routes
func RegisterUserProfileRoutes(r *mux.Router, userProfileService *services.UserProfileService, auth *middleware.JWTManager) {
	controller := controllers.NewUserProfileController(userProfileService)

	authRouter := r.PathPrefix("/api/auth").Subrouter()
	authRouter.HandleFunc("/register", controller.HandleRegister).Methods("POST")
	authRouter.HandleFunc("/login", controller.HandleLogin).Methods("POST")

	userRouter := r.PathPrefix("/api/users").Subrouter()
	userRouter.Use(auth.RequireAuth)
	userRouter.HandleFunc("", controller.HandleListUsers).Methods("GET")
	userRouter.HandleFunc("/me", controller.HandleGetMe).Methods("GET")
	userRouter.HandleFunc("/me", controller.HandleUpdateMe).Methods("PUT")
	userRouter.HandleFunc("/{userId}", controller.HandleGetUser).Methods("GET")
}
