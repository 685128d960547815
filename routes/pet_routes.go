package routes

import (
	"pawmatch_server/controllers"
	"pawmatch_server/middleware"
	"pawmatch_server/services"

	"github.com/gorilla/mux"
)

// RegisterPetRoutes sets up listing and feed routes under /api/pets
func RegisterPetRoutes(r *mux.Router, petService *services.PetService, auth *middleware.JWTManager) {
	controller := controllers.NewPetController(petService)

	// Authenticated routes first so /feed and /mine win over /{petId}.
	authed := r.PathPrefix("/api/pets").Subrouter()
	authed.Use(auth.RequireAuth)
	authed.HandleFunc("/feed", controller.HandleGetFeed).Methods("GET")
	authed.HandleFunc("/mine", controller.HandleGetMyPets).Methods("GET")
	authed.HandleFunc("", controller.HandleCreatePet).Methods("POST")
	authed.HandleFunc("/{petId}", controller.HandleUpdatePet).Methods("PUT")
	authed.HandleFunc("/{petId}", controller.HandleDeletePet).Methods("DELETE")
	authed.HandleFunc("/{petId}/photos", controller.HandleAttachPhoto).Methods("POST")

	// Public browsing.
	public := r.PathPrefix("/api/pets").Subrouter()
	public.HandleFunc("", controller.HandleListPets).Methods("GET")
	public.HandleFunc("/{petId}", controller.HandleGetPet).Methods("GET")
}
