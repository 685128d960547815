package routes

import (
	"pawmatch_server/controllers"
	"pawmatch_server/middleware"
	"pawmatch_server/services"

	"github.com/gorilla/mux"
)

// RegisterStoreRoutes sets up marketplace routes under /api/stores
func RegisterStoreRoutes(r *mux.Router, storeService *services.StoreService, auth *middleware.JWTManager) {
	controller := controllers.NewStoreController(storeService)

	storeRouter := r.PathPrefix("/api/stores").Subrouter()
	storeRouter.Use(auth.RequireAuth)
	storeRouter.HandleFunc("/apply", controller.HandleApplySeller).Methods("POST")
	storeRouter.HandleFunc("/mine", controller.HandleGetMyStore).Methods("GET")
	storeRouter.HandleFunc("/mine/products", controller.HandleAddProduct).Methods("POST")
	storeRouter.HandleFunc("/mine/products/{productId}", controller.HandleUpdateProduct).Methods("PUT")
	storeRouter.HandleFunc("/{ownerId}/products", controller.HandleListStoreProducts).Methods("GET")
}
