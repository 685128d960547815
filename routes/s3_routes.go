package routes

import (
	"pawmatch_server/controllers"
	"pawmatch_server/middleware"

	"github.com/gorilla/mux"
)

// RegisterS3Routes sets up presigned-URL routes under /api/uploads
func RegisterS3Routes(r *mux.Router, auth *middleware.JWTManager) {
	uploadRouter := r.PathPrefix("/api/uploads").Subrouter()
	uploadRouter.Use(auth.RequireAuth)
	uploadRouter.HandleFunc("/presign", controllers.GeneratePresignedURL).Methods("POST")
	uploadRouter.HandleFunc("/presign-read", controllers.GetPresignedReadURL).Methods("POST")
}
