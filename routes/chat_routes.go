package routes

import (
	"pawmatch_server/controllers"
	"pawmatch_server/middleware"
	"pawmatch_server/services"

	"github.com/gorilla/mux"
)

// RegisterChatRoutes sets up conversation routes under /api/chat
func RegisterChatRoutes(r *mux.Router, chatService *services.ChatService, auth *middleware.JWTManager) {
	controller := controllers.NewChatController(chatService)

	chatRouter := r.PathPrefix("/api/chat").Subrouter()
	chatRouter.Use(auth.RequireAuth)
	chatRouter.HandleFunc("/conversations", controller.HandleGetConversations).Methods("GET")
	chatRouter.HandleFunc("/conversations", controller.HandleCreateConversation).Methods("POST")
	chatRouter.HandleFunc("/conversations/{conversationId}", controller.HandleDeleteConversation).Methods("DELETE")
	chatRouter.HandleFunc("/conversations/{conversationId}/messages", controller.HandleGetMessages).Methods("GET")
	chatRouter.HandleFunc("/conversations/{conversationId}/messages", controller.HandleSendMessage).Methods("POST")
}
