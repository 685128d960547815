package controllers

import (
	"net/http"

	"pawmatch_server/services"

	"github.com/gorilla/mux"
)

// ChatController handles conversations and messages
type ChatController struct {
	ChatService *services.ChatService
}

// NewChatController initializes the controller
func NewChatController(service *services.ChatService) *ChatController {
	return &ChatController{ChatService: service}
}

// HandleGetConversations - GET /api/chat/conversations
func (c *ChatController) HandleGetConversations(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	conversations, err := c.ChatService.GetMyConversations(r.Context(), actor.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, conversations)
}

// HandleCreateConversation - POST /api/chat/conversations
func (c *ChatController) HandleCreateConversation(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var request struct {
		ParticipantID string `json:"participantId"`
		RelatedPetID  string `json:"relatedPetId,omitempty"`
	}
	if !decodeBody(w, r, &request) {
		return
	}

	conversation, err := c.ChatService.CreateOrGetConversation(r.Context(), actor.ID, request.ParticipantID, request.RelatedPetID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, conversation)
}

// HandleGetMessages - GET /api/chat/conversations/{conversationId}/messages
func (c *ChatController) HandleGetMessages(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	messages, err := c.ChatService.GetMessages(r.Context(), actor.ID, mux.Vars(r)["conversationId"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, messages)
}

// HandleSendMessage - POST /api/chat/conversations/{conversationId}/messages
func (c *ChatController) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var request struct {
		Text string `json:"text"`
	}
	if !decodeBody(w, r, &request) {
		return
	}

	message, err := c.ChatService.SendMessage(r.Context(), actor.ID, mux.Vars(r)["conversationId"], request.Text)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, message)
}

// HandleDeleteConversation - DELETE /api/chat/conversations/{conversationId}
func (c *ChatController) HandleDeleteConversation(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	if err := c.ChatService.SoftDeleteConversation(r.Context(), actor.ID, mux.Vars(r)["conversationId"]); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "Conversation hidden"})
}
