package controllers

import (
	"log"
	"net/http"

	"pawmatch_server/services"
)

// InteractionController handles swipe decisions
type InteractionController struct {
	InteractionService *services.InteractionService
}

// NewInteractionController initializes the controller
func NewInteractionController(service *services.InteractionService) *InteractionController {
	return &InteractionController{InteractionService: service}
}

// HandleLike - POST /api/interactions/like
func (c *InteractionController) HandleLike(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var request struct {
		PetID string `json:"petId"`
	}
	if !decodeBody(w, r, &request) {
		return
	}

	result, err := c.InteractionService.LikePet(r.Context(), actor.ID, request.PetID)
	if err != nil {
		respondError(w, err)
		return
	}
	if result.Match {
		log.Printf("💖 %s matched with %s over pet %s", actor.ID, result.MatchedWith.UserID, request.PetID)
	}
	respondJSON(w, http.StatusOK, result)
}

// HandlePass - POST /api/interactions/pass
func (c *InteractionController) HandlePass(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var request struct {
		PetID string `json:"petId"`
	}
	if !decodeBody(w, r, &request) {
		return
	}

	result, err := c.InteractionService.PassPet(r.Context(), actor.ID, request.PetID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// HandleGetMyInteractions - GET /api/interactions
func (c *InteractionController) HandleGetMyInteractions(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	interactions, err := c.InteractionService.GetUserInteractions(r.Context(), actor.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, interactions)
}

// HandleGetAdmirers - GET /api/interactions/admirers
func (c *InteractionController) HandleGetAdmirers(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	admirers, err := c.InteractionService.GetAdmirers(r.Context(), actor.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, admirers)
}
