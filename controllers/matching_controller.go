package controllers

import (
	"log"
	"net/http"
	"strconv"

	"pawmatch_server/services"
)

// MatchingController handles the matching screen and explicit match requests
type MatchingController struct {
	MatchingService *services.MatchingService
}

// NewMatchingController initializes the controller
func NewMatchingController(service *services.MatchingService) *MatchingController {
	return &MatchingController{MatchingService: service}
}

// HandleGetProfiles - GET /api/matching/profiles
func (c *MatchingController) HandleGetProfiles(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	query := r.URL.Query()
	maxDistanceKm := 0.0
	if raw := query.Get("maxDistanceKm"); raw != "" {
		if value, err := strconv.ParseFloat(raw, 64); err == nil {
			maxDistanceKm = value
		}
	}

	profiles, err := c.MatchingService.GetMatchingProfiles(r.Context(), actor.ID,
		query.Get("species"), query.Get("gender"), maxDistanceKm)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, profiles)
}

// HandleSendRequest - POST /api/matching/requests
func (c *MatchingController) HandleSendRequest(w http.ResponseWriter, r *http.Request) {
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

	result, err := c.MatchingService.SendMatchRequest(r.Context(), actor.ID, request.PetID)
	if err != nil {
		respondError(w, err)
		return
	}
	if result.DidMatch {
		log.Printf("🤝 %s mutually matched on pet %s", actor.ID, request.PetID)
	}
	respondJSON(w, http.StatusOK, result)
}

// HandleIncomingRequests - GET /api/matching/requests/incoming
func (c *MatchingController) HandleIncomingRequests(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	incoming, err := c.MatchingService.GetIncomingRequests(r.Context(), actor.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, incoming)
}

// HandleDeclineRequest - POST /api/matching/requests/decline
func (c *MatchingController) HandleDeclineRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var request struct {
		RequesterID string `json:"requesterId"`
		PetID       string `json:"petId"`
	}
	if !decodeBody(w, r, &request) {
		return
	}

	if err := c.MatchingService.DeclineRequest(r.Context(), actor.ID, request.RequesterID, request.PetID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "Request declined"})
}
