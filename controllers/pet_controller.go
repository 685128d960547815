package controllers

import (
	"log"
	"net/http"
	"strconv"

	"pawmatch_server/services"

	"github.com/gorilla/mux"
)

// PetController handles listing CRUD and the browsing feed
type PetController struct {
	PetService *services.PetService
}

// NewPetController initializes the controller
func NewPetController(service *services.PetService) *PetController {
	return &PetController{PetService: service}
}

// HandleCreatePet - POST /api/pets
func (c *PetController) HandleCreatePet(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var input services.PetInput
	if !decodeBody(w, r, &input) {
		return
	}

	pet, err := c.PetService.CreatePet(r.Context(), actor.ID, input)
	if err != nil {
		respondError(w, err)
		return
	}
	log.Printf("🐾 %s listed %s (%s)", actor.ID, pet.Name, pet.PetID)
	respondJSON(w, http.StatusCreated, pet)
}

// HandleGetPet - GET /api/pets/{petId}
func (c *PetController) HandleGetPet(w http.ResponseWriter, r *http.Request) {
	pet, err := c.PetService.GetPet(r.Context(), mux.Vars(r)["petId"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, pet)
}

// HandleGetMyPets - GET /api/pets/mine
func (c *PetController) HandleGetMyPets(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	pets, err := c.PetService.GetMyPets(r.Context(), actor.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, pets)
}

// HandleUpdatePet - PUT /api/pets/{petId}
func (c *PetController) HandleUpdatePet(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var request struct {
		services.PetInput
		IsActive *bool `json:"isActive"`
	}
	if !decodeBody(w, r, &request) {
		return
	}

	pet, err := c.PetService.UpdatePet(r.Context(), actor.ID, actor.Role, mux.Vars(r)["petId"], request.PetInput, request.IsActive)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, pet)
}

// HandleDeletePet - DELETE /api/pets/{petId}
func (c *PetController) HandleDeletePet(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	if err := c.PetService.DeletePet(r.Context(), actor.ID, actor.Role, mux.Vars(r)["petId"]); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "Listing deleted"})
}

// HandleAttachPhoto - POST /api/pets/{petId}/photos
func (c *PetController) HandleAttachPhoto(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var request struct {
		PhotoURL string `json:"photoUrl"`
	}
	if !decodeBody(w, r, &request) {
		return
	}

	pet, err := c.PetService.AttachPhoto(r.Context(), actor.ID, actor.Role, mux.Vars(r)["petId"], request.PhotoURL)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, pet)
}

// HandleListPets - GET /api/pets (public browse with filters)
func (c *PetController) HandleListPets(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	var vaccinated *bool
	if raw := query.Get("vaccinated"); raw != "" {
		value := raw == "true"
		vaccinated = &value
	}
	page := parseIntOr(query.Get("page"), 1)
	limit := parseIntOr(query.Get("limit"), 10)

	feed, err := c.PetService.ListPets(r.Context(), query.Get("species"), vaccinated, page, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, feed)
}

// HandleGetFeed - GET /api/pets/feed
func (c *PetController) HandleGetFeed(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	query := r.URL.Query()
	page := parseIntOr(query.Get("page"), 1)
	limit := parseIntOr(query.Get("limit"), 10)

	feed, err := c.PetService.GetFeed(r.Context(), actor.ID, page, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, feed)
}

func parseIntOr(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
