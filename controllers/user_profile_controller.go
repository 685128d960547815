package controllers

import (
	"log"
	"net/http"

	"pawmatch_server/services"

	"github.com/gorilla/mux"
)

// UserProfileController handles accounts and authentication
type UserProfileController struct {
	UserProfileService *services.UserProfileService
}

// NewUserProfileController initializes the controller
func NewUserProfileController(service *services.UserProfileService) *UserProfileController {
	return &UserProfileController{UserProfileService: service}
}

// HandleRegister - POST /api/auth/register
func (c *UserProfileController) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &request) {
		return
	}

	result, err := c.UserProfileService.Register(r.Context(), request.Name, request.Email, request.Password)
	if err != nil {
		respondError(w, err)
		return
	}
	log.Printf("👤 New account: %s", result.User.UserID)
	respondJSON(w, http.StatusCreated, result)
}

// HandleLogin - POST /api/auth/login
func (c *UserProfileController) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &request) {
		return
	}

	result, err := c.UserProfileService.Login(r.Context(), request.Email, request.Password)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// HandleGetMe - GET /api/users/me
func (c *UserProfileController) HandleGetMe(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	user, err := c.UserProfileService.GetUser(r.Context(), actor.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	user.PasswordHash = ""
	respondJSON(w, http.StatusOK, user)
}

// HandleUpdateMe - PUT /api/users/me
func (c *UserProfileController) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var request struct {
		Name      string `json:"name"`
		City      string `json:"city"`
		About     string `json:"about"`
		AvatarURL string `json:"avatarUrl"`
	}
	if !decodeBody(w, r, &request) {
		return
	}

	user, err := c.UserProfileService.UpdateProfile(r.Context(), actor.ID, request.Name, request.City, request.About, request.AvatarURL)
	if err != nil {
		respondError(w, err)
		return
	}
	user.PasswordHash = ""
	respondJSON(w, http.StatusOK, user)
}

// HandleListUsers - GET /api/users
func (c *UserProfileController) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	users, err := c.UserProfileService.ListOtherUsers(r.Context(), actor.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

// HandleGetUser - GET /api/users/{userId}
func (c *UserProfileController) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireActor(w, r); !ok {
		return
	}
	user, err := c.UserProfileService.GetUser(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user.Public())
}
