package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"pawmatch_server/middleware"
	"pawmatch_server/services"
)

// respondJSON writes v as the JSON response body
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// respondError maps service errors onto HTTP statuses
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, services.ErrPrecondition):
		status = http.StatusPreconditionFailed
	}
	if status == http.StatusInternalServerError {
		log.Printf("Internal error: %v", err)
	}
	respondJSON(w, status, map[string]string{"error": err.Error()})
}

// requireActor extracts the authenticated caller or writes a 401
func requireActor(w http.ResponseWriter, r *http.Request) (middleware.Actor, bool) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		http.Error(w, `{"error": "authorization required"}`, http.StatusUnauthorized)
	}
	return actor, ok
}

// decodeBody parses the JSON request body into dst
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return false
	}
	return true
}
