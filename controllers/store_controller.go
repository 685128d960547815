package controllers

import (
	"log"
	"net/http"

	"pawmatch_server/services"

	"github.com/gorilla/mux"
)

// StoreController handles seller storefronts and products
type StoreController struct {
	StoreService *services.StoreService
}

// NewStoreController initializes the controller
func NewStoreController(service *services.StoreService) *StoreController {
	return &StoreController{StoreService: service}
}

// HandleApplySeller - POST /api/stores/apply
func (c *StoreController) HandleApplySeller(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var request struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		LogoURL     string `json:"logoUrl"`
	}
	if !decodeBody(w, r, &request) {
		return
	}

	auth, store, err := c.StoreService.ApplySeller(r.Context(), actor.ID, request.Name, request.Description, request.LogoURL)
	if err != nil {
		respondError(w, err)
		return
	}
	log.Printf("🏪 %s opened store %q", actor.ID, store.Name)
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"store": store,
		"token": auth.Token,
		"user":  auth.User,
	})
}

// HandleGetMyStore - GET /api/stores/mine
func (c *StoreController) HandleGetMyStore(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	store, err := c.StoreService.GetMyStore(r.Context(), actor.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, store)
}

// HandleAddProduct - POST /api/stores/mine/products
func (c *StoreController) HandleAddProduct(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var input services.ProductInput
	if !decodeBody(w, r, &input) {
		return
	}

	product, err := c.StoreService.AddProduct(r.Context(), actor.ID, input)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, product)
}

// HandleUpdateProduct - PUT /api/stores/mine/products/{productId}
func (c *StoreController) HandleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var request struct {
		services.ProductInput
		IsActive *bool `json:"isActive"`
	}
	if !decodeBody(w, r, &request) {
		return
	}

	product, err := c.StoreService.UpdateProduct(r.Context(), actor.ID, mux.Vars(r)["productId"], request.ProductInput, request.IsActive)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// HandleListStoreProducts - GET /api/stores/{ownerId}/products
func (c *StoreController) HandleListStoreProducts(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	store, products, err := c.StoreService.ListStoreProducts(r.Context(), actor.ID, mux.Vars(r)["ownerId"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"store":    store,
		"products": products,
	})
}
