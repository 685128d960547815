package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"pawmatch_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// StoreService owns seller storefronts and their products
type StoreService struct {
	Dynamo *DynamoService
	Users  *UserProfileService
}

// ProductInput carries the client-supplied product fields
type ProductInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Photos      []string `json:"photos"`
	Stock       int      `json:"stock"`
}

// ApplySeller creates or reactivates the caller's store, promotes the
// account to seller, and returns a fresh token reflecting the new role.
func (s *StoreService) ApplySeller(ctx context.Context, userID, storeName, description, logoURL string) (*AuthResult, *models.Store, error) {
	storeName = strings.TrimSpace(storeName)
	if storeName == "" {
		return nil, nil, fmt.Errorf("%w: storeName is required", ErrValidation)
	}

	store, err := s.getStore(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if store == nil {
		store = &models.Store{
			OwnerID:     userID,
			Name:        storeName,
			Description: description,
			LogoURL:     logoURL,
			IsActive:    true,
			CreatedAt:   time.Now().UTC().Format(time.RFC3339Nano),
		}
	} else {
		store.Name = storeName
		if description != "" {
			store.Description = description
		}
		if logoURL != "" {
			store.LogoURL = logoURL
		}
		store.IsActive = true
	}
	if err := s.Dynamo.PutItem(ctx, models.StoresTable, *store); err != nil {
		return nil, nil, fmt.Errorf("failed to save store: %w", err)
	}

	auth, err := s.Users.PromoteToSeller(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return auth, store, nil
}

// GetMyStore retrieves the caller's store
func (s *StoreService) GetMyStore(ctx context.Context, userID string) (*models.Store, error) {
	store, err := s.getStore(ctx, userID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("%w: no store for user '%s'", ErrNotFound, userID)
	}
	return store, nil
}

// AddProduct lists a new product in the caller's store
func (s *StoreService) AddProduct(ctx context.Context, userID string, input ProductInput) (*models.Product, error) {
	if err := validateProduct(&input); err != nil {
		return nil, err
	}
	store, err := s.GetMyStore(ctx, userID)
	if err != nil {
		return nil, err
	}

	product := models.Product{
		ProductID:   uuid.NewString(),
		StoreID:     store.OwnerID,
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Photos:      input.Photos,
		Stock:       input.Stock,
		IsActive:    true,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339Nano),
	}
	if err := s.Dynamo.PutItem(ctx, models.ProductsTable, product); err != nil {
		return nil, fmt.Errorf("failed to add product: %w", err)
	}
	return &product, nil
}

// UpdateProduct edits a product in the caller's store
func (s *StoreService) UpdateProduct(ctx context.Context, userID, productID string, input ProductInput, isActive *bool) (*models.Product, error) {
	if err := validateProduct(&input); err != nil {
		return nil, err
	}
	product, err := s.getProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.StoreID != userID {
		return nil, fmt.Errorf("%w: product belongs to another store", ErrForbidden)
	}

	product.Title = input.Title
	product.Description = input.Description
	product.Price = input.Price
	if input.Photos != nil {
		product.Photos = input.Photos
	}
	product.Stock = input.Stock
	if isActive != nil {
		product.IsActive = *isActive
	}
	if err := s.Dynamo.PutItem(ctx, models.ProductsTable, *product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

// ListStoreProducts lists a store's active products, newest first.
// Sellers viewing their own store also see inactive products.
func (s *StoreService) ListStoreProducts(ctx context.Context, callerID, storeOwnerID string) (*models.Store, []models.Product, error) {
	store, err := s.getStore(ctx, storeOwnerID)
	if err != nil {
		return nil, nil, err
	}
	if store == nil || (!store.IsActive && callerID != storeOwnerID) {
		return nil, nil, fmt.Errorf("%w: store '%s'", ErrNotFound, storeOwnerID)
	}

	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.ProductsTable, models.ProductStoreIndex,
		"storeId = :storeId",
		map[string]types.AttributeValue{
			":storeId": &types.AttributeValueMemberS{Value: storeOwnerID},
		}, nil, "")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list products: %w", err)
	}

	var products []models.Product
	if err := attributevalue.UnmarshalListOfMaps(items, &products); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal products: %w", err)
	}

	visible := products[:0]
	for _, product := range products {
		if product.IsActive || callerID == storeOwnerID {
			visible = append(visible, product)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].CreatedAt > visible[j].CreatedAt
	})
	return store, visible, nil
}

func validateProduct(input *ProductInput) error {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if input.Price < 0 {
		return fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}
	if input.Stock < 0 {
		return fmt.Errorf("%w: stock must be >= 0", ErrValidation)
	}
	return nil
}

func (s *StoreService) getStore(ctx context.Context, ownerID string) (*models.Store, error) {
	key := map[string]types.AttributeValue{
		"ownerId": &types.AttributeValueMemberS{Value: ownerID},
	}
	item, err := s.Dynamo.GetItem(ctx, models.StoresTable, key)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	var store models.Store
	if err := attributevalue.UnmarshalMap(item, &store); err != nil {
		return nil, fmt.Errorf("failed to unmarshal store: %w", err)
	}
	return &store, nil
}

func (s *StoreService) getProduct(ctx context.Context, productID string) (*models.Product, error) {
	key := map[string]types.AttributeValue{
		"productId": &types.AttributeValueMemberS{Value: productID},
	}
	item, err := s.Dynamo.GetItem(ctx, models.ProductsTable, key)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: product '%s'", ErrNotFound, productID)
	}
	var product models.Product
	if err := attributevalue.UnmarshalMap(item, &product); err != nil {
		return nil, fmt.Errorf("failed to unmarshal product: %w", err)
	}
	return &product, nil
}
