package services

import (
	"context"
	"errors"
	"testing"

	"pawmatch_server/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

func TestApplySellerCreatesStoreAndPromotes(t *testing.T) {
	account := models.UserProfile{UserID: "user-1", Name: "Ali", Role: models.RoleUser}
	issuer := &fakeTokenIssuer{}
	client := &fakeDynamoClient{
		GetItemFn: routeGetItem(t, map[string]interface{}{
			models.UserProfilesTable: account,
		}),
	}
	dynamo := &DynamoService{Client: client}
	svc := &StoreService{Dynamo: dynamo, Users: &UserProfileService{Dynamo: dynamo, Tokens: issuer}}

	auth, store, err := svc.ApplySeller(context.Background(), "user-1", "Pati Dükkanı", "Mama ve oyuncak", "")
	if err != nil {
		t.Fatalf("ApplySeller: %v", err)
	}
	if !store.IsActive || store.OwnerID != "user-1" {
		t.Errorf("store = %+v, want active and owned by user-1", store)
	}
	if auth.User.Role != models.RoleSeller {
		t.Errorf("role = %q, want seller", auth.User.Role)
	}
	if auth.Token != "token-"+models.RoleSeller {
		t.Errorf("token = %q, want a seller token", auth.Token)
	}

	// One write for the store, one for the role flip.
	tables := map[string]int{}
	for _, put := range client.PutItemInputs {
		tables[*put.TableName]++
	}
	if tables[models.StoresTable] != 1 || tables[models.UserProfilesTable] != 1 {
		t.Errorf("writes by table = %v", tables)
	}
}

func TestApplySellerRequiresName(t *testing.T) {
	client := &fakeDynamoClient{}
	svc := &StoreService{Dynamo: &DynamoService{Client: client}}

	if _, _, err := svc.ApplySeller(context.Background(), "user-1", "  ", "", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(client.PutItemInputs) != 0 {
		t.Fatal("rejected application must not write")
	}
}

func TestAddProductValidation(t *testing.T) {
	tests := []struct {
		name  string
		input ProductInput
	}{
		{name: "missing title", input: ProductInput{Price: 10}},
		{name: "negative price", input: ProductInput{Title: "Mama", Price: -1}},
		{name: "negative stock", input: ProductInput{Title: "Mama", Stock: -1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := &fakeDynamoClient{}
			svc := &StoreService{Dynamo: &DynamoService{Client: client}}

			if _, err := svc.AddProduct(context.Background(), "user-1", tc.input); !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if len(client.PutItemInputs) != 0 {
				t.Fatal("rejected product must not write")
			}
		})
	}
}

func TestAddProductRequiresStore(t *testing.T) {
	client := &fakeDynamoClient{}
	svc := &StoreService{Dynamo: &DynamoService{Client: client}}

	if _, err := svc.AddProduct(context.Background(), "user-1", ProductInput{Title: "Mama", Price: 10}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateProductForeignStore(t *testing.T) {
	product := models.Product{ProductID: "prod-1", StoreID: "seller-1", Title: "Mama", IsActive: true}
	client := &fakeDynamoClient{
		GetItemFn: routeGetItem(t, map[string]interface{}{
			models.ProductsTable: product,
		}),
	}
	svc := &StoreService{Dynamo: &DynamoService{Client: client}}

	_, err := svc.UpdateProduct(context.Background(), "seller-2", "prod-1", ProductInput{Title: "Mama"}, nil)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if len(client.PutItemInputs) != 0 {
		t.Fatal("foreign product must not be rewritten")
	}
}

func TestListStoreProductsVisibility(t *testing.T) {
	store := models.Store{OwnerID: "seller-1", Name: "Pati Dükkanı", IsActive: true}
	active := models.Product{ProductID: "prod-1", StoreID: "seller-1", Title: "Mama", IsActive: true, CreatedAt: "2026-01-01T00:00:00Z"}
	hidden := models.Product{ProductID: "prod-2", StoreID: "seller-1", Title: "Tasma", IsActive: false, CreatedAt: "2026-01-02T00:00:00Z"}

	client := &fakeDynamoClient{
		GetItemFn: routeGetItem(t, map[string]interface{}{
			models.StoresTable: store,
		}),
		QueryFn: func(_ context.Context, _ *dynamodb.QueryInput) (*dynamodb.QueryOutput, error) {
			return &dynamodb.QueryOutput{Items: mustMarshalList(t, active, hidden)}, nil
		},
	}
	svc := &StoreService{Dynamo: &DynamoService{Client: client}}

	// Strangers only see active products.
	_, products, err := svc.ListStoreProducts(context.Background(), "visitor", "seller-1")
	if err != nil {
		t.Fatalf("ListStoreProducts: %v", err)
	}
	if len(products) != 1 || products[0].ProductID != "prod-1" {
		t.Fatalf("visitor products = %+v, want only prod-1", products)
	}

	// The owner sees everything, newest first.
	_, products, err = svc.ListStoreProducts(context.Background(), "seller-1", "seller-1")
	if err != nil {
		t.Fatalf("ListStoreProducts: %v", err)
	}
	if len(products) != 2 || products[0].ProductID != "prod-2" {
		t.Fatalf("owner products = %+v, want both with prod-2 first", products)
	}
}

func TestListStoreProductsInactiveStoreHidden(t *testing.T) {
	store := models.Store{OwnerID: "seller-1", Name: "Pati Dükkanı", IsActive: false}
	client := &fakeDynamoClient{
		GetItemFn: routeGetItem(t, map[string]interface{}{
			models.StoresTable: store,
		}),
	}
	svc := &StoreService{Dynamo: &DynamoService{Client: client}}

	if _, _, err := svc.ListStoreProducts(context.Background(), "visitor", "seller-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
