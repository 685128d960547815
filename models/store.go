package models

// Store is a seller's storefront. One store per owner, keyed by the owner.
type Store struct {
	OwnerID     string `dynamodbav:"ownerId" json:"ownerId"`
	Name        string `dynamodbav:"name" json:"name"`
	Description string `dynamodbav:"description,omitempty" json:"description,omitempty"`
	LogoURL     string `dynamodbav:"logoUrl,omitempty" json:"logoUrl,omitempty"`
	IsActive    bool   `dynamodbav:"isActive" json:"isActive"`
	CreatedAt   string `dynamodbav:"createdAt" json:"createdAt"`
}

// Product is an item listed in a store.
type Product struct {
	ProductID   string   `dynamodbav:"productId" json:"productId"`
	StoreID     string   `dynamodbav:"storeId" json:"storeId"` // the store owner's user ID
	Title       string   `dynamodbav:"title" json:"title"`
	Description string   `dynamodbav:"description,omitempty" json:"description,omitempty"`
	Price       float64  `dynamodbav:"price" json:"price"`
	Photos      []string `dynamodbav:"photos,omitempty" json:"photos,omitempty"`
	Stock       int      `dynamodbav:"stock" json:"stock"`
	IsActive    bool     `dynamodbav:"isActive" json:"isActive"`
	CreatedAt   string   `dynamodbav:"createdAt" json:"createdAt"`
}

// StoresTable is the DynamoDB table name for storefronts
const StoresTable = "Stores"

// ProductsTable is the DynamoDB table name for store products
const ProductsTable = "Products"

// ProductStoreIndex is the GSI for querying products by store (PK: storeId)
const ProductStoreIndex = "storeId-index"
