package models

// Pet defines the structure for a pet listing
type Pet struct {
	PetID      string   `dynamodbav:"petId" json:"petId"`
	OwnerID    string   `dynamodbav:"ownerId" json:"ownerId"`
	Name       string   `dynamodbav:"name" json:"name"`
	Species    string   `dynamodbav:"species" json:"species"`
	Breed      string   `dynamodbav:"breed,omitempty" json:"breed,omitempty"`
	Gender     string   `dynamodbav:"gender" json:"gender"`
	AgeMonths  int      `dynamodbav:"ageMonths" json:"ageMonths"`
	Bio        string   `dynamodbav:"bio,omitempty" json:"bio,omitempty"`
	Photos     []string `dynamodbav:"photos,omitempty" json:"photos,omitempty"`
	Vaccinated bool     `dynamodbav:"vaccinated" json:"vaccinated"`
	Longitude  float64  `dynamodbav:"longitude" json:"longitude"`
	Latitude   float64  `dynamodbav:"latitude" json:"latitude"`
	IsActive   bool     `dynamodbav:"isActive" json:"isActive"`
	CreatedAt  string   `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt  string   `dynamodbav:"updatedAt" json:"updatedAt"`
}

// HasLocation reports whether the listing carries a usable geo point.
// The origin (0,0) means "unset".
func (p *Pet) HasLocation() bool {
	return !(p.Longitude == 0 && p.Latitude == 0)
}

// PetsTable is the DynamoDB table name for pet listings
const PetsTable = "Pets"

// PetOwnerIndex is the GSI for querying listings by owner (PK: ownerId)
const PetOwnerIndex = "ownerId-index"
