package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"pawmatch_server/models"
	"pawmatch_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// PetService owns pet listings and the browsing feed
type PetService struct {
	Dynamo *DynamoService
}

// PetInput carries the client-supplied listing fields
type PetInput struct {
	Name       string   `json:"name"`
	Species    string   `json:"species"`
	Breed      string   `json:"breed"`
	Gender     string   `json:"gender"`
	AgeMonths  int      `json:"ageMonths"`
	Bio        string   `json:"bio"`
	Photos     []string `json:"photos"`
	Vaccinated bool     `json:"vaccinated"`
	Longitude  float64  `json:"longitude"`
	Latitude   float64  `json:"latitude"`
}

// PetWithOwner is a listing enriched with its owner's public fields
type PetWithOwner struct {
	models.Pet
	Owner models.PublicProfile `json:"owner"`
}

// FeedPage is one page of the browsing feed
type FeedPage struct {
	Items   []PetWithOwner `json:"items"`
	Page    int            `json:"page"`
	Limit   int            `json:"limit"`
	Total   int            `json:"total"`
	HasMore bool           `json:"hasMore"`
}

func (ps *PetService) validateInput(input *PetInput) error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if !models.ValidSpecies(input.Species) {
		return fmt.Errorf("%w: invalid species '%s'", ErrValidation, input.Species)
	}
	if input.Gender == "" {
		input.Gender = models.GenderUnknown
	}
	if !models.ValidGender(input.Gender) {
		return fmt.Errorf("%w: invalid gender '%s'", ErrValidation, input.Gender)
	}
	if input.AgeMonths < 0 {
		return fmt.Errorf("%w: ageMonths must be >= 0", ErrValidation)
	}
	return nil
}

// CreatePet stores a new active listing owned by ownerID
func (ps *PetService) CreatePet(ctx context.Context, ownerID string, input PetInput) (*models.Pet, error) {
	if err := ps.validateInput(&input); err != nil {
		return nil, err
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	pet := models.Pet{
		PetID:      uuid.NewString(),
		OwnerID:    ownerID,
		Name:       input.Name,
		Species:    input.Species,
		Breed:      input.Breed,
		Gender:     input.Gender,
		AgeMonths:  input.AgeMonths,
		Bio:        input.Bio,
		Photos:     input.Photos,
		Vaccinated: input.Vaccinated,
		Longitude:  input.Longitude,
		Latitude:   input.Latitude,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := ps.Dynamo.PutItem(ctx, models.PetsTable, pet); err != nil {
		return nil, fmt.Errorf("failed to create pet: %w", err)
	}
	return &pet, nil
}

// GetPet retrieves a listing by ID. Missing listings return ErrNotFound.
func (ps *PetService) GetPet(ctx context.Context, petID string) (*models.Pet, error) {
	key := map[string]types.AttributeValue{
		"petId": &types.AttributeValueMemberS{Value: petID},
	}
	item, err := ps.Dynamo.GetItem(ctx, models.PetsTable, key)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: pet '%s'", ErrNotFound, petID)
	}
	var pet models.Pet
	if err := attributevalue.UnmarshalMap(item, &pet); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pet: %w", err)
	}
	return &pet, nil
}

// GetMyPets lists every listing owned by ownerID, newest first
func (ps *PetService) GetMyPets(ctx context.Context, ownerID string) ([]models.Pet, error) {
	items, err := ps.Dynamo.QueryItemsWithIndex(ctx, models.PetsTable, models.PetOwnerIndex,
		"ownerId = :ownerId",
		map[string]types.AttributeValue{
			":ownerId": &types.AttributeValueMemberS{Value: ownerID},
		}, nil, "")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pets for owner %s: %w", ownerID, err)
	}

	var pets []models.Pet
	if err := attributevalue.UnmarshalListOfMaps(items, &pets); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pets: %w", err)
	}
	sortPetsByNewest(pets)
	return pets, nil
}

// UpdatePet applies client-supplied fields to a listing. Only the owner or
// an admin may update; setting IsActive=false soft-deactivates the listing.
func (ps *PetService) UpdatePet(ctx context.Context, actorID, actorRole, petID string, input PetInput, isActive *bool) (*models.Pet, error) {
	pet, err := ps.GetPet(ctx, petID)
	if err != nil {
		return nil, err
	}
	if pet.OwnerID != actorID && actorRole != models.RoleAdmin {
		return nil, fmt.Errorf("%w: not the owner of pet '%s'", ErrForbidden, petID)
	}
	if err := ps.validateInput(&input); err != nil {
		return nil, err
	}

	pet.Name = input.Name
	pet.Species = input.Species
	pet.Breed = input.Breed
	pet.Gender = input.Gender
	pet.AgeMonths = input.AgeMonths
	pet.Bio = input.Bio
	if input.Photos != nil {
		pet.Photos = input.Photos
	}
	pet.Vaccinated = input.Vaccinated
	pet.Longitude = input.Longitude
	pet.Latitude = input.Latitude
	if isActive != nil {
		pet.IsActive = *isActive
	}
	pet.UpdatedAt = time.Now().UTC().Format(time.RFC3339Nano)

	if err := ps.Dynamo.PutItem(ctx, models.PetsTable, *pet); err != nil {
		return nil, fmt.Errorf("failed to update pet: %w", err)
	}
	return pet, nil
}

// DeletePet removes a listing. Only the owner or an admin may delete.
func (ps *PetService) DeletePet(ctx context.Context, actorID, actorRole, petID string) error {
	pet, err := ps.GetPet(ctx, petID)
	if err != nil {
		return err
	}
	if pet.OwnerID != actorID && actorRole != models.RoleAdmin {
		return fmt.Errorf("%w: not the owner of pet '%s'", ErrForbidden, petID)
	}
	key := map[string]types.AttributeValue{
		"petId": &types.AttributeValueMemberS{Value: petID},
	}
	return ps.Dynamo.DeleteItem(ctx, models.PetsTable, key)
}

// AttachPhoto appends an uploaded photo reference to a listing
func (ps *PetService) AttachPhoto(ctx context.Context, actorID, actorRole, petID, photoURL string) (*models.Pet, error) {
	if strings.TrimSpace(photoURL) == "" {
		return nil, fmt.Errorf("%w: photo url is required", ErrValidation)
	}
	pet, err := ps.GetPet(ctx, petID)
	if err != nil {
		return nil, err
	}
	if pet.OwnerID != actorID && actorRole != models.RoleAdmin {
		return nil, fmt.Errorf("%w: not the owner of pet '%s'", ErrForbidden, petID)
	}
	pet.Photos = append(pet.Photos, photoURL)
	pet.UpdatedAt = time.Now().UTC().Format(time.RFC3339Nano)
	if err := ps.Dynamo.PutItem(ctx, models.PetsTable, *pet); err != nil {
		return nil, fmt.Errorf("failed to attach photo: %w", err)
	}
	return pet, nil
}

// ListPets is the public listing with optional species/vaccinated filters
func (ps *PetService) ListPets(ctx context.Context, species string, vaccinated *bool, page, limit int) (*FeedPage, error) {
	matchFields := map[string]types.AttributeValue{
		"isActive": &types.AttributeValueMemberBOOL{Value: true},
	}
	if species != "" {
		matchFields["species"] = &types.AttributeValueMemberS{Value: species}
	}
	if vaccinated != nil {
		matchFields["vaccinated"] = &types.AttributeValueMemberBOOL{Value: *vaccinated}
	}

	var pets []models.Pet
	if err := ps.Dynamo.ScanWithFilter(ctx, models.PetsTable, nil, matchFields, nil, &pets); err != nil {
		return nil, fmt.Errorf("failed to list pets: %w", err)
	}
	sortPetsByNewest(pets)

	items, total, hasMore := paginatePets(pets, page, limit)
	enriched, err := ps.attachOwners(ctx, items)
	if err != nil {
		return nil, err
	}
	return &FeedPage{Items: enriched, Page: page, Limit: limit, Total: total, HasMore: hasMore}, nil
}

// GetFeed computes the candidate page for a browsing user: active listings
// not owned by the user and not yet decided on, newest first. A decided
// listing is never re-shown, whether liked or passed.
func (ps *PetService) GetFeed(ctx context.Context, userID string, page, limit int) (*FeedPage, error) {
	decided, err := ps.decidedPetIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	var pets []models.Pet
	err = ps.Dynamo.ScanWithFilter(ctx, models.PetsTable,
		func(item map[string]types.AttributeValue) bool {
			_, alreadyDecided := decided[utils.ExtractString(item, "petId")]
			return !alreadyDecided
		},
		map[string]types.AttributeValue{
			"isActive": &types.AttributeValueMemberBOOL{Value: true},
		},
		map[string]string{"ownerId": userID},
		&pets,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build feed: %w", err)
	}
	sortPetsByNewest(pets)

	items, total, hasMore := paginatePets(pets, page, limit)
	enriched, err := ps.attachOwners(ctx, items)
	if err != nil {
		return nil, err
	}
	return &FeedPage{Items: enriched, Page: page, Limit: limit, Total: total, HasMore: hasMore}, nil
}

// decidedPetIDs returns the set of listing IDs the user has already liked or
// passed on.
func (ps *PetService) decidedPetIDs(ctx context.Context, userID string) (map[string]struct{}, error) {
	items, err := ps.Dynamo.QueryItems(ctx, models.InteractionsTable,
		"PK = :user",
		map[string]types.AttributeValue{
			":user": &types.AttributeValueMemberS{Value: models.InteractionPK(userID)},
		}, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch interactions for %s: %w", userID, err)
	}

	var interactions []models.Interaction
	if err := attributevalue.UnmarshalListOfMaps(items, &interactions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal interactions: %w", err)
	}

	decided := make(map[string]struct{}, len(interactions))
	for _, interaction := range interactions {
		decided[interaction.ToPet] = struct{}{}
	}
	return decided, nil
}

func (ps *PetService) attachOwners(ctx context.Context, pets []models.Pet) ([]PetWithOwner, error) {
	enriched := make([]PetWithOwner, 0, len(pets))
	profiles := map[string]models.PublicProfile{}
	for _, pet := range pets {
		owner, cached := profiles[pet.OwnerID]
		if !cached {
			profile, err := getPublicProfile(ctx, ps.Dynamo, pet.OwnerID)
			if err != nil {
				return nil, err
			}
			owner = profile
			profiles[pet.OwnerID] = owner
		}
		enriched = append(enriched, PetWithOwner{Pet: pet, Owner: owner})
	}
	return enriched, nil
}

// sortPetsByNewest orders listings by creation time descending, preserving
// insertion order on ties.
func sortPetsByNewest(pets []models.Pet) {
	sort.SliceStable(pets, func(i, j int) bool {
		return pets[i].CreatedAt > pets[j].CreatedAt
	})
}

// paginatePets applies offset pagination and reports the total and whether
// more pages remain.
func paginatePets(pets []models.Pet, page, limit int) ([]models.Pet, int, bool) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	total := len(pets)
	offset := (page - 1) * limit
	if offset >= total {
		return []models.Pet{}, total, false
	}
	end := offset + limit
	if end > total {
		end = total
	}
	items := pets[offset:end]
	return items, total, offset+len(items) < total
}
