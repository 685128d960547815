package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"pawmatch_server/models"
	"pawmatch_server/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// MatchingService computes geo-ranked candidate profiles and handles
// explicit match requests
type MatchingService struct {
	Dynamo *DynamoService
}

// MatchingProfile is a candidate listing prepared for the matching screen.
// Species and gender carry display labels; distance is informational only
// and never the sort key.
type MatchingProfile struct {
	ID                string               `json:"id"`
	PetID             string               `json:"petId"`
	Name              string               `json:"name"`
	Species           string               `json:"species"`
	Breed             string               `json:"breed"`
	Gender            string               `json:"gender"`
	AgeMonths         int                  `json:"ageMonths"`
	Bio               string               `json:"bio"`
	Images            []string             `json:"images"`
	DistanceKm        float64              `json:"distanceKm"`
	HasPendingRequest bool                 `json:"hasPendingRequest"`
	IsMatched         bool                 `json:"isMatched"`
	Owner             models.PublicProfile `json:"owner"`
}

// MatchRequestResult is the outcome of sending a match request
type MatchRequestResult struct {
	Success  bool   `json:"success"`
	DidMatch bool   `json:"didMatch"`
	Status   string `json:"status"`
	Message  string `json:"message"`
}

// IncomingRequest is a pending request aimed at one of the caller's listings
type IncomingRequest struct {
	Requester     models.PublicProfile `json:"requester"`
	RequesterPet  string               `json:"requesterPet,omitempty"`
	TargetPet     string               `json:"targetPet"`
	TargetPetName string               `json:"targetPetName,omitempty"`
	Status        string               `json:"status"`
	CreatedAt     string               `json:"createdAt"`
}

// GetMatchingProfiles builds the candidate list for userID. The reference
// point is the user's first active listing with a usable location; without
// one, distance is treated as zero for every candidate. Candidates are
// ordered by creation time descending.
func (s *MatchingService) GetMatchingProfiles(ctx context.Context, userID, speciesFilter, genderFilter string, maxDistanceKm float64) ([]MatchingProfile, error) {
	referencePet, err := s.findReferencePet(ctx, userID)
	if err != nil {
		return nil, err
	}

	species := models.NormalizeSpecies(speciesFilter)
	gender := models.NormalizeGender(genderFilter)

	matchFields := map[string]types.AttributeValue{
		"isActive": &types.AttributeValueMemberBOOL{Value: true},
	}
	if species != "" && species != models.FilterAll {
		matchFields["species"] = &types.AttributeValueMemberS{Value: species}
	}
	if gender != "" && gender != models.FilterAll {
		matchFields["gender"] = &types.AttributeValueMemberS{Value: gender}
	}

	var candidates []models.Pet
	err = s.Dynamo.ScanWithFilter(ctx, models.PetsTable, nil, matchFields,
		map[string]string{"ownerId": userID}, &candidates)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch candidate listings: %w", err)
	}

	// Distance cutoff applies before sorting; it is a hard bound, not a
	// ranking signal.
	type scored struct {
		pet            models.Pet
		distanceMeters float64
	}
	var survivors []scored
	for _, candidate := range candidates {
		distanceMeters := 0.0
		if referencePet != nil {
			distanceMeters = utils.HaversineMeters(
				referencePet.Longitude, referencePet.Latitude,
				candidate.Longitude, candidate.Latitude)
			if maxDistanceKm > 0 && distanceMeters > maxDistanceKm*1000 {
				continue
			}
		}
		survivors = append(survivors, scored{pet: candidate, distanceMeters: distanceMeters})
	}

	sort.SliceStable(survivors, func(i, j int) bool {
		return survivors[i].pet.CreatedAt > survivors[j].pet.CreatedAt
	})

	statusByPet, err := s.requestStatusByPet(ctx, userID)
	if err != nil {
		return nil, err
	}

	profiles := make([]MatchingProfile, 0, len(survivors))
	owners := map[string]models.PublicProfile{}
	for _, entry := range survivors {
		owner, cached := owners[entry.pet.OwnerID]
		if !cached {
			owner, err = getPublicProfile(ctx, s.Dynamo, entry.pet.OwnerID)
			if err != nil {
				return nil, err
			}
			owners[entry.pet.OwnerID] = owner
		}

		breed := entry.pet.Breed
		if breed == "" {
			breed = "Bilinmiyor"
		}
		images := entry.pet.Photos
		if images == nil {
			images = []string{}
		}
		status := statusByPet[entry.pet.PetID]
		profile := MatchingProfile{
			ID:                entry.pet.PetID,
			PetID:             entry.pet.PetID,
			Name:              entry.pet.Name,
			Species:           models.FormatSpecies(entry.pet.Species),
			Breed:             breed,
			Gender:            models.FormatGender(entry.pet.Gender),
			AgeMonths:         entry.pet.AgeMonths,
			Bio:               entry.pet.Bio,
			Images:            images,
			DistanceKm:        utils.RoundKm(entry.distanceMeters),
			HasPendingRequest: status == models.StatusPending,
			IsMatched:         status == models.StatusMatched,
			Owner:             owner,
		}
		profiles = append(profiles, profile)
	}

	// With a bound but no reference point every distance is zero, so all
	// candidates pass here.
	if maxDistanceKm > 0 {
		filtered := profiles[:0]
		for _, profile := range profiles {
			if profile.DistanceKm <= maxDistanceKm {
				filtered = append(filtered, profile)
			}
		}
		profiles = filtered
	}
	return profiles, nil
}

// SendMatchRequest records an explicit request from userID for targetPetID
// and resolves reciprocity: a counterpart request from the listing's owner
// against any of the caller's listings flips both to matched and provisions
// a shared conversation.
func (s *MatchingService) SendMatchRequest(ctx context.Context, userID, targetPetID string) (*MatchRequestResult, error) {
	targetPet, err := s.getActivePet(ctx, targetPetID)
	if err != nil {
		return nil, err
	}
	if targetPet.OwnerID == userID {
		return nil, fmt.Errorf("%w: cannot send a match request for your own listing", ErrForbidden)
	}

	existing, err := s.getRequest(ctx, userID, targetPetID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return s.existingRequestResult(existing), nil
	}

	requesterPetID := ""
	if myPet, err := s.findFirstActivePet(ctx, userID); err == nil && myPet != nil {
		requesterPetID = myPet.PetID
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	request := models.MatchRequest{
		PK:           models.MatchRequestPK(userID),
		SK:           models.MatchRequestSK(targetPetID),
		Requester:    userID,
		RequesterPet: requesterPetID,
		TargetPet:    targetPetID,
		TargetOwner:  targetPet.OwnerID,
		Status:       models.StatusPending,
		CreatedAt:    now,
		LastUpdated:  now,
	}
	if err := s.Dynamo.PutItemIfAbsent(ctx, models.MatchRequestsTable, request, "PK"); err != nil {
		if errors.Is(err, ErrConflict) {
			// Lost a race with an identical request; report its status.
			if existing, rerr := s.getRequest(ctx, userID, targetPetID); rerr == nil && existing != nil {
				return s.existingRequestResult(existing), nil
			}
		}
		return nil, fmt.Errorf("failed to create match request: %w", err)
	}

	reciprocal, err := s.findReciprocalRequest(ctx, targetPet.OwnerID, userID)
	if err != nil {
		return nil, err
	}
	if reciprocal == nil {
		return &MatchRequestResult{
			Success: true,
			Status:  models.StatusPending,
			Message: "Eşleşme isteği gönderildi.",
		}, nil
	}

	if err := s.flipToMatched(ctx, &request, reciprocal); err != nil {
		return nil, err
	}
	if err := upsertConversation(ctx, s.Dynamo, userID, targetPet.OwnerID, targetPetID, models.PreviewMutualMatch); err != nil {
		// The matched state stands even when provisioning fails; surface
		// the error for the caller to retry.
		log.Printf("Match flipped but conversation provisioning failed for pet %s: %v", targetPetID, err)
		return nil, err
	}

	return &MatchRequestResult{
		Success:  true,
		DidMatch: true,
		Status:   models.StatusMatched,
		Message:  "Harika! Karşılıklı eşleşme sağlandı.",
	}, nil
}

// GetIncomingRequests lists pending requests aimed at the caller's listings
func (s *MatchingService) GetIncomingRequests(ctx context.Context, userID string) ([]IncomingRequest, error) {
	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.MatchRequestsTable, models.MatchRequestTargetOwnerIndex,
		"targetOwner = :owner",
		map[string]types.AttributeValue{
			":owner":   &types.AttributeValueMemberS{Value: userID},
			":pending": &types.AttributeValueMemberS{Value: models.StatusPending},
		},
		map[string]string{"#status": "status"},
		"#status = :pending")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch incoming requests: %w", err)
	}

	var requests []models.MatchRequest
	if err := attributevalue.UnmarshalListOfMaps(items, &requests); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match requests: %w", err)
	}

	incoming := make([]IncomingRequest, 0, len(requests))
	for _, request := range requests {
		requester, err := getPublicProfile(ctx, s.Dynamo, request.Requester)
		if err != nil {
			continue
		}
		entry := IncomingRequest{
			Requester:    requester,
			RequesterPet: request.RequesterPet,
			TargetPet:    request.TargetPet,
			Status:       request.Status,
			CreatedAt:    request.CreatedAt,
		}
		if pet, err := s.getPet(ctx, request.TargetPet); err == nil {
			entry.TargetPetName = pet.Name
		}
		incoming = append(incoming, entry)
	}
	return incoming, nil
}

// DeclineRequest moves a pending request aimed at the caller to declined
func (s *MatchingService) DeclineRequest(ctx context.Context, userID, requesterID, targetPetID string) error {
	request, err := s.getRequest(ctx, requesterID, targetPetID)
	if err != nil {
		return err
	}
	if request == nil {
		return fmt.Errorf("%w: match request", ErrNotFound)
	}
	if request.TargetOwner != userID {
		return fmt.Errorf("%w: request is not aimed at your listing", ErrForbidden)
	}
	if request.Status != models.StatusPending {
		return fmt.Errorf("%w: request is already %s", ErrConflict, request.Status)
	}

	_, err = s.Dynamo.UpdateItem(ctx, models.MatchRequestsTable,
		"SET #status = :declined, lastUpdated = :now",
		map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: request.PK},
			"SK": &types.AttributeValueMemberS{Value: request.SK},
		},
		map[string]types.AttributeValue{
			":declined": &types.AttributeValueMemberS{Value: models.StatusDeclined},
			":now":      &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339Nano)},
		},
		map[string]string{"#status": "status"})
	return err
}

func (s *MatchingService) existingRequestResult(request *models.MatchRequest) *MatchRequestResult {
	if request.Status == models.StatusMatched {
		return &MatchRequestResult{
			Success:  true,
			DidMatch: true,
			Status:   request.Status,
			Message:  "Bu ilanla zaten eşleştiniz.",
		}
	}
	return &MatchRequestResult{
		Success: true,
		Status:  request.Status,
		Message: "Eşleşme isteği zaten gönderildi.",
	}
}

// flipToMatched transitions both requests to matched in one transactional
// write, conditioned on their current status so racing resolvers converge
// instead of clobbering each other.
func (s *MatchingService) flipToMatched(ctx context.Context, mine, reciprocal *models.MatchRequest) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	update := "SET #status = :matched, lastUpdated = :now"
	names := map[string]string{"#status": "status"}

	items := []types.TransactWriteItem{
		{
			Update: &types.Update{
				TableName: aws.String(models.MatchRequestsTable),
				Key: map[string]types.AttributeValue{
					"PK": &types.AttributeValueMemberS{Value: mine.PK},
					"SK": &types.AttributeValueMemberS{Value: mine.SK},
				},
				UpdateExpression:         aws.String(update),
				ConditionExpression:      aws.String("#status = :pending"),
				ExpressionAttributeNames: names,
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":matched": &types.AttributeValueMemberS{Value: models.StatusMatched},
					":pending": &types.AttributeValueMemberS{Value: models.StatusPending},
					":now":     &types.AttributeValueMemberS{Value: now},
				},
			},
		},
		{
			Update: &types.Update{
				TableName: aws.String(models.MatchRequestsTable),
				Key: map[string]types.AttributeValue{
					"PK": &types.AttributeValueMemberS{Value: reciprocal.PK},
					"SK": &types.AttributeValueMemberS{Value: reciprocal.SK},
				},
				UpdateExpression:         aws.String(update),
				ConditionExpression:      aws.String("#status = :pending OR #status = :matched"),
				ExpressionAttributeNames: names,
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":matched": &types.AttributeValueMemberS{Value: models.StatusMatched},
					":pending": &types.AttributeValueMemberS{Value: models.StatusPending},
					":now":     &types.AttributeValueMemberS{Value: now},
				},
			},
		},
	}

	err := s.Dynamo.TransactWriteItems(ctx, items)
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrConflict) {
		// A concurrent resolver got there first; converge on its outcome.
		current, rerr := s.getRequest(ctx, mine.Requester, mine.TargetPet)
		if rerr == nil && current != nil && current.Status == models.StatusMatched {
			return nil
		}
	}
	return err
}

func (s *MatchingService) getRequest(ctx context.Context, requesterID, targetPetID string) (*models.MatchRequest, error) {
	key := map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: models.MatchRequestPK(requesterID)},
		"SK": &types.AttributeValueMemberS{Value: models.MatchRequestSK(targetPetID)},
	}
	item, err := s.Dynamo.GetItem(ctx, models.MatchRequestsTable, key)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	var request models.MatchRequest
	if err := attributevalue.UnmarshalMap(item, &request); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match request: %w", err)
	}
	return &request, nil
}

// findReciprocalRequest looks for a pending or matched request by ownerID
// against any listing owned by requesterID.
func (s *MatchingService) findReciprocalRequest(ctx context.Context, ownerID, requesterID string) (*models.MatchRequest, error) {
	items, err := s.Dynamo.QueryItemsWithFilters(ctx, models.MatchRequestsTable,
		"PK = :user",
		map[string]types.AttributeValue{
			":user":    &types.AttributeValueMemberS{Value: models.MatchRequestPK(ownerID)},
			":owner":   &types.AttributeValueMemberS{Value: requesterID},
			":pending": &types.AttributeValueMemberS{Value: models.StatusPending},
			":matched": &types.AttributeValueMemberS{Value: models.StatusMatched},
		},
		map[string]string{"#status": "status"},
		"targetOwner = :owner AND (#status = :pending OR #status = :matched)")
	if err != nil {
		return nil, fmt.Errorf("failed to check reciprocal request: %w", err)
	}
	if len(items) == 0 {
		return nil, nil
	}
	var request models.MatchRequest
	if err := attributevalue.UnmarshalMap(items[0], &request); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reciprocal request: %w", err)
	}
	return &request, nil
}

func (s *MatchingService) findReferencePet(ctx context.Context, userID string) (*models.Pet, error) {
	pets, err := s.activePetsOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range pets {
		if pets[i].HasLocation() {
			return &pets[i], nil
		}
	}
	return nil, nil
}

func (s *MatchingService) findFirstActivePet(ctx context.Context, userID string) (*models.Pet, error) {
	pets, err := s.activePetsOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(pets) == 0 {
		return nil, nil
	}
	return &pets[0], nil
}

func (s *MatchingService) activePetsOf(ctx context.Context, userID string) ([]models.Pet, error) {
	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.PetsTable, models.PetOwnerIndex,
		"ownerId = :ownerId",
		map[string]types.AttributeValue{
			":ownerId": &types.AttributeValueMemberS{Value: userID},
			":active":  &types.AttributeValueMemberBOOL{Value: true},
		}, nil, "isActive = :active")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch own listings: %w", err)
	}
	var pets []models.Pet
	if err := attributevalue.UnmarshalListOfMaps(items, &pets); err != nil {
		return nil, fmt.Errorf("failed to unmarshal own listings: %w", err)
	}
	return pets, nil
}

func (s *MatchingService) getPet(ctx context.Context, petID string) (*models.Pet, error) {
	key := map[string]types.AttributeValue{
		"petId": &types.AttributeValueMemberS{Value: petID},
	}
	item, err := s.Dynamo.GetItem(ctx, models.PetsTable, key)
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

func (s *MatchingService) getActivePet(ctx context.Context, petID string) (*models.Pet, error) {
	pet, err := s.getPet(ctx, petID)
	if err != nil {
		return nil, err
	}
	if !pet.IsActive {
		return nil, fmt.Errorf("%w: pet '%s' is no longer listed", ErrNotFound, petID)
	}
	return pet, nil
}

// requestStatusByPet maps the caller's outgoing request statuses by target
// listing.
func (s *MatchingService) requestStatusByPet(ctx context.Context, userID string) (map[string]string, error) {
	items, err := s.Dynamo.QueryItems(ctx, models.MatchRequestsTable,
		"PK = :user",
		map[string]types.AttributeValue{
			":user": &types.AttributeValueMemberS{Value: models.MatchRequestPK(userID)},
		}, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch outgoing requests: %w", err)
	}
	var requests []models.MatchRequest
	if err := attributevalue.UnmarshalListOfMaps(items, &requests); err != nil {
		return nil, fmt.Errorf("failed to unmarshal outgoing requests: %w", err)
	}
	statuses := make(map[string]string, len(requests))
	for _, request := range requests {
		statuses[request.TargetPet] = request.Status
	}
	return statuses, nil
}
