package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"pawmatch_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// InteractionService records swipe decisions and resolves mutual likes
type InteractionService struct {
	Dynamo *DynamoService
}

// LikeResult is the outcome of a like swipe
type LikeResult struct {
	Type           string                `json:"type"`
	Match          bool                  `json:"match"`
	MatchedWith    *models.PublicProfile `json:"matchedWith,omitempty"`
	ConversationID string                `json:"conversationId,omitempty"`
	AlreadyDecided bool                  `json:"alreadyDecided,omitempty"`
}

// GetInteraction retrieves the decision a user made on a listing, or nil
func (s *InteractionService) GetInteraction(ctx context.Context, userID, petID string) (*models.Interaction, error) {
	key := map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: models.InteractionPK(userID)},
		"SK": &types.AttributeValueMemberS{Value: models.InteractionSK(petID)},
	}
	item, err := s.Dynamo.GetItem(ctx, models.InteractionsTable, key)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	var interaction models.Interaction
	if err := attributevalue.UnmarshalMap(item, &interaction); err != nil {
		return nil, fmt.Errorf("failed to unmarshal interaction: %w", err)
	}
	return &interaction, nil
}

// GetUserInteractions fetches every decision made by a user
func (s *InteractionService) GetUserInteractions(ctx context.Context, userID string) ([]models.Interaction, error) {
	items, err := s.Dynamo.QueryItems(ctx, models.InteractionsTable,
		"PK = :user",
		map[string]types.AttributeValue{
			":user": &types.AttributeValueMemberS{Value: models.InteractionPK(userID)},
		}, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch interactions: %w", err)
	}
	var interactions []models.Interaction
	if err := attributevalue.UnmarshalListOfMaps(items, &interactions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal interactions: %w", err)
	}
	return interactions, nil
}

// LikePet records a like on petID and resolves reciprocity: if the listing's
// owner has liked any of the liker's listings, both sides get a conversation
// provisioned. Repeating a like is an idempotent read of the same outcome.
func (s *InteractionService) LikePet(ctx context.Context, userID, petID string) (*LikeResult, error) {
	pet, err := s.getPet(ctx, petID)
	if err != nil {
		return nil, err
	}
	if pet.OwnerID == userID {
		return nil, fmt.Errorf("%w: cannot like your own listing", ErrForbidden)
	}

	existing, err := s.GetInteraction(ctx, userID, petID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		interaction := models.Interaction{
			PK:         models.InteractionPK(userID),
			SK:         models.InteractionSK(petID),
			FromUser:   userID,
			ToPet:      petID,
			ToPetOwner: pet.OwnerID,
			Type:       models.InteractionTypeLike,
			CreatedAt:  time.Now().UTC().Format(time.RFC3339Nano),
		}
		err := s.Dynamo.PutItemIfAbsent(ctx, models.InteractionsTable, interaction, "PK")
		if err != nil && !errors.Is(err, ErrConflict) {
			return nil, fmt.Errorf("failed to record like: %w", err)
		}
	}

	result := &LikeResult{Type: models.InteractionTypeLike, AlreadyDecided: existing != nil}

	reciprocal, err := s.findReciprocalLike(ctx, userID, pet.OwnerID)
	if err != nil {
		return nil, err
	}
	if reciprocal == nil {
		return result, nil
	}

	// Mutual interest: provision a conversation for each side's listing.
	// Upserts by deterministic key, so repeated detection collapses.
	if err := upsertConversation(ctx, s.Dynamo, userID, pet.OwnerID, petID, models.PreviewMatched); err != nil {
		log.Printf("Failed to provision conversation for pet %s: %v", petID, err)
		return nil, err
	}
	if reciprocal.ToPet != petID {
		if err := upsertConversation(ctx, s.Dynamo, userID, pet.OwnerID, reciprocal.ToPet, models.PreviewMatched); err != nil {
			log.Printf("Failed to provision reciprocal conversation for pet %s: %v", reciprocal.ToPet, err)
			return nil, err
		}
	}

	owner, err := getPublicProfile(ctx, s.Dynamo, pet.OwnerID)
	if err != nil {
		return nil, err
	}
	result.Match = true
	result.MatchedWith = &owner
	result.ConversationID = models.ConversationKey(userID, pet.OwnerID, petID)
	return result, nil
}

// PassPet records a pass on petID. A second decision on the same listing is
// rejected as a conflict.
func (s *InteractionService) PassPet(ctx context.Context, userID, petID string) (*LikeResult, error) {
	pet, err := s.getPet(ctx, petID)
	if err != nil {
		return nil, err
	}
	if pet.OwnerID == userID {
		return nil, fmt.Errorf("%w: cannot pass your own listing", ErrForbidden)
	}

	existing, err := s.GetInteraction(ctx, userID, petID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: already decided on listing '%s'", ErrConflict, petID)
	}

	interaction := models.Interaction{
		PK:         models.InteractionPK(userID),
		SK:         models.InteractionSK(petID),
		FromUser:   userID,
		ToPet:      petID,
		ToPetOwner: pet.OwnerID,
		Type:       models.InteractionTypePass,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339Nano),
	}
	if err := s.Dynamo.PutItemIfAbsent(ctx, models.InteractionsTable, interaction, "PK"); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, fmt.Errorf("%w: already decided on listing '%s'", ErrConflict, petID)
		}
		return nil, fmt.Errorf("failed to record pass: %w", err)
	}
	return &LikeResult{Type: models.InteractionTypePass, Match: false}, nil
}

// GetAdmirers lists the public profiles of users who liked any of userID's
// listings, via the reverse-lookup index.
func (s *InteractionService) GetAdmirers(ctx context.Context, userID string) ([]models.PublicProfile, error) {
	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.InteractionsTable, models.InteractionOwnerIndex,
		"toPetOwner = :owner",
		map[string]types.AttributeValue{
			":owner": &types.AttributeValueMemberS{Value: userID},
			":like":  &types.AttributeValueMemberS{Value: models.InteractionTypeLike},
		},
		map[string]string{"#type": "type"},
		"#type = :like")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch admirers: %w", err)
	}

	var interactions []models.Interaction
	if err := attributevalue.UnmarshalListOfMaps(items, &interactions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal interactions: %w", err)
	}

	seen := map[string]struct{}{}
	profiles := []models.PublicProfile{}
	for _, interaction := range interactions {
		if _, dup := seen[interaction.FromUser]; dup {
			continue
		}
		seen[interaction.FromUser] = struct{}{}
		profile, err := getPublicProfile(ctx, s.Dynamo, interaction.FromUser)
		if err != nil {
			continue
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

// HasLiked reports whether userID liked the given listing
func (s *InteractionService) HasLiked(ctx context.Context, userID, petID string) (bool, error) {
	interaction, err := s.GetInteraction(ctx, userID, petID)
	if err != nil {
		return false, err
	}
	return interaction != nil && interaction.Type == models.InteractionTypeLike, nil
}

// HasLikedOwnedBy reports whether userID liked any listing owned by ownerID
func (s *InteractionService) HasLikedOwnedBy(ctx context.Context, userID, ownerID string) (bool, error) {
	reciprocal, err := s.findReciprocalLike(ctx, ownerID, userID)
	if err != nil {
		return false, err
	}
	return reciprocal != nil, nil
}

// findReciprocalLike looks for a like by ownerID on any listing owned by
// likerID, using the denormalized toPetOwner field to avoid a join.
func (s *InteractionService) findReciprocalLike(ctx context.Context, likerID, ownerID string) (*models.Interaction, error) {
	items, err := s.Dynamo.QueryItemsWithFilters(ctx, models.InteractionsTable,
		"PK = :user",
		map[string]types.AttributeValue{
			":user":  &types.AttributeValueMemberS{Value: models.InteractionPK(ownerID)},
			":owner": &types.AttributeValueMemberS{Value: likerID},
			":like":  &types.AttributeValueMemberS{Value: models.InteractionTypeLike},
		},
		map[string]string{"#type": "type"},
		"toPetOwner = :owner AND #type = :like")
	if err != nil {
		return nil, fmt.Errorf("failed to check reciprocal like: %w", err)
	}
	if len(items) == 0 {
		return nil, nil
	}
	var interaction models.Interaction
	if err := attributevalue.UnmarshalMap(items[0], &interaction); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reciprocal like: %w", err)
	}
	return &interaction, nil
}

func (s *InteractionService) getPet(ctx context.Context, petID string) (*models.Pet, error) {
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
	if !pet.IsActive {
		return nil, fmt.Errorf("%w: pet '%s' is no longer listed", ErrNotFound, petID)
	}
	return &pet, nil
}
