package services

import (
	"context"
	"errors"
	"testing"

	"pawmatch_server/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// routeGetItem dispatches fake GetItem calls on table name
func routeGetItem(t *testing.T, itemsByTable map[string]interface{}) func(context.Context, *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
	t.Helper()
	return func(_ context.Context, params *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
		item, ok := itemsByTable[*params.TableName]
		if !ok || item == nil {
			return &dynamodb.GetItemOutput{}, nil
		}
		return &dynamodb.GetItemOutput{Item: mustMarshalMap(t, item)}, nil
	}
}

func TestLikePetRecordsDecisionWithoutMatch(t *testing.T) {
	pet := petFixture("pet-1", "owner-1", "2026-01-01T00:00:00Z")
	client := &fakeDynamoClient{
		GetItemFn: routeGetItem(t, map[string]interface{}{
			models.PetsTable: pet,
		}),
	}
	svc := &InteractionService{Dynamo: &DynamoService{Client: client}}

	result, err := svc.LikePet(context.Background(), "user-1", "pet-1")
	if err != nil {
		t.Fatalf("LikePet: %v", err)
	}
	if result.Match {
		t.Error("no reciprocal like, result must not be a match")
	}
	if result.AlreadyDecided {
		t.Error("first decision must not report alreadyDecided")
	}

	if len(client.PutItemInputs) != 1 {
		t.Fatalf("expected 1 write, got %d", len(client.PutItemInputs))
	}
	put := client.PutItemInputs[0]
	if put.ConditionExpression == nil || *put.ConditionExpression != "attribute_not_exists(PK)" {
		t.Errorf("like must be a conditional put, got %v", put.ConditionExpression)
	}
	// No conversation is provisioned without reciprocity.
	if len(client.UpdateItemInputs) != 0 {
		t.Fatalf("expected no conversation upserts, got %d", len(client.UpdateItemInputs))
	}
}

func TestLikePetMutualAcrossDifferentListings(t *testing.T) {
	// user-1 likes owner-1's pet-theirs while owner-1 already liked user-1's
	// pet-mine: both sides get a conversation, one per listing.
	pet := petFixture("pet-theirs", "owner-1", "2026-01-01T00:00:00Z")
	reciprocal := models.Interaction{
		PK:         models.InteractionPK("owner-1"),
		SK:         models.InteractionSK("pet-mine"),
		FromUser:   "owner-1",
		ToPet:      "pet-mine",
		ToPetOwner: "user-1",
		Type:       models.InteractionTypeLike,
	}
	owner := models.UserProfile{UserID: "owner-1", Name: "Ayşe"}

	client := &fakeDynamoClient{
		GetItemFn: routeGetItem(t, map[string]interface{}{
			models.PetsTable:         pet,
			models.UserProfilesTable: owner,
		}),
		QueryFn: func(_ context.Context, params *dynamodb.QueryInput) (*dynamodb.QueryOutput, error) {
			if params.FilterExpression != nil {
				return &dynamodb.QueryOutput{Items: mustMarshalList(t, reciprocal)}, nil
			}
			return &dynamodb.QueryOutput{}, nil
		},
	}
	svc := &InteractionService{Dynamo: &DynamoService{Client: client}}

	result, err := svc.LikePet(context.Background(), "user-1", "pet-theirs")
	if err != nil {
		t.Fatalf("LikePet: %v", err)
	}
	if !result.Match {
		t.Fatal("reciprocal like must produce a match")
	}
	if result.MatchedWith == nil || result.MatchedWith.UserID != "owner-1" {
		t.Errorf("matchedWith = %+v, want owner-1", result.MatchedWith)
	}
	wantConversation := models.ConversationKey("user-1", "owner-1", "pet-theirs")
	if result.ConversationID != wantConversation {
		t.Errorf("conversationId = %q, want %q", result.ConversationID, wantConversation)
	}

	// One upsert per listing involved in the mutual interest.
	if len(client.UpdateItemInputs) != 2 {
		t.Fatalf("expected 2 conversation upserts, got %d", len(client.UpdateItemInputs))
	}
	keys := map[string]bool{}
	for _, update := range client.UpdateItemInputs {
		id := update.Key["conversationId"].(*types.AttributeValueMemberS).Value
		keys[id] = true
	}
	if !keys[models.ConversationKey("user-1", "owner-1", "pet-theirs")] ||
		!keys[models.ConversationKey("user-1", "owner-1", "pet-mine")] {
		t.Errorf("unexpected conversation keys: %v", keys)
	}
}

func TestLikePetRepeatIsIdempotent(t *testing.T) {
	pet := petFixture("pet-1", "owner-1", "2026-01-01T00:00:00Z")
	existing := models.Interaction{
		PK:         models.InteractionPK("user-1"),
		SK:         models.InteractionSK("pet-1"),
		FromUser:   "user-1",
		ToPet:      "pet-1",
		ToPetOwner: "owner-1",
		Type:       models.InteractionTypeLike,
	}
	client := &fakeDynamoClient{
		GetItemFn: routeGetItem(t, map[string]interface{}{
			models.PetsTable:         pet,
			models.InteractionsTable: existing,
		}),
	}
	svc := &InteractionService{Dynamo: &DynamoService{Client: client}}

	result, err := svc.LikePet(context.Background(), "user-1", "pet-1")
	if err != nil {
		t.Fatalf("LikePet: %v", err)
	}
	if !result.AlreadyDecided {
		t.Error("repeat like must report alreadyDecided")
	}
	if len(client.PutItemInputs) != 0 {
		t.Fatalf("repeat like must not rewrite the decision, got %d writes", len(client.PutItemInputs))
	}
}

func TestLikeOwnListingForbidden(t *testing.T) {
	pet := petFixture("pet-1", "user-1", "2026-01-01T00:00:00Z")
	client := &fakeDynamoClient{
		GetItemFn: routeGetItem(t, map[string]interface{}{models.PetsTable: pet}),
	}
	svc := &InteractionService{Dynamo: &DynamoService{Client: client}}

	if _, err := svc.LikePet(context.Background(), "user-1", "pet-1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestLikeInactiveListingNotFound(t *testing.T) {
	pet := petFixture("pet-1", "owner-1", "2026-01-01T00:00:00Z")
	pet.IsActive = false
	client := &fakeDynamoClient{
		GetItemFn: routeGetItem(t, map[string]interface{}{models.PetsTable: pet}),
	}
	svc := &InteractionService{Dynamo: &DynamoService{Client: client}}

	if _, err := svc.LikePet(context.Background(), "user-1", "pet-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPassPetDuplicateConflict(t *testing.T) {
	pet := petFixture("pet-1", "owner-1", "2026-01-01T00:00:00Z")
	existing := models.Interaction{
		PK:       models.InteractionPK("user-1"),
		SK:       models.InteractionSK("pet-1"),
		FromUser: "user-1",
		ToPet:    "pet-1",
		Type:     models.InteractionTypePass,
	}
	client := &fakeDynamoClient{
		GetItemFn: routeGetItem(t, map[string]interface{}{
			models.PetsTable:         pet,
			models.InteractionsTable: existing,
		}),
	}
	svc := &InteractionService{Dynamo: &DynamoService{Client: client}}

	if _, err := svc.PassPet(context.Background(), "user-1", "pet-1"); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if len(client.PutItemInputs) != 0 {
		t.Fatal("duplicate pass must not write")
	}
}

func TestPassPetLostRaceConflict(t *testing.T) {
	pet := petFixture("pet-1", "owner-1", "2026-01-01T00:00:00Z")
	client := &fakeDynamoClient{
		GetItemFn: routeGetItem(t, map[string]interface{}{models.PetsTable: pet}),
		PutItemFn: func(_ context.Context, _ *dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error) {
			return nil, conditionFailed()
		},
	}
	svc := &InteractionService{Dynamo: &DynamoService{Client: client}}

	if _, err := svc.PassPet(context.Background(), "user-1", "pet-1"); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}
