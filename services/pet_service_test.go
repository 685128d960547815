package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"pawmatch_server/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/go-cmp/cmp"
)

func petFixture(petID, ownerID, createdAt string) models.Pet {
	return models.Pet{
		PetID:     petID,
		OwnerID:   ownerID,
		Name:      "Pet " + petID,
		Species:   models.SpeciesDog,
		Gender:    models.GenderMale,
		IsActive:  true,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestCreatePetValidation(t *testing.T) {
	tests := []struct {
		name  string
		input PetInput
	}{
		{name: "missing name", input: PetInput{Species: models.SpeciesDog}},
		{name: "blank name", input: PetInput{Name: "   ", Species: models.SpeciesDog}},
		{name: "bad species", input: PetInput{Name: "Karabaş", Species: "dragon"}},
		{name: "bad gender", input: PetInput{Name: "Karabaş", Species: models.SpeciesDog, Gender: "robot"}},
		{name: "negative age", input: PetInput{Name: "Karabaş", Species: models.SpeciesDog, AgeMonths: -1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := &fakeDynamoClient{}
			svc := &PetService{Dynamo: &DynamoService{Client: client}}

			_, err := svc.CreatePet(context.Background(), "user-1", tc.input)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if len(client.PutItemInputs) != 0 {
				t.Fatalf("expected no writes, got %d", len(client.PutItemInputs))
			}
		})
	}
}

func TestCreatePetDefaultsGenderUnknown(t *testing.T) {
	client := &fakeDynamoClient{}
	svc := &PetService{Dynamo: &DynamoService{Client: client}}

	pet, err := svc.CreatePet(context.Background(), "user-1", PetInput{Name: "Boncuk", Species: models.SpeciesCat})
	if err != nil {
		t.Fatalf("CreatePet: %v", err)
	}
	if pet.Gender != models.GenderUnknown {
		t.Errorf("gender = %q, want %q", pet.Gender, models.GenderUnknown)
	}
	if !pet.IsActive {
		t.Error("new listings must start active")
	}
	if pet.OwnerID != "user-1" {
		t.Errorf("ownerId = %q, want user-1", pet.OwnerID)
	}
	if len(client.PutItemInputs) != 1 {
		t.Fatalf("expected 1 write, got %d", len(client.PutItemInputs))
	}
}

func TestUpdatePetAuthorization(t *testing.T) {
	stored := petFixture("pet-1", "owner-1", "2026-01-01T00:00:00Z")
	input := PetInput{Name: "Karabaş", Species: models.SpeciesDog, Gender: models.GenderMale}

	tests := []struct {
		name      string
		actorID   string
		actorRole string
		wantErr   error
	}{
		{name: "owner may update", actorID: "owner-1", actorRole: models.RoleUser},
		{name: "admin may update", actorID: "admin-1", actorRole: models.RoleAdmin},
		{name: "stranger is rejected", actorID: "user-2", actorRole: models.RoleUser, wantErr: ErrForbidden},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := &fakeDynamoClient{
				GetItemFn: func(_ context.Context, _ *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
					return &dynamodb.GetItemOutput{Item: mustMarshalMap(t, stored)}, nil
				},
			}
			svc := &PetService{Dynamo: &DynamoService{Client: client}}

			_, err := svc.UpdatePet(context.Background(), tc.actorID, tc.actorRole, "pet-1", input, nil)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				if len(client.PutItemInputs) != 0 {
					t.Fatal("rejected update must not write")
				}
				return
			}
			if err != nil {
				t.Fatalf("UpdatePet: %v", err)
			}
			if len(client.PutItemInputs) != 1 {
				t.Fatalf("expected 1 write, got %d", len(client.PutItemInputs))
			}
		})
	}
}

func TestUpdatePetSoftDeactivate(t *testing.T) {
	stored := petFixture("pet-1", "owner-1", "2026-01-01T00:00:00Z")
	client := &fakeDynamoClient{
		GetItemFn: func(_ context.Context, _ *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
			return &dynamodb.GetItemOutput{Item: mustMarshalMap(t, stored)}, nil
		},
	}
	svc := &PetService{Dynamo: &DynamoService{Client: client}}

	inactive := false
	input := PetInput{Name: stored.Name, Species: stored.Species, Gender: stored.Gender}
	pet, err := svc.UpdatePet(context.Background(), "owner-1", models.RoleUser, "pet-1", input, &inactive)
	if err != nil {
		t.Fatalf("UpdatePet: %v", err)
	}
	if pet.IsActive {
		t.Error("listing should be deactivated")
	}
}

func TestGetPetNotFound(t *testing.T) {
	client := &fakeDynamoClient{}
	svc := &PetService{Dynamo: &DynamoService{Client: client}}

	_, err := svc.GetPet(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetFeedExcludesDecidedListings(t *testing.T) {
	liked := petFixture("pet-liked", "owner-2", "2026-01-03T00:00:00Z")
	passed := petFixture("pet-passed", "owner-3", "2026-01-02T00:00:00Z")
	fresh := petFixture("pet-fresh", "owner-4", "2026-01-01T00:00:00Z")

	decisions := []models.Interaction{
		{PK: models.InteractionPK("user-1"), SK: models.InteractionSK("pet-liked"), FromUser: "user-1", ToPet: "pet-liked", Type: models.InteractionTypeLike},
		{PK: models.InteractionPK("user-1"), SK: models.InteractionSK("pet-passed"), FromUser: "user-1", ToPet: "pet-passed", Type: models.InteractionTypePass},
	}

	client := &fakeDynamoClient{
		QueryFn: func(_ context.Context, _ *dynamodb.QueryInput) (*dynamodb.QueryOutput, error) {
			return &dynamodb.QueryOutput{Items: mustMarshalList(t, decisions[0], decisions[1])}, nil
		},
		ScanFn: func(_ context.Context, _ *dynamodb.ScanInput) (*dynamodb.ScanOutput, error) {
			return &dynamodb.ScanOutput{Items: mustMarshalList(t, liked, passed, fresh)}, nil
		},
	}
	svc := &PetService{Dynamo: &DynamoService{Client: client}}

	feed, err := svc.GetFeed(context.Background(), "user-1", 1, 10)
	if err != nil {
		t.Fatalf("GetFeed: %v", err)
	}
	if len(feed.Items) != 1 || feed.Items[0].PetID != "pet-fresh" {
		t.Fatalf("feed = %+v, want only pet-fresh", feed.Items)
	}

	// Own and inactive listings are excluded at the scan layer.
	if len(client.ScanInputs) != 1 {
		t.Fatalf("expected 1 scan, got %d", len(client.ScanInputs))
	}
	filter := *client.ScanInputs[0].FilterExpression
	if !strings.Contains(filter, "#ownerId <> :ownerId") || !strings.Contains(filter, "#isActive = :isActive") {
		t.Errorf("scan filter = %q, want ownerId and isActive clauses", filter)
	}
}

func TestGetFeedOrdersNewestFirst(t *testing.T) {
	older := petFixture("pet-old", "owner-2", "2026-01-01T00:00:00Z")
	newer := petFixture("pet-new", "owner-3", "2026-02-01T00:00:00Z")

	client := &fakeDynamoClient{
		ScanFn: func(_ context.Context, _ *dynamodb.ScanInput) (*dynamodb.ScanOutput, error) {
			return &dynamodb.ScanOutput{Items: mustMarshalList(t, older, newer)}, nil
		},
	}
	svc := &PetService{Dynamo: &DynamoService{Client: client}}

	feed, err := svc.GetFeed(context.Background(), "user-1", 1, 10)
	if err != nil {
		t.Fatalf("GetFeed: %v", err)
	}
	var got []string
	for _, item := range feed.Items {
		got = append(got, item.PetID)
	}
	if diff := cmp.Diff([]string{"pet-new", "pet-old"}, got); diff != "" {
		t.Errorf("feed order mismatch (-want +got):\n%s", diff)
	}
}

func TestPaginatePets(t *testing.T) {
	pets := []models.Pet{
		{PetID: "a"}, {PetID: "b"}, {PetID: "c"}, {PetID: "d"}, {PetID: "e"},
	}

	tests := []struct {
		name        string
		page, limit int
		wantIDs     []string
		wantHasMore bool
	}{
		{name: "first page", page: 1, limit: 2, wantIDs: []string{"a", "b"}, wantHasMore: true},
		{name: "middle page", page: 2, limit: 2, wantIDs: []string{"c", "d"}, wantHasMore: true},
		{name: "last partial page", page: 3, limit: 2, wantIDs: []string{"e"}, wantHasMore: false},
		{name: "past the end", page: 4, limit: 2, wantIDs: []string{}, wantHasMore: false},
		{name: "defaults applied", page: 0, limit: 0, wantIDs: []string{"a", "b", "c", "d", "e"}, wantHasMore: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			items, total, hasMore := paginatePets(pets, tc.page, tc.limit)
			if total != len(pets) {
				t.Errorf("total = %d, want %d", total, len(pets))
			}
			if hasMore != tc.wantHasMore {
				t.Errorf("hasMore = %v, want %v", hasMore, tc.wantHasMore)
			}
			got := []string{}
			for _, pet := range items {
				got = append(got, pet.PetID)
			}
			if diff := cmp.Diff(tc.wantIDs, got); diff != "" {
				t.Errorf("page mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
