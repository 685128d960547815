package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"pawmatch_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer signs an auth token for a user. The middleware package
// provides the JWT implementation.
type TokenIssuer interface {
	IssueToken(userID, role string) (string, error)
}

// UserProfileService owns user accounts and credentials
type UserProfileService struct {
	Dynamo *DynamoService
	Tokens TokenIssuer
}

// AuthResult is returned from register/login
type AuthResult struct {
	OK    bool               `json:"ok"`
	Token string             `json:"token"`
	User  models.UserProfile `json:"user"`
}

// Register creates a new account and returns a signed token
func (s *UserProfileService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email are required", ErrValidation)
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	}

	if existing, err := s.findByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("%w: email already registered", ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.UserProfile{
		UserID:       uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339Nano),
	}
	if err := s.Dynamo.PutItemIfAbsent(ctx, models.UserProfilesTable, user, "userId"); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return s.authResult(user)
}

// Login verifies credentials and returns a signed token
func (s *UserProfileService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: invalid email or password", ErrForbidden)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, fmt.Errorf("%w: invalid email or password", ErrForbidden)
		}
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	return s.authResult(*user)
}

// GetUser retrieves an account by ID
func (s *UserProfileService) GetUser(ctx context.Context, userID string) (*models.UserProfile, error) {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
	item, err := s.Dynamo.GetItem(ctx, models.UserProfilesTable, key)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: user '%s'", ErrNotFound, userID)
	}
	var user models.UserProfile
	if err := attributevalue.UnmarshalMap(item, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return &user, nil
}

// UpdateProfile applies the caller's own profile edits
func (s *UserProfileService) UpdateProfile(ctx context.Context, userID, name, city, about, avatarURL string) (*models.UserProfile, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if name = strings.TrimSpace(name); name != "" {
		user.Name = name
	}
	user.City = city
	user.About = about
	if avatarURL != "" {
		user.AvatarURL = avatarURL
	}
	if err := s.Dynamo.PutItem(ctx, models.UserProfilesTable, *user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

// ListOtherUsers lists every account except the caller's, newest first
func (s *UserProfileService) ListOtherUsers(ctx context.Context, userID string) ([]models.UserProfile, error) {
	var users []models.UserProfile
	err := s.Dynamo.ScanWithFilter(ctx, models.UserProfilesTable, nil, nil,
		map[string]string{"userId": userID}, &users)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].CreatedAt > users[j].CreatedAt
	})
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

// PromoteToSeller flips the account role to seller and returns a fresh token
func (s *UserProfileService) PromoteToSeller(ctx context.Context, userID string) (*AuthResult, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleSeller {
		user.Role = models.RoleSeller
		if err := s.Dynamo.PutItem(ctx, models.UserProfilesTable, *user); err != nil {
			return nil, fmt.Errorf("failed to update role: %w", err)
		}
	}
	return s.authResult(*user)
}

func (s *UserProfileService) authResult(user models.UserProfile) (*AuthResult, error) {
	token, err := s.Tokens.IssueToken(user.UserID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	user.PasswordHash = ""
	return &AuthResult{OK: true, Token: token, User: user}, nil
}

func (s *UserProfileService) findByEmail(ctx context.Context, email string) (*models.UserProfile, error) {
	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.UserProfilesTable, models.UserEmailIndex,
		"email = :email",
		map[string]types.AttributeValue{
			":email": &types.AttributeValueMemberS{Value: email},
		}, nil, "")
	if err != nil {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}
	if len(items) == 0 {
		return nil, nil
	}
	var user models.UserProfile
	if err := attributevalue.UnmarshalMap(items[0], &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return &user, nil
}

// getPublicProfile fetches the public fields of a user. Missing users come
// back as a profile carrying only the ID, so enrichment never hard-fails on
// orphaned references.
func getPublicProfile(ctx context.Context, dynamo *DynamoService, userID string) (models.PublicProfile, error) {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
	item, err := dynamo.GetItem(ctx, models.UserProfilesTable, key)
	if err != nil {
		return models.PublicProfile{}, err
	}
	if item == nil {
		return models.PublicProfile{UserID: userID}, nil
	}
	var user models.UserProfile
	if err := attributevalue.UnmarshalMap(item, &user); err != nil {
		return models.PublicProfile{}, fmt.Errorf("failed to unmarshal user profile: %w", err)
	}
	return user.Public(), nil
}
