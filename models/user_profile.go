package models

// UserProfile defines the structure for user accounts
type UserProfile struct {
	UserID       string `dynamodbav:"userId" json:"userId"`
	Name         string `dynamodbav:"name" json:"name"`
	Email        string `dynamodbav:"email" json:"email"`
	PasswordHash string `dynamodbav:"passwordHash" json:"-"`
	Role         string `dynamodbav:"role" json:"role"` // user, admin, seller
	City         string `dynamodbav:"city,omitempty" json:"city,omitempty"`
	About        string `dynamodbav:"about,omitempty" json:"about,omitempty"`
	AvatarURL    string `dynamodbav:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
	CreatedAt    string `dynamodbav:"createdAt" json:"createdAt"`
}

// PublicProfile is the subset of profile fields attached to listings and
// conversations.
type PublicProfile struct {
	UserID    string `json:"userId"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// Public returns the fields safe to show to other users.
func (u *UserProfile) Public() PublicProfile {
	return PublicProfile{UserID: u.UserID, Name: u.Name, AvatarURL: u.AvatarURL}
}

// UserProfilesTable is the DynamoDB table name for user accounts
const UserProfilesTable = "UserProfiles"

// UserEmailIndex is the GSI for login by email (PK: email)
const UserEmailIndex = "email-index"
