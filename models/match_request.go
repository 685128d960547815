package models

// MatchRequest is an explicit request to connect over a listing, distinct
// from swipe interactions. The composite key makes (requester, targetPet)
// unique.
type MatchRequest struct {
	PK           string `dynamodbav:"PK" json:"PK"` // "USER#<requester>"
	SK           string `dynamodbav:"SK" json:"SK"` // "PET#<targetPet>"
	Requester    string `dynamodbav:"requester" json:"requester"`
	RequesterPet string `dynamodbav:"requesterPet,omitempty" json:"requesterPet,omitempty"`
	TargetPet    string `dynamodbav:"targetPet" json:"targetPet"`
	TargetOwner  string `dynamodbav:"targetOwner" json:"targetOwner"` // denormalized for reverse lookups
	Status       string `dynamodbav:"status" json:"status"`           // pending, matched, declined
	CreatedAt    string `dynamodbav:"createdAt" json:"createdAt"`
	LastUpdated  string `dynamodbav:"lastUpdated" json:"lastUpdated"`
}

// MatchRequestsTable is the DynamoDB table name for match requests
const MatchRequestsTable = "MatchRequests"

// MatchRequestTargetOwnerIndex is the GSI for incoming requests
// (PK: targetOwner)
const MatchRequestTargetOwnerIndex = "targetOwner-index"

// MatchRequestPK builds the partition key for a requester's requests.
func MatchRequestPK(userID string) string { return "USER#" + userID }

// MatchRequestSK builds the sort key for a targeted listing.
func MatchRequestSK(petID string) string { return "PET#" + petID }
