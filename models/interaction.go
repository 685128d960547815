package models

// Interaction records a single swipe decision. The composite key makes the
// (fromUser, toPet) pair unique: the first decision is final.
type Interaction struct {
	PK         string `dynamodbav:"PK" json:"PK"`                 // "USER#<fromUser>"
	SK         string `dynamodbav:"SK" json:"SK"`                 // "PET#<toPet>"
	FromUser   string `dynamodbav:"fromUser" json:"fromUser"`     // who swiped
	ToPet      string `dynamodbav:"toPet" json:"toPet"`           // target listing
	ToPetOwner string `dynamodbav:"toPetOwner" json:"toPetOwner"` // denormalized for reverse lookups
	Type       string `dynamodbav:"type" json:"type"`             // like, pass
	CreatedAt  string `dynamodbav:"createdAt" json:"createdAt"`
}

// InteractionsTable is the DynamoDB table name for swipe decisions
const InteractionsTable = "Interactions"

// InteractionOwnerIndex is the GSI for querying interactions aimed at a
// user's listings (PK: toPetOwner)
const InteractionOwnerIndex = "toPetOwner-index"

// InteractionPK builds the partition key for a user's interactions.
func InteractionPK(userID string) string { return "USER#" + userID }

// InteractionSK builds the sort key for a decided listing.
func InteractionSK(petID string) string { return "PET#" + petID }
