package models

import "sort"

// Conversation is a messaging thread between exactly two users, optionally
// scoped to a listing. The conversation ID is derived from the participant
// pair and the related pet, so at most one document can exist per key.
type Conversation struct {
	ConversationID string   `dynamodbav:"conversationId" json:"conversationId"`
	Participants   []string `dynamodbav:"participants" json:"participants"`
	RelatedPet     string   `dynamodbav:"relatedPet,omitempty" json:"relatedPet,omitempty"` // empty = community/DM
	LastMessage    string   `dynamodbav:"lastMessage" json:"lastMessage"`
	DeletedFor     []string `dynamodbav:"deletedFor,omitempty" json:"deletedFor,omitempty"`
	CreatedAt      string   `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt      string   `dynamodbav:"updatedAt" json:"updatedAt"`
}

// HasParticipant reports whether userID is one of the two participants.
func (c *Conversation) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// HiddenFor reports whether userID has soft-deleted the conversation.
func (c *Conversation) HiddenFor(userID string) bool {
	for _, p := range c.DeletedFor {
		if p == userID {
			return true
		}
	}
	return false
}

// ConversationKey derives the storage key for a participant pair plus an
// optional related pet. The pair is sorted so both sides derive the same key.
func ConversationKey(userA, userB, relatedPetID string) string {
	pair := []string{userA, userB}
	sort.Strings(pair)
	if relatedPetID == "" {
		relatedPetID = "community"
	}
	return "CONVO#" + pair[0] + "#" + pair[1] + "#PET#" + relatedPetID
}

// ConversationsTable is the DynamoDB table name for conversations
const ConversationsTable = "Conversations"
