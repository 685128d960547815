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

// Broadcaster publishes an event to every realtime subscriber of a room.
// Delivery is best-effort and decoupled from persistence; the socket server
// implements it, tests fake it.
type Broadcaster interface {
	Publish(room, event string, payload interface{})
}

// ChatService owns conversations and messages
type ChatService struct {
	Dynamo       *DynamoService
	Interactions *InteractionService
	Broadcast    Broadcaster
}

// RelatedPetPreview is the listing summary attached to a pet-scoped
// conversation
type RelatedPetPreview struct {
	PetID string `json:"petId"`
	Name  string `json:"name"`
	Photo string `json:"photo,omitempty"`
}

// ConversationDetails is a conversation enriched for the client
type ConversationDetails struct {
	models.Conversation
	ParticipantProfiles []models.PublicProfile `json:"participantProfiles"`
	RelatedPetInfo      *RelatedPetPreview     `json:"relatedPetInfo,omitempty"`
}

// MessageWithSender is a stored message plus its sender's public profile
type MessageWithSender struct {
	models.Message
	Sender models.PublicProfile `json:"sender"`
}

// ReceiveMessageEvent is the realtime event name clients listen on
const ReceiveMessageEvent = "receiveMessage"

// GetMyConversations lists the caller's visible conversations, most recently
// updated first. Conversations the caller soft-deleted are excluded.
func (s *ChatService) GetMyConversations(ctx context.Context, userID string) ([]ConversationDetails, error) {
	var conversations []models.Conversation
	err := s.Dynamo.ScanWithFilter(ctx, models.ConversationsTable,
		func(item map[string]types.AttributeValue) bool {
			var conversation models.Conversation
			if err := attributevalue.UnmarshalMap(item, &conversation); err != nil {
				return false
			}
			return conversation.HasParticipant(userID) && !conversation.HiddenFor(userID)
		},
		nil, nil, &conversations)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}

	sort.SliceStable(conversations, func(i, j int) bool {
		return conversations[i].UpdatedAt > conversations[j].UpdatedAt
	})

	details := make([]ConversationDetails, 0, len(conversations))
	for _, conversation := range conversations {
		enriched, err := s.enrich(ctx, conversation)
		if err != nil {
			return nil, err
		}
		details = append(details, enriched)
	}
	return details, nil
}

// GetMessages returns a conversation's messages oldest first. The caller
// must be a participant and must not have the conversation hidden.
func (s *ChatService) GetMessages(ctx context.Context, userID, conversationID string) ([]MessageWithSender, error) {
	conversation, err := s.getConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.HasParticipant(userID) || conversation.HiddenFor(userID) {
		return nil, fmt.Errorf("%w: conversation '%s'", ErrNotFound, conversationID)
	}

	items, err := s.Dynamo.QueryItems(ctx, models.MessagesTable,
		"conversationId = :conversationId",
		map[string]types.AttributeValue{
			":conversationId": &types.AttributeValueMemberS{Value: conversationID},
		}, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	var messages []models.Message
	if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal messages: %w", err)
	}
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt < messages[j].CreatedAt
	})

	profiles := map[string]models.PublicProfile{}
	enriched := make([]MessageWithSender, 0, len(messages))
	for _, message := range messages {
		sender, cached := profiles[message.SenderID]
		if !cached {
			sender, err = getPublicProfile(ctx, s.Dynamo, message.SenderID)
			if err != nil {
				return nil, err
			}
			profiles[message.SenderID] = sender
		}
		enriched = append(enriched, MessageWithSender{Message: message, Sender: sender})
	}
	return enriched, nil
}

// SendMessage persists an immutable message, un-hides the conversation for
// everyone, updates the preview, and publishes to the conversation's room.
// Only participants may send; the text must be non-empty after trimming.
func (s *ChatService) SendMessage(ctx context.Context, senderID, conversationID, text string) (*MessageWithSender, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: message text cannot be empty", ErrValidation)
	}

	conversation, err := s.getConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.HasParticipant(senderID) {
		return nil, fmt.Errorf("%w: not a participant of conversation '%s'", ErrForbidden, conversationID)
	}

	// A new message makes the conversation visible again for everyone who
	// had hidden it.
	conversation.DeletedFor = nil
	conversation.LastMessage = text
	conversation.UpdatedAt = time.Now().UTC().Format(time.RFC3339Nano)

	message := models.Message{
		ConversationID: conversationID,
		MessageID:      uuid.NewString(),
		SenderID:       senderID,
		Text:           text,
		CreatedAt:      conversation.UpdatedAt,
	}
	if err := s.Dynamo.PutItem(ctx, models.MessagesTable, message); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}
	if err := s.Dynamo.PutItem(ctx, models.ConversationsTable, *conversation); err != nil {
		return nil, fmt.Errorf("failed to update conversation: %w", err)
	}

	sender, err := getPublicProfile(ctx, s.Dynamo, senderID)
	if err != nil {
		return nil, err
	}
	result := &MessageWithSender{Message: message, Sender: sender}

	// Fire-and-forget fan-out; delivery does not affect persistence.
	if s.Broadcast != nil {
		s.Broadcast.Publish(conversationID, ReceiveMessageEvent, result)
	}
	return result, nil
}

// CreateOrGetConversation returns the conversation for (caller, participant,
// relatedPet), creating it if needed. Creating a pet-scoped conversation
// requires mutual prior interest; an existing conversation bypasses that
// check. Either way the conversation is un-hidden for both parties.
func (s *ChatService) CreateOrGetConversation(ctx context.Context, userID, participantID, relatedPetID string) (*ConversationDetails, error) {
	if participantID == "" {
		return nil, fmt.Errorf("%w: participantId is required", ErrValidation)
	}
	if participantID == userID {
		return nil, fmt.Errorf("%w: cannot start a conversation with yourself", ErrForbidden)
	}

	conversationID := models.ConversationKey(userID, participantID, relatedPetID)
	conversation, err := s.getConversationIfExists(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	if conversation == nil {
		if relatedPetID != "" {
			iLiked, err := s.Interactions.HasLiked(ctx, userID, relatedPetID)
			if err != nil {
				return nil, err
			}
			theyLikedMine, err := s.Interactions.HasLikedOwnedBy(ctx, participantID, userID)
			if err != nil {
				return nil, err
			}
			if !iLiked || !theyLikedMine {
				return nil, fmt.Errorf("%w: mutual interest required before starting a listing conversation", ErrPrecondition)
			}
		}

		now := time.Now().UTC().Format(time.RFC3339Nano)
		lastMessage := ""
		if relatedPetID != "" {
			lastMessage = models.PreviewFirstMessage
		}
		conversation = &models.Conversation{
			ConversationID: conversationID,
			Participants:   []string{userID, participantID},
			RelatedPet:     relatedPetID,
			LastMessage:    lastMessage,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := s.Dynamo.PutItem(ctx, models.ConversationsTable, *conversation); err != nil {
			return nil, fmt.Errorf("failed to create conversation: %w", err)
		}
	} else if len(conversation.DeletedFor) > 0 {
		// Re-opening makes it visible again for both parties.
		conversation.DeletedFor = nil
		conversation.UpdatedAt = time.Now().UTC().Format(time.RFC3339Nano)
		if err := s.Dynamo.PutItem(ctx, models.ConversationsTable, *conversation); err != nil {
			return nil, fmt.Errorf("failed to restore conversation: %w", err)
		}
	}

	enriched, err := s.enrich(ctx, *conversation)
	if err != nil {
		return nil, err
	}
	return &enriched, nil
}

// SoftDeleteConversation hides the conversation for the caller only. Hiding
// an already-hidden conversation is a no-op.
func (s *ChatService) SoftDeleteConversation(ctx context.Context, userID, conversationID string) error {
	conversation, err := s.getConversation(ctx, conversationID)
	if err != nil {
		return err
	}
	if !conversation.HasParticipant(userID) {
		return fmt.Errorf("%w: conversation '%s'", ErrNotFound, conversationID)
	}
	if conversation.HiddenFor(userID) {
		return nil
	}
	conversation.DeletedFor = append(conversation.DeletedFor, userID)
	if err := s.Dynamo.PutItem(ctx, models.ConversationsTable, *conversation); err != nil {
		return fmt.Errorf("failed to soft-delete conversation: %w", err)
	}
	return nil
}

func (s *ChatService) getConversation(ctx context.Context, conversationID string) (*models.Conversation, error) {
	conversation, err := s.getConversationIfExists(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, fmt.Errorf("%w: conversation '%s'", ErrNotFound, conversationID)
	}
	return conversation, nil
}

func (s *ChatService) getConversationIfExists(ctx context.Context, conversationID string) (*models.Conversation, error) {
	key := map[string]types.AttributeValue{
		"conversationId": &types.AttributeValueMemberS{Value: conversationID},
	}
	item, err := s.Dynamo.GetItem(ctx, models.ConversationsTable, key)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	var conversation models.Conversation
	if err := attributevalue.UnmarshalMap(item, &conversation); err != nil {
		return nil, fmt.Errorf("failed to unmarshal conversation: %w", err)
	}
	return &conversation, nil
}

func (s *ChatService) enrich(ctx context.Context, conversation models.Conversation) (ConversationDetails, error) {
	details := ConversationDetails{Conversation: conversation}
	for _, participantID := range conversation.Participants {
		profile, err := getPublicProfile(ctx, s.Dynamo, participantID)
		if err != nil {
			return details, err
		}
		details.ParticipantProfiles = append(details.ParticipantProfiles, profile)
	}
	if conversation.RelatedPet != "" {
		key := map[string]types.AttributeValue{
			"petId": &types.AttributeValueMemberS{Value: conversation.RelatedPet},
		}
		item, err := s.Dynamo.GetItem(ctx, models.PetsTable, key)
		if err == nil && item != nil {
			details.RelatedPetInfo = &RelatedPetPreview{
				PetID: conversation.RelatedPet,
				Name:  utils.ExtractString(item, "name"),
				Photo: utils.ExtractFirstPhoto(item, "photos"),
			}
		}
	}
	return details, nil
}

// upsertConversation provisions (or refreshes) the conversation for a
// matched pair and listing. The deterministic key makes repeated detection
// collapse onto the same document instead of creating duplicates.
func upsertConversation(ctx context.Context, dynamo *DynamoService, userA, userB, petID, preview string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	conversationID := models.ConversationKey(userA, userB, petID)

	participants, err := attributevalue.MarshalList([]string{userA, userB})
	if err != nil {
		return fmt.Errorf("failed to marshal participants: %w", err)
	}

	_, err = dynamo.UpdateItem(ctx, models.ConversationsTable,
		"SET participants = :participants, relatedPet = :relatedPet, lastMessage = :lastMessage, updatedAt = :now, createdAt = if_not_exists(createdAt, :now)",
		map[string]types.AttributeValue{
			"conversationId": &types.AttributeValueMemberS{Value: conversationID},
		},
		map[string]types.AttributeValue{
			":participants": &types.AttributeValueMemberL{Value: participants},
			":relatedPet":   &types.AttributeValueMemberS{Value: petID},
			":lastMessage":  &types.AttributeValueMemberS{Value: preview},
			":now":          &types.AttributeValueMemberS{Value: now},
		}, nil)
	if err != nil {
		return fmt.Errorf("failed to upsert conversation '%s': %w", conversationID, err)
	}
	return nil
}
