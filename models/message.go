package models

// Message is immutable once created and ordered by createdAt within its
// conversation.
type Message struct {
	ConversationID string `dynamodbav:"conversationId" json:"conversationId"`
	MessageID      string `dynamodbav:"messageId" json:"messageId"`
	SenderID       string `dynamodbav:"senderId" json:"senderId"`
	Text           string `dynamodbav:"text" json:"text"`
	CreatedAt      string `dynamodbav:"createdAt" json:"createdAt"`
}

// MessagesTable is the DynamoDB table name for conversation messages
const MessagesTable = "Messages"
