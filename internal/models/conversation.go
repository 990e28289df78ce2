package models

import (
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ChatMessage struct {
	Role      string    `bson:"role" json:"role" validate:"required,oneof=user assistant"`
	Content   string    `bson:"content" json:"content" validate:"required"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

type ConversationMetadata struct {
	UserAgent string `bson:"user_agent,omitempty" json:"user_agent,omitempty"`
	IPAddress string `bson:"ip_address,omitempty" json:"ip_address,omitempty"`
	Location  string `bson:"location,omitempty" json:"location,omitempty"`
}

// Conversation is one chat session with the travel assistant. At most one
// active conversation exists per session id.
type Conversation struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	SessionID string               `bson:"session_id" json:"session_id" validate:"required"`
	UserID    *uuid.UUID           `bson:"user_id,omitempty" json:"user_id,omitempty"`
	Messages  []ChatMessage        `bson:"messages" json:"messages"`
	Metadata  ConversationMetadata `bson:"metadata" json:"metadata"`
	IsActive  bool                 `bson:"is_active" json:"is_active"`
	CreatedAt time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time            `bson:"updated_at" json:"updated_at"`
}

// RecentMessages returns the last limit messages, oldest first.
func (c *Conversation) RecentMessages(limit int) []ChatMessage {
	if limit <= 0 || len(c.Messages) == 0 {
		return []ChatMessage{}
	}
	start := len(c.Messages) - limit
	if start < 0 {
		start = 0
	}
	out := make([]ChatMessage, len(c.Messages)-start)
	copy(out, c.Messages[start:])
	return out
}
