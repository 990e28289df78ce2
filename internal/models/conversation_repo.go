package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ConversationRepo interface {
	FindOrCreateConversation(ctx context.Context, sessionID string, userID *uuid.UUID, metadata ConversationMetadata) (*Conversation, error)
	FindConversationBySession(ctx context.Context, sessionID string) (*Conversation, error)
	AppendMessage(ctx context.Context, conv *Conversation, role, content string) error
}

func (mdb *MongodbRepo) ensureConversationIndexes(ctx context.Context) error {
	col, err := mdb.GetCollection(ConversationColName)
	if err != nil {
		return err
	}

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "session_id", Value: 1}},
			Options: options.Index().
				SetName("active_session_idx").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"is_active": true}),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "updated_at", Value: -1}},
			Options: options.Index().SetName("user_updated_at_idx").SetSparse(true),
		},
	}
	if _, err := col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("error creating conversation indexes: %v", err)
	}
	return nil
}

// FindOrCreateConversation upserts the active conversation for the session.
// Two racing upserts can both miss and try to insert; the loser hits the
// unique index and is retried once, which then finds the winner's document.
func (mdb *MongodbRepo) FindOrCreateConversation(ctx context.Context, sessionID string, userID *uuid.UUID, metadata ConversationMetadata) (*Conversation, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session id is required")
	}

	col, err := mdb.GetCollection(ConversationColName)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	filter := bson.M{"session_id": sessionID, "is_active": true}

	onInsert := bson.M{
		"messages":   []ChatMessage{},
		"metadata":   metadata,
		"created_at": now,
	}
	if userID != nil {
		onInsert["user_id"] = *userID
	}
	update := bson.M{
		"$set":         bson.M{"updated_at": now},
		"$setOnInsert": onInsert,
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var conv Conversation
	for attempt := 0; attempt < 2; attempt++ {
		err = col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&conv)
		if err == nil || !mongo.IsDuplicateKeyError(err) {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("error upserting conversation: %w", err)
	}
	return &conv, nil
}

func (mdb *MongodbRepo) FindConversationBySession(ctx context.Context, sessionID string) (*Conversation, error) {
	col, err := mdb.GetCollection(ConversationColName)
	if err != nil {
		return nil, err
	}

	var conv Conversation
	err = col.FindOne(ctx, bson.M{"session_id": sessionID, "is_active": true}).Decode(&conv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error finding conversation: %w", err)
	}
	return &conv, nil
}

// AppendMessage pushes one turn and mirrors it onto conv.
func (mdb *MongodbRepo) AppendMessage(ctx context.Context, conv *Conversation, role, content string) error {
	msg := ChatMessage{Role: role, Content: content, Timestamp: time.Now()}
	if err := Validate.Struct(msg); err != nil {
		return err
	}

	col, err := mdb.GetCollection(ConversationColName)
	if err != nil {
		return err
	}

	update := bson.M{
		"$push": bson.M{"messages": msg},
		"$set":  bson.M{"updated_at": msg.Timestamp},
	}
	res, err := col.UpdateOne(ctx, bson.M{"_id": conv.ID}, update)
	if err != nil {
		return fmt.Errorf("error appending message: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}

	conv.Messages = append(conv.Messages, msg)
	conv.UpdatedAt = msg.Timestamp
	return nil
}
