package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ReviewRepo interface {
	CreateReview(ctx context.Context, review *Review) (*Review, error)
	GetReviewByID(ctx context.Context, id primitive.ObjectID) (*Review, error)
	GetReviewsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*Review, error)
	DeleteReview(ctx context.Context, id primitive.ObjectID) error
	DeleteReviewsByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error)
	UpdateReviewAnalysis(ctx context.Context, id primitive.ObjectID, analysis ReviewAIAnalysis, analyzedAt time.Time) error
}

func (mdb *MongodbRepo) ensureReviewIndexes(ctx context.Context) error {
	col, err := mdb.GetCollection(ReviewColName)
	if err != nil {
		return err
	}

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "listing", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("listing_created_at_idx"),
		},
		{
			Keys:    bson.D{{Key: "author", Value: 1}},
			Options: options.Index().SetName("author_idx"),
		},
	}
	if _, err := col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("error creating review indexes: %v", err)
	}
	return nil
}

func (mdb *MongodbRepo) CreateReview(ctx context.Context, review *Review) (*Review, error) {
	col, err := mdb.GetCollection(ReviewColName)
	if err != nil {
		return nil, err
	}

	review.BeforeCreate()
	if _, err := col.InsertOne(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to insert review into database: %w", err)
	}
	return review, nil
}

func (mdb *MongodbRepo) GetReviewByID(ctx context.Context, id primitive.ObjectID) (*Review, error) {
	col, err := mdb.GetCollection(ReviewColName)
	if err != nil {
		return nil, err
	}

	var review Review
	err = col.FindOne(ctx, bson.M{"_id": id}).Decode(&review)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error finding review: %w", err)
	}
	return &review, nil
}

// GetReviewsByIDs returns the reviews oldest first. Dangling ids are skipped.
func (mdb *MongodbRepo) GetReviewsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*Review, error) {
	reviews := []*Review{}
	if len(ids) == 0 {
		return reviews, nil
	}

	col, err := mdb.GetCollection(ReviewColName)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding reviews: %w", err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("error decoding reviews: %w", err)
	}
	return reviews, nil
}

func (mdb *MongodbRepo) DeleteReview(ctx context.Context, id primitive.ObjectID) error {
	col, err := mdb.GetCollection(ReviewColName)
	if err != nil {
		return err
	}

	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting review: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (mdb *MongodbRepo) DeleteReviewsByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	col, err := mdb.GetCollection(ReviewColName)
	if err != nil {
		return 0, err
	}

	res, err := col.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, fmt.Errorf("error deleting reviews: %w", err)
	}
	return res.DeletedCount, nil
}

func (mdb *MongodbRepo) UpdateReviewAnalysis(ctx context.Context, id primitive.ObjectID, analysis ReviewAIAnalysis, analyzedAt time.Time) error {
	col, err := mdb.GetCollection(ReviewColName)
	if err != nil {
		return err
	}

	update := bson.M{
		"$set": bson.M{
			"ai_analysis":           analysis,
			"sentiment.analyzed":    true,
			"sentiment.analyzed_at": analyzedAt,
		},
	}
	res, err := col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("error updating review analysis: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
