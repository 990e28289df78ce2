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

// ErrNotFound is returned by every repository when the document is missing.
var ErrNotFound = errors.New("document not found")

type ListingRepo interface {
	CreateListing(ctx context.Context, listing *Listing) (*Listing, error)
	GetListingByID(ctx context.Context, id primitive.ObjectID) (*Listing, error)
	ListListings(ctx context.Context, offset, limit int) ([]*Listing, int64, error)
	UpdateListing(ctx context.Context, id primitive.ObjectID, update ListingUpdate) (*Listing, error)
	DeleteListing(ctx context.Context, id primitive.ObjectID) (*Listing, error)
	AddReviewRef(ctx context.Context, listingID, reviewID primitive.ObjectID) error
	RemoveReviewRef(ctx context.Context, listingID, reviewID primitive.ObjectID) error
	UpdateAIMetadata(ctx context.Context, id primitive.ObjectID, update AIMetadataUpdate) error
}

func (mdb *MongodbRepo) ensureListingIndexes(ctx context.Context) error {
	col, err := mdb.GetCollection(ListingColName)
	if err != nil {
		return err
	}

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "owner", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("owner_created_at_idx"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("created_at_idx"),
		},
	}
	if _, err := col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("error creating listing indexes: %v", err)
	}
	return nil
}

func (mdb *MongodbRepo) CreateListing(ctx context.Context, listing *Listing) (*Listing, error) {
	col, err := mdb.GetCollection(ListingColName)
	if err != nil {
		return nil, err
	}

	listing.BeforeCreate()
	if _, err := col.InsertOne(ctx, listing); err != nil {
		return nil, fmt.Errorf("failed to insert listing: %w", err)
	}
	return listing, nil
}

func (mdb *MongodbRepo) GetListingByID(ctx context.Context, id primitive.ObjectID) (*Listing, error) {
	col, err := mdb.GetCollection(ListingColName)
	if err != nil {
		return nil, err
	}

	var listing Listing
	err = col.FindOne(ctx, bson.M{"_id": id}).Decode(&listing)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error finding listing: %w", err)
	}
	return &listing, nil
}

func (mdb *MongodbRepo) ListListings(ctx context.Context, offset, limit int) ([]*Listing, int64, error) {
	col, err := mdb.GetCollection(ListingColName)
	if err != nil {
		return nil, 0, err
	}

	total, err := col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("error counting listings: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("error finding listings: %w", err)
	}
	defer cursor.Close(ctx)

	listings := []*Listing{}
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, 0, fmt.Errorf("error decoding listings: %w", err)
	}
	return listings, total, nil
}

func (mdb *MongodbRepo) UpdateListing(ctx context.Context, id primitive.ObjectID, update ListingUpdate) (*Listing, error) {
	col, err := mdb.GetCollection(ListingColName)
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var listing Listing
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": listingUpdateSet(update, time.Now())}, opts).Decode(&listing)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error updating listing: %w", err)
	}
	return &listing, nil
}

// DeleteListing removes the listing and returns it so callers can cascade
// over its reviews and images.
func (mdb *MongodbRepo) DeleteListing(ctx context.Context, id primitive.ObjectID) (*Listing, error) {
	col, err := mdb.GetCollection(ListingColName)
	if err != nil {
		return nil, err
	}

	var listing Listing
	err = col.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&listing)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error deleting listing: %w", err)
	}
	return &listing, nil
}

func (mdb *MongodbRepo) AddReviewRef(ctx context.Context, listingID, reviewID primitive.ObjectID) error {
	return mdb.updateListing(ctx, listingID, bson.M{
		"$push": bson.M{"reviews": reviewID},
		"$set":  bson.M{"updated_at": time.Now()},
	})
}

func (mdb *MongodbRepo) RemoveReviewRef(ctx context.Context, listingID, reviewID primitive.ObjectID) error {
	return mdb.updateListing(ctx, listingID, bson.M{
		"$pull": bson.M{"reviews": reviewID},
		"$set":  bson.M{"updated_at": time.Now()},
	})
}

// UpdateAIMetadata merges the given fields into ai_metadata. There is no
// version check; the last writer wins.
func (mdb *MongodbRepo) UpdateAIMetadata(ctx context.Context, id primitive.ObjectID, update AIMetadataUpdate) error {
	set := aiMetadataSet(update)
	if len(set) == 0 {
		return nil
	}
	return mdb.updateListing(ctx, id, bson.M{"$set": set})
}

func (mdb *MongodbRepo) updateListing(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	col, err := mdb.GetCollection(ListingColName)
	if err != nil {
		return err
	}

	res, err := col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("error updating listing: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func listingUpdateSet(u ListingUpdate, now time.Time) bson.M {
	set := bson.M{"updated_at": now}
	if u.Title != nil {
		set["title"] = *u.Title
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.Price != nil {
		set["price"] = *u.Price
	}
	if u.Location != nil {
		set["location"] = *u.Location
	}
	if u.Country != nil {
		set["country"] = *u.Country
	}
	if u.PropertyType != nil {
		set["property_type"] = *u.PropertyType
	}
	if u.Amenities != nil {
		set["amenities"] = *u.Amenities
	}
	if u.AIGeneratedDescription != nil {
		set["ai_generated.description"] = *u.AIGeneratedDescription
		set["ai_generated.last_updated"] = now
	}
	return set
}

// aiMetadataSet uses dotted paths so unrelated metadata keys survive the
// update.
func aiMetadataSet(u AIMetadataUpdate) bson.M {
	set := bson.M{}
	if u.SuggestedPrice != nil {
		set["ai_metadata.suggested_price"] = *u.SuggestedPrice
	}
	if u.PriceConfidence != nil {
		set["ai_metadata.price_confidence"] = *u.PriceConfidence
	}
	if u.SentimentScore != nil {
		set["ai_metadata.sentiment_score"] = *u.SentimentScore
	}
	if u.ReviewSummary != nil {
		set["ai_metadata.review_summary"] = *u.ReviewSummary
	}
	if len(set) > 0 {
		set["updated_at"] = time.Now()
	}
	return set
}
