package models

import (
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultPropertyType = "accommodation"

// AIMetadata holds everything the AI features write back onto a listing.
type AIMetadata struct {
	SuggestedPrice  float64 `bson:"suggested_price,omitempty" json:"suggested_price,omitempty"`
	PriceConfidence string  `bson:"price_confidence,omitempty" json:"price_confidence,omitempty"`
	SentimentScore  float64 `bson:"sentiment_score" json:"sentiment_score"`
	ReviewSummary   string  `bson:"review_summary,omitempty" json:"review_summary,omitempty"`
}

type AIGenerated struct {
	Description bool       `bson:"description" json:"description"`
	LastUpdated *time.Time `bson:"last_updated,omitempty" json:"last_updated,omitempty"`
}

type Listing struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title        string               `bson:"title" json:"title" validate:"required,max=200"`
	Description  string               `bson:"description" json:"description"`
	Images       []string             `bson:"images" json:"images"`
	Price        float64              `bson:"price" json:"price" validate:"gte=0"`
	Location     string               `bson:"location" json:"location" validate:"required"`
	Country      string               `bson:"country" json:"country" validate:"required"`
	PropertyType string               `bson:"property_type" json:"property_type"`
	Amenities    []string             `bson:"amenities" json:"amenities"`
	Owner        uuid.UUID            `bson:"owner" json:"owner"`
	Reviews      []primitive.ObjectID `bson:"reviews" json:"review_ids"`
	AIMetadata   AIMetadata           `bson:"ai_metadata" json:"ai_metadata"`
	AIGenerated  AIGenerated          `bson:"ai_generated" json:"ai_generated"`
	CreatedAt    time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time            `bson:"updated_at" json:"updated_at"`
}

// ListingDetail is a listing with its reviews loaded, as the show page needs it.
type ListingDetail struct {
	*Listing
	ReviewList    []*Review `json:"reviews"`
	ReviewCount   int       `json:"review_count"`
	AverageRating float64   `json:"average_rating"`
}

// ListingUpdate carries a partial update; nil fields are left untouched.
type ListingUpdate struct {
	Title        *string   `json:"title" validate:"omitempty,min=1,max=200"`
	Description  *string   `json:"description"`
	Price        *float64  `json:"price" validate:"omitempty,gte=0"`
	Location     *string   `json:"location" validate:"omitempty,min=1"`
	Country      *string   `json:"country" validate:"omitempty,min=1"`
	PropertyType *string   `json:"property_type"`
	Amenities    *[]string `json:"amenities"`
	// AIGeneratedDescription marks the new description as produced by the
	// description generator.
	AIGeneratedDescription *bool `json:"ai_generated_description"`
}

func (u ListingUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Price == nil &&
		u.Location == nil && u.Country == nil && u.PropertyType == nil &&
		u.Amenities == nil && u.AIGeneratedDescription == nil
}

// AIMetadataUpdate merges into Listing.AIMetadata; nil fields keep their
// stored value.
type AIMetadataUpdate struct {
	SuggestedPrice  *float64
	PriceConfidence *string
	SentimentScore  *float64
	ReviewSummary   *string
}

func (l *Listing) BeforeCreate() {
	if l.ID.IsZero() {
		l.ID = primitive.NewObjectID()
	}
	if l.PropertyType == "" {
		l.PropertyType = DefaultPropertyType
	}
	if l.Reviews == nil {
		l.Reviews = []primitive.ObjectID{}
	}
	if l.Amenities == nil {
		l.Amenities = []string{}
	}
	if l.Images == nil {
		l.Images = []string{}
	}
	now := time.Now()
	l.CreatedAt = now
	l.UpdatedAt = now
}
