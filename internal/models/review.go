package models

import (
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReviewSentiment struct {
	Score      int        `bson:"score" json:"score"`
	Label      string     `bson:"label" json:"label" validate:"omitempty,oneof='very positive' positive neutral negative 'very negative'"`
	Analyzed   bool       `bson:"analyzed" json:"analyzed"`
	AnalyzedAt *time.Time `bson:"analyzed_at,omitempty" json:"analyzed_at,omitempty"`
}

// ReviewAIAnalysis is the detailed sentiment breakdown merged in after the
// review has been saved.
type ReviewAIAnalysis struct {
	Themes     []string `bson:"themes" json:"themes"`
	Strengths  []string `bson:"strengths" json:"strengths"`
	Weaknesses []string `bson:"weaknesses" json:"weaknesses"`
	Emotion    string   `bson:"emotion" json:"emotion"`
	Confidence float64  `bson:"confidence" json:"confidence"`
}

type Review struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Rating     int                `bson:"rating" json:"rating" validate:"required,min=1,max=5"`
	Comment    string             `bson:"comment" json:"comment" validate:"required,max=2000"`
	Author     uuid.UUID          `bson:"author" json:"author"`
	Listing    primitive.ObjectID `bson:"listing" json:"listing"`
	Sentiment  ReviewSentiment    `bson:"sentiment" json:"sentiment"`
	AIAnalysis *ReviewAIAnalysis  `bson:"ai_analysis,omitempty" json:"ai_analysis,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}

func (r *Review) BeforeCreate() {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
}
