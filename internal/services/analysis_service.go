package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/joshua-takyi/wanderlust/internal/ai"
	"github.com/joshua-takyi/wanderlust/internal/models"
	"github.com/joshua-takyi/wanderlust/internal/sentiment"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	NoReviewsSummary      = "No reviews available yet."
	SummaryUnavailable    = "Unable to generate summary at this time."
	defaultReviewEmotion  = "neutral"
	maxAnalysisConfidence = 100
)

// ReviewText is the part of a review the pipeline reads.
type ReviewText struct {
	Comment string `json:"comment" validate:"required"`
	Rating  int    `json:"rating" validate:"omitempty,min=1,max=5"`
}

type SentimentCounts struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

type SentimentShares struct {
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
}

type BatchAnalysis struct {
	TotalReviews int             `json:"total_reviews"`
	AverageScore float64         `json:"average_score"`
	Distribution SentimentCounts `json:"distribution"`
	Percentages  SentimentShares `json:"percentages"`
}

type AdvancedSentiment struct {
	OverallSentiment string   `json:"overall_sentiment"`
	Confidence       float64  `json:"confidence"`
	KeyThemes        []string `json:"key_themes"`
	Strengths        []string `json:"strengths"`
	Weaknesses       []string `json:"weaknesses"`
	Emotion          string   `json:"emotion"`
	Summary          string   `json:"summary"`
}

// SentimentAnalysis is the model's breakdown when it answered, otherwise
// the lexicon result. It encodes as whichever one is set.
type SentimentAnalysis struct {
	Detailed *AdvancedSentiment
	Basic    *sentiment.Result
}

func (a SentimentAnalysis) MarshalJSON() ([]byte, error) {
	if a.Detailed != nil {
		return json.Marshal(a.Detailed)
	}
	return json.Marshal(a.Basic)
}

type AnalysisService struct {
	delegate ai.Delegate
	listings models.ListingRepo
	reviews  models.ReviewRepo
}

func NewAnalysisService(delegate ai.Delegate, listings models.ListingRepo, reviews models.ReviewRepo) *AnalysisService {
	return &AnalysisService{
		delegate: delegate,
		listings: listings,
		reviews:  reviews,
	}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// AnalyzeBatch scores every comment with the lexicon only.
func AnalyzeBatch(reviews []ReviewText) BatchAnalysis {
	out := BatchAnalysis{TotalReviews: len(reviews)}
	if len(reviews) == 0 {
		return out
	}

	total := 0
	for _, r := range reviews {
		res := sentiment.Score(r.Comment)
		total += res.Score
		switch {
		case res.Score > 0:
			out.Distribution.Positive++
		case res.Score < 0:
			out.Distribution.Negative++
		default:
			out.Distribution.Neutral++
		}
	}

	n := float64(len(reviews))
	out.AverageScore = round(float64(total)/n, 2)
	out.Percentages = SentimentShares{
		Positive: round(float64(out.Distribution.Positive)/n*100, 1),
		Negative: round(float64(out.Distribution.Negative)/n*100, 1),
		Neutral:  round(float64(out.Distribution.Neutral)/n*100, 1),
	}
	return out
}

func comments(reviews []ReviewText) []string {
	out := make([]string, 0, len(reviews))
	for _, r := range reviews {
		if c := strings.TrimSpace(r.Comment); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// Summarize never fails; the placeholder strings stand in for a summary.
func (as *AnalysisService) Summarize(ctx context.Context, reviews []ReviewText) string {
	texts := comments(reviews)
	if len(texts) == 0 {
		return NoReviewsSummary
	}

	reply, err := as.delegate.Complete(ctx, ai.Prompt(ai.TaskReviewSummary, reviewSummaryPrompt(texts)))
	if err != nil {
		slog.Warn("review summary fell back", "error", err)
		return SummaryUnavailable
	}
	return strings.TrimSpace(reply)
}

func (as *AnalysisService) ExtractTopics(ctx context.Context, reviews []ReviewText) []string {
	texts := comments(reviews)
	if len(texts) == 0 {
		return []string{}
	}

	reply, err := as.delegate.Complete(ctx, ai.Prompt(ai.TaskTopics, topicsPrompt(texts)))
	if err != nil {
		slog.Warn("topic extraction fell back", "error", err)
		return []string{}
	}

	var topics []string
	if err := ai.ExtractArray(reply, &topics); err != nil {
		slog.Warn("topic extraction returned no list", "error", err)
		return []string{}
	}
	return topics
}

// AnalyzeAdvanced asks the model for a breakdown and falls back to the
// lexicon score when the call or the parse fails.
func (as *AnalysisService) AnalyzeAdvanced(ctx context.Context, text string) SentimentAnalysis {
	detailed, err := as.advanced(ctx, text)
	if err != nil {
		slog.Warn("advanced sentiment fell back", "error", err)
		basic := sentiment.Score(text)
		return SentimentAnalysis{Basic: &basic}
	}
	return SentimentAnalysis{Detailed: detailed}
}

func (as *AnalysisService) advanced(ctx context.Context, text string) (*AdvancedSentiment, error) {
	reply, err := as.delegate.Complete(ctx, ai.Prompt(ai.TaskAdvancedSentiment, advancedSentimentPrompt(text)))
	if err != nil {
		return nil, err
	}
	var out AdvancedSentiment
	if err := ai.ExtractObject(reply, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func reviewTexts(reviews []*models.Review) []ReviewText {
	out := make([]ReviewText, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, ReviewText{Comment: r.Comment, Rating: r.Rating})
	}
	return out
}

// RefreshListing recomputes the listing's sentiment score and review
// summary from its current reviews. A listing without reviews gets the
// placeholder summary and no model call.
func (as *AnalysisService) RefreshListing(ctx context.Context, listingID primitive.ObjectID) error {
	listing, err := as.listings.GetListingByID(ctx, listingID)
	if err != nil {
		return fmt.Errorf("refresh listing %s: %w", listingID.Hex(), repoErr(err))
	}

	reviews, err := as.reviews.GetReviewsByIDs(ctx, listing.Reviews)
	if err != nil {
		return fmt.Errorf("refresh listing %s: %w", listingID.Hex(), err)
	}

	texts := reviewTexts(reviews)
	batch := AnalyzeBatch(texts)
	summary := as.Summarize(ctx, texts)

	err = as.listings.UpdateAIMetadata(ctx, listingID, models.AIMetadataUpdate{
		SentimentScore: &batch.AverageScore,
		ReviewSummary:  &summary,
	})
	if err != nil {
		return fmt.Errorf("refresh listing %s: %w", listingID.Hex(), repoErr(err))
	}
	return nil
}

// EnrichReview stores the model's breakdown on the review. When the model
// is unavailable the review keeps its lexicon sentiment and stays
// unanalysed.
func (as *AnalysisService) EnrichReview(ctx context.Context, reviewID primitive.ObjectID, comment string) error {
	detailed, err := as.advanced(ctx, comment)
	if err != nil {
		return fmt.Errorf("enrich review %s: %w", reviewID.Hex(), err)
	}

	emotion := detailed.Emotion
	if emotion == "" {
		emotion = defaultReviewEmotion
	}
	analysis := models.ReviewAIAnalysis{
		Themes:     nonNil(detailed.KeyThemes),
		Strengths:  nonNil(detailed.Strengths),
		Weaknesses: nonNil(detailed.Weaknesses),
		Emotion:    emotion,
		Confidence: math.Max(0, math.Min(detailed.Confidence, maxAnalysisConfidence)),
	}

	if err := as.reviews.UpdateReviewAnalysis(ctx, reviewID, analysis, time.Now()); err != nil {
		return fmt.Errorf("enrich review %s: %w", reviewID.Hex(), repoErr(err))
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
