package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/joshua-takyi/wanderlust/internal/helpers"
	"github.com/joshua-takyi/wanderlust/internal/models"
	"github.com/joshua-takyi/wanderlust/internal/sentiment"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReviewInput struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required,max=2000"`
}

type ReviewService struct {
	listings models.ListingRepo
	reviews  models.ReviewRepo
	queue    JobQueue
}

func NewReviewService(listings models.ListingRepo, reviews models.ReviewRepo, queue JobQueue) *ReviewService {
	return &ReviewService{
		listings: listings,
		reviews:  reviews,
		queue:    queue,
	}
}

// CreateReview stores the review with its lexicon sentiment and schedules
// the model analysis and the listing summary refresh.
func (rs *ReviewService) CreateReview(ctx context.Context, listingID primitive.ObjectID, in ReviewInput, author uuid.UUID) (*models.Review, error) {
	in.Comment = strings.TrimSpace(in.Comment)
	if err := validate(in); err != nil {
		return nil, err
	}
	if author == uuid.Nil {
		return nil, fmt.Errorf("invalid author ID")
	}

	if _, err := rs.listings.GetListingByID(ctx, listingID); err != nil {
		return nil, repoErr(err)
	}

	score := sentiment.Score(in.Comment)
	review := &models.Review{
		Rating:  in.Rating,
		Comment: in.Comment,
		Author:  author,
		Listing: listingID,
		Sentiment: models.ReviewSentiment{
			Score: score.Score,
			Label: string(score.Label),
		},
	}

	created, err := rs.reviews.CreateReview(ctx, review)
	if err != nil {
		return nil, err
	}

	if err := rs.listings.AddReviewRef(ctx, listingID, created.ID); err != nil {
		// The listing vanished between the lookup and the push.
		if delErr := rs.reviews.DeleteReview(context.WithoutCancel(ctx), created.ID); delErr != nil {
			slog.Error("failed to remove orphaned review", "review_id", created.ID.Hex(), "error", delErr)
		}
		return nil, repoErr(err)
	}

	rs.queue.Enqueue(EnrichReviewJob(created.ID, created.Comment))
	rs.queue.Enqueue(RefreshListingJob(listingID))
	return created, nil
}

// DeleteReview lets the author or an admin remove a review. The listing
// summary is refreshed exactly once afterwards.
func (rs *ReviewService) DeleteReview(ctx context.Context, listingID, reviewID primitive.ObjectID, claims *helpers.EnhancedClaims) error {
	review, err := rs.reviews.GetReviewByID(ctx, reviewID)
	if err != nil {
		return repoErr(err)
	}
	if review.Listing != listingID {
		return ErrNotFound
	}
	if claims == nil || !claims.CanModify(review.Author) {
		return ErrForbidden
	}

	if err := rs.listings.RemoveReviewRef(ctx, listingID, reviewID); err != nil && !errors.Is(err, models.ErrNotFound) {
		return err
	}
	if err := rs.reviews.DeleteReview(ctx, reviewID); err != nil {
		return repoErr(err)
	}

	rs.queue.Enqueue(RefreshListingJob(listingID))
	return nil
}
