package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/joshua-takyi/wanderlust/internal/models"
	"github.com/joshua-takyi/wanderlust/internal/sentiment"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newReviewFixture() (*ReviewService, *fakeListingRepo, *fakeReviewRepo, *recordingQueue, *models.Listing) {
	listing := &models.Listing{Title: "Flat", Location: "Nice", Country: "France", Owner: uuid.New()}
	listings := newFakeListingRepo(listing)
	reviews := newFakeReviewRepo()
	queue := &recordingQueue{}
	return NewReviewService(listings, reviews, queue), listings, reviews, queue, listing
}

func TestCreateReviewScoresSynchronously(t *testing.T) {
	rs, listings, _, queue, listing := newReviewFixture()

	review, err := rs.CreateReview(context.Background(), listing.ID, ReviewInput{Rating: 5, Comment: "Amazing stay, wonderful host!"}, uuid.New())
	if err != nil {
		t.Fatal(err)
	}
	if review.Sentiment.Score <= 0 || review.Sentiment.Label != string(sentiment.VeryPositive) {
		t.Errorf("sentiment = %+v", review.Sentiment)
	}
	if review.Sentiment.Analyzed {
		t.Error("review marked analyzed before the worker ran")
	}

	stored, _ := listings.GetListingByID(context.Background(), listing.ID)
	if len(stored.Reviews) != 1 || stored.Reviews[0] != review.ID {
		t.Errorf("listing reviews = %v", stored.Reviews)
	}
	if queue.count(JobEnrichReview) != 1 || queue.count(JobRefreshListing) != 1 {
		t.Errorf("jobs = %+v", queue.jobs)
	}
}

func TestCreateReviewRejectsInvalidInput(t *testing.T) {
	rs, _, reviews, queue, listing := newReviewFixture()

	tests := []ReviewInput{
		{Rating: 4, Comment: ""},
		{Rating: 4, Comment: "   "},
		{Rating: 0, Comment: "Nice"},
		{Rating: 6, Comment: "Nice"},
	}
	for _, in := range tests {
		_, err := rs.CreateReview(context.Background(), listing.ID, in, uuid.New())
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("%+v: err = %v", in, err)
		}
	}
	if reviews.count() != 0 {
		t.Errorf("%d reviews stored", reviews.count())
	}
	if len(queue.jobs) != 0 {
		t.Errorf("jobs enqueued for rejected reviews: %+v", queue.jobs)
	}
}

func TestCreateReviewUnknownListing(t *testing.T) {
	rs, _, reviews, _, _ := newReviewFixture()
	_, err := rs.CreateReview(context.Background(), primitive.NewObjectID(), ReviewInput{Rating: 3, Comment: "ok"}, uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v", err)
	}
	if reviews.count() != 0 {
		t.Error("review stored for a missing listing")
	}
}

func TestDeleteReview(t *testing.T) {
	rs, listings, reviews, queue, listing := newReviewFixture()
	author := uuid.New()
	review := reviews.seed(listings, listing.ID, author, 2, "Noisy street")
	ctx := context.Background()

	if err := rs.DeleteReview(ctx, listing.ID, review.ID, claimsFor(uuid.New(), false)); !errors.Is(err, ErrForbidden) {
		t.Errorf("stranger: err = %v", err)
	}
	if err := rs.DeleteReview(ctx, primitive.NewObjectID(), review.ID, claimsFor(author, false)); !errors.Is(err, ErrNotFound) {
		t.Errorf("wrong listing: err = %v", err)
	}
	if len(queue.jobs) != 0 {
		t.Fatalf("jobs after failed deletes: %+v", queue.jobs)
	}

	if err := rs.DeleteReview(ctx, listing.ID, review.ID, claimsFor(author, false)); err != nil {
		t.Fatal(err)
	}
	if reviews.count() != 0 {
		t.Error("review still stored")
	}
	stored, _ := listings.GetListingByID(ctx, listing.ID)
	if len(stored.Reviews) != 0 {
		t.Errorf("listing still references %v", stored.Reviews)
	}
	if queue.count(JobRefreshListing) != 1 || len(queue.jobs) != 1 {
		t.Errorf("jobs = %+v", queue.jobs)
	}

	if err := rs.DeleteReview(ctx, listing.ID, review.ID, claimsFor(author, false)); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: err = %v", err)
	}
}

func TestAdminDeletesAnyReview(t *testing.T) {
	rs, listings, reviews, _, listing := newReviewFixture()
	review := reviews.seed(listings, listing.ID, uuid.New(), 1, "Dirty")

	if err := rs.DeleteReview(context.Background(), listing.ID, review.ID, claimsFor(uuid.New(), true)); err != nil {
		t.Fatal(err)
	}
}
