package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/wanderlust/internal/helpers"
	"github.com/joshua-takyi/wanderlust/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	imageUploadTimeout = 30 * time.Second
	MaxPageSize        = 50
)

type ListingService struct {
	listings models.ListingRepo
	reviews  models.ReviewRepo
	images   helpers.ImageStore
	pricing  *PricingService
}

// NewListingService accepts a nil image store; image paths are then stored
// as given.
func NewListingService(listings models.ListingRepo, reviews models.ReviewRepo, images helpers.ImageStore, pricing *PricingService) *ListingService {
	return &ListingService{
		listings: listings,
		reviews:  reviews,
		images:   images,
		pricing:  pricing,
	}
}

// uploadImages pushes the listing's images to the store, giving up after
// imageUploadTimeout.
func (ls *ListingService) uploadImages(ctx context.Context, paths []string) ([]string, error) {
	if ls.images == nil || len(paths) == 0 {
		return paths, nil
	}

	ctx, cancel := context.WithTimeout(ctx, imageUploadTimeout)
	defer cancel()

	type result struct {
		urls []string
		err  error
	}
	resultChan := make(chan result, 1)

	go func() {
		urls, err := ls.images.Upload(ctx, paths, helpers.ListingFolder)
		resultChan <- result{urls, err}
	}()

	select {
	case res := <-resultChan:
		if res.err != nil {
			return nil, fmt.Errorf("failed to upload images: %v", res.err)
		}
		slog.Info("uploaded listing images", "count", len(res.urls))
		return res.urls, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("image upload timeout")
	}
}

func (ls *ListingService) deleteImages(ctx context.Context, urls []string) {
	if ls.images == nil || len(urls) == 0 {
		return
	}
	if err := ls.images.Delete(ctx, urls); err != nil {
		slog.Warn("failed to delete listing images", "error", err)
	}
}

func normalizeListing(l *models.Listing) {
	l.Title = helpers.StringTrim(l.Title)
	l.Location = helpers.StringTrim(l.Location)
	l.Country = helpers.StringTrim(l.Country)
	l.Description = strings.TrimSpace(l.Description)
	l.PropertyType = strings.ToLower(helpers.StringTrim(l.PropertyType))
	l.Amenities = helpers.RemoveDuplicates(l.Amenities)

	images := make([]string, 0, len(l.Images))
	for _, img := range l.Images {
		if img = strings.TrimSpace(img); img != "" {
			images = append(images, img)
		}
	}
	l.Images = images
}

// checkImages rejects anything but remote urls and data uris, so a request
// can never make the uploader read a file from the server's disk.
func checkImages(images []string) error {
	var msgs []string
	for i, img := range images {
		if !helpers.IsRemoteImage(img) {
			msgs = append(msgs, fmt.Sprintf("images[%d] must be an http(s) url or a base64 data uri", i))
		}
	}
	if len(msgs) > 0 {
		return invalid(msgs...)
	}
	return nil
}

func (ls *ListingService) CreateListing(ctx context.Context, listing *models.Listing, owner uuid.UUID) (*models.Listing, error) {
	if owner == uuid.Nil {
		return nil, fmt.Errorf("invalid owner ID")
	}
	normalizeListing(listing)
	if err := validate(listing); err != nil {
		return nil, err
	}
	if err := checkImages(listing.Images); err != nil {
		return nil, err
	}

	urls, err := ls.uploadImages(ctx, listing.Images)
	if err != nil {
		return nil, err
	}
	listing.Images = urls

	// Fields managed by the service are never taken from the request.
	listing.ID = primitive.NilObjectID
	listing.Owner = owner
	listing.Reviews = nil
	listing.AIMetadata = models.AIMetadata{}
	listing.AIGenerated = models.AIGenerated{}

	created, err := ls.listings.CreateListing(ctx, listing)
	if err != nil {
		ls.deleteImages(context.WithoutCancel(ctx), urls)
		return nil, err
	}
	return created, nil
}

func (ls *ListingService) ListListings(ctx context.Context, offset, limit int) ([]*models.Listing, int64, error) {
	if offset < 0 || limit <= 0 || limit > MaxPageSize {
		return nil, 0, invalid(fmt.Sprintf("offset must be >= 0 and limit between 1 and %d", MaxPageSize))
	}
	return ls.listings.ListListings(ctx, offset, limit)
}

// GetListing loads the listing with its reviews and their average rating.
func (ls *ListingService) GetListing(ctx context.Context, id primitive.ObjectID) (*models.ListingDetail, error) {
	listing, err := ls.listings.GetListingByID(ctx, id)
	if err != nil {
		return nil, repoErr(err)
	}

	reviews, err := ls.reviews.GetReviewsByIDs(ctx, listing.Reviews)
	if err != nil {
		return nil, err
	}

	detail := &models.ListingDetail{
		Listing:     listing,
		ReviewList:  reviews,
		ReviewCount: len(reviews),
	}
	if len(reviews) > 0 {
		sum := 0
		for _, r := range reviews {
			sum += r.Rating
		}
		detail.AverageRating = round(float64(sum)/float64(len(reviews)), 1)
	}
	return detail, nil
}

// authorize loads the listing and checks the caller may change it.
func (ls *ListingService) authorize(ctx context.Context, id primitive.ObjectID, claims *helpers.EnhancedClaims) (*models.Listing, error) {
	listing, err := ls.listings.GetListingByID(ctx, id)
	if err != nil {
		return nil, repoErr(err)
	}
	if claims == nil || !claims.CanModify(listing.Owner) {
		return nil, ErrForbidden
	}
	return listing, nil
}

func (ls *ListingService) UpdateListing(ctx context.Context, id primitive.ObjectID, update models.ListingUpdate, claims *helpers.EnhancedClaims) (*models.Listing, error) {
	if update.IsEmpty() {
		return nil, invalid("no fields to update")
	}
	if err := validate(update); err != nil {
		return nil, err
	}
	if update.Amenities != nil {
		amenities := helpers.RemoveDuplicates(*update.Amenities)
		update.Amenities = &amenities
	}

	if _, err := ls.authorize(ctx, id, claims); err != nil {
		return nil, err
	}

	updated, err := ls.listings.UpdateListing(ctx, id, update)
	if err != nil {
		return nil, repoErr(err)
	}
	return updated, nil
}

// DeleteListing removes the listing together with its reviews and images.
func (ls *ListingService) DeleteListing(ctx context.Context, id primitive.ObjectID, claims *helpers.EnhancedClaims) error {
	if _, err := ls.authorize(ctx, id, claims); err != nil {
		return err
	}

	deleted, err := ls.listings.DeleteListing(ctx, id)
	if err != nil {
		return repoErr(err)
	}

	n, err := ls.reviews.DeleteReviewsByIDs(ctx, deleted.Reviews)
	if err != nil {
		slog.Error("failed to delete reviews of deleted listing", "listing_id", id.Hex(), "error", err)
	} else {
		slog.Info("deleted listing", "listing_id", id.Hex(), "reviews", n)
	}

	ls.deleteImages(ctx, deleted.Images)
	return nil
}

// ApplyPriceSuggestion prices the listing and stores the suggestion in its
// AI metadata. The listing price itself is left for the owner to change.
func (ls *ListingService) ApplyPriceSuggestion(ctx context.Context, id primitive.ObjectID, claims *helpers.EnhancedClaims) (*PricePrediction, error) {
	listing, err := ls.authorize(ctx, id, claims)
	if err != nil {
		return nil, err
	}

	prediction, err := ls.pricing.PredictPrice(ctx, PriceInput{
		Location:     listing.Location,
		Country:      listing.Country,
		PropertyType: listing.PropertyType,
		Amenities:    listing.Amenities,
		CurrentPrice: listing.Price,
	})
	if err != nil {
		return nil, err
	}

	err = ls.listings.UpdateAIMetadata(ctx, id, models.AIMetadataUpdate{
		SuggestedPrice:  &prediction.SuggestedPrice,
		PriceConfidence: &prediction.Confidence,
	})
	if errors.Is(err, models.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return prediction, nil
}
