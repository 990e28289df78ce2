package services

import (
	"context"
	"path"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/wanderlust/internal/ai"
	"github.com/joshua-takyi/wanderlust/internal/helpers"
	"github.com/joshua-takyi/wanderlust/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeDelegate struct {
	mu       sync.Mutex
	reply    string
	err      error
	requests []ai.Request
}

func (f *fakeDelegate) Complete(ctx context.Context, req ai.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeDelegate) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func failingDelegate() *fakeDelegate {
	return &fakeDelegate{err: &ai.ProviderError{Provider: ai.ProviderNone, Err: ai.ErrNotConfigured}}
}

type fakeListingRepo struct {
	mu       sync.Mutex
	listings map[primitive.ObjectID]*models.Listing
	metadata []models.AIMetadataUpdate
}

func newFakeListingRepo(listings ...*models.Listing) *fakeListingRepo {
	r := &fakeListingRepo{listings: map[primitive.ObjectID]*models.Listing{}}
	for _, l := range listings {
		l.BeforeCreate()
		r.listings[l.ID] = l
	}
	return r
}

func (r *fakeListingRepo) CreateListing(ctx context.Context, listing *models.Listing) (*models.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	listing.BeforeCreate()
	r.listings[listing.ID] = listing
	return listing, nil
}

func (r *fakeListingRepo) GetListingByID(ctx context.Context, id primitive.ObjectID) (*models.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *l
	cp.Reviews = append([]primitive.ObjectID{}, l.Reviews...)
	return &cp, nil
}

func (r *fakeListingRepo) ListListings(ctx context.Context, offset, limit int) ([]*models.Listing, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.Listing{}
	for _, l := range r.listings {
		out = append(out, l)
	}
	return out, int64(len(out)), nil
}

func (r *fakeListingRepo) UpdateListing(ctx context.Context, id primitive.ObjectID, u models.ListingUpdate) (*models.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	if u.Title != nil {
		l.Title = *u.Title
	}
	if u.Price != nil {
		l.Price = *u.Price
	}
	if u.Description != nil {
		l.Description = *u.Description
	}
	return l, nil
}

func (r *fakeListingRepo) DeleteListing(ctx context.Context, id primitive.ObjectID) (*models.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	delete(r.listings, id)
	return l, nil
}

func (r *fakeListingRepo) AddReviewRef(ctx context.Context, listingID, reviewID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[listingID]
	if !ok {
		return models.ErrNotFound
	}
	l.Reviews = append(l.Reviews, reviewID)
	return nil
}

func (r *fakeListingRepo) RemoveReviewRef(ctx context.Context, listingID, reviewID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[listingID]
	if !ok {
		return models.ErrNotFound
	}
	kept := l.Reviews[:0]
	for _, id := range l.Reviews {
		if id != reviewID {
			kept = append(kept, id)
		}
	}
	l.Reviews = kept
	return nil
}

func (r *fakeListingRepo) UpdateAIMetadata(ctx context.Context, id primitive.ObjectID, u models.AIMetadataUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[id]
	if !ok {
		return models.ErrNotFound
	}
	r.metadata = append(r.metadata, u)
	if u.SentimentScore != nil {
		l.AIMetadata.SentimentScore = *u.SentimentScore
	}
	if u.ReviewSummary != nil {
		l.AIMetadata.ReviewSummary = *u.ReviewSummary
	}
	if u.SuggestedPrice != nil {
		l.AIMetadata.SuggestedPrice = *u.SuggestedPrice
	}
	if u.PriceConfidence != nil {
		l.AIMetadata.PriceConfidence = *u.PriceConfidence
	}
	return nil
}

type fakeReviewRepo struct {
	mu       sync.Mutex
	reviews  map[primitive.ObjectID]*models.Review
	analyses map[primitive.ObjectID]models.ReviewAIAnalysis
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{
		reviews:  map[primitive.ObjectID]*models.Review{},
		analyses: map[primitive.ObjectID]models.ReviewAIAnalysis{},
	}
}

// seed stores a review and links it to the listing.
func (r *fakeReviewRepo) seed(listings *fakeListingRepo, listingID primitive.ObjectID, author uuid.UUID, rating int, comment string) *models.Review {
	rev := &models.Review{Rating: rating, Comment: comment, Author: author, Listing: listingID}
	r.CreateReview(context.Background(), rev)
	listings.AddReviewRef(context.Background(), listingID, rev.ID)
	return rev
}

func (r *fakeReviewRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reviews)
}

func (r *fakeReviewRepo) CreateReview(ctx context.Context, review *models.Review) (*models.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	review.BeforeCreate()
	r.reviews[review.ID] = review
	return review, nil
}

func (r *fakeReviewRepo) GetReviewByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rev, ok := r.reviews[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return rev, nil
}

func (r *fakeReviewRepo) GetReviewsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.Review{}
	for _, id := range ids {
		if rev, ok := r.reviews[id]; ok {
			out = append(out, rev)
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) DeleteReview(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reviews[id]; !ok {
		return models.ErrNotFound
	}
	delete(r.reviews, id)
	return nil
}

func (r *fakeReviewRepo) DeleteReviewsByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, id := range ids {
		if _, ok := r.reviews[id]; ok {
			delete(r.reviews, id)
			n++
		}
	}
	return n, nil
}

func (r *fakeReviewRepo) UpdateReviewAnalysis(ctx context.Context, id primitive.ObjectID, analysis models.ReviewAIAnalysis, analyzedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rev, ok := r.reviews[id]
	if !ok {
		return models.ErrNotFound
	}
	r.analyses[id] = analysis
	rev.AIAnalysis = &analysis
	rev.Sentiment.Analyzed = true
	rev.Sentiment.AnalyzedAt = &analyzedAt
	return nil
}

type fakeConversationRepo struct {
	mu    sync.Mutex
	convs map[string]*models.Conversation
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{convs: map[string]*models.Conversation{}}
}

func (r *fakeConversationRepo) FindOrCreateConversation(ctx context.Context, sessionID string, userID *uuid.UUID, metadata models.ConversationMetadata) (*models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.convs[sessionID]
	if !ok {
		conv = &models.Conversation{
			ID:        primitive.NewObjectID(),
			SessionID: sessionID,
			UserID:    userID,
			Metadata:  metadata,
			IsActive:  true,
			Messages:  []models.ChatMessage{},
		}
		r.convs[sessionID] = conv
	}
	cp := *conv
	cp.Messages = append([]models.ChatMessage{}, conv.Messages...)
	return &cp, nil
}

func (r *fakeConversationRepo) FindConversationBySession(ctx context.Context, sessionID string) (*models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.convs[sessionID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return conv, nil
}

func (r *fakeConversationRepo) AppendMessage(ctx context.Context, conv *models.Conversation, role, content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.convs[conv.SessionID]
	if !ok {
		return models.ErrNotFound
	}
	msg := models.ChatMessage{Role: role, Content: content, Timestamp: time.Now()}
	stored.Messages = append(stored.Messages, msg)
	conv.Messages = append(conv.Messages, msg)
	return nil
}

type recordingQueue struct {
	mu   sync.Mutex
	jobs []Job
}

func (q *recordingQueue) Enqueue(job Job) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
	return true
}

func (q *recordingQueue) count(kind JobKind) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := 0
	for _, j := range q.jobs {
		if j.Kind == kind {
			n++
		}
	}
	return n
}

type fakeImageStore struct {
	uploadErr error
	uploaded  []string
	deleted   []string
}

func (s *fakeImageStore) Upload(ctx context.Context, paths []string, folder string) ([]string, error) {
	s.uploaded = append(s.uploaded, paths...)
	if s.uploadErr != nil {
		return nil, s.uploadErr
	}
	urls := make([]string, len(paths))
	for i, p := range paths {
		urls[i] = "https://res.cloudinary.com/demo/image/upload/" + folder + "/" + path.Base(p)
	}
	return urls, nil
}

func (s *fakeImageStore) Delete(ctx context.Context, urls []string) error {
	s.deleted = append(s.deleted, urls...)
	return nil
}

func claimsFor(id uuid.UUID, admin bool) *helpers.EnhancedClaims {
	role := helpers.RoleUser
	if admin {
		role = helpers.RoleAdmin
	}
	return &helpers.EnhancedClaims{CustomClaims: &helpers.CustomClaims{}, UserID: id, Role: role}
}
