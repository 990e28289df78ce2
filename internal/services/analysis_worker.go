package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type JobKind string

const (
	JobRefreshListing JobKind = "refresh_listing"
	JobEnrichReview   JobKind = "enrich_review"

	DefaultQueueSize  = 256
	DefaultJobTimeout = 60 * time.Second
)

// Job is one unit of background analysis scheduled by a request.
type Job struct {
	Kind      JobKind
	ListingID primitive.ObjectID
	ReviewID  primitive.ObjectID
	Comment   string
}

func RefreshListingJob(listingID primitive.ObjectID) Job {
	return Job{Kind: JobRefreshListing, ListingID: listingID}
}

func EnrichReviewJob(reviewID primitive.ObjectID, comment string) Job {
	return Job{Kind: JobEnrichReview, ReviewID: reviewID, Comment: comment}
}

// JobQueue accepts background work without blocking the caller.
type JobQueue interface {
	Enqueue(job Job) bool
}

type jobRunner interface {
	RefreshListing(ctx context.Context, listingID primitive.ObjectID) error
	EnrichReview(ctx context.Context, reviewID primitive.ObjectID, comment string) error
}

// AnalysisWorker runs background jobs on a single goroutine, so listing
// metadata has exactly one writer and refreshes of a listing never overlap.
type AnalysisWorker struct {
	runner  jobRunner
	jobs    chan Job
	timeout time.Duration

	mu      sync.RWMutex
	started bool
	stopped bool
	done    chan struct{}
}

func NewAnalysisWorker(runner jobRunner, queueSize int, timeout time.Duration) *AnalysisWorker {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if timeout <= 0 {
		timeout = DefaultJobTimeout
	}
	return &AnalysisWorker{
		runner:  runner,
		jobs:    make(chan Job, queueSize),
		timeout: timeout,
		done:    make(chan struct{}),
	}
}

func (w *AnalysisWorker) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started || w.stopped {
		return
	}
	w.started = true
	go w.run()
}

// Enqueue drops the job, with a warning, when the queue is full or the
// worker has been stopped.
func (w *AnalysisWorker) Enqueue(job Job) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.stopped {
		slog.Warn("analysis worker stopped, dropping job", "kind", job.Kind)
		return false
	}
	select {
	case w.jobs <- job:
		return true
	default:
		slog.Warn("analysis queue full, dropping job", "kind", job.Kind, "capacity", cap(w.jobs))
		return false
	}
}

// Stop closes the queue and waits until every queued job has run or ctx
// expires.
func (w *AnalysisWorker) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.stopped {
		w.stopped = true
		close(w.jobs)
		if !w.started {
			close(w.done)
		}
	}
	w.mu.Unlock()

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *AnalysisWorker) run() {
	defer close(w.done)
	for job := range w.jobs {
		w.process(job)
	}
}

func (w *AnalysisWorker) process(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("analysis job panicked", "kind", job.Kind, "panic", r)
		}
	}()

	start := time.Now()
	var err error
	switch job.Kind {
	case JobRefreshListing:
		err = w.runner.RefreshListing(ctx, job.ListingID)
	case JobEnrichReview:
		err = w.runner.EnrichReview(ctx, job.ReviewID, job.Comment)
	default:
		slog.Warn("unknown analysis job", "kind", job.Kind)
		return
	}

	if err != nil {
		slog.Error("analysis job failed", "kind", job.Kind, "error", err, "duration", time.Since(start))
		return
	}
	slog.Debug("analysis job done", "kind", job.Kind, "duration", time.Since(start))
}
