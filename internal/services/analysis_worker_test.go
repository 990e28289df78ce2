package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type recordingRunner struct {
	mu      sync.Mutex
	order   []JobKind
	active  int
	overlap bool
	block   chan struct{}
}

func (r *recordingRunner) record(kind JobKind) {
	r.mu.Lock()
	r.active++
	if r.active > 1 {
		r.overlap = true
	}
	r.order = append(r.order, kind)
	r.mu.Unlock()

	if r.block != nil {
		<-r.block
	}
	time.Sleep(time.Millisecond)

	r.mu.Lock()
	r.active--
	r.mu.Unlock()
}

func (r *recordingRunner) RefreshListing(ctx context.Context, id primitive.ObjectID) error {
	r.record(JobRefreshListing)
	return nil
}

func (r *recordingRunner) EnrichReview(ctx context.Context, id primitive.ObjectID, comment string) error {
	r.record(JobEnrichReview)
	return errors.New("model unavailable")
}

func TestAnalysisWorkerDrainsInOrder(t *testing.T) {
	runner := &recordingRunner{}
	w := NewAnalysisWorker(runner, 10, time.Second)
	w.Start()

	id := primitive.NewObjectID()
	for i := 0; i < 3; i++ {
		if !w.Enqueue(EnrichReviewJob(id, "ok")) || !w.Enqueue(RefreshListingJob(id)) {
			t.Fatal("enqueue rejected")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := w.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}

	if len(runner.order) != 6 {
		t.Fatalf("ran %d jobs, want 6", len(runner.order))
	}
	for i, kind := range runner.order {
		want := JobEnrichReview
		if i%2 == 1 {
			want = JobRefreshListing
		}
		if kind != want {
			t.Errorf("job %d = %s, want %s", i, kind, want)
		}
	}
	if runner.overlap {
		t.Error("jobs ran concurrently")
	}
}

func TestAnalysisWorkerRejectsAfterStop(t *testing.T) {
	w := NewAnalysisWorker(&recordingRunner{}, 1, time.Second)
	w.Start()
	if err := w.Stop(context.Background()); err != nil {
		t.Fatal(err)
	}
	if w.Enqueue(RefreshListingJob(primitive.NewObjectID())) {
		t.Error("stopped worker accepted a job")
	}
	if err := w.Stop(context.Background()); err != nil {
		t.Errorf("second stop: %v", err)
	}
}

func TestAnalysisWorkerDropsWhenFull(t *testing.T) {
	runner := &recordingRunner{block: make(chan struct{})}
	w := NewAnalysisWorker(runner, 1, time.Second)
	w.Start()

	id := primitive.NewObjectID()
	w.Enqueue(RefreshListingJob(id))
	// Wait until the worker holds the first job so the buffer is empty.
	deadline := time.Now().Add(time.Second)
	for {
		runner.mu.Lock()
		n := len(runner.order)
		runner.mu.Unlock()
		if n == 1 || time.Now().After(deadline) {
			break
		}
		time.Sleep(time.Millisecond)
	}

	if !w.Enqueue(RefreshListingJob(id)) {
		t.Fatal("buffer slot should be free")
	}
	if w.Enqueue(RefreshListingJob(id)) {
		t.Error("full queue accepted a job")
	}

	close(runner.block)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := w.Stop(ctx); err != nil {
		t.Fatal(err)
	}
	if len(runner.order) != 2 {
		t.Errorf("ran %d jobs, want 2", len(runner.order))
	}
}

func TestAnalysisWorkerStopWithoutStart(t *testing.T) {
	w := NewAnalysisWorker(&recordingRunner{}, 1, time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if err := w.Stop(ctx); err != nil {
		t.Errorf("stop: %v", err)
	}
}
