package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jukewave/jukewave/internal/domain"
)

type stubQueueUC struct {
	mu       sync.Mutex
	advances int
	err      error
}

func (s *stubQueueUC) SubmitEntry(string, string, uint64) (*domain.SubmitReceipt, error) {
	return nil, nil
}

func (s *stubQueueUC) Advance() (*domain.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advances++
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Submission{ContentRef: "ref"}, nil
}

func (s *stubQueueUC) NowPlaying() (*domain.NowPlayingView, error) { return nil, nil }
func (s *stubQueueUC) Metadata() (*domain.QueueMetadata, error)    { return nil, nil }
func (s *stubQueueUC) Count() int                                  { return 0 }
func (s *stubQueueUC) EntryAt(int) (*domain.Submission, error)     { return nil, nil }
func (s *stubQueueUC) RefreshSnapshots()                           {}

func (s *stubQueueUC) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.advances
}

func TestAdvanceWorkerTicksAndStops(t *testing.T) {
	uc := &stubQueueUC{}
	w := NewAdvanceWorker(uc, AdvanceWorkerConfig{TickInterval: 10 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	time.Sleep(55 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop on context cancellation")
	}

	if got := uc.count(); got < 2 {
		t.Fatalf("expected at least 2 advance attempts, got %d", got)
	}
}

func TestAdvanceWorkerToleratesExpectedErrors(t *testing.T) {
	uc := &stubQueueUC{err: domain.ErrTooEarly}
	w := NewAdvanceWorker(uc, AdvanceWorkerConfig{TickInterval: 10 * time.Millisecond})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	// Must keep ticking through TooEarly rather than exiting.
	w.Start(ctx)

	if got := uc.count(); got < 2 {
		t.Fatalf("expected worker to keep ticking through TooEarly, got %d attempts", got)
	}
}
