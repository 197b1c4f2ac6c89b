package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/jukewave/jukewave/internal/domain"
	"github.com/jukewave/jukewave/internal/queue"
)

type fakeForwarder struct {
	calls []uint64
	fail  bool
}

func (f *fakeForwarder) Forward(from, to string, amount uint64) error {
	if f.fail {
		return errors.New("transfer rejected")
	}
	f.calls = append(f.calls, amount)
	return nil
}

type fakeLedger struct {
	events []*domain.QueueEvent
	fail   bool
}

func (f *fakeLedger) RecordEvent(event *domain.QueueEvent) error {
	if f.fail {
		return errors.New("journal down")
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakeLedger) RecentEvents(limit int) ([]*domain.QueueEvent, error) {
	if limit > len(f.events) {
		limit = len(f.events)
	}
	return f.events[:limit], nil
}

type fakeCache struct {
	nowPlaying  *domain.NowPlayingView
	metadata    *domain.QueueMetadata
	invalidates int
}

func (f *fakeCache) CacheNowPlaying(view *domain.NowPlayingView) error {
	f.nowPlaying = view
	return nil
}

func (f *fakeCache) GetNowPlaying() (*domain.NowPlayingView, error) {
	return f.nowPlaying, nil
}

func (f *fakeCache) CacheMetadata(meta *domain.QueueMetadata) error {
	f.metadata = meta
	return nil
}

func (f *fakeCache) GetMetadata() (*domain.QueueMetadata, error) {
	return f.metadata, nil
}

func (f *fakeCache) Invalidate() error {
	f.nowPlaying = nil
	f.metadata = nil
	f.invalidates++
	return nil
}

func (f *fakeCache) Ping() error { return nil }

func newTestUsecase(t *testing.T, fwd *fakeForwarder, ledger *fakeLedger, cache *fakeCache) domain.QueueUsecase {
	t.Helper()
	now := time.Date(2025, 6, 22, 12, 0, 0, 0, time.UTC)
	store := queue.New(queue.Config{
		Owner:       "0xowner",
		SeedContent: []string{"seed-a", "seed-b"},
		SeedBid:     1,
		Clock:       func() time.Time { return now },
	}, fwd, NewJournalSink(ledger))
	return NewQueueUsecase(store, ledger, cache)
}

func TestSubmitEntryJournalsAndInvalidates(t *testing.T) {
	fwd := &fakeForwarder{}
	ledger := &fakeLedger{}
	cache := &fakeCache{metadata: &domain.QueueMetadata{TotalCount: 99}}
	uc := newTestUsecase(t, fwd, ledger, cache)

	receipt, err := uc.SubmitEntry("0xalice", "https://youtu.be/abc", 10)
	if err != nil {
		t.Fatalf("SubmitEntry() error = %v", err)
	}
	if !receipt.Queued {
		t.Fatal("expected receipt.Queued = true")
	}
	if len(fwd.calls) != 1 || fwd.calls[0] != 10 {
		t.Fatalf("forwarder calls = %v, want one call of 10", fwd.calls)
	}

	var accepted, paid int
	for _, e := range ledger.events {
		switch e.Type {
		case domain.EventEntryAccepted:
			accepted++
		case domain.EventPaymentReceived:
			paid++
		}
	}
	if accepted != 1 || paid != 1 {
		t.Fatalf("journal has %d accepted and %d payment events, want 1 and 1", accepted, paid)
	}

	if cache.invalidates != 1 {
		t.Fatalf("cache invalidations = %d, want 1", cache.invalidates)
	}
	if cache.metadata != nil {
		t.Fatal("stale metadata survived invalidation")
	}
}

func TestSubmitEntryRejectsMissingFields(t *testing.T) {
	uc := newTestUsecase(t, &fakeForwarder{}, &fakeLedger{}, &fakeCache{})

	if _, err := uc.SubmitEntry("", "https://youtu.be/abc", 10); err == nil {
		t.Fatal("expected error for missing submitter")
	}
	if _, err := uc.SubmitEntry("0xalice", "", 10); err == nil {
		t.Fatal("expected error for missing content reference")
	}
}

func TestSubmitEntryPassesStoreErrorsThrough(t *testing.T) {
	uc := newTestUsecase(t, &fakeForwarder{}, &fakeLedger{}, &fakeCache{})

	if _, err := uc.SubmitEntry("0xalice", "https://youtu.be/abc", 0); !errors.Is(err, domain.ErrZeroBid) {
		t.Fatalf("error = %v, want ErrZeroBid", err)
	}

	failing := &fakeForwarder{fail: true}
	cache := &fakeCache{}
	uc = newTestUsecase(t, failing, &fakeLedger{}, cache)
	if _, err := uc.SubmitEntry("0xalice", "https://youtu.be/abc", 10); !errors.Is(err, domain.ErrPaymentFailed) {
		t.Fatalf("error = %v, want ErrPaymentFailed", err)
	}
	if cache.invalidates != 0 {
		t.Fatal("cache invalidated on a failed submission")
	}
}

func TestSubmitEntryToleratesJournalFailure(t *testing.T) {
	ledger := &fakeLedger{fail: true}
	uc := newTestUsecase(t, &fakeForwarder{}, ledger, &fakeCache{})

	receipt, err := uc.SubmitEntry("0xalice", "https://youtu.be/abc", 10)
	if err != nil {
		t.Fatalf("SubmitEntry() error = %v, journal failure must not block the mutation", err)
	}
	if !receipt.Queued {
		t.Fatal("expected receipt.Queued = true")
	}
}

func TestNowPlayingPrefersCache(t *testing.T) {
	cache := &fakeCache{nowPlaying: &domain.NowPlayingView{ContentRef: "cached", Playing: true}}
	uc := newTestUsecase(t, &fakeForwarder{}, &fakeLedger{}, cache)

	view, err := uc.NowPlaying()
	if err != nil {
		t.Fatalf("NowPlaying() error = %v", err)
	}
	if view.ContentRef != "cached" {
		t.Fatalf("ContentRef = %q, want cached document", view.ContentRef)
	}
}

func TestNowPlayingRebuildsOnMiss(t *testing.T) {
	cache := &fakeCache{}
	uc := newTestUsecase(t, &fakeForwarder{}, &fakeLedger{}, cache)

	view, err := uc.NowPlaying()
	if err != nil {
		t.Fatalf("NowPlaying() error = %v", err)
	}
	if view.ContentRef != "seed-a" || !view.Playing {
		t.Fatalf("view = %+v, want head seed-a playing", view)
	}
	if cache.nowPlaying == nil {
		t.Fatal("rebuilt view was not written back to the cache")
	}
}

func TestMetadataShapesDocument(t *testing.T) {
	cache := &fakeCache{}
	uc := newTestUsecase(t, &fakeForwarder{}, &fakeLedger{}, cache)

	if _, err := uc.SubmitEntry("0xalice", "https://youtu.be/abc", 10); err != nil {
		t.Fatalf("SubmitEntry() error = %v", err)
	}

	meta, err := uc.Metadata()
	if err != nil {
		t.Fatalf("Metadata() error = %v", err)
	}
	if meta.TotalCount != 3 {
		t.Fatalf("TotalCount = %d, want 3", meta.TotalCount)
	}
	if meta.NowPlaying == nil || meta.NowPlaying.ContentRef != "seed-a" {
		t.Fatalf("NowPlaying = %+v, want seed-a", meta.NowPlaying)
	}
	if meta.UpNext == nil || meta.UpNext.ContentRef != "https://youtu.be/abc" {
		t.Fatalf("UpNext = %+v, want the new high bid", meta.UpNext)
	}
	if len(meta.RecentTop) != 3 {
		t.Fatalf("RecentTop length = %d, want 3", len(meta.RecentTop))
	}
}

func TestRefreshSnapshotsPopulatesBothProjections(t *testing.T) {
	cache := &fakeCache{}
	uc := newTestUsecase(t, &fakeForwarder{}, &fakeLedger{}, cache)

	uc.RefreshSnapshots()

	if cache.nowPlaying == nil || cache.metadata == nil {
		t.Fatal("expected both projections cached after refresh")
	}
	if cache.metadata.TotalCount != 2 {
		t.Fatalf("cached TotalCount = %d, want 2", cache.metadata.TotalCount)
	}
}
