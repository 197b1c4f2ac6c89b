package usecase

import (
	"errors"
	"fmt"
	"time"

	"github.com/jukewave/jukewave/internal/domain"
	"github.com/jukewave/jukewave/pkg/logger"
	"github.com/jukewave/jukewave/pkg/metrics"
	"github.com/jukewave/jukewave/pkg/utils"
)

// recentTopSize is how many leading entries the metadata document carries,
// matching what the display client renders.
const recentTopSize = 5

type queueUsecase struct {
	store      domain.QueueStore
	ledgerRepo domain.LedgerRepository
	cacheRepo  domain.SnapshotCache
}

// NewQueueUsecase wires the queue store to the event journal and the
// read-side snapshot cache.
func NewQueueUsecase(
	store domain.QueueStore,
	ledgerRepo domain.LedgerRepository,
	cacheRepo domain.SnapshotCache,
) domain.QueueUsecase {
	return &queueUsecase{
		store:      store,
		ledgerRepo: ledgerRepo,
		cacheRepo:  cacheRepo,
	}
}

// SubmitEntry pushes a bid into the store. The store itself forwards the
// payment atomically; this layer only adds journaling, cache invalidation
// and metrics on top.
func (uc *queueUsecase) SubmitEntry(submitter, contentRef string, bid uint64) (*domain.SubmitReceipt, error) {
	if submitter == "" {
		return nil, fmt.Errorf("missing submitter address")
	}
	if contentRef == "" {
		return nil, fmt.Errorf("missing content reference")
	}

	receipt, err := uc.store.Submit(contentRef, bid, submitter)
	if err != nil {
		outcome := "error"
		switch {
		case errors.Is(err, domain.ErrContentTooLong), errors.Is(err, domain.ErrZeroBid):
			outcome = "rejected"
		case errors.Is(err, domain.ErrReentrantCall):
			outcome = "busy"
		case errors.Is(err, domain.ErrPaymentFailed):
			outcome = "payment_failed"
		}
		metrics.RecordSubmission(outcome, 0)
		return nil, err
	}

	outcome := "queued"
	if !receipt.Queued {
		outcome = "paid_not_queued"
	}
	metrics.RecordSubmission(outcome, float64(bid))
	metrics.SetQueueSize(float64(uc.store.Count()))

	if err := uc.cacheRepo.Invalidate(); err != nil {
		logger.Warn("Failed to invalidate queue snapshot cache", logger.ErrorField(err))
	}

	logger.Info("Submission processed",
		logger.String("submitter", submitter),
		logger.String("content_ref", contentRef),
		logger.Int64("bid", int64(bid)),
		logger.Bool("queued", receipt.Queued),
		logger.Int("position", receipt.Position),
	)

	return &receipt, nil
}

// Advance pops the head if the interval has elapsed. TooEarly and
// EmptyQueue are expected outcomes for a timer-driven caller and are
// passed through untouched for it to log discreetly.
func (uc *queueUsecase) Advance() (*domain.Submission, error) {
	popped, err := uc.store.PopIfReady()
	if err != nil {
		return nil, err
	}

	metrics.RecordPop()
	metrics.SetQueueSize(float64(uc.store.Count()))

	if err := uc.cacheRepo.Invalidate(); err != nil {
		logger.Warn("Failed to invalidate queue snapshot cache", logger.ErrorField(err))
	}

	logger.Info("Queue advanced",
		logger.String("content_ref", popped.ContentRef),
		logger.String("submitter", popped.Submitter),
		logger.Int64("bid", int64(popped.Bid)),
	)

	return &popped, nil
}

// NowPlaying serves the ~5s polling document, preferring the cache.
func (uc *queueUsecase) NowPlaying() (*domain.NowPlayingView, error) {
	if cached, err := uc.cacheRepo.GetNowPlaying(); err == nil && cached != nil {
		return cached, nil
	} else if err != nil {
		logger.Warn("Snapshot cache read failed, falling back to store", logger.ErrorField(err))
	}

	view := uc.buildNowPlaying()
	if err := uc.cacheRepo.CacheNowPlaying(view); err != nil {
		logger.Warn("Failed to cache now-playing view", logger.ErrorField(err))
	}
	return view, nil
}

// Metadata serves the ~30s polling document, preferring the cache.
func (uc *queueUsecase) Metadata() (*domain.QueueMetadata, error) {
	if cached, err := uc.cacheRepo.GetMetadata(); err == nil && cached != nil {
		return cached, nil
	} else if err != nil {
		logger.Warn("Snapshot cache read failed, falling back to store", logger.ErrorField(err))
	}

	meta := uc.buildMetadata()
	if err := uc.cacheRepo.CacheMetadata(meta); err != nil {
		logger.Warn("Failed to cache queue metadata", logger.ErrorField(err))
	}
	return meta, nil
}

// Count returns the committed queue length straight from the store.
func (uc *queueUsecase) Count() int {
	return uc.store.Count()
}

// EntryAt returns the committed entry at index straight from the store.
func (uc *queueUsecase) EntryAt(index int) (*domain.Submission, error) {
	sub, err := uc.store.EntryAt(index)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// RefreshSnapshots rebuilds both cached projections from committed state.
// The snapshot worker calls this on the display client's cadence.
func (uc *queueUsecase) RefreshSnapshots() {
	if err := uc.cacheRepo.CacheNowPlaying(uc.buildNowPlaying()); err != nil {
		logger.Warn("Failed to refresh now-playing cache", logger.ErrorField(err))
	}
	if err := uc.cacheRepo.CacheMetadata(uc.buildMetadata()); err != nil {
		logger.Warn("Failed to refresh metadata cache", logger.ErrorField(err))
	}
	metrics.SetQueueSize(float64(uc.store.Count()))
}

func (uc *queueUsecase) buildNowPlaying() *domain.NowPlayingView {
	ref, remaining, ok := uc.store.NowPlaying()
	return &domain.NowPlayingView{
		ContentRef: ref,
		Remaining:  int64(remaining / time.Second),
		Playing:    ok,
	}
}

func (uc *queueUsecase) buildMetadata() *domain.QueueMetadata {
	snap := uc.store.Snapshot()

	meta := &domain.QueueMetadata{
		TotalCount: len(snap),
		RecentTop:  make([]domain.EntryView, 0, recentTopSize),
	}

	for i, sub := range snap {
		if i >= recentTopSize {
			break
		}
		meta.RecentTop = append(meta.RecentTop, entryView(i, sub))
	}
	if len(snap) > 0 {
		head := entryView(0, snap[0])
		meta.NowPlaying = &head
	}
	if len(snap) > 1 {
		next := entryView(1, snap[1])
		meta.UpNext = &next
	}

	return meta
}

func entryView(index int, sub domain.Submission) domain.EntryView {
	return domain.EntryView{
		Index:      index,
		ContentRef: sub.ContentRef,
		Bid:        sub.Bid,
		Submitter:  sub.Submitter,
		Timestamp:  sub.CreatedAt.Unix(),
	}
}

// journalSink persists store events into the ledger journal. It satisfies
// domain.EventSink and never propagates persistence failures back into the
// mutation path.
type journalSink struct {
	ledgerRepo domain.LedgerRepository
}

// NewJournalSink builds the event sink backing the queue event journal.
func NewJournalSink(ledgerRepo domain.LedgerRepository) domain.EventSink {
	return &journalSink{ledgerRepo: ledgerRepo}
}

func (s *journalSink) EntryAccepted(sub domain.Submission) {
	s.record(&domain.QueueEvent{
		ID:         utils.GenerateUUID(),
		Type:       domain.EventEntryAccepted,
		ContentRef: sub.ContentRef,
		Bid:        sub.Bid,
		Submitter:  sub.Submitter,
		CreatedAt:  time.Now(),
	})
}

func (s *journalSink) PaymentReceived(payer string, amount uint64) {
	s.record(&domain.QueueEvent{
		ID:        utils.GenerateUUID(),
		Type:      domain.EventPaymentReceived,
		Bid:       amount,
		Submitter: payer,
		CreatedAt: time.Now(),
	})
}

func (s *journalSink) EntryConsumed(sub domain.Submission) {
	s.record(&domain.QueueEvent{
		ID:         utils.GenerateUUID(),
		Type:       domain.EventEntryConsumed,
		ContentRef: sub.ContentRef,
		Bid:        sub.Bid,
		Submitter:  sub.Submitter,
		CreatedAt:  time.Now(),
	})
}

func (s *journalSink) record(event *domain.QueueEvent) {
	if s.ledgerRepo == nil {
		return
	}
	if err := s.ledgerRepo.RecordEvent(event); err != nil {
		logger.Error("Failed to journal queue event",
			logger.String("type", event.Type),
			logger.ErrorField(err),
		)
	}
}
