package worker

import (
	"context"
	"errors"
	"time"

	"github.com/jukewave/jukewave/internal/domain"
	"github.com/jukewave/jukewave/pkg/logger"
)

// AdvanceWorker drives the queue forward on a fixed timer, the way the
// original relay triggered the contract's pop. TooEarly and EmptyQueue are
// expected outcomes, not failures; they are logged quietly and the worker
// keeps ticking. Callers manage lifecycle through the provided context.
type AdvanceWorker struct {
	queueUC  domain.QueueUsecase
	interval time.Duration
}

// AdvanceWorkerConfig defines runtime options for the worker.
type AdvanceWorkerConfig struct {
	TickInterval time.Duration
}

// NewAdvanceWorker builds a new advance worker instance.
func NewAdvanceWorker(queueUC domain.QueueUsecase, cfg AdvanceWorkerConfig) *AdvanceWorker {
	interval := cfg.TickInterval
	if interval <= 0 {
		interval = 3 * time.Minute
	}

	return &AdvanceWorker{
		queueUC:  queueUC,
		interval: interval,
	}
}

// Start launches the worker loop. It blocks until context cancellation.
func (w *AdvanceWorker) Start(ctx context.Context) {
	logger.Info("Advance worker started", logger.Duration("interval", w.interval))
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Advance worker stopping", logger.ErrorField(ctx.Err()))
			return
		case <-ticker.C:
			w.advanceOnce()
		}
	}
}

func (w *AdvanceWorker) advanceOnce() {
	if w.queueUC == nil {
		logger.Warn("Advance worker missing queue usecase")
		return
	}

	popped, err := w.queueUC.Advance()
	switch {
	case err == nil:
		logger.Info("Advanced to next entry",
			logger.String("content_ref", popped.ContentRef),
			logger.String("submitter", popped.Submitter),
		)
	case errors.Is(err, domain.ErrTooEarly):
		logger.Debug("Advance skipped, pop interval not elapsed")
	case errors.Is(err, domain.ErrEmptyQueue):
		logger.Debug("Advance skipped, queue is empty")
	case errors.Is(err, domain.ErrReentrantCall):
		logger.Debug("Advance skipped, store busy with another mutation")
	default:
		logger.Error("Failed to advance queue", logger.ErrorField(err))
	}
}
