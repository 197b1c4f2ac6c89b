package worker

import (
	"context"
	"time"

	"github.com/jukewave/jukewave/internal/domain"
	"github.com/jukewave/jukewave/pkg/logger"
)

// SnapshotWorker keeps the read-side cache warm on the display client's
// polling cadence, mirroring the original relay's background refresh task.
type SnapshotWorker struct {
	queueUC  domain.QueueUsecase
	interval time.Duration
}

// SnapshotWorkerConfig defines runtime options for the worker.
type SnapshotWorkerConfig struct {
	RefreshInterval time.Duration
}

// NewSnapshotWorker builds a new snapshot refresher instance.
func NewSnapshotWorker(queueUC domain.QueueUsecase, cfg SnapshotWorkerConfig) *SnapshotWorker {
	interval := cfg.RefreshInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}

	return &SnapshotWorker{
		queueUC:  queueUC,
		interval: interval,
	}
}

// Start launches the refresh loop. It blocks until context cancellation.
func (w *SnapshotWorker) Start(ctx context.Context) {
	logger.Info("Snapshot worker started", logger.Duration("interval", w.interval))
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Snapshot worker stopping", logger.ErrorField(ctx.Err()))
			return
		case <-ticker.C:
			if w.queueUC != nil {
				w.queueUC.RefreshSnapshots()
			}
		}
	}
}
