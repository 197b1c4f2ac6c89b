package postgres

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jukewave/jukewave/internal/domain"
	"github.com/jukewave/jukewave/pkg/logger"
)

type ledgerRepository struct {
	db *sqlx.DB
}

// NewLedgerRepository creates the queue event journal repository.
func NewLedgerRepository(db *sqlx.DB) domain.LedgerRepository {
	return &ledgerRepository{db: db}
}

// RecordEvent appends one event to the journal.
func (r *ledgerRepository) RecordEvent(event *domain.QueueEvent) error {
	query := `
		INSERT INTO queue_events (id, type, content_ref, bid, submitter, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(query,
		event.ID, event.Type, event.ContentRef,
		event.Bid, event.Submitter, event.CreatedAt,
	)
	if err != nil {
		logger.Error("Failed to record queue event",
			logger.String("event_id", event.ID),
			logger.String("type", event.Type),
			logger.ErrorField(err),
		)
		return fmt.Errorf("failed to record queue event: %w", err)
	}

	return nil
}

// RecentEvents returns the newest journal rows, most recent first.
func (r *ledgerRepository) RecentEvents(limit int) ([]*domain.QueueEvent, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := `
		SELECT id, type, content_ref, bid, submitter, created_at
		FROM queue_events
		ORDER BY created_at DESC
		LIMIT $1
	`

	var events []*domain.QueueEvent
	if err := r.db.Select(&events, query, limit); err != nil {
		logger.Error("Failed to list queue events", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to list queue events: %w", err)
	}

	return events, nil
}
