package domain

import "time"

// Queue event types as journaled for off-chain observers. The events are
// informational; the store is correct without any sink attached.
const (
	EventEntryAccepted   = "ENTRY_ACCEPTED"
	EventPaymentReceived = "PAYMENT_RECEIVED"
	EventEntryConsumed   = "ENTRY_CONSUMED"
)

// QueueEvent is one observable store transition.
type QueueEvent struct {
	ID         string    `json:"id" db:"id"`
	Type       string    `json:"type" db:"type"`
	ContentRef string    `json:"content_ref" db:"content_ref"`
	Bid        uint64    `json:"bid" db:"bid"`
	Submitter  string    `json:"submitter" db:"submitter"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// EventSink receives store events. Implementations must be non-blocking
// enough to sit inside the mutation path; failures are logged, never
// propagated back into the store.
type EventSink interface {
	EntryAccepted(s Submission)
	PaymentReceived(payer string, amount uint64)
	EntryConsumed(s Submission)
}

// LedgerRepository persists the queue event journal.
type LedgerRepository interface {
	RecordEvent(event *QueueEvent) error
	RecentEvents(limit int) ([]*QueueEvent, error)
}
