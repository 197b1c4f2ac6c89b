package queue

import (
	"fmt"
	"sync"
	"time"

	"github.com/jukewave/jukewave/internal/domain"
	"github.com/jukewave/jukewave/pkg/logger"
)

// Default bounds matching the deployed contract.
const (
	DefaultMaxCapacity   = 200
	DefaultMaxContentLen = 42
	DefaultPopInterval   = 3 * time.Minute
	DefaultSeedBid       = 1

	defaultSeedRef = "https://youtu.be/7DXlY8LhWnI"
)

// Config defines the store bounds and identity. Zero values fall back to
// the contract defaults.
type Config struct {
	MaxCapacity   int
	MaxContentLen int
	PopInterval   time.Duration
	Owner         string
	SeedContent   []string
	SeedBid       uint64

	// Clock overrides time.Now, used by tests to drive the pop gate.
	Clock func() time.Time
}

// Store is the bid-ordered queue state machine. Entries stay sorted by bid
// descending with FIFO order on ties, the list is capacity bounded, and the
// head only leaves through PopIfReady once the pop interval has elapsed.
//
// The insertion scan deliberately starts at index 1: no bid, however large,
// displaces the currently playing head.
type Store struct {
	mu           sync.RWMutex
	entries      []domain.Submission
	lastPoppedAt time.Time
	busy         bool

	maxCapacity   int
	maxContentLen int
	popInterval   time.Duration
	owner         string
	now           func() time.Time

	payments domain.PaymentForwarder
	sink     domain.EventSink
}

var _ domain.QueueStore = (*Store)(nil)

// New builds a store seeded with the owner's entries, as the contract does
// at deployment. The owner address receives every forwarded bid and is
// fixed for the store's lifetime.
func New(cfg Config, payments domain.PaymentForwarder, sink domain.EventSink) *Store {
	if cfg.MaxCapacity <= 0 {
		cfg.MaxCapacity = DefaultMaxCapacity
	}
	if cfg.MaxContentLen <= 0 {
		cfg.MaxContentLen = DefaultMaxContentLen
	}
	if cfg.PopInterval <= 0 {
		cfg.PopInterval = DefaultPopInterval
	}
	if cfg.SeedBid == 0 {
		cfg.SeedBid = DefaultSeedBid
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if len(cfg.SeedContent) == 0 {
		cfg.SeedContent = []string{defaultSeedRef, defaultSeedRef, defaultSeedRef}
	}

	s := &Store{
		maxCapacity:   cfg.MaxCapacity,
		maxContentLen: cfg.MaxContentLen,
		popInterval:   cfg.PopInterval,
		owner:         cfg.Owner,
		now:           cfg.Clock,
		payments:      payments,
		sink:          sink,
	}

	created := s.now()
	for _, ref := range cfg.SeedContent {
		s.entries = append(s.entries, domain.Submission{
			ContentRef: ref,
			Bid:        cfg.SeedBid,
			Submitter:  cfg.Owner,
			CreatedAt:  created,
		})
	}
	s.lastPoppedAt = created

	return s
}

// Submit validates the submission, forwards the full bid to the owner, and
// places the entry at its rank. Payment and placement are atomic: if the
// forwarder fails, the queue is untouched; if the queue is full and the bid
// ranks last, payment is still taken and the receipt reports Queued=false.
func (s *Store) Submit(contentRef string, bid uint64, submitter string) (domain.SubmitReceipt, error) {
	if len(contentRef) > s.maxContentLen {
		return domain.SubmitReceipt{}, domain.ErrContentTooLong
	}
	if bid == 0 {
		return domain.SubmitReceipt{}, domain.ErrZeroBid
	}

	if err := s.acquire(); err != nil {
		return domain.SubmitReceipt{}, err
	}
	defer s.release()

	s.mu.RLock()
	pos := insertionPoint(s.entries, bid)
	dropped := len(s.entries) >= s.maxCapacity && pos == len(s.entries)
	s.mu.RUnlock()

	// The forwarder runs before the queue commits, so a failed transfer
	// rolls the whole operation back structurally. The busy flag stays
	// held across this external call; a re-entrant Submit fails fast
	// instead of deadlocking.
	if err := s.payments.Forward(submitter, s.owner, bid); err != nil {
		return domain.SubmitReceipt{}, fmt.Errorf("%w: %v", domain.ErrPaymentFailed, err)
	}

	sub := domain.Submission{
		ContentRef: contentRef,
		Bid:        bid,
		Submitter:  submitter,
		CreatedAt:  s.now(),
	}

	receipt := domain.SubmitReceipt{Queued: !dropped, Position: -1, Bid: bid}
	if !dropped {
		s.mu.Lock()
		if len(s.entries) >= s.maxCapacity {
			// Full queue, ranked insertion: the tail entry is evicted.
			s.entries = s.entries[:s.maxCapacity-1]
		}
		s.entries = append(s.entries, domain.Submission{})
		copy(s.entries[pos+1:], s.entries[pos:])
		s.entries[pos] = sub
		s.mu.Unlock()
		receipt.Position = pos
	}

	if s.sink != nil {
		if !dropped {
			s.sink.EntryAccepted(sub)
		}
		s.sink.PaymentReceived(submitter, bid)
	}

	if dropped {
		logger.Warn("Submission paid but outranked by full queue",
			logger.String("submitter", submitter),
			logger.Int64("bid", int64(bid)),
		)
	}

	return receipt, nil
}

// PopIfReady removes and returns the head once the pop interval has elapsed
// since the previous successful pop. Calling it early is a no-op failure.
func (s *Store) PopIfReady() (domain.Submission, error) {
	if err := s.acquire(); err != nil {
		return domain.Submission{}, err
	}
	defer s.release()

	now := s.now()

	s.mu.Lock()
	if now.Before(s.lastPoppedAt.Add(s.popInterval)) {
		s.mu.Unlock()
		return domain.Submission{}, domain.ErrTooEarly
	}
	if len(s.entries) == 0 {
		s.mu.Unlock()
		return domain.Submission{}, domain.ErrEmptyQueue
	}

	head := s.entries[0]
	copy(s.entries, s.entries[1:])
	s.entries = s.entries[:len(s.entries)-1]
	s.lastPoppedAt = now
	s.mu.Unlock()

	if s.sink != nil {
		s.sink.EntryConsumed(head)
	}

	return head, nil
}

// NowPlaying returns the head's content reference and the time left until
// the next pop becomes eligible. ok is false when the queue is empty.
func (s *Store) NowPlaying() (string, time.Duration, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.entries) == 0 {
		return "", 0, false
	}
	return s.entries[0].ContentRef, s.timeUntilNextPopLocked(), true
}

// Count returns the number of queued entries, the head included.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// EntryAt returns the submission at index, 0 being the head.
func (s *Store) EntryAt(index int) (domain.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if index < 0 || index >= len(s.entries) {
		return domain.Submission{}, domain.ErrOutOfRange
	}
	return s.entries[index], nil
}

// SubmitterAt returns the submitter identity at index.
func (s *Store) SubmitterAt(index int) (string, error) {
	sub, err := s.EntryAt(index)
	if err != nil {
		return "", err
	}
	return sub.Submitter, nil
}

// CreatedAtAt returns the submission timestamp at index.
func (s *Store) CreatedAtAt(index int) (time.Time, error) {
	sub, err := s.EntryAt(index)
	if err != nil {
		return time.Time{}, err
	}
	return sub.CreatedAt, nil
}

// TimeUntilNextPop returns how long until PopIfReady becomes eligible,
// zero when it already is.
func (s *Store) TimeUntilNextPop() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.timeUntilNextPopLocked()
}

// Snapshot returns an ordered copy of the entries.
func (s *Store) Snapshot() []domain.Submission {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Submission, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Store) timeUntilNextPopLocked() time.Duration {
	remaining := s.lastPoppedAt.Add(s.popInterval).Sub(s.now())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// acquire claims the mutation guard, failing fast when another mutation is
// already in flight. The check is unconditional: overlapping mutations are
// rejected, never queued.
func (s *Store) acquire() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy {
		return domain.ErrReentrantCall
	}
	s.busy = true
	return nil
}

func (s *Store) release() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

// insertionPoint scans from index 1 for the first entry whose bid is
// strictly below the new one. Equal bids never displace, so earlier
// submissions keep their spot. Index 0 is never a candidate.
func insertionPoint(entries []domain.Submission, bid uint64) int {
	for i := 1; i < len(entries); i++ {
		if bid > entries[i].Bid {
			return i
		}
	}
	return len(entries)
}
