package domain

import (
	"time"
)

// Submission is one queued content reference together with the bid that
// bought its position and the identity of the bidder.
type Submission struct {
	ContentRef string    `json:"content_ref" db:"content_ref"`
	Bid        uint64    `json:"bid" db:"bid"`
	Submitter  string    `json:"submitter" db:"submitter"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// SubmitReceipt reports the outcome of a submit. Payment is always taken
// when the receipt is returned without error; Queued tells the caller
// whether the entry actually made it into the queue. A full queue outranks
// low bids without refunding them.
type SubmitReceipt struct {
	Queued   bool   `json:"queued"`
	Position int    `json:"position"`
	Bid      uint64 `json:"bid"`
}

// QueueStore is the bid-ordered queue state machine. Entries are sorted
// descending by bid, ties keep arrival order, and the head can only leave
// through PopIfReady. Implementations must never expose a partially
// applied mutation to any reader.
type QueueStore interface {
	Submit(contentRef string, bid uint64, submitter string) (SubmitReceipt, error)
	PopIfReady() (Submission, error)

	NowPlaying() (contentRef string, remaining time.Duration, ok bool)
	Count() int
	EntryAt(index int) (Submission, error)
	SubmitterAt(index int) (string, error)
	CreatedAtAt(index int) (time.Time, error)
	TimeUntilNextPop() time.Duration
	Snapshot() []Submission
}

// PaymentForwarder moves a bid from the submitter to the queue owner. It is
// called while the store's mutation guard is held, so implementations must
// not call back into the store.
type PaymentForwarder interface {
	Forward(from, to string, amount uint64) error
}

// QueueUsecase is the relay-facing orchestration surface around the store.
type QueueUsecase interface {
	SubmitEntry(submitter, contentRef string, bid uint64) (*SubmitReceipt, error)
	Advance() (*Submission, error)
	NowPlaying() (*NowPlayingView, error)
	Metadata() (*QueueMetadata, error)
	Count() int
	EntryAt(index int) (*Submission, error)
	RefreshSnapshots()
}

// NowPlayingView is the display client's ~5s polling document.
type NowPlayingView struct {
	ContentRef string `json:"content_ref"`
	Remaining  int64  `json:"remaining_seconds"`
	Playing    bool   `json:"playing"`
}

// QueueMetadata is the display client's ~30s polling document: the current
// head, the entry coming up next, and the first few queued submissions.
type QueueMetadata struct {
	TotalCount int         `json:"total_count"`
	NowPlaying *EntryView  `json:"now_playing"`
	UpNext     *EntryView  `json:"up_next"`
	RecentTop  []EntryView `json:"recent_top"`
}

// EntryView is a single submission as shown to the display client.
type EntryView struct {
	Index      int    `json:"index"`
	ContentRef string `json:"content_ref"`
	Bid        uint64 `json:"bid"`
	Submitter  string `json:"submitter"`
	Timestamp  int64  `json:"timestamp"`
}
