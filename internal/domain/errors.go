package domain

import "errors"

// Queue store errors. Every mutation error leaves the store exactly as it
// was; read errors are side-effect free. None of these are fatal.
var (
	// Validation
	ErrContentTooLong = errors.New("content reference exceeds length bound")
	ErrZeroBid        = errors.New("bid must be greater than zero")

	// Timing
	ErrTooEarly = errors.New("pop interval has not elapsed yet")

	// Reads
	ErrEmptyQueue = errors.New("queue is empty")
	ErrOutOfRange = errors.New("index out of range")

	// Concurrency: a second mutation attempted while the payment step of
	// another is still in flight. Callers retry; the store never queues
	// or blocks overlapping mutations.
	ErrReentrantCall = errors.New("another mutation is in progress")

	// Transfer
	ErrPaymentFailed = errors.New("payment forwarding failed")
)
