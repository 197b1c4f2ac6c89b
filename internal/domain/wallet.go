package domain

import "time"

// Wallet is a funded account keyed by its opaque address. Bids are paid out
// of the submitter's wallet into the queue owner's wallet.
type Wallet struct {
	Address   string    `json:"address" db:"address"`
	Balance   uint64    `json:"balance" db:"balance"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// WalletRepository is the wallet ledger. Transfer must be atomic: either
// both balances move or neither does.
type WalletRepository interface {
	GetByAddress(address string) (*Wallet, error)
	Credit(address string, amount uint64) error
	Transfer(from, to string, amount uint64) error
}
