package postgres

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jukewave/jukewave/internal/domain"
	"github.com/jukewave/jukewave/pkg/logger"
)

type walletRepository struct {
	db *sqlx.DB
}

// NewWalletRepository creates the postgres-backed wallet ledger.
func NewWalletRepository(db *sqlx.DB) domain.WalletRepository {
	return &walletRepository{db: db}
}

// GetByAddress retrieves a wallet by its address.
func (r *walletRepository) GetByAddress(address string) (*domain.Wallet, error) {
	query := `
		SELECT address, balance, created_at, updated_at
		FROM wallets WHERE address = $1
	`

	var wallet domain.Wallet
	err := r.db.Get(&wallet, query, address)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("wallet not found")
		}
		logger.Error("Failed to get wallet",
			logger.String("address", address),
			logger.ErrorField(err),
		)
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	return &wallet, nil
}

// Credit adds funds to a wallet, creating it on first deposit.
func (r *walletRepository) Credit(address string, amount uint64) error {
	query := `
		INSERT INTO wallets (address, balance)
		VALUES ($1, $2)
		ON CONFLICT (address)
		DO UPDATE SET balance = wallets.balance + $2, updated_at = NOW()
	`

	if _, err := r.db.Exec(query, address, amount); err != nil {
		logger.Error("Failed to credit wallet",
			logger.String("address", address),
			logger.ErrorField(err),
		)
		return fmt.Errorf("failed to credit wallet: %w", err)
	}

	return nil
}

// Transfer moves amount between two wallets inside a single transaction.
// The debit uses a guarded UPDATE so an underfunded payer fails the whole
// transfer with no balance moved.
func (r *walletRepository) Transfer(from, to string, amount uint64) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transfer: %w", err)
	}
	defer tx.Rollback()

	debit := `
		UPDATE wallets SET balance = balance - $2, updated_at = NOW()
		WHERE address = $1 AND balance >= $2
	`
	result, err := tx.Exec(debit, from, amount)
	if err != nil {
		return fmt.Errorf("failed to debit wallet: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check debit result: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("insufficient balance")
	}

	credit := `
		INSERT INTO wallets (address, balance)
		VALUES ($1, $2)
		ON CONFLICT (address)
		DO UPDATE SET balance = wallets.balance + $2, updated_at = NOW()
	`
	if _, err := tx.Exec(credit, to, amount); err != nil {
		return fmt.Errorf("failed to credit wallet: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transfer: %w", err)
	}

	logger.Info("Wallet transfer completed",
		logger.String("from", from),
		logger.String("to", to),
		logger.Int64("amount", int64(amount)),
	)

	return nil
}
