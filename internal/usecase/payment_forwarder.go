package usecase

import (
	"github.com/jukewave/jukewave/internal/domain"
	"github.com/jukewave/jukewave/pkg/metrics"
)

// walletForwarder forwards bids through the wallet ledger. The transfer is
// atomic on the repository side, so the store can treat a returned error as
// "no funds moved".
type walletForwarder struct {
	walletRepo domain.WalletRepository
}

// NewWalletForwarder builds the payment forwarder backing Submit.
func NewWalletForwarder(walletRepo domain.WalletRepository) domain.PaymentForwarder {
	return &walletForwarder{walletRepo: walletRepo}
}

func (f *walletForwarder) Forward(from, to string, amount uint64) error {
	if err := f.walletRepo.Transfer(from, to, amount); err != nil {
		metrics.RecordPaymentForward("failed")
		return err
	}
	metrics.RecordPaymentForward("success")
	return nil
}
