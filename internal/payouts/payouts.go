// Package payouts models the outbound cash transfer as a fallible, injected
// capability. The engine calls Transfer as the final step of an operation's
// transaction: a failing transfer surfaces as an error and rolls the whole
// operation back, so no state change ever outlives a bounced payment.
package payouts

import (
	"invoicevault-backend/internal/domain"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Transferer sends amount to wallet. Implementations must be safe to call on
// an open transaction and must report failure via error.
type Transferer interface {
	Transfer(tx *gorm.DB, wallet string, amount uint64, reason string) error
}

// LedgerTransferer records the transfer as a payout instruction row. A
// settlement process outside this service picks payouts up and moves the
// actual cash.
type LedgerTransferer struct{}

func (LedgerTransferer) Transfer(tx *gorm.DB, wallet string, amount uint64, reason string) error {
	payout := domain.Payout{
		Wallet: wallet,
		Amount: amount,
		Reason: reason,
	}
	if err := tx.Create(&payout).Error; err != nil {
		return err
	}
	log.Info().
		Str("payout_id", payout.PayoutID.String()).
		Str("wallet", wallet).
		Uint64("amount", amount).
		Str("reason", reason).
		Msg("payout recorded")
	return nil
}
