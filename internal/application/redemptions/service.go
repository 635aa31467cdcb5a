package redemptions

import (
	"context"
	"errors"
	"time"

	"invoicevault-backend/internal/assets"
	"invoicevault-backend/internal/domain"
	"invoicevault-backend/internal/events"
	"invoicevault-backend/internal/guard"
	"invoicevault-backend/internal/payouts"
	"invoicevault-backend/internal/vault"

	"gorm.io/gorm"
)

// Service implements invoice redemption, the only transition out of the
// active state.
type Service struct {
	DB        *gorm.DB
	Guard     guard.Guard
	Registry  assets.Registry
	Transfers payouts.Transferer
	Publisher events.Publisher
	Now       func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// RedeemTokens pays the invoice's full notional (tokensTotal*tokenPrice,
// regardless of how many tokens sold) to the issuer once maturity has passed,
// deactivates the invoice (freeing its collateral) and sweeps all of its
// tokens back to the issuer. Deactivation is terminal: a second call fails
// with ErrInvoiceNotActive. A bounced payout rolls everything back.
func (s *Service) RedeemTokens(ctx context.Context, caller string, invoiceID uint64) (uint64, error) {
	release, err := s.Guard.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer release()

	var redemption uint64
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var invoice domain.Invoice
		if err := tx.Where("invoice_id = ?", invoiceID).First(&invoice).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrInvoiceNotFound
			}
			return err
		}
		if !invoice.IsActive {
			return domain.ErrInvoiceNotActive
		}
		if s.now().Unix() < invoice.MaturityDate {
			return domain.ErrInvalidMaturityDate
		}

		redemption, err = invoice.RedemptionAmount()
		if err != nil {
			return err
		}
		balance, err := vault.Balance(tx)
		if err != nil {
			return err
		}
		if balance < redemption {
			return domain.ErrInsufficientFundsToRedeem
		}

		invoice.IsActive = false
		if err := tx.Save(&invoice).Error; err != nil {
			return err
		}

		// Sweep sold tokens back to the issuer.
		var sold []domain.Token
		if err := tx.Where("invoice_id = ? AND owner <> ?", invoiceID, invoice.CompanyWallet).
			Find(&sold).Error; err != nil {
			return err
		}
		for _, token := range sold {
			if err := s.Registry.Transfer(tx, token.Owner, invoice.CompanyWallet, token.TokenID); err != nil {
				return err
			}
		}

		if err := vault.Debit(tx, redemption); err != nil {
			return err
		}
		if err := events.Record(tx, domain.EventTokensRedeemed, map[string]interface{}{
			"invoice_id":        invoiceID,
			"user":              caller,
			"token_amount":      invoice.TokensTotal,
			"redemption_amount": redemption,
		}); err != nil {
			return err
		}
		if err := s.Transfers.Transfer(tx, invoice.CompanyWallet, redemption, domain.PayoutReasonRedemption); err != nil {
			return domain.ErrRedemptionTransferFailed
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if s.Publisher != nil {
		s.Publisher.Produce(domain.EventTokensRedeemed, map[string]interface{}{
			"invoice_id":        invoiceID,
			"redemption_amount": redemption,
		})
	}
	return redemption, nil
}
