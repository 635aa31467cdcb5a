package purchases

import (
	"context"
	"errors"
	"time"

	"invoicevault-backend/internal/assets"
	"invoicevault-backend/internal/domain"
	"invoicevault-backend/internal/events"
	"invoicevault-backend/internal/guard"
	"invoicevault-backend/internal/payouts"
	"invoicevault-backend/internal/tokenpool"

	"gorm.io/gorm"
)

// Receipt reports what a completed purchase delivered.
type Receipt struct {
	InvoiceID     uint64   `json:"invoice_id"`
	Buyer         string   `json:"buyer"`
	TokenIDs      []uint64 `json:"token_ids"`
	PaymentAmount uint64   `json:"payment_amount"`
}

// Service implements token purchase against active invoices.
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

// PurchaseToken sells tokenAmount tokens of the invoice to buyer for an
// exact payment of tokenAmount*tokenPrice. The supply counter is decremented
// before any token moves, tokens are popped from the free pool (reverse mint
// order), and the payment is forwarded to the issuer last; a bounced forward
// rolls the entire purchase back.
func (s *Service) PurchaseToken(ctx context.Context, buyer string, invoiceID, tokenAmount, payment uint64) (*Receipt, error) {
	if tokenAmount == 0 {
		return nil, domain.ErrInvalidAmount
	}
	release, err := s.Guard.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	receipt := Receipt{InvoiceID: invoiceID, Buyer: buyer, PaymentAmount: payment}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var invoice domain.Invoice
		if err := tx.Where("invoice_id = ?", invoiceID).First(&invoice).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrInvoiceNotFound
			}
			return err
		}
		if !invoice.IsActive || s.now().Unix() > invoice.MaturityDate {
			return domain.ErrInvoiceNotActive
		}
		expected, err := domain.CheckedMul(tokenAmount, invoice.TokenPrice)
		if err != nil {
			return err
		}
		if payment != expected {
			return &domain.IncorrectPaymentAmountError{Sent: payment, Expected: expected}
		}
		if tokenAmount > invoice.TokensRemaining {
			return &domain.InsufficientTokensError{Requested: tokenAmount, Available: invoice.TokensRemaining}
		}

		invoice.TokensRemaining -= tokenAmount
		if err := tx.Save(&invoice).Error; err != nil {
			return err
		}

		for i := uint64(0); i < tokenAmount; i++ {
			tokenID, err := tokenpool.Pop(tx, invoiceID)
			if err != nil {
				return err
			}
			if err := s.Registry.Transfer(tx, invoice.CompanyWallet, buyer, tokenID); err != nil {
				return err
			}
			receipt.TokenIDs = append(receipt.TokenIDs, tokenID)
		}

		if err := events.Record(tx, domain.EventInvoiceTokenPurchased, map[string]interface{}{
			"invoice_id":     invoiceID,
			"buyer":          buyer,
			"token_amount":   tokenAmount,
			"payment_amount": payment,
		}); err != nil {
			return err
		}

		// Full payment forwarded to the issuer after all state changes.
		if err := s.Transfers.Transfer(tx, invoice.CompanyWallet, payment, domain.PayoutReasonTokenSale); err != nil {
			return domain.ErrTokenPaymentTransferFailed
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.Publisher != nil {
		s.Publisher.Produce(domain.EventInvoiceTokenPurchased, map[string]interface{}{
			"invoice_id":   invoiceID,
			"buyer":        buyer,
			"token_amount": tokenAmount,
		})
	}
	return &receipt, nil
}
