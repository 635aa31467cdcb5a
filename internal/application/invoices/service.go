package invoices

import (
	"context"
	"errors"
	"time"

	"invoicevault-backend/internal/application/collateral"
	"invoicevault-backend/internal/assets"
	"invoicevault-backend/internal/domain"
	"invoicevault-backend/internal/events"
	"invoicevault-backend/internal/guard"
	"invoicevault-backend/internal/tokenpool"

	"gorm.io/gorm"
)

// CreateParams carries the economic parameters of a new invoice issuance.
type CreateParams struct {
	InvoiceID          uint64 `json:"invoice_id"`
	TotalInvoiceAmount uint64 `json:"total_invoice_amount"`
	TokenPrice         uint64 `json:"token_price"`
	TokensTotal        uint64 `json:"tokens_total"`
	MaturityDate       int64  `json:"maturity_date"`
	IpfsDocumentHash   string `json:"ipfs_document_hash"`
}

// Service implements invoice issuance and the invoice registry reads.
type Service struct {
	DB        *gorm.DB
	Guard     guard.Guard
	Registry  assets.Registry
	Publisher events.Publisher
	Now       func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// CreateInvoiceToken issues an invoice: it locks 80% of the total token value
// out of the issuer's free collateral, mints all tokens to the issuer and
// fills the invoice's free-token pool in mint order. Reusing an invoice id is
// rejected, never overwritten.
func (s *Service) CreateInvoiceToken(ctx context.Context, issuer string, p CreateParams) (*domain.Invoice, error) {
	if p.TotalInvoiceAmount == 0 {
		return nil, domain.ErrInvalidInvoiceAmount
	}
	if p.TokenPrice == 0 {
		return nil, domain.ErrInvalidTokenPrice
	}
	if p.TokensTotal == 0 {
		return nil, domain.ErrInvalidTokenCount
	}
	if p.MaturityDate <= s.now().Unix() {
		return nil, domain.ErrInvalidMaturityDate
	}
	if p.IpfsDocumentHash == "" {
		return nil, domain.ErrMissingDocumentHash
	}
	required, err := domain.RequiredCollateral(p.TokenPrice, p.TokensTotal)
	if err != nil {
		return nil, err
	}

	release, err := s.Guard.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	var invoice domain.Invoice
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Invoice
		err := tx.Where("invoice_id = ?", p.InvoiceID).First(&existing).Error
		if err == nil {
			return domain.ErrDuplicateInvoiceID
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		free, err := collateral.Free(tx, issuer)
		if err != nil {
			return err
		}
		if free < required {
			return &domain.InsufficientCollateralError{Available: free, Required: required}
		}

		invoice = domain.Invoice{
			InvoiceID:           p.InvoiceID,
			TotalInvoiceAmount:  p.TotalInvoiceAmount,
			TokenPrice:          p.TokenPrice,
			TokensTotal:         p.TokensTotal,
			TokensRemaining:     p.TokensTotal,
			MaturityDate:        p.MaturityDate,
			CompanyWallet:       issuer,
			CollateralDeposited: required,
			IsActive:            true,
			IpfsDocumentHash:    p.IpfsDocumentHash,
		}
		if err := tx.Create(&invoice).Error; err != nil {
			return err
		}

		for seq := uint64(0); seq < p.TokensTotal; seq++ {
			tokenID := invoice.TokenID(seq)
			if err := s.Registry.Mint(tx, issuer, tokenID, p.InvoiceID); err != nil {
				return err
			}
			if err := tokenpool.Push(tx, p.InvoiceID, seq, tokenID); err != nil {
				return err
			}
		}

		return events.Record(tx, domain.EventInvoiceTokenCreated, map[string]interface{}{
			"invoice_id":   p.InvoiceID,
			"total_amount": p.TotalInvoiceAmount,
			"token_price":  p.TokenPrice,
			"tokens_total": p.TokensTotal,
			"ipfs_hash":    p.IpfsDocumentHash,
		})
	})
	if err != nil {
		return nil, err
	}
	if s.Publisher != nil {
		s.Publisher.Produce(domain.EventInvoiceTokenCreated, map[string]interface{}{
			"invoice_id": p.InvoiceID,
			"company":    issuer,
		})
	}
	return &invoice, nil
}

// Get returns the invoice with the given id.
func (s *Service) Get(ctx context.Context, invoiceID uint64) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := s.DB.WithContext(ctx).Where("invoice_id = ?", invoiceID).First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// ListByCompany returns a company's invoices, newest first.
func (s *Service) ListByCompany(ctx context.Context, wallet string) ([]domain.Invoice, error) {
	var out []domain.Invoice
	err := s.DB.WithContext(ctx).
		Where("company_wallet = ?", wallet).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}
