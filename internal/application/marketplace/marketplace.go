// Package marketplace specifies the surface a listing layer drives. The
// listing layer itself lives outside this service; it creates issuances and
// executes purchases on behalf of the listings it manages through Core.
package marketplace

import (
	"context"

	"invoicevault-backend/internal/application/invoices"
	"invoicevault-backend/internal/application/purchases"
	"invoicevault-backend/internal/domain"
)

// Core is the entry-point contract the ledger engine exposes to a
// marketplace collaborator.
type Core interface {
	CreateInvoiceToken(ctx context.Context, issuer string, p invoices.CreateParams) (*domain.Invoice, error)
	PurchaseToken(ctx context.Context, buyer string, invoiceID, tokenAmount, payment uint64) (*purchases.Receipt, error)
}

// Facade bundles the issuance and purchase services into one Core.
type Facade struct {
	Invoices  *invoices.Service
	Purchases *purchases.Service
}

var _ Core = (*Facade)(nil)

func (f *Facade) CreateInvoiceToken(ctx context.Context, issuer string, p invoices.CreateParams) (*domain.Invoice, error) {
	return f.Invoices.CreateInvoiceToken(ctx, issuer, p)
}

func (f *Facade) PurchaseToken(ctx context.Context, buyer string, invoiceID, tokenAmount, payment uint64) (*purchases.Receipt, error) {
	return f.Purchases.PurchaseToken(ctx, buyer, invoiceID, tokenAmount, payment)
}
