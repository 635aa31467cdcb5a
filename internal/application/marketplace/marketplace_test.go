package marketplace

import (
	"context"
	"testing"
	"time"

	collateralsvc "invoicevault-backend/internal/application/collateral"
	invoicesvc "invoicevault-backend/internal/application/invoices"
	purchasesvc "invoicevault-backend/internal/application/purchases"
	"invoicevault-backend/internal/assets"
	"invoicevault-backend/internal/domain"
	"invoicevault-backend/internal/guard"
	"invoicevault-backend/internal/payouts"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// A listing layer only ever sees Core; this drives a full create-then-sell
// round through that interface.
func TestFacade_DrivesIssuanceAndPurchase(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.CompanyAccount{}, &domain.Invoice{}, &domain.Token{},
		&domain.PoolEntry{}, &domain.Vault{}, &domain.LedgerEvent{}, &domain.Payout{},
	))
	g := guard.NewLocal()
	ctx := context.Background()

	collateral := &collateralsvc.Service{DB: db, Guard: g, Transfers: payouts.LedgerTransferer{}}
	_, err = collateral.Deposit(ctx, "0xissuer", 10000)
	require.NoError(t, err)

	var core Core = &Facade{
		Invoices:  &invoicesvc.Service{DB: db, Guard: g, Registry: assets.GormRegistry{}},
		Purchases: &purchasesvc.Service{DB: db, Guard: g, Registry: assets.GormRegistry{}, Transfers: payouts.LedgerTransferer{}},
	}

	invoice, err := core.CreateInvoiceToken(ctx, "0xissuer", invoicesvc.CreateParams{
		InvoiceID:          1,
		TotalInvoiceAmount: 12000,
		TokenPrice:         1000,
		TokensTotal:        10,
		MaturityDate:       time.Now().Add(24 * time.Hour).Unix(),
		IpfsDocumentHash:   "QmDoc",
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(8000), invoice.CollateralDeposited)

	receipt, err := core.PurchaseToken(ctx, "0xbuyer", invoice.InvoiceID, 2, 2000)
	require.NoError(t, err)
	assert.Len(t, receipt.TokenIDs, 2)
}
