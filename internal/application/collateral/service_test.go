package collateral

import (
	"context"
	"errors"
	"testing"

	"invoicevault-backend/internal/domain"
	"invoicevault-backend/internal/guard"
	"invoicevault-backend/internal/payouts"
	"invoicevault-backend/internal/vault"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type rejectingTransferer struct{}

func (rejectingTransferer) Transfer(tx *gorm.DB, wallet string, amount uint64, reason string) error {
	return errors.New("recipient rejected transfer")
}

func setupCollateralTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.CompanyAccount{}, &domain.Invoice{}, &domain.Token{},
		&domain.PoolEntry{}, &domain.Vault{}, &domain.LedgerEvent{}, &domain.Payout{},
	))
	svc := &Service{
		DB:        db,
		Guard:     guard.NewLocal(),
		Transfers: payouts.LedgerTransferer{},
	}
	return svc, db
}

func TestDeposit_ZeroAmount(t *testing.T) {
	svc, _ := setupCollateralTest(t)
	_, err := svc.Deposit(context.Background(), "0xcompany", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestDeposit_CreatesAccountAndVault(t *testing.T) {
	svc, db := setupCollateralTest(t)

	account, err := svc.Deposit(context.Background(), "0xcompany", 1000)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), account.TotalCollateral)

	balance, err := vault.Balance(db)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), balance)

	var event domain.LedgerEvent
	require.NoError(t, db.Where("event_type = ?", domain.EventCollateralDeposited).First(&event).Error)
}

func TestWithdraw_RespectsLockedCollateral(t *testing.T) {
	svc, db := setupCollateralTest(t)
	_, err := svc.Deposit(context.Background(), "0xcompany", 100)
	require.NoError(t, err)

	// An active invoice locks 80 of the 100 deposited.
	require.NoError(t, db.Create(&domain.Invoice{
		InvoiceID:           1,
		TotalInvoiceAmount:  100,
		TokenPrice:          10,
		TokensTotal:         10,
		TokensRemaining:     10,
		MaturityDate:        4102444800,
		CompanyWallet:       "0xcompany",
		CollateralDeposited: 80,
		IsActive:            true,
		IpfsDocumentHash:    "QmHash",
	}).Error)

	err = svc.Withdraw(context.Background(), "0xcompany", 50)
	var insufficient *domain.InsufficientCollateralError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, uint64(20), insufficient.Available)
	assert.Equal(t, uint64(50), insufficient.Required)

	// Balance untouched by the failed withdrawal.
	var account domain.CompanyAccount
	require.NoError(t, db.Where("wallet = ?", "0xcompany").First(&account).Error)
	assert.Equal(t, uint64(100), account.TotalCollateral)

	// Withdrawing within the free portion succeeds.
	require.NoError(t, svc.Withdraw(context.Background(), "0xcompany", 20))
	require.NoError(t, db.Where("wallet = ?", "0xcompany").First(&account).Error)
	assert.Equal(t, uint64(80), account.TotalCollateral)

	var payout domain.Payout
	require.NoError(t, db.Where("reason = ?", domain.PayoutReasonWithdrawal).First(&payout).Error)
	assert.Equal(t, uint64(20), payout.Amount)
}

func TestWithdraw_TransferFailureRollsBack(t *testing.T) {
	svc, db := setupCollateralTest(t)
	_, err := svc.Deposit(context.Background(), "0xcompany", 500)
	require.NoError(t, err)

	svc.Transfers = rejectingTransferer{}
	err = svc.Withdraw(context.Background(), "0xcompany", 200)
	assert.ErrorIs(t, err, domain.ErrWithdrawTransferFailed)

	var account domain.CompanyAccount
	require.NoError(t, db.Where("wallet = ?", "0xcompany").First(&account).Error)
	assert.Equal(t, uint64(500), account.TotalCollateral)

	balance, err := vault.Balance(db)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), balance)

	var count int64
	require.NoError(t, db.Model(&domain.LedgerEvent{}).
		Where("event_type = ?", domain.EventCollateralWithdrawn).Count(&count).Error)
	assert.Zero(t, count)
}

func TestWithdraw_DrainedVaultSurfacesInsolvency(t *testing.T) {
	svc, db := setupCollateralTest(t)
	_, err := svc.Deposit(context.Background(), "0xcompany", 500)
	require.NoError(t, err)

	// Redemptions pay full notional and can leave the pool holding less
	// than companies' nominal free collateral.
	require.NoError(t, db.Model(&domain.Vault{}).
		Where("id = ?", domain.VaultID).Update("balance", 100).Error)

	err = svc.Withdraw(context.Background(), "0xcompany", 200)
	assert.ErrorIs(t, err, domain.ErrVaultInsolvent)

	// Nothing moved.
	var account domain.CompanyAccount
	require.NoError(t, db.Where("wallet = ?", "0xcompany").First(&account).Error)
	assert.Equal(t, uint64(500), account.TotalCollateral)

	balance, err := vault.Balance(db)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), balance)
}

func TestLocked_UnknownCompany(t *testing.T) {
	svc, _ := setupCollateralTest(t)
	locked, err := svc.LockedCollateral(context.Background(), "0xnobody")
	require.NoError(t, err)
	assert.Zero(t, locked)
}

func TestAccount_Breakdown(t *testing.T) {
	svc, db := setupCollateralTest(t)
	_, err := svc.Deposit(context.Background(), "0xcompany", 10000)
	require.NoError(t, err)
	require.NoError(t, db.Create(&domain.Invoice{
		InvoiceID:           7,
		TotalInvoiceAmount:  100,
		TokenPrice:          100,
		TokensTotal:         10,
		TokensRemaining:     10,
		MaturityDate:        4102444800,
		CompanyWallet:       "0xcompany",
		CollateralDeposited: 800,
		IsActive:            true,
		IpfsDocumentHash:    "QmHash",
	}).Error)

	total, locked, free, err := svc.Account(context.Background(), "0xcompany")
	require.NoError(t, err)
	assert.Equal(t, uint64(10000), total)
	assert.Equal(t, uint64(800), locked)
	assert.Equal(t, uint64(9200), free)

	_, _, _, err = svc.Account(context.Background(), "0xnobody")
	assert.ErrorIs(t, err, domain.ErrCompanyNotFound)
}
