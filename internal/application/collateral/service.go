package collateral

import (
	"context"
	"errors"

	"invoicevault-backend/internal/domain"
	"invoicevault-backend/internal/events"
	"invoicevault-backend/internal/guard"
	"invoicevault-backend/internal/payouts"
	"invoicevault-backend/internal/vault"

	"gorm.io/gorm"
)

// Service implements the collateral ledger: per-company totals with the
// locked share derived from active invoices.
type Service struct {
	DB        *gorm.DB
	Guard     guard.Guard
	Transfers payouts.Transferer
	Publisher events.Publisher
}

// Locked returns the collateral currently locked against wallet: the sum of
// collateral_deposited over its active invoices. Zero for unknown companies.
func Locked(db *gorm.DB, wallet string) (uint64, error) {
	var locked uint64
	err := db.Model(&domain.Invoice{}).
		Where("company_wallet = ? AND is_active = ?", wallet, true).
		Select("COALESCE(SUM(collateral_deposited), 0)").
		Scan(&locked).Error
	return locked, err
}

// Free returns wallet's free collateral: total minus locked.
func Free(db *gorm.DB, wallet string) (uint64, error) {
	var account domain.CompanyAccount
	if err := db.Where("wallet = ?", wallet).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	locked, err := Locked(db, wallet)
	if err != nil {
		return 0, err
	}
	return account.TotalCollateral - locked, nil
}

// Deposit credits amount to wallet's collateral. The account is created on
// first deposit.
func (s *Service) Deposit(ctx context.Context, wallet string, amount uint64) (*domain.CompanyAccount, error) {
	if amount == 0 {
		return nil, domain.ErrInvalidAmount
	}
	release, err := s.Guard.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	var account domain.CompanyAccount
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		account = domain.CompanyAccount{Wallet: wallet}
		if err := tx.FirstOrCreate(&account, domain.CompanyAccount{Wallet: wallet}).Error; err != nil {
			return err
		}
		account.TotalCollateral += amount
		if err := tx.Save(&account).Error; err != nil {
			return err
		}
		if err := vault.Credit(tx, amount); err != nil {
			return err
		}
		return events.Record(tx, domain.EventCollateralDeposited, map[string]interface{}{
			"company": wallet,
			"amount":  amount,
		})
	})
	if err != nil {
		return nil, err
	}
	if s.Publisher != nil {
		s.Publisher.Produce(domain.EventCollateralDeposited, map[string]interface{}{
			"company": wallet,
			"amount":  amount,
		})
	}
	return &account, nil
}

// Withdraw debits amount from wallet's free collateral and pays it out. The
// balance mutation commits with the payout: a failed transfer rolls the whole
// operation back, so a reentrant caller can never double-withdraw.
func (s *Service) Withdraw(ctx context.Context, wallet string, amount uint64) error {
	if amount == 0 {
		return domain.ErrInvalidAmount
	}
	release, err := s.Guard.Acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		free, err := Free(tx, wallet)
		if err != nil {
			return err
		}
		if free < amount {
			return &domain.InsufficientCollateralError{Available: free, Required: amount}
		}
		var account domain.CompanyAccount
		if err := tx.Where("wallet = ?", wallet).First(&account).Error; err != nil {
			return err
		}
		account.TotalCollateral -= amount
		if err := tx.Save(&account).Error; err != nil {
			return err
		}
		if err := vault.Debit(tx, amount); err != nil {
			return err
		}
		if err := events.Record(tx, domain.EventCollateralWithdrawn, map[string]interface{}{
			"company": wallet,
			"amount":  amount,
		}); err != nil {
			return err
		}
		// State is fully updated before the outbound transfer is attempted.
		if err := s.Transfers.Transfer(tx, wallet, amount, domain.PayoutReasonWithdrawal); err != nil {
			return domain.ErrWithdrawTransferFailed
		}
		return nil
	})
	if err != nil {
		return err
	}
	if s.Publisher != nil {
		s.Publisher.Produce(domain.EventCollateralWithdrawn, map[string]interface{}{
			"company": wallet,
			"amount":  amount,
		})
	}
	return nil
}

// LockedCollateral is the public read of wallet's locked collateral.
func (s *Service) LockedCollateral(ctx context.Context, wallet string) (uint64, error) {
	return Locked(s.DB.WithContext(ctx), wallet)
}

// Account returns wallet's collateral breakdown.
func (s *Service) Account(ctx context.Context, wallet string) (total, locked, free uint64, err error) {
	db := s.DB.WithContext(ctx)
	var account domain.CompanyAccount
	if err = db.Where("wallet = ?", wallet).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, 0, 0, domain.ErrCompanyNotFound
		}
		return 0, 0, 0, err
	}
	locked, err = Locked(db, wallet)
	if err != nil {
		return 0, 0, 0, err
	}
	return account.TotalCollateral, locked, account.TotalCollateral - locked, nil
}
