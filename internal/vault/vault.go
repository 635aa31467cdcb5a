// Package vault tracks the pooled cash the service holds on behalf of
// companies: collateral deposits in, withdrawals and redemption payouts out.
package vault

import (
	"fmt"

	"invoicevault-backend/internal/domain"

	"gorm.io/gorm"
)

func load(tx *gorm.DB) (*domain.Vault, error) {
	v := domain.Vault{ID: domain.VaultID}
	if err := tx.FirstOrCreate(&v, domain.Vault{ID: domain.VaultID}).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// Credit adds amount to the pooled balance.
func Credit(tx *gorm.DB, amount uint64) error {
	v, err := load(tx)
	if err != nil {
		return err
	}
	v.Balance += amount
	return tx.Save(v).Error
}

// Debit removes amount from the pooled balance. It fails with
// ErrVaultInsolvent when the pool cannot cover the amount, which can happen
// when redemptions have drained funds below companies' nominal free
// collateral.
func Debit(tx *gorm.DB, amount uint64) error {
	v, err := load(tx)
	if err != nil {
		return err
	}
	if v.Balance < amount {
		return fmt.Errorf("%w: balance %d, debit %d", domain.ErrVaultInsolvent, v.Balance, amount)
	}
	v.Balance -= amount
	return tx.Save(v).Error
}

// Balance returns the current pooled balance.
func Balance(db *gorm.DB) (uint64, error) {
	v, err := load(db)
	if err != nil {
		return 0, err
	}
	return v.Balance, nil
}
