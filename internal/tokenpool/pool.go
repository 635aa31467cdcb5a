// Package tokenpool implements the per-invoice free-token pool: the unsold
// token ids of an invoice, kept in insertion order and popped LIFO. The pool
// size equals the invoice's tokens_remaining at all times.
package tokenpool

import (
	"errors"

	"invoicevault-backend/internal/domain"

	"gorm.io/gorm"
)

// Push appends tokenID to the end of the invoice's pool.
func Push(tx *gorm.DB, invoiceID, position, tokenID uint64) error {
	return tx.Create(&domain.PoolEntry{
		InvoiceID: invoiceID,
		Position:  position,
		TokenID:   tokenID,
	}).Error
}

// Pop removes and returns the last-inserted token id of the invoice's pool.
// Buyers therefore receive tokens in reverse mint order.
func Pop(tx *gorm.DB, invoiceID uint64) (uint64, error) {
	var entry domain.PoolEntry
	err := tx.Where("invoice_id = ?", invoiceID).
		Order("position DESC").
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, &domain.InsufficientTokensError{Requested: 1, Available: 0}
		}
		return 0, err
	}
	if err := tx.Delete(&domain.PoolEntry{}, "id = ?", entry.ID).Error; err != nil {
		return 0, err
	}
	return entry.TokenID, nil
}

// Size returns the number of unsold tokens in the invoice's pool.
func Size(db *gorm.DB, invoiceID uint64) (uint64, error) {
	var n int64
	err := db.Model(&domain.PoolEntry{}).Where("invoice_id = ?", invoiceID).Count(&n).Error
	return uint64(n), err
}
