package assets

import (
	"errors"

	"invoicevault-backend/internal/domain"

	"gorm.io/gorm"
)

// Registry is the asset-registry collaborator: it owns unique token
// identities and their current holder. The ledger engine only ever talks to
// this interface, so an external registry can be substituted.
type Registry interface {
	Mint(tx *gorm.DB, owner string, tokenID, invoiceID uint64) error
	Transfer(tx *gorm.DB, from, to string, tokenID uint64) error
	OwnerOf(db *gorm.DB, tokenID uint64) (string, error)
}

// GormRegistry keeps token ownership in the tokens table. Mint and Transfer
// run on the caller's transaction so registry changes commit or roll back
// with the operation that caused them.
type GormRegistry struct{}

func (GormRegistry) Mint(tx *gorm.DB, owner string, tokenID, invoiceID uint64) error {
	return tx.Create(&domain.Token{
		TokenID:   tokenID,
		InvoiceID: invoiceID,
		Owner:     owner,
	}).Error
}

func (GormRegistry) Transfer(tx *gorm.DB, from, to string, tokenID uint64) error {
	res := tx.Model(&domain.Token{}).
		Where("token_id = ? AND owner = ?", tokenID, from).
		Update("owner", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrTokenNotFound
	}
	return nil
}

func (GormRegistry) OwnerOf(db *gorm.DB, tokenID uint64) (string, error) {
	var token domain.Token
	if err := db.Where("token_id = ?", tokenID).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrTokenNotFound
		}
		return "", err
	}
	return token.Owner, nil
}
