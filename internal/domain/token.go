package domain

import "time"

// Token is a unique claim unit against an invoice's redemption. Ownership
// starts with the issuing company and moves to buyers on purchase.
type Token struct {
	TokenID   uint64    `gorm:"column:token_id;primaryKey;autoIncrement:false" json:"token_id"`
	InvoiceID uint64    `gorm:"column:invoice_id;not null;index" json:"invoice_id"`
	Owner     string    `gorm:"column:owner;not null;index" json:"owner"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Token) TableName() string {
	return "tokens"
}

// PoolEntry is one unsold token in an invoice's free-token pool. Position
// preserves insertion order; pop takes the highest position (stack semantics).
type PoolEntry struct {
	ID        uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	InvoiceID uint64 `gorm:"column:invoice_id;not null;index:idx_pool_invoice_position" json:"invoice_id"`
	Position  uint64 `gorm:"column:position;not null;index:idx_pool_invoice_position" json:"position"`
	TokenID   uint64 `gorm:"column:token_id;not null" json:"token_id"`
}

func (PoolEntry) TableName() string {
	return "free_token_pool"
}
