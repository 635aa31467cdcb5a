package domain

import "time"

// VaultID is the primary key of the single vault row.
const VaultID = 1

// Vault is the pooled cash the system holds: collateral deposits flow in,
// withdrawals and redemption payouts flow out. Purchase payments pass through
// and are forwarded to the issuer within the same operation.
type Vault struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	Balance   uint64    `gorm:"column:balance;not null;default:0" json:"balance"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Vault) TableName() string {
	return "vault"
}
