package domain

import "time"

// CompanyAccount tracks the collateral a company has deposited. The locked
// portion is never stored: it is derived from the company's active invoices,
// so free collateral is always TotalCollateral minus that sum.
type CompanyAccount struct {
	Wallet          string    `gorm:"column:wallet;primaryKey" json:"wallet"`
	TotalCollateral uint64    `gorm:"column:total_collateral;not null;default:0" json:"total_collateral"`
	CreatedAt       time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (CompanyAccount) TableName() string {
	return "company_accounts"
}
