package domain

import (
	"math/bits"
	"time"
)

// CollateralRatioPercent sizes the collateral an issuer must post: 80% of the
// total token value, computed with truncating integer division.
const CollateralRatioPercent = 80

// TokenIDBase derives token ids from their invoice: invoiceID*TokenIDBase + seq.
const TokenIDBase = 1_000_000

// Invoice is a receivable financed through tokenized claims. Rows are never
// deleted; redemption flips IsActive off and that state is terminal.
type Invoice struct {
	InvoiceID           uint64    `gorm:"column:invoice_id;primaryKey;autoIncrement:false" json:"invoice_id"`
	TotalInvoiceAmount  uint64    `gorm:"column:total_invoice_amount;not null" json:"total_invoice_amount"`
	TokenPrice          uint64    `gorm:"column:token_price;not null" json:"token_price"`
	TokensTotal         uint64    `gorm:"column:tokens_total;not null" json:"tokens_total"`
	TokensRemaining     uint64    `gorm:"column:tokens_remaining;not null" json:"tokens_remaining"`
	MaturityDate        int64     `gorm:"column:maturity_date;not null" json:"maturity_date"`
	CompanyWallet       string    `gorm:"column:company_wallet;not null;index:idx_invoices_company_active" json:"company_wallet"`
	CollateralDeposited uint64    `gorm:"column:collateral_deposited;not null" json:"collateral_deposited"`
	IsActive            bool      `gorm:"column:is_active;not null;index:idx_invoices_company_active" json:"is_active"`
	IpfsDocumentHash    string    `gorm:"column:ipfs_document_hash;not null" json:"ipfs_document_hash"`
	CreatedAt           time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt           time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Invoice) TableName() string {
	return "invoices"
}

// CheckedMul multiplies two amounts, rejecting any product that does not fit
// in 64 bits. Unchecked wrap-around would let a crafted price*count pair
// shrink a collateral requirement or a payment to near zero.
func CheckedMul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, ErrValueOverflow
	}
	return lo, nil
}

// RequiredCollateral returns the collateral an issuance of price*count locks.
// Both multiplications are overflow-checked before the truncating division.
func RequiredCollateral(tokenPrice, tokensTotal uint64) (uint64, error) {
	notional, err := CheckedMul(tokenPrice, tokensTotal)
	if err != nil {
		return 0, err
	}
	scaled, err := CheckedMul(notional, CollateralRatioPercent)
	if err != nil {
		return 0, err
	}
	return scaled / 100, nil
}

// RedemptionAmount is the full notional an issuer pays out at maturity,
// regardless of how many tokens actually sold.
func (i *Invoice) RedemptionAmount() (uint64, error) {
	return CheckedMul(i.TokensTotal, i.TokenPrice)
}

// TokenID returns the id of the invoice's token with the given sequence.
func (i *Invoice) TokenID(seq uint64) uint64 {
	return i.InvoiceID*TokenIDBase + seq
}
