package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payout reasons.
const (
	PayoutReasonWithdrawal = "collateral_withdrawal"
	PayoutReasonTokenSale  = "token_sale_proceeds"
	PayoutReasonRedemption = "invoice_redemption"
)

// Payout records one outbound cash transfer instruction. Written inside the
// operation's transaction, so a rolled-back operation leaves no payout behind.
type Payout struct {
	PayoutID  uuid.UUID `gorm:"column:payout_id;type:uuid;primaryKey" json:"payout_id"`
	Wallet    string    `gorm:"column:wallet;not null;index" json:"wallet"`
	Amount    uint64    `gorm:"column:amount;not null" json:"amount"`
	Reason    string    `gorm:"column:reason;type:varchar(40);not null" json:"reason"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Payout) TableName() string {
	return "payouts"
}

func (p *Payout) BeforeCreate(tx *gorm.DB) error {
	if p.PayoutID == uuid.Nil {
		p.PayoutID = uuid.New()
	}
	return nil
}
