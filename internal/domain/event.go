package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Event types emitted by the ledger, in the order operations commit.
const (
	EventCollateralDeposited   = "COLLATERAL_DEPOSITED"
	EventCollateralWithdrawn   = "COLLATERAL_WITHDRAWN"
	EventInvoiceTokenCreated   = "INVOICE_TOKEN_CREATED"
	EventInvoiceTokenPurchased = "INVOICE_TOKEN_PURCHASED"
	EventTokensRedeemed        = "TOKENS_REDEEMED"
)

// LedgerEvent is one entry of the append-only event log. Seq is a DB-assigned
// monotone sequence; rows are written inside the operation's transaction so
// the log only ever contains committed operations.
type LedgerEvent struct {
	EventID   uuid.UUID      `gorm:"column:event_id;type:uuid;uniqueIndex" json:"event_id"`
	Seq       uint64         `gorm:"column:seq;primaryKey;autoIncrement" json:"seq"`
	EventType string         `gorm:"column:event_type;type:varchar(40);not null" json:"event_type"`
	Payload   datatypes.JSON `gorm:"column:payload" json:"payload"`
	CreatedAt time.Time      `gorm:"column:created_at" json:"created_at"`
}

func (LedgerEvent) TableName() string {
	return "ledger_events"
}

func (e *LedgerEvent) BeforeCreate(tx *gorm.DB) error {
	if e.EventID == uuid.Nil {
		e.EventID = uuid.New()
	}
	return nil
}
