// Package events maintains the ledger's observable event log: an append-only
// table written inside each operation's transaction (so only committed
// operations appear, in commit order), plus an optional Kafka sink for
// downstream consumers.
package events

import (
	"encoding/json"

	"invoicevault-backend/internal/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Record appends one event to the log on the operation's transaction.
func Record(tx *gorm.DB, eventType string, payload map[string]interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return tx.Create(&domain.LedgerEvent{
		EventType: eventType,
		Payload:   datatypes.JSON(data),
	}).Error
}

// List returns up to limit events in sequence order, oldest first.
func List(db *gorm.DB, limit int) ([]domain.LedgerEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []domain.LedgerEvent
	err := db.Order("seq ASC").Limit(limit).Find(&out).Error
	return out, err
}
