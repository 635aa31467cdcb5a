package events

import (
	"strconv"

	eventlog "invoicevault-backend/internal/events"
	"invoicevault-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Handlers struct {
	DB *gorm.DB
}

// List GET /api/v1/events?limit=N — the event log in sequence order.
func (h *Handlers) List(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "100"))
	out, err := eventlog.List(h.DB.WithContext(c.Context()), limit)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Ledger events", fiber.Map{
		"events": out,
		"total":  len(out),
	})
}
