package health

import (
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Handlers struct {
	DB  *gorm.DB
	Rdb *redis.Client
}

// JSON GET /health/json — liveness of the service and its dependencies.
func (h *Handlers) JSON(c *fiber.Ctx) error {
	dbStatus := "not configured"
	if h.DB != nil {
		dbStatus = "ok"
		if sqlDB, err := h.DB.DB(); err != nil {
			dbStatus = err.Error()
		} else if err := sqlDB.Ping(); err != nil {
			dbStatus = err.Error()
		}
	}

	redisStatus := "not configured"
	if h.Rdb != nil {
		redisStatus = "ok"
		if err := h.Rdb.Ping(c.Context()).Err(); err != nil {
			redisStatus = err.Error()
		}
	}

	return c.JSON(fiber.Map{
		"status":   "up",
		"database": dbStatus,
		"redis":    redisStatus,
	})
}
