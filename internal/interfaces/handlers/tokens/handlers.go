package tokens

import (
	"strconv"

	"invoicevault-backend/internal/assets"
	"invoicevault-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Handlers struct {
	DB       *gorm.DB
	Registry assets.Registry
}

// OwnerOf GET /api/v1/tokens/:id
func (h *Handlers) OwnerOf(c *fiber.Ctx) error {
	tokenID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return response.Error(c, "Invalid token id", fiber.StatusBadRequest, nil)
	}
	owner, err := h.Registry.OwnerOf(h.DB.WithContext(c.Context()), tokenID)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Token owner", fiber.Map{
		"token_id": tokenID,
		"owner":    owner,
	})
}
