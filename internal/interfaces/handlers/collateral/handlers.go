package collateral

import (
	"errors"

	collateralsvc "invoicevault-backend/internal/application/collateral"
	"invoicevault-backend/internal/domain"
	"invoicevault-backend/internal/middleware"
	"invoicevault-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *collateralsvc.Service
}

// Deposit POST /api/v1/collateral/deposit
func (h *Handlers) Deposit(c *fiber.Ctx) error {
	var body struct {
		Amount uint64 `json:"amount"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	wallet := middleware.GetWallet(c)

	account, err := h.Service.Deposit(c.Context(), wallet, body.Amount)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Collateral deposited", fiber.Map{
		"company":          account.Wallet,
		"total_collateral": account.TotalCollateral,
	})
}

// Withdraw POST /api/v1/collateral/withdraw
func (h *Handlers) Withdraw(c *fiber.Ctx) error {
	var body struct {
		Amount uint64 `json:"amount"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	wallet := middleware.GetWallet(c)

	if err := h.Service.Withdraw(c.Context(), wallet, body.Amount); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Collateral withdrawn", fiber.Map{
		"company": wallet,
		"amount":  body.Amount,
	})
}

// Locked GET /api/v1/collateral/locked/:wallet
func (h *Handlers) Locked(c *fiber.Ctx) error {
	wallet := c.Params("wallet")
	locked, err := h.Service.LockedCollateral(c.Context(), wallet)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Locked collateral", fiber.Map{
		"company": wallet,
		"locked":  locked,
	})
}

// Account GET /api/v1/companies/:wallet
func (h *Handlers) Account(c *fiber.Ctx) error {
	wallet := c.Params("wallet")
	total, locked, free, err := h.Service.Account(c.Context(), wallet)
	if err != nil {
		if errors.Is(err, domain.ErrCompanyNotFound) {
			return response.Error(c, "Company not found", fiber.StatusNotFound, nil)
		}
		return response.DomainError(c, err)
	}
	return response.Success(c, "Company account", fiber.Map{
		"company":          wallet,
		"total_collateral": total,
		"locked":           locked,
		"free":             free,
	})
}
