package invoices

import (
	"strconv"

	invoicesvc "invoicevault-backend/internal/application/invoices"
	purchasesvc "invoicevault-backend/internal/application/purchases"
	redemptionsvc "invoicevault-backend/internal/application/redemptions"
	"invoicevault-backend/internal/middleware"
	"invoicevault-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Invoices    *invoicesvc.Service
	Purchases   *purchasesvc.Service
	Redemptions *redemptionsvc.Service
}

func parseID(c *fiber.Ctx) (uint64, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Create POST /api/v1/invoices
func (h *Handlers) Create(c *fiber.Ctx) error {
	var body invoicesvc.CreateParams
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	issuer := middleware.GetWallet(c)

	invoice, err := h.Invoices.CreateInvoiceToken(c.Context(), issuer, body)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.SuccessCreated(c, "Invoice token created", invoice)
}

// Get GET /api/v1/invoices/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return response.Error(c, "Invalid invoice id", fiber.StatusBadRequest, nil)
	}
	invoice, err := h.Invoices.Get(c.Context(), id)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Invoice", invoice)
}

// ListMine GET /api/v1/invoices
func (h *Handlers) ListMine(c *fiber.Ctx) error {
	wallet := middleware.GetWallet(c)
	out, err := h.Invoices.ListByCompany(c.Context(), wallet)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Invoices", out)
}

// Purchase POST /api/v1/invoices/:id/purchase
func (h *Handlers) Purchase(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return response.Error(c, "Invalid invoice id", fiber.StatusBadRequest, nil)
	}
	var body struct {
		TokenAmount   uint64 `json:"token_amount"`
		PaymentAmount uint64 `json:"payment_amount"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	buyer := middleware.GetWallet(c)

	receipt, err := h.Purchases.PurchaseToken(c.Context(), buyer, id, body.TokenAmount, body.PaymentAmount)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Tokens purchased", receipt)
}

// Redeem POST /api/v1/invoices/:id/redeem
func (h *Handlers) Redeem(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return response.Error(c, "Invalid invoice id", fiber.StatusBadRequest, nil)
	}
	caller := middleware.GetWallet(c)

	redemption, err := h.Redemptions.RedeemTokens(c.Context(), caller, id)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Invoice redeemed", fiber.Map{
		"invoice_id":        id,
		"redemption_amount": redemption,
	})
}
