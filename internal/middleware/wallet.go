package middleware

import (
	"invoicevault-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const walletHeader = "X-Wallet-Address"
const walletLocal = "wallet"

// RequireWallet resolves the caller's wallet address from the request header
// and stores it in Locals. Authentication of the wallet is an upstream
// concern; this service only needs a stable caller identity per request.
func RequireWallet() fiber.Handler {
	return func(c *fiber.Ctx) error {
		wallet := c.Get(walletHeader)
		if wallet == "" {
			return response.Unauthorized(c, "Missing "+walletHeader+" header")
		}
		c.Locals(walletLocal, wallet)
		return c.Next()
	}
}

// GetWallet returns the caller's wallet address ("" if none resolved).
func GetWallet(c *fiber.Ctx) string {
	if w, ok := c.Locals(walletLocal).(string); ok {
		return w
	}
	return ""
}
