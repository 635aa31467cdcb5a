package response

import (
	"errors"

	"invoicevault-backend/internal/domain"

	"github.com/gofiber/fiber/v2"
)

// DomainError maps a ledger error to the standard error envelope. Every
// failure keeps its distinct name and, for insufficient-resource errors, the
// available/required figures in the details object.
func DomainError(c *fiber.Ctx, err error) error {
	var insufficientCollateral *domain.InsufficientCollateralError
	if errors.As(err, &insufficientCollateral) {
		return Error(c, err.Error(), fiber.StatusUnprocessableEntity, fiber.Map{
			"available": insufficientCollateral.Available,
			"required":  insufficientCollateral.Required,
		})
	}
	var insufficientTokens *domain.InsufficientTokensError
	if errors.As(err, &insufficientTokens) {
		return Error(c, err.Error(), fiber.StatusUnprocessableEntity, fiber.Map{
			"requested": insufficientTokens.Requested,
			"available": insufficientTokens.Available,
		})
	}
	var incorrectPayment *domain.IncorrectPaymentAmountError
	if errors.As(err, &incorrectPayment) {
		return Error(c, err.Error(), fiber.StatusPaymentRequired, fiber.Map{
			"sent":     incorrectPayment.Sent,
			"expected": incorrectPayment.Expected,
		})
	}

	switch {
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidInvoiceAmount),
		errors.Is(err, domain.ErrInvalidTokenPrice),
		errors.Is(err, domain.ErrInvalidTokenCount),
		errors.Is(err, domain.ErrInvalidMaturityDate),
		errors.Is(err, domain.ErrMissingDocumentHash),
		errors.Is(err, domain.ErrValueOverflow):
		return Error(c, err.Error(), fiber.StatusBadRequest, nil)
	case errors.Is(err, domain.ErrDuplicateInvoiceID):
		return Error(c, err.Error(), fiber.StatusConflict, nil)
	case errors.Is(err, domain.ErrCompanyNotFound),
		errors.Is(err, domain.ErrInvoiceNotFound),
		errors.Is(err, domain.ErrTokenNotFound):
		return Error(c, err.Error(), fiber.StatusNotFound, nil)
	case errors.Is(err, domain.ErrInvoiceNotActive),
		errors.Is(err, domain.ErrInsufficientFundsToRedeem),
		errors.Is(err, domain.ErrVaultInsolvent):
		return Error(c, err.Error(), fiber.StatusUnprocessableEntity, nil)
	case errors.Is(err, domain.ErrWithdrawTransferFailed),
		errors.Is(err, domain.ErrTokenPaymentTransferFailed),
		errors.Is(err, domain.ErrRedemptionTransferFailed):
		return Error(c, err.Error(), fiber.StatusBadGateway, nil)
	}
	return Error(c, err.Error(), fiber.StatusInternalServerError, nil)
}
