package domain

import (
	"errors"
	"fmt"
)

// Validation failures. Always rejected before any state change.
var (
	ErrInvalidAmount        = errors.New("amount must be greater than zero")
	ErrInvalidInvoiceAmount = errors.New("total invoice amount must be greater than zero")
	ErrInvalidTokenPrice    = errors.New("token price must be greater than zero")
	ErrInvalidTokenCount    = errors.New("tokens total must be greater than zero")
	ErrInvalidMaturityDate  = errors.New("invalid maturity date")
	ErrMissingDocumentHash  = errors.New("ipfs document hash is required")
	ErrDuplicateInvoiceID   = errors.New("invoice id already in use")
	ErrValueOverflow        = errors.New("token value overflows 64 bits")
)

// Lookup and lifecycle failures.
var (
	ErrCompanyNotFound  = errors.New("company not found")
	ErrInvoiceNotFound  = errors.New("invoice not found")
	ErrTokenNotFound    = errors.New("token not found")
	ErrInvoiceNotActive = errors.New("invoice is not active")
)

// ErrInsufficientFundsToRedeem: the vault cannot cover the full notional.
var ErrInsufficientFundsToRedeem = errors.New("insufficient pooled funds to redeem")

// ErrVaultInsolvent: the pooled cash cannot cover an outbound payout. Reached
// when redemptions have drained the vault below companies' nominal free
// collateral.
var ErrVaultInsolvent = errors.New("pooled funds cannot cover payout")

// Outbound transfer failures. The whole operation rolls back; no partial
// state survives.
var (
	ErrWithdrawTransferFailed     = errors.New("collateral withdrawal transfer failed")
	ErrTokenPaymentTransferFailed = errors.New("token payment transfer failed")
	ErrRedemptionTransferFailed   = errors.New("redemption payment transfer failed")
)

// InsufficientCollateralError reports how much free collateral the company
// has against what the operation needed.
type InsufficientCollateralError struct {
	Available uint64
	Required  uint64
}

func (e *InsufficientCollateralError) Error() string {
	return fmt.Sprintf("insufficient collateral: available %d, required %d", e.Available, e.Required)
}

// InsufficientTokensError reports a purchase exceeding the remaining supply.
type InsufficientTokensError struct {
	Requested uint64
	Available uint64
}

func (e *InsufficientTokensError) Error() string {
	return fmt.Sprintf("insufficient tokens: requested %d, available %d", e.Requested, e.Available)
}

// IncorrectPaymentAmountError reports an inexact purchase payment.
type IncorrectPaymentAmountError struct {
	Sent     uint64
	Expected uint64
}

func (e *IncorrectPaymentAmountError) Error() string {
	return fmt.Sprintf("incorrect payment amount: sent %d, expected %d", e.Sent, e.Expected)
}
