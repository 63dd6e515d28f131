package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vendinha-dev/vendinha/internal/model"
)

// PaymentMode selects how a payment amount combines with what was already paid.
type PaymentMode string

const (
	// PaymentAdd adds the amount to the current paid value.
	PaymentAdd PaymentMode = "add"
	// PaymentSet replaces the paid value with the amount.
	PaymentSet PaymentMode = "set"
)

// ParsePaymentMode parses "add" or "set".
func ParsePaymentMode(s string) (PaymentMode, error) {
	switch m := PaymentMode(strings.ToLower(strings.TrimSpace(s))); m {
	case PaymentAdd, PaymentSet:
		return m, nil
	default:
		return "", fmt.Errorf("unknown payment mode %q (want %q or %q)", s, PaymentAdd, PaymentSet)
	}
}

// ResolvePayment computes the absolute paid value to hand to
// Store.RecordPayment. The amount must be positive; bounds against the
// total are left to the store.
func ResolvePayment(debt model.Debt, amount decimal.Decimal, mode PaymentMode) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, ValidationError{Field: "amount", Description: fmt.Sprintf("%s must be greater than zero", amount.StringFixed(2))}
	}
	switch mode {
	case PaymentAdd:
		return debt.PaidValue.Add(amount), nil
	case PaymentSet:
		return amount, nil
	default:
		return decimal.Zero, fmt.Errorf("unknown payment mode %q", mode)
	}
}

// Remaining returns what is left to settle the debt, never below zero.
func Remaining(debt model.Debt) decimal.Decimal {
	out := debt.Outstanding()
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}
