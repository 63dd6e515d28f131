package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the settlement state of a debt. It is always derived from the
// paid and total values and never stored on its own.
type Status string

const (
	StatusPending Status = "PENDENTE"
	StatusSettled Status = "QUITADA"
)

// Valid reports whether s is one of the known status tokens.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusSettled
}

// Debt is one customer's balance for one calendar month.
type Debt struct {
	ID          string
	Name        string
	CPF         string // 11 digits, no punctuation
	Phone       string // up to 11 digits
	TotalValue  decimal.Decimal
	PaidValue   decimal.Decimal
	Month       string // "MM/YYYY"
	Observation string
	CreatedAt   time.Time
}

// Status returns QUITADA when the paid value covers the total, PENDENTE otherwise.
func (d Debt) Status() Status {
	return StatusFor(d.PaidValue, d.TotalValue)
}

// Outstanding returns total minus paid.
func (d Debt) Outstanding() decimal.Decimal {
	return d.TotalValue.Sub(d.PaidValue)
}

// StatusFor computes the status for a paid/total pair.
func StatusFor(paid, total decimal.Decimal) Status {
	if paid.GreaterThanOrEqual(total) {
		return StatusSettled
	}
	return StatusPending
}
