package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Sentinels matched by the typed errors below through errors.Is.
var (
	ErrValidation = errors.New("invalid debt")
	ErrDuplicate  = errors.New("duplicate debt")
	ErrOutOfRange = errors.New("paid value out of range")
	ErrNotFound   = errors.New("debt not found")
)

// ValidationError reports a malformed field on a debt or payment request.
type ValidationError struct {
	Field       string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Description)
}

func (e ValidationError) Is(target error) bool { return target == ErrValidation }

// DuplicateError reports that a debt already exists for the CPF and month.
type DuplicateError struct {
	CPF        string
	Month      string
	ExistingID string
}

func (e DuplicateError) Error() string {
	return fmt.Sprintf("a debt already exists for CPF %s in %s", e.CPF, e.Month)
}

func (e DuplicateError) Is(target error) bool { return target == ErrDuplicate }

// RangeError reports a paid value outside [0, total].
type RangeError struct {
	ID    string
	Paid  decimal.Decimal
	Total decimal.Decimal
}

func (e RangeError) Error() string {
	return fmt.Sprintf("paid value %s out of range [0.00, %s]", e.Paid.StringFixed(2), e.Total.StringFixed(2))
}

func (e RangeError) Is(target error) bool { return target == ErrOutOfRange }

// NotFoundError reports an unknown debt ID.
type NotFoundError struct {
	ID string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("debt %q not found", e.ID)
}

func (e NotFoundError) Is(target error) bool { return target == ErrNotFound }
