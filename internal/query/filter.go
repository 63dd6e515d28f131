package query

import (
	"strings"

	"github.com/vendinha-dev/vendinha/internal/model"
)

// All disables the month or status constraint of a Criteria.
const All = "all"

// Criteria selects debts. Constraints combine with AND. An empty Month or
// Status behaves like All.
type Criteria struct {
	CPF    string // substring of the CPF; empty matches every debt
	Month  string // exact "MM/YYYY" token or All
	Status string // "PENDENTE", "QUITADA" or All
}

// IsZero reports whether c places no constraint at all.
func (c Criteria) IsZero() bool {
	return c.CPF == "" && unconstrained(c.Month) && unconstrained(c.Status)
}

// Match reports whether d satisfies every constraint of c.
func (c Criteria) Match(d model.Debt) bool {
	if c.CPF != "" && !strings.Contains(d.CPF, c.CPF) {
		return false
	}
	if !unconstrained(c.Month) && d.Month != c.Month {
		return false
	}
	if !unconstrained(c.Status) && string(d.Status()) != c.Status {
		return false
	}
	return true
}

// Filter returns the debts matching c in their original order. The input
// slice is never modified.
func Filter(debts []model.Debt, c Criteria) []model.Debt {
	out := make([]model.Debt, 0, len(debts))
	for _, d := range debts {
		if c.Match(d) {
			out = append(out, d)
		}
	}
	return out
}

func unconstrained(v string) bool {
	return v == "" || v == All
}
