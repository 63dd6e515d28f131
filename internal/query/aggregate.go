package query

import (
	"github.com/shopspring/decimal"

	"github.com/vendinha-dev/vendinha/internal/model"
)

// Summary holds the aggregate figures shown above a debt list and at the
// top of a report.
type Summary struct {
	Count       int
	Pending     int
	Settled     int
	Total       decimal.Decimal
	Paid        decimal.Decimal
	Outstanding decimal.Decimal
}

// Summarize computes every aggregate in one pass.
func Summarize(debts []model.Debt) Summary {
	s := Summary{
		Count: len(debts),
		Total: decimal.Zero,
		Paid:  decimal.Zero,
	}
	for _, d := range debts {
		switch d.Status() {
		case model.StatusPending:
			s.Pending++
		case model.StatusSettled:
			s.Settled++
		}
		s.Total = s.Total.Add(d.TotalValue)
		s.Paid = s.Paid.Add(d.PaidValue)
	}
	s.Outstanding = s.Total.Sub(s.Paid)
	return s
}

// CountPending returns the number of PENDENTE debts.
func CountPending(debts []model.Debt) int {
	return countStatus(debts, model.StatusPending)
}

// CountSettled returns the number of QUITADA debts.
func CountSettled(debts []model.Debt) int {
	return countStatus(debts, model.StatusSettled)
}

// SumTotal adds up the total values.
func SumTotal(debts []model.Debt) decimal.Decimal {
	sum := decimal.Zero
	for _, d := range debts {
		sum = sum.Add(d.TotalValue)
	}
	return sum
}

// SumPaid adds up the paid values.
func SumPaid(debts []model.Debt) decimal.Decimal {
	sum := decimal.Zero
	for _, d := range debts {
		sum = sum.Add(d.PaidValue)
	}
	return sum
}

// SumOutstanding returns SumTotal - SumPaid.
func SumOutstanding(debts []model.Debt) decimal.Decimal {
	return SumTotal(debts).Sub(SumPaid(debts))
}

func countStatus(debts []model.Debt, status model.Status) int {
	n := 0
	for _, d := range debts {
		if d.Status() == status {
			n++
		}
	}
	return n
}
