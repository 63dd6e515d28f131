package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vendinha-dev/vendinha/internal/model"
)

// LegacyJSONParser reads the array the browser app kept under the
// "vendinha-debts" storage key.
type LegacyJSONParser struct{}

type legacyDebt struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	CPF         string          `json:"cpf"`
	Phone       string          `json:"phone"`
	TotalValue  decimal.Decimal `json:"totalValue"`
	PaidValue   decimal.Decimal `json:"paidValue"`
	Month       string          `json:"month"`
	Observation string          `json:"observation"`
	Status      string          `json:"status"`
	CreatedAt   string          `json:"createdAt"`
}

// Format returns the parser name.
func (p *LegacyJSONParser) Format() string { return "legacy-json" }

// Extension returns the file extension this parser handles.
func (p *LegacyJSONParser) Extension() string { return ".json" }

// Parse decodes the array. Legacy ids are timestamps, so they are dropped
// and the ledger assigns new ones.
func (p *LegacyJSONParser) Parse(r io.Reader) ([]model.Debt, error) {
	var rows []legacyDebt
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decoding legacy JSON: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	debts := make([]model.Debt, 0, len(rows))
	for i, row := range rows {
		d, err := row.debt()
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		debts = append(debts, d)
	}
	return debts, nil
}

func (l legacyDebt) debt() (model.Debt, error) {
	var created time.Time
	if s := strings.TrimSpace(l.CreatedAt); s != "" {
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return model.Debt{}, fmt.Errorf("parsing createdAt %q: %w", s, err)
		}
		created = t
	}
	return model.Debt{
		Name:        l.Name,
		CPF:         model.DigitsOnly(l.CPF),
		Phone:       model.DigitsOnly(l.Phone),
		TotalValue:  l.TotalValue,
		PaidValue:   l.PaidValue,
		Month:       strings.TrimSpace(l.Month),
		Observation: l.Observation,
		CreatedAt:   created,
	}, nil
}
