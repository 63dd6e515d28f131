package csvstore

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vendinha-dev/vendinha/internal/model"
)

// Header is the CSV header for debts.csv.
const Header = "id,name,cpf,phone,total_value,paid_value,month,observation,status,created_at"

const (
	numFields      = 10
	timeFormat     = time.RFC3339Nano
	colID          = 0
	colName        = 1
	colCPF         = 2
	colPhone       = 3
	colTotal       = 4
	colPaid        = 5
	colMonth       = 6
	colObservation = 7
	colStatus      = 8
	colCreatedAt   = 9
)

// ReadDebts reads all debts from a debts.csv reader.
func ReadDebts(r io.Reader) ([]model.Debt, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading debts CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	// Skip header row.
	var debts []model.Debt
	for i, rec := range records[1:] {
		d, err := UnmarshalDebt(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		debts = append(debts, d)
	}
	return debts, nil
}

// WriteDebts writes debts to a debts.csv writer (including header).
func WriteDebts(w io.Writer, debts []model.Debt) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, d := range debts {
		if err := cw.Write(MarshalDebt(d)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalDebt converts a Debt to a CSV row. The status column is written
// for people reading the file; it is recomputed on load.
func MarshalDebt(d model.Debt) []string {
	row := make([]string, numFields)
	row[colID] = d.ID
	row[colName] = d.Name
	row[colCPF] = d.CPF
	row[colPhone] = d.Phone
	row[colTotal] = d.TotalValue.String()
	row[colPaid] = d.PaidValue.String()
	row[colMonth] = d.Month
	row[colObservation] = d.Observation
	row[colStatus] = string(d.Status())
	row[colCreatedAt] = d.CreatedAt.Format(timeFormat)
	return row
}

// UnmarshalDebt converts a CSV row to a Debt.
func UnmarshalDebt(record []string) (model.Debt, error) {
	if len(record) != numFields {
		return model.Debt{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	total, err := decimal.NewFromString(record[colTotal])
	if err != nil {
		return model.Debt{}, fmt.Errorf("parsing total_value %q: %w", record[colTotal], err)
	}

	var paid decimal.Decimal
	if record[colPaid] != "" {
		paid, err = decimal.NewFromString(record[colPaid])
		if err != nil {
			return model.Debt{}, fmt.Errorf("parsing paid_value %q: %w", record[colPaid], err)
		}
	}

	createdAt, err := time.Parse(timeFormat, record[colCreatedAt])
	if err != nil {
		return model.Debt{}, fmt.Errorf("parsing created_at %q: %w", record[colCreatedAt], err)
	}

	return model.Debt{
		ID:          record[colID],
		Name:        record[colName],
		CPF:         record[colCPF],
		Phone:       record[colPhone],
		TotalValue:  total,
		PaidValue:   paid,
		Month:       record[colMonth],
		Observation: record[colObservation],
		CreatedAt:   createdAt,
	}, nil
}
