package importer

import (
	"io"

	"github.com/vendinha-dev/vendinha/internal/model"
	"github.com/vendinha-dev/vendinha/internal/storage/csvstore"
)

// CSVParser reads files in the ledger's own CSV layout, such as a copy of
// another workspace's data/debts.csv.
type CSVParser struct{}

// Format returns the parser name.
func (p *CSVParser) Format() string { return "vendinha-csv" }

// Extension returns the file extension this parser handles.
func (p *CSVParser) Extension() string { return ".csv" }

// Parse reads the rows. Ids are kept; the ledger replaces any that collide.
func (p *CSVParser) Parse(r io.Reader) ([]model.Debt, error) {
	return csvstore.ReadDebts(r)
}
