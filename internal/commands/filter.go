package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vendinha-dev/vendinha/internal/model"
	"github.com/vendinha-dev/vendinha/internal/query"
)

// filterFlags are the view filters shared by list and report.
type filterFlags struct {
	cpf    string
	month  string
	status string
}

func (f *filterFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.cpf, "cpf", "", "only debts whose CPF contains this text")
	cmd.Flags().StringVar(&f.month, "month", query.All, "only debts of this MM/YYYY month")
	cmd.Flags().StringVar(&f.status, "status", query.All, "only PENDENTE or QUITADA debts")
}

func (f *filterFlags) criteria() (query.Criteria, error) {
	status := strings.ToUpper(strings.TrimSpace(f.status))
	if status == strings.ToUpper(query.All) {
		status = query.All
	} else if !model.Status(status).Valid() {
		return query.Criteria{}, fmt.Errorf("invalid status %q (want %s, %s or %s)", f.status, model.StatusPending, model.StatusSettled, query.All)
	}
	return query.Criteria{
		CPF:    model.DigitsOnly(f.cpf),
		Month:  strings.TrimSpace(f.month),
		Status: status,
	}, nil
}
