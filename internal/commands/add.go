package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vendinha-dev/vendinha/internal/activity"
	"github.com/vendinha-dev/vendinha/internal/id"
	"github.com/vendinha-dev/vendinha/internal/ledger"
	"github.com/vendinha-dev/vendinha/internal/model"
	"github.com/vendinha-dev/vendinha/internal/report"
)

type addOptions struct {
	name        string
	cpf         string
	phone       string
	total       string
	paid        string
	month       string
	observation string
}

func newAddCommand(g *globalOptions) *cobra.Command {
	var opts addOptions

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a debt for a customer and month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAdd(cmd, g, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.name, "name", "", "customer name (required)")
	f.StringVar(&opts.cpf, "cpf", "", "customer CPF, 11 digits (required)")
	f.StringVar(&opts.phone, "phone", "", "customer phone, up to 11 digits")
	f.StringVar(&opts.total, "total", "", "amount owed (required)")
	f.StringVar(&opts.paid, "paid", "0", "amount already paid")
	f.StringVar(&opts.month, "month", "", "month as MM/YYYY (required)")
	f.StringVar(&opts.observation, "obs", "", "free-text observation")
	for _, name := range []string{"name", "cpf", "total", "month"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func runAdd(cmd *cobra.Command, g *globalOptions, opts addOptions) error {
	total, err := parseAmount("total", opts.total)
	if err != nil {
		return err
	}
	paid, err := parseAmount("paid", opts.paid)
	if err != nil {
		return err
	}

	ws, err := g.open(cmd, true)
	if err != nil {
		return err
	}
	defer ws.Close()

	debt, err := ws.Store.Create(ledger.CreateParams{
		Name:        opts.name,
		CPF:         model.DigitsOnly(opts.cpf),
		Phone:       model.DigitsOnly(opts.phone),
		TotalValue:  total,
		PaidValue:   paid,
		Month:       opts.month,
		Observation: opts.observation,
	})
	if err != nil {
		return err
	}

	details := fmt.Sprintf("%s %s %s", debt.Name, debt.Month, report.Money(debt.TotalValue))
	if _, err := ws.Persist(cmd.Context(), activity.ActionCreate, details, debt.ID); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Added %s: %s, %s, %s (%s)\n",
		id.Short(debt.ID), debt.Name, model.MonthLabel(debt.Month), report.Money(debt.TotalValue), debt.Status())
	return nil
}
