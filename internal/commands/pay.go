package commands

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/vendinha-dev/vendinha/internal/activity"
	"github.com/vendinha-dev/vendinha/internal/id"
	"github.com/vendinha-dev/vendinha/internal/ledger"
	"github.com/vendinha-dev/vendinha/internal/report"
)

func newPayCommand(g *globalOptions) *cobra.Command {
	var (
		mode   string
		settle bool
	)

	cmd := &cobra.Command{
		Use:   "pay <debt-id> [amount]",
		Short: "Record a payment against a debt",
		Long: `Record a payment against a debt. The debt ID may be abbreviated to any
unique prefix. With --mode add (the default) the amount is added to what was
already paid; with --mode set it replaces it. --settle pays the remainder.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var amount string
			if len(args) == 2 {
				amount = args[1]
			}
			return runPay(cmd, g, args[0], amount, mode, settle)
		},
	}

	cmd.Flags().StringVar(&mode, "mode", string(ledger.PaymentAdd), "how the amount applies: add or set")
	cmd.Flags().BoolVar(&settle, "settle", false, "pay the full remaining amount")

	return cmd
}

func runPay(cmd *cobra.Command, g *globalOptions, prefix, amountArg, modeArg string, settle bool) error {
	if settle == (amountArg != "") {
		return errors.New("give either an amount or --settle")
	}
	mode, err := ledger.ParsePaymentMode(modeArg)
	if err != nil {
		return err
	}

	ws, err := g.open(cmd, true)
	if err != nil {
		return err
	}
	defer ws.Close()

	debtID, err := id.Resolve(prefix, ws.Store.IDs())
	if err != nil {
		return err
	}
	debt, _ := ws.Store.Get(debtID)

	var paid decimal.Decimal
	if settle {
		paid = debt.TotalValue
	} else {
		amount, err := parseAmount("amount", amountArg)
		if err != nil {
			return err
		}
		if paid, err = ledger.ResolvePayment(debt, amount, mode); err != nil {
			return err
		}
	}

	updated, err := ws.Store.RecordPayment(debtID, paid)
	if err != nil {
		return err
	}

	details := fmt.Sprintf("%s %s paid %s of %s", updated.Name, updated.Month, report.Money(updated.PaidValue), report.Money(updated.TotalValue))
	if _, err := ws.Persist(cmd.Context(), activity.ActionPay, details, updated.ID); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: paid %s of %s, remaining %s (%s)\n",
		updated.Name, report.Money(updated.PaidValue), report.Money(updated.TotalValue),
		report.Money(ledger.Remaining(updated)), updated.Status())
	return nil
}
