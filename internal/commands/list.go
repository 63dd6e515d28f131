package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vendinha-dev/vendinha/internal/id"
	"github.com/vendinha-dev/vendinha/internal/model"
	"github.com/vendinha-dev/vendinha/internal/query"
	"github.com/vendinha-dev/vendinha/internal/report"
)

func newListCommand(g *globalOptions) *cobra.Command {
	var filters filterFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List debts with totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := filters.criteria()
			if err != nil {
				return err
			}

			ws, err := g.open(cmd, true)
			if err != nil {
				return err
			}
			defer ws.Close()

			view := query.Filter(ws.Store.Snapshot(), c)
			return writeList(cmd.OutOrStdout(), view)
		},
	}
	filters.bind(cmd)

	return cmd
}

func writeList(out io.Writer, debts []model.Debt) error {
	sum := query.Summarize(debts)

	if len(debts) == 0 {
		fmt.Fprintln(out, "No debts found.")
	} else {
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tCPF\tPHONE\tMONTH\tTOTAL\tPAID\tREMAINING\tSTATUS")
		for _, d := range debts {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				id.Short(d.ID), d.Name, d.CPF, d.Phone, d.Month,
				report.Money(d.TotalValue), report.Money(d.PaidValue), report.Money(d.Outstanding()), d.Status())
		}
		if err := tw.Flush(); err != nil {
			return fmt.Errorf("writing table: %w", err)
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Debts: %d  Pending: %d  Settled: %d\n", sum.Count, sum.Pending, sum.Settled)
	fmt.Fprintf(out, "Total: %s  Received: %s  Outstanding: %s\n",
		report.Money(sum.Total), report.Money(sum.Paid), report.Money(sum.Outstanding))
	return nil
}
