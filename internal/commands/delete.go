package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vendinha-dev/vendinha/internal/activity"
	"github.com/vendinha-dev/vendinha/internal/model"
	"github.com/vendinha-dev/vendinha/internal/query"
)

func newDeleteCommand(g *globalOptions) *cobra.Command {
	var (
		cpf string
		yes bool
	)

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete every debt of a customer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDelete(cmd, g, model.DigitsOnly(cpf), yes)
		},
	}

	cmd.Flags().StringVar(&cpf, "cpf", "", "customer CPF (required)")
	_ = cmd.MarkFlagRequired("cpf")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the deletion")

	return cmd
}

func runDelete(cmd *cobra.Command, g *globalOptions, cpf string, yes bool) error {
	ws, err := g.open(cmd, true)
	if err != nil {
		return err
	}
	defer ws.Close()

	out := cmd.OutOrStdout()
	var matching []model.Debt
	for _, d := range ws.Store.Snapshot() {
		if d.CPF == cpf {
			matching = append(matching, d)
		}
	}
	if len(matching) > 0 && !yes {
		return fmt.Errorf("refusing to delete %d debt(s) of CPF %s (%d pending) without --yes",
			len(matching), cpf, query.CountPending(matching))
	}

	removed := ws.Store.DeleteByCPF(cpf)
	if removed == 0 {
		fmt.Fprintf(out, "No debts for CPF %s\n", cpf)
		return nil
	}

	details := fmt.Sprintf("removed %d debt(s) of CPF %s", removed, cpf)
	if _, err := ws.Persist(cmd.Context(), activity.ActionDelete, details, ""); err != nil {
		return err
	}
	fmt.Fprintf(out, "Removed %d debt(s) for CPF %s\n", removed, cpf)
	return nil
}
