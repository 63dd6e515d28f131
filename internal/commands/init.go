package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vendinha-dev/vendinha/internal/config"
	"github.com/vendinha-dev/vendinha/internal/workspace"
)

func newInitCommand(g *globalOptions) *cobra.Command {
	var (
		name    string
		backend string
		year    int
		noGit   bool
	)

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new Vendinha workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := g.dir
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			cfg := config.Default(name)
			cfg.Storage.Backend = backend
			if year != 0 {
				cfg.Ledger.Year = year
			}
			cfg.Git.AutoCommit = !noGit

			return runInit(cmd, absDir, cfg)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "shop name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&backend, "backend", config.BackendCSV, "storage backend (csv or sqlite)")
	cmd.Flags().IntVar(&year, "year", 0, "calendar year debts are booked in (default 2025)")
	cmd.Flags().BoolVar(&noGit, "no-git", false, "do not track the workspace with git")

	return cmd
}

func runInit(cmd *cobra.Command, dir string, cfg *config.Config) error {
	hash, err := workspace.Init(cmd.Context(), dir, cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if hash != "" {
		fmt.Fprintf(out, "Initialized Vendinha workspace at %s (%s)\n", dir, hash)
	} else {
		fmt.Fprintf(out, "Initialized Vendinha workspace at %s\n", dir)
	}
	fmt.Fprintln(out, "Default password is admin123; change session.secret in vendinha.yaml.")
	return nil
}
