package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/vendinha-dev/vendinha/internal/buildinfo"
	"github.com/vendinha-dev/vendinha/internal/workspace"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	dir      string
	logLevel string
	wsOpts   []workspace.Option
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand(wsOpts ...workspace.Option) *cobra.Command {
	g := &globalOptions{wsOpts: wsOpts}

	rootCmd := &cobra.Command{
		Use:     "vendinha",
		Short:   "Store-credit debt ledger for small shops",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&g.dir, "dir", "C", ".", "workspace directory")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newInitCommand(g),
		newLoginCommand(g),
		newLogoutCommand(g),
		newRecoverCommand(g),
		newAddCommand(g),
		newPayCommand(g),
		newDeleteCommand(g),
		newListCommand(g),
		newReportCommand(g),
		newImportCommand(g),
		newHistoryCommand(g),
	)

	return rootCmd
}

// open loads the workspace named by --dir. With requireLogin set it fails
// unless a session is open.
func (g *globalOptions) open(cmd *cobra.Command, requireLogin bool) (*workspace.Workspace, error) {
	root, err := filepath.Abs(g.dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	opts := append([]workspace.Option{workspace.WithLogLevel(g.logLevel)}, g.wsOpts...)
	ws, err := workspace.Open(cmd.Context(), root, cmd.ErrOrStderr(), opts...)
	if err != nil {
		return nil, err
	}
	if requireLogin {
		if err := ws.Session.Require(); err != nil {
			ws.Close()
			return nil, err
		}
	}
	return ws, nil
}

// parseAmount reads a money amount typed by the shopkeeper. A decimal comma
// is accepted.
func parseAmount(name, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.Replace(strings.TrimSpace(s), ",", ".", 1))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q", name, s)
	}
	return d, nil
}
