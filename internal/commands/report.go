package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vendinha-dev/vendinha/internal/query"
	"github.com/vendinha-dev/vendinha/internal/report"
)

func newReportCommand(g *globalOptions) *cobra.Command {
	var (
		filters filterFlags
		stdout  bool
		outDir  string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate the debt report for the current view",
		Long: `Generate the plain-text debt report for the debts matching the filters
and save it as relatorio-dividas-YYYY-MM-DD.txt in the export directory.`,
		Args: cobra.NoArgs,
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

			opts := ws.ReportOptions()
			text := report.Generate(query.Filter(ws.Store.Snapshot(), c), opts)
			if stdout {
				_, err := fmt.Fprint(cmd.OutOrStdout(), text)
				return err
			}

			dir := outDir
			if dir == "" {
				dir = ws.Config.Report.ExportDir
			}
			path, err := report.Export(ws.Path(dir), text, opts.GeneratedAt.In(opts.Location))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report saved to %s\n", path)
			return nil
		},
	}

	filters.bind(cmd)
	cmd.Flags().BoolVar(&stdout, "stdout", false, "print the report instead of saving it")
	cmd.Flags().StringVarP(&outDir, "output", "o", "", "directory to save the report in (default from config)")

	return cmd
}
