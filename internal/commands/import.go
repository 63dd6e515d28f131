package commands

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vendinha-dev/vendinha/internal/activity"
	"github.com/vendinha-dev/vendinha/internal/importer"
	"github.com/vendinha-dev/vendinha/internal/ledger"
	"github.com/vendinha-dev/vendinha/internal/logging"
	"github.com/vendinha-dev/vendinha/internal/model"
)

type importOptions struct {
	format string
	dryRun bool
}

// importSource is one file to import. Queued files live in import/ and are
// moved to import/processed/ afterwards.
type importSource struct {
	path   string
	queued bool
}

func newImportCommand(g *globalOptions) *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import [file...]",
		Short: "Import debts exported by another system",
		Long: `Import debts from the given files, or from every supported file waiting in
the workspace's import/ directory. Rows whose customer already has a debt for
that month are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, g, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", "", "parser to use (legacy-json, vendinha-csv); default by extension")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "parse and validate without saving")

	return cmd
}

func runImport(cmd *cobra.Command, g *globalOptions, files []string, opts importOptions) error {
	reg := importer.DefaultRegistry()
	if opts.format != "" && reg.Get(opts.format) == nil {
		return fmt.Errorf("unknown import format %q (available: %s)", opts.format, strings.Join(reg.Formats(), ", "))
	}

	ws, err := g.open(cmd, true)
	if err != nil {
		return err
	}
	defer ws.Close()

	var sources []importSource
	if len(files) == 0 {
		queued, err := importer.Scan(ws.Root, reg)
		if err != nil {
			return err
		}
		for _, f := range queued {
			sources = append(sources, importSource{path: f.Path, queued: true})
		}
	} else {
		for _, f := range files {
			sources = append(sources, importSource{path: f})
		}
	}

	out := cmd.OutOrStdout()
	if len(sources) == 0 {
		fmt.Fprintln(out, "Nothing to import")
		return nil
	}

	paths := make([]string, len(sources))
	for i, src := range sources {
		paths[i] = src.path
	}
	batches, err := importer.ParseFiles(cmd.Context(), reg, paths, opts.format)
	if err != nil {
		return err
	}

	log := ws.Logger()
	var (
		imported, skipped int
		processed         []string
	)
	for i, batch := range batches {
		name := filepath.Base(batch.Path)
		fileImported := 0
		for j, d := range batch.Debts {
			got, err := ws.Store.Import(d)
			switch {
			case err == nil:
				fileImported++
				log.Debug().Str("file", name).Str(logging.FieldDebtID, got.ID).Msg("row imported")
			case errors.Is(err, ledger.ErrDuplicate), errors.Is(err, ledger.ErrValidation), errors.Is(err, ledger.ErrOutOfRange):
				skipped++
				fmt.Fprintf(out, "  skipped %s item %d (%s %s): %v\n", name, j+1, d.Name, model.MonthLabel(d.Month), err)
			default:
				return fmt.Errorf("%s item %d: %w", name, j+1, err)
			}
		}
		imported += fileImported
		fmt.Fprintf(out, "%s: %d of %d imported (%s)\n", name, fileImported, len(batch.Debts), batch.Parser.Format())

		if sources[i].queued {
			processed = append(processed, name)
		}
	}

	if opts.dryRun {
		fmt.Fprintf(out, "Dry run: %d would be imported, %d skipped\n", imported, skipped)
		return nil
	}
	if imported > 0 {
		details := fmt.Sprintf("imported %d debt(s) from %d file(s)", imported, len(sources))
		if _, err := ws.Persist(cmd.Context(), activity.ActionImport, details, ""); err != nil {
			return err
		}
	}
	for _, name := range processed {
		if err := importer.MarkProcessed(ws.Root, name); err != nil {
			return err
		}
	}
	fmt.Fprintf(out, "Imported %d debt(s), skipped %d\n", imported, skipped)
	return nil
}
