// Package importer brings debts recorded elsewhere into the ledger. Files
// dropped in <workspace>/import/ are parsed by a registered format and moved
// to import/processed/ once their rows are in the store.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vendinha-dev/vendinha/internal/model"
)

// Parser converts an exported file into debts. Status columns are never
// trusted; the ledger derives status from the amounts.
type Parser interface {
	Parse(r io.Reader) ([]model.Debt, error)
	Format() string
	Extension() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// FileInfo describes a file waiting in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// ForFile picks the parser whose extension matches name, or nil.
func (r *Registry) ForFile(name string) Parser {
	ext := strings.ToLower(filepath.Ext(name))
	for _, f := range r.Formats() {
		if p := r.parsers[f]; p.Extension() == ext {
			return p
		}
	}
	return nil
}

// Formats lists the registered format names in sorted order.
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.parsers))
	for k := range r.parsers {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&LegacyJSONParser{})
	r.Register(&CSVParser{})
	return r
}

const (
	importDir    = "import"
	processedDir = "import/processed"
)

// Scan returns the files in <root>/import/ that some parser in reg accepts.
func Scan(root string, reg *Registry) ([]FileInfo, error) {
	dir := filepath.Join(root, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || reg.ForFile(e.Name()) == nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// ParseFile opens path and parses it with p.
func ParseFile(p Parser, path string) ([]model.Debt, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	debts, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s as %s: %w", filepath.Base(path), p.Format(), err)
	}
	return debts, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(root, fileName string) error {
	src := filepath.Join(root, importDir, fileName)
	dstDir := filepath.Join(root, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}

// Batch is the parse result of one file.
type Batch struct {
	Path   string
	Parser Parser
	Debts  []model.Debt
}

// maxParallelParses bounds ParseFiles.
const maxParallelParses = 4

// ParseFiles parses paths concurrently and returns one Batch per path in
// input order. A non-empty format forces that parser; otherwise each file
// is matched by extension. The first failure cancels the rest.
func ParseFiles(ctx context.Context, reg *Registry, paths []string, format string) ([]Batch, error) {
	batches := make([]Batch, len(paths))
	for i, path := range paths {
		p := reg.ForFile(path)
		if format != "" {
			p = reg.Get(format)
		}
		if p == nil {
			return nil, fmt.Errorf("no parser for %s", filepath.Base(path))
		}
		batches[i] = Batch{Path: path, Parser: p}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelParses)
	for i := range batches {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			debts, err := ParseFile(batches[i].Parser, batches[i].Path)
			if err != nil {
				return err
			}
			batches[i].Debts = debts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return batches, nil
}
