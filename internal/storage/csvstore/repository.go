package csvstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vendinha-dev/vendinha/internal/model"
)

// Repository persists the debt collection as a single CSV file.
type Repository struct {
	path string
}

// New returns a Repository backed by the file at path.
func New(path string) *Repository {
	return &Repository{path: path}
}

// Path returns the CSV file location.
func (r *Repository) Path() string {
	return r.path
}

// Load reads every debt. A missing file is an empty ledger.
func (r *Repository) Load(_ context.Context) ([]model.Debt, error) {
	f, err := os.Open(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening debts %s: %w", r.path, err)
	}
	defer f.Close()

	debts, err := ReadDebts(f)
	if err != nil {
		return nil, fmt.Errorf("reading debts %s: %w", r.path, err)
	}
	return debts, nil
}

// Save replaces the file contents with debts. The new file is written
// next to the old one and renamed into place.
func (r *Repository) Save(_ context.Context, debts []model.Debt) error {
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".debts-*.csv")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteDebts(tmp, debts); err != nil {
		tmp.Close()
		return fmt.Errorf("writing debts: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replacing %s: %w", r.path, err)
	}
	return nil
}

// Close is a no-op; the file is opened per call.
func (r *Repository) Close() error {
	return nil
}
