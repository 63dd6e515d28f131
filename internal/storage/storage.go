// Package storage persists the ledger's debt collection between sessions.
// The ledger hands over its full snapshot after every mutation and reads it
// back at session start.
package storage

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/vendinha-dev/vendinha/internal/config"
	"github.com/vendinha-dev/vendinha/internal/model"
	"github.com/vendinha-dev/vendinha/internal/storage/csvstore"
	"github.com/vendinha-dev/vendinha/internal/storage/sqlitestore"
)

// Repository loads and saves the full debt collection. Save replaces
// whatever was stored before; order is preserved.
type Repository interface {
	Load(ctx context.Context) ([]model.Debt, error)
	Save(ctx context.Context, debts []model.Debt) error
	Close() error
}

// Open returns the repository selected by cfg. Relative paths resolve
// against root.
func Open(root string, cfg config.StorageConfig) (Repository, error) {
	switch cfg.Backend {
	case config.BackendCSV:
		return csvstore.New(resolve(root, cfg.CSVPath)), nil
	case config.BackendSQLite:
		repo, err := sqlitestore.Open(resolve(root, cfg.SQLitePath))
		if err != nil {
			return nil, fmt.Errorf("opening sqlite storage: %w", err)
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Backend)
	}
}

func resolve(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
