package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vendinha-dev/vendinha/internal/model"

	_ "modernc.org/sqlite"
)

const timeFormat = time.RFC3339Nano

// Repository persists the debt collection in a SQLite database. Row order
// is kept in the position column.
type Repository struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at dbPath and migrates it.
func Open(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

// Close closes the database.
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Load returns every debt in stored order.
func (r *Repository) Load(ctx context.Context) ([]model.Debt, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, cpf, phone, total_value, paid_value, month, observation, created_at
		FROM debts
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("query debts: %w", err)
	}
	defer rows.Close()

	var debts []model.Debt
	for rows.Next() {
		var (
			d                 model.Debt
			total, paid, when string
		)
		if err := rows.Scan(&d.ID, &d.Name, &d.CPF, &d.Phone, &total, &paid, &d.Month, &d.Observation, &when); err != nil {
			return nil, fmt.Errorf("scan debt: %w", err)
		}
		if d.TotalValue, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("debt %s: parsing total_value %q: %w", d.ID, total, err)
		}
		if d.PaidValue, err = decimal.NewFromString(paid); err != nil {
			return nil, fmt.Errorf("debt %s: parsing paid_value %q: %w", d.ID, paid, err)
		}
		if d.CreatedAt, err = time.Parse(timeFormat, when); err != nil {
			return nil, fmt.Errorf("debt %s: parsing created_at %q: %w", d.ID, when, err)
		}
		debts = append(debts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate debts: %w", err)
	}
	return debts, nil
}

// Save replaces the table contents with debts in a single transaction.
func (r *Repository) Save(ctx context.Context, debts []model.Debt) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM debts`); err != nil {
		return fmt.Errorf("clear debts: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO debts (id, position, name, cpf, phone, total_value, paid_value, month, observation, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, d := range debts {
		if _, err := stmt.ExecContext(ctx,
			d.ID, i, d.Name, d.CPF, d.Phone,
			d.TotalValue.String(), d.PaidValue.String(),
			d.Month, d.Observation, d.CreatedAt.Format(timeFormat),
		); err != nil {
			return fmt.Errorf("insert debt %s: %w", d.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
