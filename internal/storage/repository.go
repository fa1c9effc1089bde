// Package storage is the SQLite record store. Facts live in two tables:
// record_headers, one row per saved (owner, kind, month), and record_items,
// one row per asset line, joined by record id.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"carteira/internal/core"
	"carteira/internal/store"
)

type SQLiteRepository struct {
	db *sql.DB
}

var _ store.RecordStore = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
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

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// FetchFacts implements store.FactReader: headers joined to their items,
// flattened into the raw fact shape the pivot engine consumes.
func (r *SQLiteRepository) FetchFacts(ctx context.Context, ownerID string, kind core.RecordKind) ([]core.LineItem, error) {
	if ownerID == "" {
		return nil, core.ErrEmptyOwner
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT h.month_label, i.asset_name, i.amount
		FROM record_headers h
		JOIN record_items i ON i.record_id = h.id
		WHERE h.owner_id = ? AND h.kind = ?`,
		ownerID, kind.String())
	if err != nil {
		return nil, fmt.Errorf("query facts: %w", err)
	}
	defer rows.Close()

	var facts []core.LineItem
	for rows.Next() {
		var month, asset, amount string
		if err := rows.Scan(&month, &asset, &amount); err != nil {
			return nil, fmt.Errorf("scan fact row: %w", err)
		}
		value, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("parse stored amount %q for asset %q: %w", amount, asset, err)
		}
		facts = append(facts, core.LineItem{
			OwnerID: ownerID,
			Month:   month,
			Asset:   asset,
			Amount:  value,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fact rows: %w", err)
	}
	return facts, nil
}

// SaveMonth implements store.MonthWriter with replace semantics. The delete
// of the previous month state and the insert of the new one run inside a
// single transaction, so a failure mid-way never leaves an orphaned header
// or dangling items.
func (r *SQLiteRepository) SaveMonth(ctx context.Context, ownerID string, kind core.RecordKind, month string, items []core.MonthItem) error {
	if ownerID == "" {
		return core.ErrEmptyOwner
	}
	if month = core.Normalize(month); month == "" {
		return core.ErrEmptyMonth
	}
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return err
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save month: %w", err)
	}
	defer tx.Rollback()

	if err := deleteMonthTx(ctx, tx, ownerID, kind, month); err != nil {
		return err
	}

	// Saving an empty item list clears the month instead of leaving a
	// stale empty header behind.
	if len(items) > 0 {
		headerID := uuid.NewString()
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO record_headers (id, owner_id, kind, month_label)
			VALUES (?, ?, ?, ?)`,
			headerID, ownerID, kind.String(), month); err != nil {
			return fmt.Errorf("insert header: %w", err)
		}
		for _, it := range items {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO record_items (record_id, asset_name, amount)
				VALUES (?, ?, ?)`,
				headerID, it.Asset, it.Amount.String()); err != nil {
				return fmt.Errorf("insert item %q: %w", it.Asset, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save month: %w", err)
	}

	slog.InfoContext(ctx, "Month saved",
		"owner_id", ownerID,
		"kind", kind.String(),
		"month", month,
		"items", len(items))
	return nil
}

// DeleteMonth implements store.MonthWriter.
func (r *SQLiteRepository) DeleteMonth(ctx context.Context, ownerID string, kind core.RecordKind, month string) error {
	if ownerID == "" {
		return core.ErrEmptyOwner
	}
	if month = core.Normalize(month); month == "" {
		return core.ErrEmptyMonth
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete month: %w", err)
	}
	defer tx.Rollback()

	if err := deleteMonthTx(ctx, tx, ownerID, kind, month); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete month: %w", err)
	}

	slog.InfoContext(ctx, "Month deleted",
		"owner_id", ownerID,
		"kind", kind.String(),
		"month", month)
	return nil
}

// deleteMonthTx removes items first, then the header, without relying on
// the cascade being enabled on the connection.
func deleteMonthTx(ctx context.Context, tx *sql.Tx, ownerID string, kind core.RecordKind, month string) error {
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM record_items
		WHERE record_id IN (
			SELECT id FROM record_headers
			WHERE owner_id = ? AND kind = ? AND month_label = ?
		)`,
		ownerID, kind.String(), month); err != nil {
		return fmt.Errorf("delete items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM record_headers
		WHERE owner_id = ? AND kind = ? AND month_label = ?`,
		ownerID, kind.String(), month); err != nil {
		return fmt.Errorf("delete header: %w", err)
	}
	return nil
}
