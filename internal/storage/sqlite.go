package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"cashflow/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists each keyed sequence as positioned rows in a single
// transactions table. Save replaces the key's rows inside one transaction.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
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

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context, key string) ([]core.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, amount_cents, description, kind, occurred_on, recorded_at
		FROM transactions
		WHERE ledger = ?
		ORDER BY position`, key)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		var (
			tx         core.Transaction
			kind       string
			occurredOn string
		)
		if err := rows.Scan(&tx.ID, &tx.Amount.Cents, &tx.Description, &kind, &occurredOn, &tx.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if tx.Kind, err = core.ParseKind(kind); err != nil {
			return nil, fmt.Errorf("stored kind %q: %w", kind, err)
		}
		if tx.OccurredOn, err = core.ParseDate(occurredOn); err != nil {
			return nil, fmt.Errorf("stored date %q: %w", occurredOn, err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}

func (s *SQLiteStore) Save(ctx context.Context, key string, txs []core.Transaction) error {
	dbtx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer dbtx.Rollback()

	if _, err := dbtx.ExecContext(ctx, `DELETE FROM transactions WHERE ledger = ?`, key); err != nil {
		return fmt.Errorf("clear ledger %s: %w", key, err)
	}

	stmt, err := dbtx.PrepareContext(ctx, `
		INSERT INTO transactions (ledger, position, id, amount_cents, description, kind, occurred_on, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, tx := range txs {
		if _, err := stmt.ExecContext(ctx, key, i, tx.ID, tx.Amount.Cents,
			tx.Description, string(tx.Kind), tx.OccurredOn.Format(), tx.RecordedAt); err != nil {
			return fmt.Errorf("insert transaction %d: %w", i, err)
		}
	}

	if err := dbtx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}

	slog.DebugContext(ctx, "Ledger saved to SQLite", "key", key, "count", len(txs))
	return nil
}
