// Package storage implements the ledger store: a keyed load/save adapter
// for ordered transaction sequences. Three adapters are provided — SQLite,
// a JSON file per key, and an in-memory map for tests and throwaway runs.
package storage

import (
	"context"
	"errors"

	"cashflow/internal/core"
)

// LedgerKey identifies the single ledger this application maintains.
const LedgerKey = "cash_records"

var (
	// ErrLoadFailed classifies any failure reading a persisted sequence.
	ErrLoadFailed = errors.New("ledger load failed")
	// ErrSaveFailed classifies any failure persisting a sequence. The
	// in-memory mutation that triggered the save is not rolled back.
	ErrSaveFailed = errors.New("ledger save failed")
)

// Store persists ordered transaction sequences under string keys.
// Load on a key that was never saved returns an empty sequence, not an error.
// Save replaces the whole sequence for the key; order is preserved exactly.
type Store interface {
	Load(ctx context.Context, key string) ([]core.Transaction, error)
	Save(ctx context.Context, key string, txs []core.Transaction) error
	Close() error
}
