// Package ledger owns the canonical in-memory transaction sequence for a
// session. Every mutation persists the whole sequence through the store
// before returning; a failed save is reported but the in-memory change
// stands, so the caller can retry the persist by repeating the action.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"cashflow/internal/core"
	"cashflow/internal/storage"
)

var (
	ErrNotFound        = errors.New("transaction not found")
	ErrIndexOutOfRange = errors.New("transaction index out of range")
)

// Fields carries the user-editable parts of a transaction for Add and Update.
type Fields struct {
	Amount      core.Money
	Description string
	Kind        core.Kind
	OccurredOn  core.Date
	RecordedAt  string
}

// Ledger is the single source of truth for the process lifetime.
// Operations address transactions by their stable ID; display indices are
// only valid against the order returned by the most recent All call.
type Ledger struct {
	store storage.Store
	key   string
	txs   []core.Transaction
}

// Open loads the persisted sequence for key, or starts empty if the store
// has nothing under it.
func Open(ctx context.Context, store storage.Store, key string) (*Ledger, error) {
	txs, err := store.Load(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrLoadFailed, err)
	}
	slog.InfoContext(ctx, "Ledger opened", "key", key, "count", len(txs))
	return &Ledger{store: store, key: key, txs: txs}, nil
}

// Add validates the fields, appends a new transaction and persists.
// Validation failure leaves the ledger untouched. A persist failure is
// returned alongside the created record; the append is not rolled back.
func (l *Ledger) Add(ctx context.Context, f Fields) (core.Transaction, error) {
	tx := core.Transaction{
		ID:          uuid.NewString(),
		Amount:      f.Amount,
		Description: f.Description,
		Kind:        f.Kind,
		OccurredOn:  f.OccurredOn,
		RecordedAt:  f.RecordedAt,
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	l.txs = append(l.txs, tx)
	if err := l.persist(ctx); err != nil {
		return tx, err
	}

	slog.InfoContext(ctx, "Transaction added",
		"id", tx.ID,
		"kind", tx.Kind,
		"amount_cents", tx.Amount.Cents,
		"date", tx.OccurredOn.Format())
	return tx, nil
}

// Update replaces the fields of the identified transaction in place; its
// position in the sequence and its ID are preserved.
func (l *Ledger) Update(ctx context.Context, id string, f Fields) (core.Transaction, error) {
	i := l.indexOf(id)
	if i < 0 {
		return core.Transaction{}, ErrNotFound
	}

	tx := core.Transaction{
		ID:          id,
		Amount:      f.Amount,
		Description: f.Description,
		Kind:        f.Kind,
		OccurredOn:  f.OccurredOn,
		RecordedAt:  f.RecordedAt,
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	l.txs[i] = tx
	if err := l.persist(ctx); err != nil {
		return tx, err
	}

	slog.InfoContext(ctx, "Transaction updated", "id", id, "position", i)
	return tx, nil
}

// Remove deletes the identified transaction. The remaining transactions
// keep their relative order; every index after the removed one shifts
// down, so callers must re-read indices after any mutation.
func (l *Ledger) Remove(ctx context.Context, id string) error {
	i := l.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}

	l.txs = append(l.txs[:i], l.txs[i+1:]...)
	if err := l.persist(ctx); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Transaction removed", "id", id, "position", i)
	return nil
}

// RemoveAt resolves a zero-based position against the current order and
// removes that transaction. An out-of-range index is a no-op.
func (l *Ledger) RemoveAt(ctx context.Context, index int) error {
	id, err := l.IDAt(index)
	if err != nil {
		return err
	}
	return l.Remove(ctx, id)
}

// All returns a copy of the sequence in insertion order.
func (l *Ledger) All() []core.Transaction {
	return append([]core.Transaction(nil), l.txs...)
}

// Len returns the number of transactions.
func (l *Ledger) Len() int {
	return len(l.txs)
}

// Get returns the identified transaction if present.
func (l *Ledger) Get(id string) (core.Transaction, bool) {
	if i := l.indexOf(id); i >= 0 {
		return l.txs[i], true
	}
	return core.Transaction{}, false
}

// IDAt maps a zero-based display position to the stable transaction ID.
func (l *Ledger) IDAt(index int) (string, error) {
	if index < 0 || index >= len(l.txs) {
		return "", ErrIndexOutOfRange
	}
	return l.txs[index].ID, nil
}

func (l *Ledger) indexOf(id string) int {
	for i, tx := range l.txs {
		if tx.ID == id {
			return i
		}
	}
	return -1
}

func (l *Ledger) persist(ctx context.Context) error {
	if err := l.store.Save(ctx, l.key, l.txs); err != nil {
		slog.ErrorContext(ctx, "Ledger persist failed", "key", l.key, "error", err)
		return fmt.Errorf("%w: %w", storage.ErrSaveFailed, err)
	}
	return nil
}
