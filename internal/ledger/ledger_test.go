package ledger

import (
	"context"
	"errors"
	"testing"

	"cashflow/internal/core"
	"cashflow/internal/storage"
)

func newTestLedger(t *testing.T) (*Ledger, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	led, err := Open(context.Background(), store, storage.LedgerKey)
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	return led, store
}

func fields(kind core.Kind, cents int64) Fields {
	return Fields{
		Amount:     core.Money{Cents: cents},
		Kind:       kind,
		OccurredOn: core.NewDate(2024, 1, 15),
		RecordedAt: "10:30:00",
	}
}

func TestAddAppendsAndPersists(t *testing.T) {
	ctx := context.Background()
	led, store := newTestLedger(t)

	tx, err := led.Add(ctx, fields(core.Income, 10000))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if tx.ID == "" {
		t.Fatalf("expected a generated ID")
	}
	if led.Len() != 1 {
		t.Fatalf("expected 1 transaction, got %d", led.Len())
	}

	// A fresh ledger over the same store sees the persisted record.
	reopened, err := Open(ctx, store, storage.LedgerKey)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.Len() != 1 {
		t.Fatalf("expected persisted transaction, got %d", reopened.Len())
	}
	if got := reopened.All()[0]; got != tx {
		t.Fatalf("persisted %+v differs from added %+v", got, tx)
	}
}

func TestAddValidationBlocksMutation(t *testing.T) {
	ctx := context.Background()
	led, _ := newTestLedger(t)

	cases := []struct {
		name string
		f    Fields
		want error
	}{
		{"negative amount", Fields{Amount: core.Money{Cents: -100}, Kind: core.Income, OccurredOn: core.NewDate(2024, 1, 1)}, core.ErrInvalidAmount},
		{"missing kind", Fields{Amount: core.Money{Cents: 100}, OccurredOn: core.NewDate(2024, 1, 1)}, core.ErrInvalidKind},
		{"zero date", Fields{Amount: core.Money{Cents: 100}, Kind: core.Expense}, core.ErrInvalidDate},
	}
	for _, tc := range cases {
		if _, err := led.Add(ctx, tc.f); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
	if led.Len() != 0 {
		t.Fatalf("expected no mutation after validation failures, got %d", led.Len())
	}
}

func TestRemoveAtShiftsOrder(t *testing.T) {
	ctx := context.Background()
	led, _ := newTestLedger(t)

	first, _ := led.Add(ctx, fields(core.Income, 100))
	second, _ := led.Add(ctx, fields(core.Expense, 200))

	if err := led.RemoveAt(ctx, 0); err != nil {
		t.Fatalf("remove: %v", err)
	}

	all := led.All()
	if len(all) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(all))
	}
	if all[0].ID != second.ID {
		t.Fatalf("expected %s at index 0, got %s", second.ID, all[0].ID)
	}
	if all[0].ID == first.ID {
		t.Fatalf("removed transaction still present")
	}
}

func TestRemovePreservesRelativeOrder(t *testing.T) {
	ctx := context.Background()
	led, _ := newTestLedger(t)

	var ids []string
	for i := int64(1); i <= 4; i++ {
		tx, _ := led.Add(ctx, fields(core.Income, i*100))
		ids = append(ids, tx.ID)
	}

	if err := led.Remove(ctx, ids[1]); err != nil {
		t.Fatalf("remove: %v", err)
	}

	want := []string{ids[0], ids[2], ids[3]}
	all := led.All()
	if len(all) != len(want) {
		t.Fatalf("expected %d transactions, got %d", len(want), len(all))
	}
	for i, id := range want {
		if all[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, all[i].ID)
		}
	}
}

func TestRemoveAtOutOfRangeIsNoOp(t *testing.T) {
	ctx := context.Background()
	led, _ := newTestLedger(t)
	led.Add(ctx, fields(core.Income, 100))

	for _, index := range []int{-1, 1, 5} {
		if err := led.RemoveAt(ctx, index); !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatalf("index %d: expected ErrIndexOutOfRange, got %v", index, err)
		}
	}
	if led.Len() != 1 {
		t.Fatalf("expected ledger untouched, got %d", led.Len())
	}
}

func TestRemoveUnknownID(t *testing.T) {
	led, _ := newTestLedger(t)
	if err := led.Remove(context.Background(), "no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdatePreservesPositionAndID(t *testing.T) {
	ctx := context.Background()
	led, _ := newTestLedger(t)

	led.Add(ctx, fields(core.Income, 100))
	target, _ := led.Add(ctx, fields(core.Expense, 200))
	led.Add(ctx, fields(core.Income, 300))

	updated, err := led.Update(ctx, target.ID, fields(core.Expense, 999))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != target.ID {
		t.Fatalf("update changed the ID: %s -> %s", target.ID, updated.ID)
	}

	all := led.All()
	if all[1].ID != target.ID || all[1].Amount.Cents != 999 {
		t.Fatalf("expected updated record at position 1, got %+v", all[1])
	}
}

func TestUpdateValidationLeavesRecordUntouched(t *testing.T) {
	ctx := context.Background()
	led, _ := newTestLedger(t)
	tx, _ := led.Add(ctx, fields(core.Income, 100))

	bad := fields(core.Income, 100)
	bad.Kind = "Transfer"
	if _, err := led.Update(ctx, tx.ID, bad); !errors.Is(err, core.ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
	if got, _ := led.Get(tx.ID); got != tx {
		t.Fatalf("record changed after failed update: %+v", got)
	}
}

// failingStore accepts loads but refuses every save.
type failingStore struct{}

func (failingStore) Load(context.Context, string) ([]core.Transaction, error) { return nil, nil }
func (failingStore) Save(context.Context, string, []core.Transaction) error {
	return errors.New("disk full")
}
func (failingStore) Close() error { return nil }

func TestSaveFailureKeepsMutation(t *testing.T) {
	ctx := context.Background()
	led, err := Open(ctx, failingStore{}, storage.LedgerKey)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	tx, err := led.Add(ctx, fields(core.Income, 100))
	if !errors.Is(err, storage.ErrSaveFailed) {
		t.Fatalf("expected ErrSaveFailed, got %v", err)
	}
	if tx.ID == "" {
		t.Fatalf("expected the created record alongside the error")
	}
	// The in-memory mutation stands even though the persist failed.
	if led.Len() != 1 {
		t.Fatalf("expected mutation to stand, got %d", led.Len())
	}
}

func TestIDAt(t *testing.T) {
	ctx := context.Background()
	led, _ := newTestLedger(t)
	first, _ := led.Add(ctx, fields(core.Income, 100))

	id, err := led.IDAt(0)
	if err != nil || id != first.ID {
		t.Fatalf("expected %s, got %s (err=%v)", first.ID, id, err)
	}
	if _, err := led.IDAt(1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
}
