// Package report turns the current ledger sequence into a tabular snapshot
// for export. The sink that renders the table into an artifact is behind
// the Sink interface.
package report

import (
	"context"
	"errors"
	"strconv"

	"cashflow/internal/core"
)

// Title of the exported document.
const Title = "Cash Flow Records"

// ErrEmptyLedger signals that an export was attempted with no transactions;
// callers skip the sink and notify the user instead.
var ErrEmptyLedger = errors.New("no transactions to export")

type (
	// Table is a generic columns-plus-rows snapshot.
	Table struct {
		Title   string
		Columns []string
		Rows    [][]string
	}

	// Sink renders a table into a downloadable artifact.
	Sink interface {
		Write(ctx context.Context, t Table) error
	}
)

// Build produces the export table for the given transactions. Row i
// corresponds to transactions[i]; the "#" column is the 1-based display
// index at call time, not a stable identifier.
func Build(txs []core.Transaction) (Table, error) {
	if len(txs) == 0 {
		return Table{}, ErrEmptyLedger
	}

	t := Table{
		Title:   Title,
		Columns: []string{"#", "Amount", "Type", "Description", "Date", "Time"},
		Rows:    make([][]string, len(txs)),
	}
	for i, tx := range txs {
		t.Rows[i] = []string{
			strconv.Itoa(i + 1),
			tx.Amount.String(),
			string(tx.Kind),
			tx.Description,
			tx.OccurredOn.Format(),
			tx.RecordedAt,
		}
	}
	return t, nil
}
