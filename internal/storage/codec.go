package storage

import (
	"encoding/json"
	"fmt"

	"cashflow/internal/core"
)

// record is the serialized form of a transaction. The amount travels as a
// plain decimal number and the date as YYYY-MM-DD so the stored document
// stays readable and round-trips exactly.
type record struct {
	ID          string      `json:"id"`
	Amount      json.Number `json:"amount"`
	Description string      `json:"description"`
	Type        string      `json:"type"`
	Date        string      `json:"date"`
	Time        string      `json:"time"`
}

func encodeRecords(txs []core.Transaction) []record {
	out := make([]record, len(txs))
	for i, tx := range txs {
		out[i] = record{
			ID:          tx.ID,
			Amount:      json.Number(tx.Amount.String()),
			Description: tx.Description,
			Type:        string(tx.Kind),
			Date:        tx.OccurredOn.Format(),
			Time:        tx.RecordedAt,
		}
	}
	return out
}

func decodeRecords(recs []record) ([]core.Transaction, error) {
	txs := make([]core.Transaction, len(recs))
	for i, r := range recs {
		amount, err := core.ParseAmount(r.Amount.String())
		if err != nil {
			return nil, fmt.Errorf("record %d: amount %q: %w", i, r.Amount, err)
		}
		kind, err := core.ParseKind(r.Type)
		if err != nil {
			return nil, fmt.Errorf("record %d: type %q: %w", i, r.Type, err)
		}
		date, err := core.ParseDate(r.Date)
		if err != nil {
			return nil, fmt.Errorf("record %d: date %q: %w", i, r.Date, err)
		}
		txs[i] = core.Transaction{
			ID:          r.ID,
			Amount:      amount,
			Description: r.Description,
			Kind:        kind,
			OccurredOn:  date,
			RecordedAt:  r.Time,
		}
	}
	return txs, nil
}
