package core

import "time"

type (
	// Totals is the income/expense/net triple over some set of transactions.
	Totals struct {
		Income  Money
		Expense Money
		Net     Money
	}

	// WindowedSummary holds totals scoped to the calendar windows that
	// contain a reference instant.
	WindowedSummary struct {
		Daily   Totals
		Monthly Totals
		Yearly  Totals
	}
)

// ComputeTotals sums all transactions regardless of date.
// An empty input yields zero totals.
func ComputeTotals(txs []Transaction) Totals {
	var t Totals
	for _, tx := range txs {
		t = t.accumulate(tx)
	}
	t.Net = t.Income.Sub(t.Expense)
	return t
}

// ComputeWindowedSummary sums transactions into the daily, monthly and
// yearly windows containing now. A transaction dated today lands in all
// three windows at once; within a single window nothing is double-counted.
// Callers capture now once per call so the snapshot stays consistent
// across a calendar boundary.
func ComputeWindowedSummary(txs []Transaction, now time.Time) WindowedSummary {
	today := DateOf(now)
	var s WindowedSummary
	for _, tx := range txs {
		d := tx.OccurredOn
		if d.Year() != today.Year() {
			continue
		}
		s.Yearly = s.Yearly.accumulate(tx)
		if d.Month() != today.Month() {
			continue
		}
		s.Monthly = s.Monthly.accumulate(tx)
		if d.Day() != today.Day() {
			continue
		}
		s.Daily = s.Daily.accumulate(tx)
	}
	s.Daily.Net = s.Daily.Income.Sub(s.Daily.Expense)
	s.Monthly.Net = s.Monthly.Income.Sub(s.Monthly.Expense)
	s.Yearly.Net = s.Yearly.Income.Sub(s.Yearly.Expense)
	return s
}

func (t Totals) accumulate(tx Transaction) Totals {
	switch tx.Kind {
	case Income:
		t.Income = t.Income.Add(tx.Amount)
	case Expense:
		t.Expense = t.Expense.Add(tx.Amount)
	}
	return t
}
