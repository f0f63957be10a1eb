package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"cashflow/internal/cli"
	"cashflow/internal/config"
	"cashflow/internal/core"
	"cashflow/internal/ledger"
	"cashflow/internal/report"
	"cashflow/internal/storage"
)

const usage = `Usage: cashflow <command> [flags]

Commands:
  add      -amount <n> -type Income|Expense [-desc <text>] [-date YYYY-MM-DD]
  list     show all transactions
  totals   show all-time income, expense and net
  summary  show daily, monthly and yearly totals
  delete   -index <n>  remove the transaction at 1-based position n
  edit     -index <n> [-amount <n>] [-type <t>] [-desc <text>] [-date <d>]
  export   [-out <path>]  write the ledger as a CSV report
`

func main() {
	cli.LoadEnvFile()

	cfg := config.Load()
	level, _ := cfg.SlogLevel()
	logger := cli.SetupLogger(level)
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	command, args := os.Args[1], os.Args[2:]

	store := cli.OpenStore(logger, cfg)
	defer store.Close()

	ctx := context.Background()
	led, err := ledger.Open(ctx, store, storage.LedgerKey)
	if err != nil {
		logger.Error("Failed to open ledger", "error", err)
		os.Exit(1)
	}

	// One command runs to completion per invocation; now is captured once
	// so a run that straddles midnight still sees a single reference date.
	now := time.Now()

	if err := run(ctx, led, cfg, command, args, now); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		logger.Error("Command failed", "command", command, "error", err)
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, led *ledger.Ledger, cfg *config.Config, command string, args []string, now time.Time) error {
	switch command {
	case "add":
		return runAdd(ctx, led, args, now)
	case "list":
		renderTable(led.All())
		return nil
	case "totals":
		renderTotals(core.ComputeTotals(led.All()))
		return nil
	case "summary":
		renderSummary(core.ComputeWindowedSummary(led.All(), now))
		return nil
	case "delete":
		return runDelete(ctx, led, args, now)
	case "edit":
		return runEdit(ctx, led, args, now)
	case "export":
		return runExport(ctx, led, cfg, args)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command: %s", command)
	}
}

func runAdd(ctx context.Context, led *ledger.Ledger, args []string, now time.Time) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	amountArg := fs.String("amount", "", "transaction amount, e.g. 12.50")
	typeArg := fs.String("type", "", "Income or Expense")
	descArg := fs.String("desc", "", "free-text description")
	dateArg := fs.String("date", "", "transaction date (YYYY-MM-DD), defaults to today")
	if err := fs.Parse(args); err != nil {
		return err
	}

	amount, err := core.ParseAmount(*amountArg)
	if err != nil {
		return fmt.Errorf("amount %q: %w", *amountArg, err)
	}
	kind, err := core.ParseKind(*typeArg)
	if err != nil {
		return fmt.Errorf("type %q: %w", *typeArg, err)
	}
	occurredOn := core.DateOf(now)
	if *dateArg != "" {
		if occurredOn, err = core.ParseDate(*dateArg); err != nil {
			return fmt.Errorf("date %q: %w", *dateArg, err)
		}
	}

	tx, err := led.Add(ctx, ledger.Fields{
		Amount:      amount,
		Description: *descArg,
		Kind:        kind,
		OccurredOn:  occurredOn,
		RecordedAt:  now.Format("15:04:05"),
	})
	if err != nil {
		return err
	}

	fmt.Printf("Added %s %s (%s)\n", tx.Kind, tx.Amount, tx.OccurredOn.Format())
	renderAll(led, now)
	return nil
}

func runDelete(ctx context.Context, led *ledger.Ledger, args []string, now time.Time) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	indexArg := fs.Int("index", 0, "1-based position from the last listing")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := led.RemoveAt(ctx, *indexArg-1); err != nil {
		return err
	}

	fmt.Printf("Deleted transaction #%d\n", *indexArg)
	renderAll(led, now)
	return nil
}

func runEdit(ctx context.Context, led *ledger.Ledger, args []string, now time.Time) error {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	indexArg := fs.Int("index", 0, "1-based position from the last listing")
	amountArg := fs.String("amount", "", "new amount")
	typeArg := fs.String("type", "", "new kind (Income or Expense)")
	descArg := fs.String("desc", "", "new description")
	dateArg := fs.String("date", "", "new date (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	id, err := led.IDAt(*indexArg - 1)
	if err != nil {
		return err
	}
	current, _ := led.Get(id)

	fields := ledger.Fields{
		Amount:      current.Amount,
		Description: current.Description,
		Kind:        current.Kind,
		OccurredOn:  current.OccurredOn,
		RecordedAt:  current.RecordedAt,
	}
	var parseErr error
	fs.Visit(func(f *flag.Flag) {
		if parseErr != nil {
			return
		}
		switch f.Name {
		case "amount":
			if fields.Amount, parseErr = core.ParseAmount(*amountArg); parseErr != nil {
				parseErr = fmt.Errorf("amount %q: %w", *amountArg, parseErr)
			}
		case "type":
			if fields.Kind, parseErr = core.ParseKind(*typeArg); parseErr != nil {
				parseErr = fmt.Errorf("type %q: %w", *typeArg, parseErr)
			}
		case "desc":
			fields.Description = *descArg
		case "date":
			if fields.OccurredOn, parseErr = core.ParseDate(*dateArg); parseErr != nil {
				parseErr = fmt.Errorf("date %q: %w", *dateArg, parseErr)
			}
		}
	})
	if parseErr != nil {
		return parseErr
	}

	if _, err := led.Update(ctx, id, fields); err != nil {
		return err
	}

	fmt.Printf("Updated transaction #%d\n", *indexArg)
	renderAll(led, now)
	return nil
}

func runExport(ctx context.Context, led *ledger.Ledger, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	outArg := fs.String("out", cfg.ExportPath, "output path for the CSV report")
	if err := fs.Parse(args); err != nil {
		return err
	}

	table, err := report.Build(led.All())
	if err != nil {
		if errors.Is(err, report.ErrEmptyLedger) {
			fmt.Println("No records to export.")
			return nil
		}
		return err
	}

	sink := report.NewCSVSink(*outArg)
	if err := sink.Write(ctx, table); err != nil {
		return fmt.Errorf("export report: %w", err)
	}

	fmt.Printf("Exported %d records to %s\n", len(table.Rows), *outArg)
	return nil
}

// renderAll re-renders everything a mutation can change, in the same pass
// the mutation ran in: the table, the all-time totals and the windowed
// summary.
func renderAll(led *ledger.Ledger, now time.Time) {
	txs := led.All()
	renderTable(txs)
	renderTotals(core.ComputeTotals(txs))
	renderSummary(core.ComputeWindowedSummary(txs, now))
}

func renderTable(txs []core.Transaction) {
	if len(txs) == 0 {
		fmt.Println("No transactions recorded.")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tAmount\tType\tDescription\tDate\tTime")
	for i, tx := range txs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			i+1, tx.Amount, tx.Kind, tx.Description, tx.OccurredOn.Format(), tx.RecordedAt)
	}
	w.Flush()
}

func renderTotals(t core.Totals) {
	fmt.Printf("Income: %s  Expense: %s  Net: %s\n", t.Income, t.Expense, t.Net)
}

func renderSummary(s core.WindowedSummary) {
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Window\tIncome\tExpense\tNet")
	fmt.Fprintf(w, "Daily\t%s\t%s\t%s\n", s.Daily.Income, s.Daily.Expense, s.Daily.Net)
	fmt.Fprintf(w, "Monthly\t%s\t%s\t%s\n", s.Monthly.Income, s.Monthly.Expense, s.Monthly.Net)
	fmt.Fprintf(w, "Yearly\t%s\t%s\t%s\n", s.Yearly.Income, s.Yearly.Expense, s.Yearly.Net)
	w.Flush()
}
