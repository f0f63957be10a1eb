package backend

import (
	"context"
	"path/filepath"
	"testing"

	"cashflow/internal/config"
	"cashflow/internal/storage"
)

func TestTypeIsValid(t *testing.T) {
	for _, valid := range []Type{SQLiteBackend, FileBackend, MemoryBackend} {
		if !valid.IsValid() {
			t.Fatalf("%s should be valid", valid)
		}
	}
	for _, invalid := range []Type{"", "postgres", "sheets"} {
		if invalid.IsValid() {
			t.Fatalf("%q should be invalid", invalid)
		}
	}
}

func TestFromAppConfig(t *testing.T) {
	appCfg := &config.Config{
		Backend:      "file",
		SQLiteDBPath: "./data/cashflow.db",
		DataDir:      "./data",
	}
	cfg, err := FromAppConfig(appCfg)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if cfg.Type != FileBackend || cfg.DataDir != "./data" {
		t.Fatalf("unexpected conversion: %+v", cfg)
	}

	if _, err := FromAppConfig(nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
	if _, err := FromAppConfig(&config.Config{Backend: "bogus"}); err == nil {
		t.Fatalf("expected error for invalid backend")
	}
}

func TestOpenMemoryAndFile(t *testing.T) {
	ctx := context.Background()

	for _, cfg := range []Config{
		{Type: MemoryBackend},
		{Type: FileBackend, DataDir: t.TempDir()},
		{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(t.TempDir(), "cashflow.db")},
	} {
		store, err := Open(cfg, nil)
		if err != nil {
			t.Fatalf("%s: open: %v", cfg.Type, err)
		}
		txs, err := store.Load(ctx, storage.LedgerKey)
		if err != nil {
			t.Fatalf("%s: load: %v", cfg.Type, err)
		}
		if len(txs) != 0 {
			t.Fatalf("%s: expected empty ledger, got %d", cfg.Type, len(txs))
		}
		store.Close()
	}

	if _, err := Open(Config{Type: "bogus"}, nil); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
}
