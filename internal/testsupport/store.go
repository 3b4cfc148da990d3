package testsupport

import (
	"context"
	"testing"

	"espaform/internal/config"
	"espaform/internal/ledger"
)

// MustOpenLedger opens the ledger store for tests and registers cleanup.
func MustOpenLedger(t testing.TB, cfg *config.Config) *ledger.Store {
	t.Helper()

	store, err := ledger.Open(cfg.Ledger.Path)
	if err != nil {
		t.Fatalf("ledger.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// BeginConversion inserts a running conversion record for tests.
func BeginConversion(t testing.TB, store *ledger.Store, productID, format string) *ledger.Record {
	t.Helper()

	rec, err := store.Begin(context.Background(), productID, format, "")
	if err != nil {
		t.Fatalf("store.Begin: %v", err)
	}
	return rec
}
