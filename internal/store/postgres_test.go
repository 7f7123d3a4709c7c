package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/JonMunkholm/PasteImport/internal/config"
	"github.com/JonMunkholm/PasteImport/internal/core"
	"github.com/google/uuid"
)

// openTestPostgres connects to TEST_DATABASE_URL or skips the test.
func openTestPostgres(t *testing.T) *Postgres {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	p, err := OpenPostgres(ctx, config.DatabaseConfig{
		URL:             dsn,
		MaxConns:        4,
		MinConns:        1,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: time.Minute,
	})
	if err != nil {
		t.Fatalf("OpenPostgres() error = %v", err)
	}
	t.Cleanup(func() { p.Close() })

	if _, err := p.pool.Exec(ctx, `TRUNCATE records, imports, record_types, collections`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	if err := p.UpsertCatalog(ctx, core.DefaultCatalog()); err != nil {
		t.Fatalf("UpsertCatalog() error = %v", err)
	}
	return p
}

func TestPostgres_SaveAndListImports(t *testing.T) {
	p := openTestPostgres(t)
	ctx := context.Background()
	deck := findCollection(t, p, "Default")
	basic := findRecordType(t, p, "Basic")

	entry := core.ImportEntry{
		ID:           core.NewID(),
		CollectionID: deck.ID,
		RecordTypeID: basic.ID,
		Delimiter:    "pipe",
		Added:        1,
		UserAgent:    "go-test",
		CreatedAt:    time.Now().UTC(),
	}
	records := []core.Record{{
		ID: core.NewID(), ImportID: entry.ID, CollectionID: deck.ID, RecordTypeID: basic.ID,
		Fields: []string{"q", "a"}, CreatedAt: entry.CreatedAt,
	}}
	if err := p.SaveImport(ctx, entry, records); err != nil {
		t.Fatalf("SaveImport() error = %v", err)
	}

	history, err := p.ListImports(ctx, 5)
	if err != nil {
		t.Fatalf("ListImports() error = %v", err)
	}
	if len(history) != 1 || history[0].ID != entry.ID || history[0].UserAgent != "go-test" {
		t.Errorf("history = %+v", history)
	}
	if n, err := p.CountRecords(ctx, deck.ID); err != nil || n != 1 {
		t.Errorf("CountRecords() = %d, %v, want 1", n, err)
	}
}

func TestPostgres_NotFound(t *testing.T) {
	p := openTestPostgres(t)
	if _, err := p.GetCollection(context.Background(), uuid.New()); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("GetCollection() error = %v, want ErrNotFound", err)
	}
}
