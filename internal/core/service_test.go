package core

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/PasteImport/internal/config"
	"github.com/JonMunkholm/PasteImport/internal/tabular"
	"github.com/google/uuid"
)

func testConfig(t *testing.T) config.ImportConfig {
	t.Helper()
	return config.ImportConfig{
		MaxPasteBytes:   1 << 20,
		MaxConcurrent:   2,
		MaxWaitTime:     time.Second,
		Timeout:         time.Minute,
		PreviewRows:     3,
		StagingDir:      t.TempDir(),
		StagingMaxAge:   time.Hour,
		JanitorInterval: time.Hour,
	}
}

// newTestService returns a service seeded with the default catalog plus the
// ids of the "Default" collection and "Basic" record type.
func newTestService(t *testing.T) (*Service, *memStore, uuid.UUID, uuid.UUID) {
	t.Helper()
	store := newMemStore()
	svc := NewService(store, testConfig(t))
	if err := svc.SeedCatalog(context.Background(), DefaultCatalog()); err != nil {
		t.Fatalf("SeedCatalog() error = %v", err)
	}
	return svc, store, store.findCollection("Default"), store.findRecordType("Basic")
}

func TestService_Detect(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		text     string
		override string
		want     Detection
		status   string
	}{
		{
			name:   "auto detects tab",
			text:   "a\tb\nc\td\n",
			want:   Detection{Delimiter: tabular.Tab, Name: "Tab", RowCount: 2, AutoDetected: true},
			status: "Detected: Tab delimiter, 2 row(s)",
		},
		{
			name:   "auto detects semicolon",
			text:   "x;y;z\n1;2;3\n4;5;6",
			want:   Detection{Delimiter: tabular.Semicolon, Name: "Semicolon (;)", RowCount: 3, AutoDetected: true},
			status: "Detected: Semicolon (;) delimiter, 3 row(s)",
		},
		{
			name:     "override bypasses detection",
			text:     "a\tb\nc\td",
			override: "pipe",
			want:     Detection{Delimiter: tabular.Pipe, Name: "Pipe (|)", RowCount: 2},
			status:   "Using Pipe (|) delimiter, 2 row(s)",
		},
		{
			name: "blank paste is empty",
			text: "  \n\t ",
			want: Detection{Delimiter: tabular.Comma, Name: "Comma (,)", AutoDetected: true, Empty: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Detect(ctx, tt.text, tt.override)
			if err != nil {
				t.Fatalf("Detect() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Detect() = %+v, want %+v", got, tt.want)
			}
			if got.Status() != tt.status {
				t.Errorf("Status() = %q, want %q", got.Status(), tt.status)
			}
		})
	}
}

func TestService_DetectErrors(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Detect(ctx, "a,b", "#"); err == nil || !strings.Contains(err.Error(), "unsupported delimiter") {
		t.Errorf("Detect() with bad override error = %v, want unsupported delimiter", err)
	}

	svc.cfg.MaxPasteBytes = 4
	if _, err := svc.Detect(ctx, "a,b,c,d", ""); !errors.Is(err, ErrPasteTooLarge) {
		t.Errorf("Detect() oversized error = %v, want ErrPasteTooLarge", err)
	}
}

func TestService_Preview(t *testing.T) {
	svc, _, _, basic := newTestService(t)
	ctx := context.Background()

	text := "front,back\nq1,a1\n,\nq2,a2,tagged\nq3,a3"
	got, err := svc.Preview(ctx, PreviewRequest{Text: text, HasHeader: true, RecordTypeID: basic})
	if err != nil {
		t.Fatalf("Preview() error = %v", err)
	}

	if got.Delimiter != tabular.Comma || !got.AutoDetected {
		t.Errorf("delimiter = %v auto=%v, want comma auto", got.Delimiter, got.AutoDetected)
	}
	if got.TotalRows != 4 {
		t.Errorf("TotalRows = %d, want 4", got.TotalRows)
	}
	if got.EmptyRows != 1 {
		t.Errorf("EmptyRows = %d, want 1", got.EmptyRows)
	}
	if len(got.Rows) != 3 {
		t.Fatalf("len(Rows) = %d, want preview limit 3", len(got.Rows))
	}
	if !got.Mapped[1].Empty {
		t.Errorf("Mapped[1] = %+v, want empty", got.Mapped[1])
	}
	if v := got.Mapped[2].Values["Back"]; v != "a2" {
		t.Errorf("Mapped[2].Values[Back] = %q, want a2", v)
	}
	if len(got.Mapped[2].Tags) != 1 || got.Mapped[2].Tags[0] != "tagged" {
		t.Errorf("Mapped[2].Tags = %v, want [tagged]", got.Mapped[2].Tags)
	}
}

func TestService_PreviewErrors(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Preview(ctx, PreviewRequest{Text: "   "}); !errors.Is(err, ErrEmptyPaste) {
		t.Errorf("empty paste error = %v, want ErrEmptyPaste", err)
	}

	_, err := svc.Preview(ctx, PreviewRequest{Text: "a,\"b\nc,d", Delimiter: "comma"})
	if !errors.Is(err, tabular.ErrMalformedQuoting) {
		t.Errorf("malformed error = %v, want ErrMalformedQuoting", err)
	}

	_, err = svc.Preview(ctx, PreviewRequest{Text: "a,b", RecordTypeID: NewID()})
	if !errors.Is(err, ErrUnknownRecordType) {
		t.Errorf("unknown record type error = %v, want ErrUnknownRecordType", err)
	}
}

func TestService_QuickImport(t *testing.T) {
	svc, store, deck, basic := newTestService(t)
	ctx := ContextWithRequestMeta(context.Background(), RequestMeta{ClientIP: "10.0.0.1", UserAgent: "test"})

	text := "Front\tBack\nhola\thello\tspanish greeting\n\t \nadiós\tgoodbye\n"
	res, err := svc.QuickImport(ctx, ImportRequest{
		Text:         text,
		HasHeader:    true,
		CollectionID: deck,
		RecordTypeID: basic,
	})
	if err != nil {
		t.Fatalf("QuickImport() error = %v", err)
	}

	if res.Added != 2 {
		t.Errorf("Added = %d, want 2", res.Added)
	}
	if res.SkippedEmpty != 1 {
		t.Errorf("SkippedEmpty = %d, want 1", res.SkippedEmpty)
	}
	if res.Delimiter != tabular.Tab || !res.AutoDetected {
		t.Errorf("delimiter = %v auto=%v, want tab auto", res.Delimiter, res.AutoDetected)
	}
	wantSummary := "Import complete! Added: 2 record(s), skipped empty rows: 1. Used delimiter: Tab"
	if got := res.Summary(); got != wantSummary {
		t.Errorf("Summary() = %q, want %q", got, wantSummary)
	}

	if len(store.records) != 2 {
		t.Fatalf("stored %d records, want 2", len(store.records))
	}
	first := store.records[0]
	if first.Fields[0] != "hola" || first.Fields[1] != "hello" {
		t.Errorf("first record fields = %q", first.Fields)
	}
	if strings.Join(first.Tags, " ") != "spanish greeting" {
		t.Errorf("first record tags = %q, want [spanish greeting]", first.Tags)
	}
	if store.records[1].Tags != nil {
		t.Errorf("second record tags = %q, want none", store.records[1].Tags)
	}

	history, err := svc.ListImports(ctx, 0)
	if err != nil {
		t.Fatalf("ListImports() error = %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("len(history) = %d, want 1", len(history))
	}
	h := history[0]
	if h.ID != res.ImportID || h.ClientIP != "10.0.0.1" || h.UserAgent != "test" || h.Delimiter != "tab" {
		t.Errorf("history entry = %+v", h)
	}
	if svc.Limiter().ActiveCount() != 0 {
		t.Error("import slot not released")
	}
}

func TestService_QuickImportBlankLinesAndBareQuotes(t *testing.T) {
	svc, store, deck, basic := newTestService(t)

	res, err := svc.QuickImport(context.Background(), ImportRequest{
		Text:         "TV,55\" screen\n\nRobert \"Bob\" Smith,friend",
		CollectionID: deck,
		RecordTypeID: basic,
	})
	if err != nil {
		t.Fatalf("QuickImport() error = %v", err)
	}
	if res.Added != 2 || res.SkippedEmpty != 1 {
		t.Errorf("Added = %d, SkippedEmpty = %d, want 2 and 1", res.Added, res.SkippedEmpty)
	}
	if got := store.records[0].Fields[1]; got != `55" screen` {
		t.Errorf("first record back = %q, want 55\" screen", got)
	}
	if got := store.records[1].Fields[0]; got != `Robert "Bob" Smith` {
		t.Errorf("second record front = %q", got)
	}
}

func TestService_QuickImportHeaderOnlyRowKept(t *testing.T) {
	svc, store, deck, basic := newTestService(t)

	res, err := svc.QuickImport(context.Background(), ImportRequest{
		Text:         "only,row",
		HasHeader:    true,
		CollectionID: deck,
		RecordTypeID: basic,
	})
	if err != nil {
		t.Fatalf("QuickImport() error = %v", err)
	}
	if res.Added != 1 || len(store.records) != 1 {
		t.Errorf("Added = %d, stored = %d, want 1", res.Added, len(store.records))
	}
}

func TestService_QuickImportErrors(t *testing.T) {
	svc, store, deck, basic := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     ImportRequest
		wantErr error
	}{
		{
			name:    "empty paste",
			req:     ImportRequest{Text: "\n\n", CollectionID: deck, RecordTypeID: basic},
			wantErr: ErrEmptyPaste,
		},
		{
			name:    "unknown collection",
			req:     ImportRequest{Text: "a,b", CollectionID: NewID(), RecordTypeID: basic},
			wantErr: ErrUnknownCollection,
		},
		{
			name:    "unknown record type",
			req:     ImportRequest{Text: "a,b", CollectionID: deck, RecordTypeID: NewID()},
			wantErr: ErrUnknownRecordType,
		},
		{
			name:    "malformed quoting",
			req:     ImportRequest{Text: "a,\"unterminated\nb,c", Delimiter: ",", CollectionID: deck, RecordTypeID: basic},
			wantErr: tabular.ErrMalformedQuoting,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.QuickImport(ctx, tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("QuickImport() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if len(store.records) != 0 || len(store.imports) != 0 {
		t.Errorf("failed imports wrote %d records and %d entries", len(store.records), len(store.imports))
	}
}

func TestService_QuickImportStoreFailure(t *testing.T) {
	svc, store, deck, basic := newTestService(t)
	store.saveErr = errors.New("database is locked")

	_, err := svc.QuickImport(context.Background(), ImportRequest{Text: "a,b", CollectionID: deck, RecordTypeID: basic})
	if err == nil || MapError(err).Code != "DB006" {
		t.Errorf("QuickImport() error = %v, want DB006 mapping", err)
	}
	if svc.Limiter().ActiveCount() != 0 {
		t.Error("import slot not released after failure")
	}
}

func TestService_SeedCatalogIsIdempotent(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.SeedCatalog(ctx, DefaultCatalog()); err != nil {
		t.Fatalf("second SeedCatalog() error = %v", err)
	}
	cols, _ := svc.ListCollections(ctx)
	if len(cols) != 1 {
		t.Errorf("len(collections) = %d, want 1", len(cols))
	}
	types, _ := svc.ListRecordTypes(ctx)
	if len(types) != 3 {
		t.Errorf("len(record types) = %d, want 3", len(types))
	}
}

func TestService_Rows(t *testing.T) {
	svc := NewService(nil, testConfig(t))
	ctx := context.Background()

	d, rows, err := svc.Rows(ctx, "name|age\nann|3\nbob|4\n", "", true)
	if err != nil {
		t.Fatalf("Rows() error = %v", err)
	}
	if d.Delimiter != tabular.Pipe || !d.AutoDetected {
		t.Errorf("detection = %+v, want auto-detected pipe", d)
	}
	if len(rows) != 2 || rows[0][0] != "ann" || rows[1][1] != "4" {
		t.Errorf("rows = %v, want [[ann 3] [bob 4]]", rows)
	}

	if _, _, err := svc.Rows(ctx, "  \n", "", false); !errors.Is(err, ErrEmptyPaste) {
		t.Errorf("Rows() empty error = %v, want ErrEmptyPaste", err)
	}
	if _, _, err := svc.Rows(ctx, "\"open,b", "comma", false); !errors.Is(err, tabular.ErrMalformedQuoting) {
		t.Errorf("Rows() malformed error = %v, want ErrMalformedQuoting", err)
	}
}
