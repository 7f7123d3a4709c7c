package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/PasteImport/internal/tabular"
)

func TestService_StageText(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	staged, err := svc.StageText(context.Background(), "\uFEFFa|b\nc|d\n", "")
	if err != nil {
		t.Fatalf("StageText() error = %v", err)
	}

	if filepath.Dir(staged.Path) != svc.StagingDir() {
		t.Errorf("staged in %q, want %q", filepath.Dir(staged.Path), svc.StagingDir())
	}
	if !strings.HasPrefix(staged.Name, "paste_import_") || !strings.HasSuffix(staged.Name, ".csv") {
		t.Errorf("Name = %q, want paste_import_*.csv", staged.Name)
	}
	if staged.Delimiter != tabular.Pipe || staged.RowCount != 2 {
		t.Errorf("delimiter = %v rows = %d, want pipe 2", staged.Delimiter, staged.RowCount)
	}

	data, err := os.ReadFile(staged.Path)
	if err != nil {
		t.Fatalf("read staged file: %v", err)
	}
	if string(data) != "a|b\nc|d" {
		t.Errorf("staged content = %q, want %q", data, "a|b\nc|d")
	}
	if staged.Bytes != len(data) {
		t.Errorf("Bytes = %d, want %d", staged.Bytes, len(data))
	}
}

func TestService_StageTextEmpty(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	if _, err := svc.StageText(context.Background(), " \n ", ""); !errors.Is(err, ErrEmptyPaste) {
		t.Errorf("StageText() error = %v, want ErrEmptyPaste", err)
	}
}

func TestService_CleanStaging(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	dir := svc.StagingDir()

	old := filepath.Join(dir, "paste_import_old.csv")
	fresh := filepath.Join(dir, "paste_import_new.csv")
	other := filepath.Join(dir, "keep.csv")
	for _, p := range []string{old, fresh, other} {
		if err := os.WriteFile(p, []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	past := time.Now().Add(-48 * time.Hour)
	for _, p := range []string{old, other} {
		if err := os.Chtimes(p, past, past); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := svc.CleanStaging(24 * time.Hour)
	if err != nil {
		t.Fatalf("CleanStaging() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Error("old staged file still exists")
	}
	for _, p := range []string{fresh, other} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("%s was removed: %v", filepath.Base(p), err)
		}
	}

	if n, _ := svc.CleanStaging(0); n != 0 {
		t.Errorf("CleanStaging(0) removed %d files", n)
	}
}

func TestService_StartStagingJanitorStops(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		svc.StartStagingJanitor(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Error("janitor did not stop after cancel")
	}
}
