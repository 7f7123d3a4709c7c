package core

// staging.go writes pastes to files for tools that only import from disk,
// and runs the janitor that removes them again.
//
// The janitor is long-running and stops with its context. Failures to remove
// individual files are logged and never stop the loop.

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/JonMunkholm/PasteImport/internal/logging"
	"github.com/JonMunkholm/PasteImport/internal/tabular"
)

// StagingPattern is the file name pattern of staged pastes.
const StagingPattern = "paste_import_*.csv"

// StagedFile describes a paste written to disk.
type StagedFile struct {
	Path          string            `json:"path"`
	Name          string            `json:"name"`
	Bytes         int               `json:"bytes"`
	Delimiter     tabular.Delimiter `json:"delimiter"`
	DelimiterName string            `json:"delimiterName"`
	RowCount      int               `json:"rowCount"`
}

// StagingDir returns the directory staged files are written to.
func (s *Service) StagingDir() string {
	if s.cfg.StagingDir != "" {
		return s.cfg.StagingDir
	}
	return os.TempDir()
}

// StageText writes the normalized paste to a new file in the staging
// directory. The delimiter is reported so the receiving tool can be told
// what to expect; the text itself is written unchanged.
func (s *Service) StageText(ctx context.Context, text, override string) (*StagedFile, error) {
	d, err := s.Detect(ctx, text, override)
	if err != nil {
		return nil, err
	}
	if d.Empty {
		return nil, ErrEmptyPaste
	}
	text = NormalizeText(text)

	dir := s.StagingDir()
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}

	f, err := os.CreateTemp(dir, StagingPattern)
	if err != nil {
		return nil, fmt.Errorf("create staged file: %w", err)
	}
	path := f.Name()

	if _, err := f.WriteString(text); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("write staged file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("close staged file: %w", err)
	}

	logging.FromContext(ctx).Info("paste staged",
		"path", path,
		"bytes", len(text),
		"delimiter", d.Delimiter.String(),
	)

	return &StagedFile{
		Path:          path,
		Name:          filepath.Base(path),
		Bytes:         len(text),
		Delimiter:     d.Delimiter,
		DelimiterName: d.Name,
		RowCount:      d.RowCount,
	}, nil
}

// StartStagingJanitor removes staged files older than the configured max
// age. It runs once immediately, then every JanitorInterval, until ctx is
// cancelled.
func (s *Service) StartStagingJanitor(ctx context.Context) {
	interval := s.cfg.JanitorInterval
	if interval <= 0 {
		interval = time.Hour
	}
	slog.Info("staging janitor started",
		"dir", s.StagingDir(),
		"max_age", s.cfg.StagingMaxAge,
		"interval", interval,
	)

	s.runJanitor()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("staging janitor stopped")
			return
		case <-ticker.C:
			s.runJanitor()
		}
	}
}

func (s *Service) runJanitor() {
	removed, err := s.CleanStaging(s.cfg.StagingMaxAge)
	if err != nil {
		slog.Error("staging cleanup failed", "error", err)
		return
	}
	if removed > 0 {
		slog.Info("removed staged files", "count", removed)
	}
}

// CleanStaging deletes staged files last modified more than maxAge ago and
// returns how many were removed. A non-positive maxAge removes nothing.
func (s *Service) CleanStaging(maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		return 0, nil
	}

	matches, err := filepath.Glob(filepath.Join(s.StagingDir(), StagingPattern))
	if err != nil {
		return 0, fmt.Errorf("list staged files: %w", err)
	}

	cutoff := s.now().Add(-maxAge)
	removed := 0
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() || !strings.HasSuffix(path, ".csv") {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			slog.Warn("remove staged file", "path", path, "error", err)
			continue
		}
		removed++
	}
	return removed, nil
}
