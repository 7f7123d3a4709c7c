package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/JonMunkholm/PasteImport/internal/logging"
	"github.com/JonMunkholm/PasteImport/internal/tabular"
	"github.com/google/uuid"
)

// ImportRequest describes a quick import of pasted text.
type ImportRequest struct {
	Text         string
	Delimiter    string // "" or "auto" to detect
	HasHeader    bool
	CollectionID uuid.UUID
	RecordTypeID uuid.UUID
}

// ImportResult summarizes a finished quick import.
type ImportResult struct {
	ImportID       uuid.UUID         `json:"importId"`
	CollectionName string            `json:"collectionName"`
	RecordTypeName string            `json:"recordTypeName"`
	Delimiter      tabular.Delimiter `json:"delimiter"`
	DelimiterName  string            `json:"delimiterName"`
	AutoDetected   bool              `json:"autoDetected"`
	Added          int               `json:"added"`
	SkippedEmpty   int               `json:"skippedEmpty"`
	Duration       time.Duration     `json:"durationNs"`
}

// Summary renders the completion message shown to the user.
func (r *ImportResult) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Import complete! Added: %d record(s)", r.Added)
	if r.SkippedEmpty > 0 {
		fmt.Fprintf(&b, ", skipped empty rows: %d", r.SkippedEmpty)
	}
	if r.AutoDetected {
		fmt.Fprintf(&b, ". Used delimiter: %s", r.DelimiterName)
	}
	return b.String()
}

// QuickImport parses the paste and writes one record per non-empty row into
// the collection. Parse errors are returned unchanged in the chain so
// callers can match tabular.ErrMalformedQuoting.
//
// Records and the history entry are written in one transaction: a failed
// import leaves nothing behind.
func (s *Service) QuickImport(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	start := time.Now()

	text, err := s.prepare(req.Text)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, ErrEmptyPaste
	}

	col, err := s.collection(ctx, req.CollectionID)
	if err != nil {
		return nil, err
	}
	rt, err := s.recordType(ctx, req.RecordTypeID)
	if err != nil {
		return nil, err
	}

	delim, auto, err := s.resolveDelimiter(text, req.Delimiter)
	if err != nil {
		return nil, err
	}

	rows, err := tabular.Parse(text, delim, req.HasHeader)
	if err != nil {
		return nil, fmt.Errorf("parse paste: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}

	importID := NewID()
	log := logging.WithFields(ctx,
		"import_id", importID,
		"collection", col.Name,
		"record_type", rt.Name,
		"delimiter", delim.String(),
	)

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	now := s.now()
	records := make([]Record, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		if row.IsEmpty() {
			skipped++
			continue
		}
		values, tags := MapRow(row, len(rt.Fields))
		records = append(records, Record{
			ID:           NewID(),
			ImportID:     importID,
			CollectionID: col.ID,
			RecordTypeID: rt.ID,
			Fields:       values,
			Tags:         tags,
			CreatedAt:    now,
		})
	}

	meta := RequestMetaFromContext(ctx)
	entry := ImportEntry{
		ID:             importID,
		CollectionID:   col.ID,
		CollectionName: col.Name,
		RecordTypeID:   rt.ID,
		RecordTypeName: rt.Name,
		Delimiter:      delim.String(),
		AutoDetected:   auto,
		Added:          len(records),
		SkippedEmpty:   skipped,
		ClientIP:       meta.ClientIP,
		UserAgent:      meta.UserAgent,
		CreatedAt:      now,
	}

	if err := s.store.SaveImport(ctx, entry, records); err != nil {
		log.Error("import failed", "error", err)
		return nil, fmt.Errorf("save import: %w", err)
	}

	result := &ImportResult{
		ImportID:       importID,
		CollectionName: col.Name,
		RecordTypeName: rt.Name,
		Delimiter:      delim,
		DelimiterName:  delim.Name(),
		AutoDetected:   auto,
		Added:          len(records),
		SkippedEmpty:   skipped,
		Duration:       time.Since(start),
	}

	log.Info("import completed",
		"added", result.Added,
		"skipped_empty", result.SkippedEmpty,
		"duration_ms", result.Duration.Milliseconds(),
	)
	return result, nil
}
