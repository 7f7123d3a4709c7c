package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JonMunkholm/PasteImport/internal/config"
	"github.com/JonMunkholm/PasteImport/internal/logging"
	"github.com/JonMunkholm/PasteImport/internal/tabular"
	"github.com/google/uuid"
)

// Service provides the paste import operations shared by every client.
type Service struct {
	store    Store
	cfg      config.ImportConfig
	detector *tabular.Detector
	limiter  *ImportLimiter
	now      func() time.Time
}

// NewService creates a Service backed by store. store may be nil for
// clients that only detect, parse and stage pastes.
func NewService(store Store, cfg config.ImportConfig) *Service {
	if cfg.PreviewRows <= 0 {
		cfg.PreviewRows = 10
	}
	return &Service{
		store:    store,
		cfg:      cfg,
		detector: tabular.DefaultDetector(),
		limiter:  NewImportLimiter(cfg.MaxConcurrent, cfg.MaxWaitTime),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Limiter exposes the import limiter so shutdown can drain it.
func (s *Service) Limiter() *ImportLimiter {
	return s.limiter
}

// Detection is the outcome of resolving the delimiter for a paste.
type Detection struct {
	Delimiter    tabular.Delimiter `json:"delimiter"`
	Name         string            `json:"name"`
	RowCount     int               `json:"rowCount"`
	AutoDetected bool              `json:"autoDetected"`
	Empty        bool              `json:"empty"`
}

// Status renders the one-line status shown under the paste box.
// An empty paste has no status.
func (d Detection) Status() string {
	if d.Empty {
		return ""
	}
	if d.AutoDetected {
		return fmt.Sprintf("Detected: %s delimiter, %d row(s)", d.Name, d.RowCount)
	}
	return fmt.Sprintf("Using %s delimiter, %d row(s)", d.Name, d.RowCount)
}

// Detect resolves the delimiter of text and counts its rows. override is a
// delimiter name, label or character; "" or "auto" runs detection.
//
// Detection itself never fails. Errors are only returned for an oversized
// paste or an unknown override.
func (s *Service) Detect(ctx context.Context, text, override string) (Detection, error) {
	text, err := s.prepare(text)
	if err != nil {
		return Detection{}, err
	}

	delim, auto, err := s.resolveDelimiter(text, override)
	if err != nil {
		return Detection{}, err
	}

	d := Detection{
		Delimiter:    delim,
		Name:         delim.Name(),
		AutoDetected: auto,
		Empty:        text == "",
	}
	if !d.Empty {
		d.RowCount = tabular.CountRows(text, delim)
	}

	logging.FromContext(ctx).Debug("delimiter resolved",
		"delimiter", delim.String(),
		"auto", auto,
		"rows", d.RowCount,
	)
	return d, nil
}

// prepare enforces the size limit and normalizes text.
func (s *Service) prepare(text string) (string, error) {
	if s.cfg.MaxPasteBytes > 0 && int64(len(text)) > s.cfg.MaxPasteBytes {
		return "", fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrPasteTooLarge, len(text), s.cfg.MaxPasteBytes)
	}
	return NormalizeText(text), nil
}

// resolveDelimiter applies an explicit override or falls back to detection.
func (s *Service) resolveDelimiter(text, override string) (tabular.Delimiter, bool, error) {
	delim, ok, err := tabular.ParseDelimiter(override)
	if err != nil {
		return 0, false, err
	}
	if ok {
		return delim, false, nil
	}
	if text == "" {
		return tabular.Comma, true, nil
	}
	return s.detector.Detect(text), true, nil
}

// Rows parses the whole paste with the resolved delimiter.
func (s *Service) Rows(ctx context.Context, text, override string, hasHeader bool) (Detection, []tabular.Row, error) {
	d, err := s.Detect(ctx, text, override)
	if err != nil {
		return Detection{}, nil, err
	}
	if d.Empty {
		return d, nil, ErrEmptyPaste
	}
	rows, err := tabular.Parse(NormalizeText(text), d.Delimiter, hasHeader)
	if err != nil {
		return d, nil, fmt.Errorf("parse paste: %w", err)
	}
	return d, rows, nil
}

// PreviewRequest describes a parse preview.
type PreviewRequest struct {
	Text         string
	Delimiter    string
	HasHeader    bool
	RecordTypeID uuid.UUID // uuid.Nil previews raw rows only
	Limit        int
}

// PreviewResult shows the first rows of a parse and how they map.
type PreviewResult struct {
	Delimiter    tabular.Delimiter `json:"delimiter"`
	Name         string            `json:"name"`
	AutoDetected bool              `json:"autoDetected"`
	TotalRows    int               `json:"totalRows"`
	EmptyRows    int               `json:"emptyRows"`
	Rows         []tabular.Row     `json:"rows"`
	Fields       []string          `json:"fields,omitempty"`
	Mapped       []MappedRow       `json:"mapped,omitempty"`
}

// Preview parses the paste strictly and returns the leading rows.
func (s *Service) Preview(ctx context.Context, req PreviewRequest) (*PreviewResult, error) {
	text, err := s.prepare(req.Text)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, ErrEmptyPaste
	}

	delim, auto, err := s.resolveDelimiter(text, req.Delimiter)
	if err != nil {
		return nil, err
	}

	var fields []string
	if req.RecordTypeID != uuid.Nil {
		rt, err := s.recordType(ctx, req.RecordTypeID)
		if err != nil {
			return nil, err
		}
		fields = rt.Fields
	}

	rows, err := tabular.Parse(text, delim, req.HasHeader)
	if err != nil {
		return nil, fmt.Errorf("parse paste: %w", err)
	}

	limit := req.Limit
	if limit <= 0 || limit > s.cfg.PreviewRows {
		limit = s.cfg.PreviewRows
	}
	shown := rows
	if len(shown) > limit {
		shown = shown[:limit]
	}

	result := &PreviewResult{
		Delimiter:    delim,
		Name:         delim.Name(),
		AutoDetected: auto,
		TotalRows:    len(rows),
		EmptyRows:    tabular.CountEmpty(rows),
		Rows:         shown,
		Fields:       fields,
	}
	if fields != nil {
		for i, row := range shown {
			result.Mapped = append(result.Mapped, mapPreviewRow(i+1, row, fields))
		}
	}
	return result, nil
}

// ListCollections returns every collection for pickers.
func (s *Service) ListCollections(ctx context.Context) ([]Collection, error) {
	return s.store.ListCollections(ctx)
}

// ListRecordTypes returns every record type for pickers.
func (s *Service) ListRecordTypes(ctx context.Context) ([]RecordType, error) {
	return s.store.ListRecordTypes(ctx)
}

// ListImports returns the most recent imports, newest first.
func (s *Service) ListImports(ctx context.Context, limit int) ([]ImportEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.store.ListImports(ctx, limit)
}

// SeedCatalog validates cat and upserts it into the store.
func (s *Service) SeedCatalog(ctx context.Context, cat Catalog) error {
	if err := cat.Validate(); err != nil {
		return err
	}
	if err := s.store.UpsertCatalog(ctx, cat); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	logging.FromContext(ctx).Info("catalog seeded",
		"collections", len(cat.Collections),
		"record_types", len(cat.RecordTypes),
	)
	return nil
}

func (s *Service) collection(ctx context.Context, id uuid.UUID) (Collection, error) {
	c, err := s.store.GetCollection(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return Collection{}, fmt.Errorf("%w: %s", ErrUnknownCollection, id)
	}
	return c, err
}

func (s *Service) recordType(ctx context.Context, id uuid.UUID) (RecordType, error) {
	rt, err := s.store.GetRecordType(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return RecordType{}, fmt.Errorf("%w: %s", ErrUnknownRecordType, id)
	}
	return rt, err
}
