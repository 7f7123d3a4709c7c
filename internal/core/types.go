package core

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Collection is a destination that records are imported into.
type Collection struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// RecordType names the ordered field slots a row is mapped onto.
type RecordType struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Fields    []string  `json:"fields"`
	CreatedAt time.Time `json:"createdAt"`
}

// Record is one imported row.
type Record struct {
	ID           uuid.UUID
	ImportID     uuid.UUID
	CollectionID uuid.UUID
	RecordTypeID uuid.UUID
	Fields       []string
	Tags         []string
	CreatedAt    time.Time
}

// ImportEntry is the history line written for every quick import.
type ImportEntry struct {
	ID             uuid.UUID `json:"id"`
	CollectionID   uuid.UUID `json:"collectionId"`
	CollectionName string    `json:"collectionName,omitempty"`
	RecordTypeID   uuid.UUID `json:"recordTypeId"`
	RecordTypeName string    `json:"recordTypeName,omitempty"`
	Delimiter      string    `json:"delimiter"`
	AutoDetected   bool      `json:"autoDetected"`
	Added          int       `json:"added"`
	SkippedEmpty   int       `json:"skippedEmpty"`
	ClientIP       string    `json:"clientIp,omitempty"`
	UserAgent      string    `json:"userAgent,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ErrNotFound is returned by a Store when a lookup matches nothing.
var ErrNotFound = errors.New("not found")

// Store persists the catalog, imported records and import history.
// Implementations live in package store.
type Store interface {
	ListCollections(ctx context.Context) ([]Collection, error)
	GetCollection(ctx context.Context, id uuid.UUID) (Collection, error)
	ListRecordTypes(ctx context.Context) ([]RecordType, error)
	GetRecordType(ctx context.Context, id uuid.UUID) (RecordType, error)

	// UpsertCatalog creates missing collections and record types by name and
	// refreshes the field list of existing record types.
	UpsertCatalog(ctx context.Context, cat Catalog) error

	// SaveImport writes the entry and its records atomically.
	SaveImport(ctx context.Context, entry ImportEntry, records []Record) error
	ListImports(ctx context.Context, limit int) ([]ImportEntry, error)
	CountRecords(ctx context.Context, collectionID uuid.UUID) (int, error)

	Close() error
}

// NewID returns a time-ordered identifier.
func NewID() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}
