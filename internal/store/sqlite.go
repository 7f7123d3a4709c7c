package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/JonMunkholm/PasteImport/internal/core"
	"github.com/google/uuid"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// SQLite is a core.Store backed by a local SQLite file. Field and tag lists
// are stored as JSON text, timestamps as unix milliseconds.
type SQLite struct {
	db *sql.DB
}

var _ core.Store = (*SQLite)(nil)

var sqliteSchema = []string{
	`PRAGMA foreign_keys = ON`,
	`CREATE TABLE IF NOT EXISTS collections (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		created_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS record_types (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		fields TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS imports (
		id TEXT PRIMARY KEY,
		collection_id TEXT NOT NULL REFERENCES collections(id),
		record_type_id TEXT NOT NULL REFERENCES record_types(id),
		delimiter TEXT NOT NULL,
		auto_detected INTEGER NOT NULL,
		added INTEGER NOT NULL,
		skipped_empty INTEGER NOT NULL,
		client_ip TEXT NOT NULL DEFAULT '',
		user_agent TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS records (
		id TEXT PRIMARY KEY,
		import_id TEXT NOT NULL REFERENCES imports(id) ON DELETE CASCADE,
		collection_id TEXT NOT NULL REFERENCES collections(id),
		record_type_id TEXT NOT NULL REFERENCES record_types(id),
		fields TEXT NOT NULL,
		tags TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_records_collection ON records(collection_id)`,
	`CREATE INDEX IF NOT EXISTS idx_imports_created ON imports(created_at)`,
}

// OpenSQLite opens (or creates) the database at path and applies the schema.
// A single connection is shared so concurrent writers serialize instead of
// failing with SQLITE_BUSY; ":memory:" therefore stays one database.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	for _, ddl := range sqliteSchema {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}
	return &SQLite{db: db}, nil
}

// Close releases the database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) ListCollections(ctx context.Context) ([]core.Collection, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, created_at FROM collections ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer rows.Close()

	var out []core.Collection
	for rows.Next() {
		var c core.Collection
		var created int64
		if err := rows.Scan(&c.ID, &c.Name, &created); err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		c.CreatedAt = fromMillis(created)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLite) GetCollection(ctx context.Context, id uuid.UUID) (core.Collection, error) {
	c := core.Collection{ID: id}
	var created int64
	err := s.db.QueryRowContext(ctx,
		`SELECT name, created_at FROM collections WHERE id = ?`, id.String(),
	).Scan(&c.Name, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Collection{}, core.ErrNotFound
	}
	if err != nil {
		return core.Collection{}, fmt.Errorf("get collection: %w", err)
	}
	c.CreatedAt = fromMillis(created)
	return c, nil
}

func (s *SQLite) ListRecordTypes(ctx context.Context) ([]core.RecordType, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, fields, created_at FROM record_types ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list record types: %w", err)
	}
	defer rows.Close()

	var out []core.RecordType
	for rows.Next() {
		var rt core.RecordType
		var fields string
		var created int64
		if err := rows.Scan(&rt.ID, &rt.Name, &fields, &created); err != nil {
			return nil, fmt.Errorf("scan record type: %w", err)
		}
		if err := json.Unmarshal([]byte(fields), &rt.Fields); err != nil {
			return nil, fmt.Errorf("decode fields of %q: %w", rt.Name, err)
		}
		rt.CreatedAt = fromMillis(created)
		out = append(out, rt)
	}
	return out, rows.Err()
}

func (s *SQLite) GetRecordType(ctx context.Context, id uuid.UUID) (core.RecordType, error) {
	rt := core.RecordType{ID: id}
	var fields string
	var created int64
	err := s.db.QueryRowContext(ctx,
		`SELECT name, fields, created_at FROM record_types WHERE id = ?`, id.String(),
	).Scan(&rt.Name, &fields, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return core.RecordType{}, core.ErrNotFound
	}
	if err != nil {
		return core.RecordType{}, fmt.Errorf("get record type: %w", err)
	}
	if err := json.Unmarshal([]byte(fields), &rt.Fields); err != nil {
		return core.RecordType{}, fmt.Errorf("decode fields: %w", err)
	}
	rt.CreatedAt = fromMillis(created)
	return rt, nil
}

func (s *SQLite) UpsertCatalog(ctx context.Context, cat core.Catalog) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := toMillis(time.Now())
	for _, c := range cat.Collections {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO collections (id, name, created_at) VALUES (?, ?, ?)
			 ON CONFLICT(name) DO NOTHING`,
			core.NewID().String(), c.Name, now,
		); err != nil {
			return fmt.Errorf("upsert collection %q: %w", c.Name, err)
		}
	}
	for _, rt := range cat.RecordTypes {
		fields, err := json.Marshal(rt.Fields)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO record_types (id, name, fields, created_at) VALUES (?, ?, ?, ?)
			 ON CONFLICT(name) DO UPDATE SET fields = excluded.fields`,
			core.NewID().String(), rt.Name, string(fields), now,
		); err != nil {
			return fmt.Errorf("upsert record type %q: %w", rt.Name, err)
		}
	}
	return tx.Commit()
}

func (s *SQLite) SaveImport(ctx context.Context, e core.ImportEntry, records []core.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO imports (id, collection_id, record_type_id, delimiter, auto_detected,
			added, skipped_empty, client_ip, user_agent, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID.String(), e.CollectionID.String(), e.RecordTypeID.String(), e.Delimiter, e.AutoDetected,
		e.Added, e.SkippedEmpty, e.ClientIP, e.UserAgent, toMillis(e.CreatedAt),
	); err != nil {
		return fmt.Errorf("insert import: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (id, import_id, collection_id, record_type_id, fields, tags, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		fields, err := json.Marshal(r.Fields)
		if err != nil {
			return err
		}
		tags, err := json.Marshal(nonNil(r.Tags))
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx,
			r.ID.String(), r.ImportID.String(), r.CollectionID.String(), r.RecordTypeID.String(),
			string(fields), string(tags), toMillis(r.CreatedAt),
		); err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
	}
	return tx.Commit()
}

func (s *SQLite) ListImports(ctx context.Context, limit int) ([]core.ImportEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT i.id, i.collection_id, c.name, i.record_type_id, r.name, i.delimiter,
			i.auto_detected, i.added, i.skipped_empty, i.client_ip, i.user_agent, i.created_at
		 FROM imports i
		 JOIN collections c ON c.id = i.collection_id
		 JOIN record_types r ON r.id = i.record_type_id
		 ORDER BY i.created_at DESC, i.id DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list imports: %w", err)
	}
	defer rows.Close()

	var out []core.ImportEntry
	for rows.Next() {
		var e core.ImportEntry
		var created int64
		if err := rows.Scan(&e.ID, &e.CollectionID, &e.CollectionName, &e.RecordTypeID, &e.RecordTypeName,
			&e.Delimiter, &e.AutoDetected, &e.Added, &e.SkippedEmpty, &e.ClientIP, &e.UserAgent, &created,
		); err != nil {
			return nil, fmt.Errorf("scan import: %w", err)
		}
		e.CreatedAt = fromMillis(created)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLite) CountRecords(ctx context.Context, collectionID uuid.UUID) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM records WHERE collection_id = ?`, collectionID.String(),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

func toMillis(t time.Time) int64 { return t.UnixMilli() }

func fromMillis(ms int64) time.Time { return time.UnixMilli(ms).UTC() }

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
