package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/JonMunkholm/PasteImport/internal/config"
	"github.com/JonMunkholm/PasteImport/internal/core"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema_postgres.sql
var postgresSchema string

// Postgres is a core.Store backed by a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

var _ core.Store = (*Postgres)(nil)

// OpenPostgres connects using the pool settings from cfg, verifies the
// connection and applies the schema.
func OpenPostgres(ctx context.Context, cfg config.DatabaseConfig) (*Postgres, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	if u, err := url.Parse(cfg.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Close closes the pool.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

func (p *Postgres) ListCollections(ctx context.Context) ([]core.Collection, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, name, created_at FROM collections ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (core.Collection, error) {
		var id pgtype.UUID
		var c core.Collection
		if err := row.Scan(&id, &c.Name, &c.CreatedAt); err != nil {
			return core.Collection{}, err
		}
		c.ID = fromPgUUID(id)
		return c, nil
	})
}

func (p *Postgres) GetCollection(ctx context.Context, id uuid.UUID) (core.Collection, error) {
	c := core.Collection{ID: id}
	err := p.pool.QueryRow(ctx,
		`SELECT name, created_at FROM collections WHERE id = $1`, toPgUUID(id),
	).Scan(&c.Name, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Collection{}, core.ErrNotFound
	}
	if err != nil {
		return core.Collection{}, fmt.Errorf("get collection: %w", err)
	}
	return c, nil
}

func (p *Postgres) ListRecordTypes(ctx context.Context) ([]core.RecordType, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, name, fields, created_at FROM record_types ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list record types: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (core.RecordType, error) {
		var id pgtype.UUID
		var rt core.RecordType
		if err := row.Scan(&id, &rt.Name, &rt.Fields, &rt.CreatedAt); err != nil {
			return core.RecordType{}, err
		}
		rt.ID = fromPgUUID(id)
		return rt, nil
	})
}

func (p *Postgres) GetRecordType(ctx context.Context, id uuid.UUID) (core.RecordType, error) {
	rt := core.RecordType{ID: id}
	err := p.pool.QueryRow(ctx,
		`SELECT name, fields, created_at FROM record_types WHERE id = $1`, toPgUUID(id),
	).Scan(&rt.Name, &rt.Fields, &rt.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.RecordType{}, core.ErrNotFound
	}
	if err != nil {
		return core.RecordType{}, fmt.Errorf("get record type: %w", err)
	}
	return rt, nil
}

func (p *Postgres) UpsertCatalog(ctx context.Context, cat core.Catalog) error {
	return pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, c := range cat.Collections {
			batch.Queue(
				`INSERT INTO collections (id, name) VALUES ($1, $2)
				 ON CONFLICT (name) DO NOTHING`,
				toPgUUID(core.NewID()), c.Name,
			)
		}
		for _, rt := range cat.RecordTypes {
			batch.Queue(
				`INSERT INTO record_types (id, name, fields) VALUES ($1, $2, $3)
				 ON CONFLICT (name) DO UPDATE SET fields = EXCLUDED.fields`,
				toPgUUID(core.NewID()), rt.Name, rt.Fields,
			)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
}

var recordColumns = []string{"id", "import_id", "collection_id", "record_type_id", "fields", "tags", "created_at"}

func (p *Postgres) SaveImport(ctx context.Context, e core.ImportEntry, records []core.Record) error {
	return pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO imports (id, collection_id, record_type_id, delimiter, auto_detected,
				added, skipped_empty, client_ip, user_agent, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			toPgUUID(e.ID), toPgUUID(e.CollectionID), toPgUUID(e.RecordTypeID), e.Delimiter, e.AutoDetected,
			e.Added, e.SkippedEmpty, toPgText(e.ClientIP), toPgText(e.UserAgent), e.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert import: %w", err)
		}

		if len(records) == 0 {
			return nil
		}

		n, err := tx.CopyFrom(ctx, pgx.Identifier{"records"}, recordColumns,
			pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
				r := records[i]
				return []any{
					toPgUUID(r.ID), toPgUUID(r.ImportID), toPgUUID(r.CollectionID), toPgUUID(r.RecordTypeID),
					r.Fields, nonNil(r.Tags), r.CreatedAt,
				}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("copy records: %w", err)
		}
		if int(n) != len(records) {
			return fmt.Errorf("copy records: wrote %d of %d", n, len(records))
		}
		return nil
	})
}

func (p *Postgres) ListImports(ctx context.Context, limit int) ([]core.ImportEntry, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT i.id, i.collection_id, c.name, i.record_type_id, r.name, i.delimiter,
			i.auto_detected, i.added, i.skipped_empty, i.client_ip, i.user_agent, i.created_at
		 FROM imports i
		 JOIN collections c ON c.id = i.collection_id
		 JOIN record_types r ON r.id = i.record_type_id
		 ORDER BY i.created_at DESC, i.id DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list imports: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (core.ImportEntry, error) {
		var id, colID, rtID pgtype.UUID
		var ip, ua pgtype.Text
		var added, skipped int32
		var created time.Time
		var e core.ImportEntry
		if err := row.Scan(&id, &colID, &e.CollectionName, &rtID, &e.RecordTypeName, &e.Delimiter,
			&e.AutoDetected, &added, &skipped, &ip, &ua, &created,
		); err != nil {
			return core.ImportEntry{}, err
		}
		e.ID = fromPgUUID(id)
		e.CollectionID = fromPgUUID(colID)
		e.RecordTypeID = fromPgUUID(rtID)
		e.Added = int(added)
		e.SkippedEmpty = int(skipped)
		e.ClientIP = ip.String
		e.UserAgent = ua.String
		e.CreatedAt = created.UTC()
		return e, nil
	})
}

func (p *Postgres) CountRecords(ctx context.Context, collectionID uuid.UUID) (int, error) {
	var n int64
	err := p.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM records WHERE collection_id = $1`, toPgUUID(collectionID),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return int(n), nil
}

// Ping reports whether the pool can reach the database.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}
