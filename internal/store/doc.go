// Package store implements core.Store on PostgreSQL (pgx) and on a local
// SQLite file (modernc.org/sqlite, no CGO).
//
// Open picks the backend from the configured database URL. Both backends
// create their schema on open and write an import with its records in a
// single transaction.
package store
