// Package sqlite persists analysis reports and cached provider output in
// a local SQLite database.
//
// It uses modernc.org/sqlite, a pure Go SQLite implementation that needs no
// CGO. One connection serves two stores:
//
//   - ReportStore: completed analysis results, listed newest first
//   - Cache: scraped pages and embeddings with per-entry expiry
//
// # Schema
//
// Migrations live in migrations/ as NNN_name.up.sql and .down.sql pairs.
// Each applied version is recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.topicgap/data/topicgap.db
package sqlite
