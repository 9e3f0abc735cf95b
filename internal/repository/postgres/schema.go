package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates every table and index if missing.
//
// Folder child lists are TEXT[] columns kept in step with parent_id by the
// hierarchy service. There is no foreign key from folders to banks: deleting a
// bank is guarded by a count check, never cascaded.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames, prefix string) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS ` + tables.Banks + ` (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			icon TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Folders + ` (
			id TEXT PRIMARY KEY,
			bank_id TEXT NOT NULL,
			parent_id TEXT,
			name TEXT NOT NULL,
			color TEXT NOT NULL DEFAULT '#ffcf48',
			documents TEXT[] NOT NULL DEFAULT '{}',
			sub_folders TEXT[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Resumes + ` (
			id TEXT PRIMARY KEY,
			folder_id TEXT NOT NULL,
			name TEXT NOT NULL,
			profile JSONB NOT NULL DEFAULT '{}',
			attachment_id TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Blobs + ` (
			id TEXT PRIMARY KEY,
			filename TEXT NOT NULL,
			content_type TEXT NOT NULL,
			size BIGINT NOT NULL,
			data BYTEA NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Companies + ` (
			id TEXT PRIMARY KEY,
			cnpj TEXT NOT NULL,
			legal_name TEXT NOT NULL,
			trade_name TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			address JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_` + prefix + `banks_name ON ` + tables.Banks + `(name)`,
		`CREATE INDEX IF NOT EXISTS idx_` + prefix + `folders_bank ON ` + tables.Folders + `(bank_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + prefix + `folders_sub_folders ON ` + tables.Folders + ` USING GIN (sub_folders)`,
		`CREATE INDEX IF NOT EXISTS idx_` + prefix + `resumes_folder ON ` + tables.Resumes + `(folder_id)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_` + prefix + `companies_cnpj ON ` + tables.Companies + `(cnpj)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

// DropTables drops every table owned by this service
func DropTables(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	for _, table := range tables.All() {
		if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE"); err != nil {
			return fmt.Errorf("drop %s: %w", table, err)
		}
	}
	return nil
}

// ClearData deletes all rows but keeps the schema
func ClearData(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	_, err := pool.Exec(ctx, "TRUNCATE "+strings.Join(tables.All(), ", "))
	if err != nil {
		return fmt.Errorf("truncate tables: %w", err)
	}
	return nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
