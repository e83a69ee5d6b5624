package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaDDL is the complete DDL for the vault tables. The four %s verbs
// are: folders, folders (self-reference), documents, folders.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS %[1]s (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    parent_id  TEXT REFERENCES %[1]s(id),
    created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_%[1]s_parent ON %[1]s(parent_id);

CREATE TABLE IF NOT EXISTS %[2]s (
    id            TEXT PRIMARY KEY,
    original_name TEXT NOT NULL,
    stored_name   TEXT NOT NULL,
    stored_path   TEXT NOT NULL,
    size_bytes    BIGINT NOT NULL,
    media_type    TEXT NOT NULL,
    folder_id     TEXT REFERENCES %[1]s(id),
    status        TEXT NOT NULL,
    summary       TEXT,
    markdown      TEXT,
    error         TEXT,
    uploaded_at   TIMESTAMPTZ NOT NULL,
    processed_at  TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_%[2]s_folder ON %[2]s(folder_id);
CREATE INDEX IF NOT EXISTS idx_%[2]s_status ON %[2]s(status);
`

// EnsureSchema creates the vault tables if they don't exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	ddl := fmt.Sprintf(schemaDDL, tables.Folders, tables.Documents)
	if _, err := pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
