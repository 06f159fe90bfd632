// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

const (
	// SchemaVersion tracks the database schema version for migrations
	SchemaVersion = 1
)

// Schema creates the ledger tables.
const Schema = `
CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
) WITHOUT ROWID;

CREATE TABLE IF NOT EXISTS records (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL,
    library TEXT NOT NULL,
    operation TEXT NOT NULL,
    taxa INTEGER NOT NULL,
    value REAL NOT NULL,
    unit TEXT NOT NULL,         -- s, ms or MB
    created_at INTEGER NOT NULL -- Unix nanoseconds
);

CREATE INDEX IF NOT EXISTS idx_records_run ON records(run_id);
CREATE INDEX IF NOT EXISTS idx_records_op ON records(operation, unit, library, taxa);
`

// InitMetadata seeds the metadata table.
const InitMetadata = `
INSERT OR IGNORE INTO metadata (key, value) VALUES ('schema_version', '1');
`
