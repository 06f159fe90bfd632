// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/phylobench/internal/benchmark"
)

// ErrNoRecords is returned when a query matches nothing.
var ErrNoRecords = errors.New("no matching records")

// Store is an open ledger database.
type Store struct {
	db   *sql.DB
	path string
}

// NewRunID returns a fresh identifier for one command invocation.
func NewRunID() string {
	return uuid.NewString()
}

// Open opens (creating if needed) the ledger at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	s := &Store{db: db, path: path}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	if _, err := s.db.Exec(Schema); err != nil {
		return err
	}
	_, err := s.db.Exec(InitMetadata)
	return err
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert writes records in a single transaction. A zero CreatedAt is
// stamped with the current time.
func (s *Store) Insert(ctx context.Context, recs ...benchmark.Record) error {
	if len(recs) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (run_id, library, operation, taxa, value, unit, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now()
	for _, r := range recs {
		created := r.CreatedAt
		if created.IsZero() {
			created = now
		}
		if _, err := stmt.ExecContext(ctx,
			r.RunID, r.Library, r.Operation, r.Taxa, r.Value, string(r.Unit), created.UnixNano(),
		); err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
	}
	return tx.Commit()
}

// Filter narrows List. Zero fields match everything.
type Filter struct {
	RunID     string
	Library   string
	Operation string
	Limit     int
}

// List returns matching records, newest first.
func (s *Store) List(ctx context.Context, f Filter) ([]benchmark.Record, error) {
	query := `SELECT run_id, library, operation, taxa, value, unit, created_at FROM records WHERE 1=1`
	var args []any
	if f.RunID != "" {
		query += " AND run_id = ?"
		args = append(args, f.RunID)
	}
	if f.Library != "" {
		query += " AND library = ?"
		args = append(args, f.Library)
	}
	if f.Operation != "" {
		query += " AND operation = ?"
		args = append(args, f.Operation)
	}
	query += " ORDER BY created_at DESC, id DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []benchmark.Record
	for rows.Next() {
		var r benchmark.Record
		var unit string
		var created int64
		if err := rows.Scan(&r.RunID, &r.Library, &r.Operation, &r.Taxa, &r.Value, &unit, &created); err != nil {
			return nil, err
		}
		r.Unit = benchmark.Unit(unit)
		r.CreatedAt = time.Unix(0, created)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records").Scan(&n)
	return n, err
}

// runMetaPrefix namespaces per-run keys in the metadata table.
const runMetaPrefix = "run:"

// SetRunMeta stores key/value pairs describing a run, such as its host.
func (s *Store) SetRunMeta(ctx context.Context, runID string, meta map[string]string) error {
	if len(meta) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for k, v := range meta {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO metadata (key, value) VALUES (?, ?)`,
			runMetaPrefix+runID+":"+k, v,
		); err != nil {
			return fmt.Errorf("set run metadata: %w", err)
		}
	}
	return tx.Commit()
}

// RunMeta returns the metadata stored for runID, or ErrNoRecords.
func (s *Store) RunMeta(ctx context.Context, runID string) (map[string]string, error) {
	prefix := runMetaPrefix + runID + ":"
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM metadata WHERE substr(key, 1, ?) = ?`, len(prefix), prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		meta[strings.TrimPrefix(k, prefix)] = v
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(meta) == 0 {
		return nil, ErrNoRecords
	}
	return meta, nil
}
