/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gochartview/internal/version"
)

type migration struct {
	version int
	name    string
	stmts   []string
}

// migrations run in order, each inside its own transaction. The DDL is the
// common subset of SQLite and PostgreSQL.
var migrations = []migration{
	{1, "datasets", []string{
		`CREATE TABLE IF NOT EXISTS datasets (
			name       TEXT PRIMARY KEY,
			title      TEXT NOT NULL DEFAULT '',
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS series (
			dataset     TEXT    NOT NULL REFERENCES datasets(name) ON DELETE CASCADE,
			position    INTEGER NOT NULL,
			name        TEXT    NOT NULL,
			shape       TEXT    NOT NULL DEFAULT '',
			value_field TEXT    NOT NULL DEFAULT '',
			color       TEXT    NOT NULL DEFAULT '',
			points      INTEGER NOT NULL,
			data        TEXT    NOT NULL,
			PRIMARY KEY (dataset, position)
		)`,
	}},
	{2, "series_name_index", []string{
		`CREATE INDEX IF NOT EXISTS idx_series_name ON series(name)`,
	}},
}

// SchemaVersion is the version a freshly migrated database reports.
func SchemaVersion() int { return migrations[len(migrations)-1].version }

func (s *Store) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		name       TEXT NOT NULL,
		app        TEXT NOT NULL DEFAULT '',
		applied_at TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}
	applied := map[int]bool{}
	rows, err := s.db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return fmt.Errorf("select schema_migrations: %w", err)
	}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			_ = rows.Close()
			return err
		}
		applied[v] = true
	}
	if err := rows.Close(); err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.version] {
			continue
		}
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.version, err)
		}
		for _, q := range m.stmts {
			if _, err := tx.ExecContext(ctx, q); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
			}
		}
		if _, err := tx.ExecContext(ctx, s.rebind(`INSERT INTO schema_migrations(version, name, app, applied_at) VALUES(?, ?, ?, ?)`),
			m.version, m.name, version.String(), time.Now().UTC().Format(time.RFC3339)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d record: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d commit: %w", m.version, err)
		}
		s.log.Info("applied migration", slog.Int("version", m.version), slog.String("name", m.name))
	}
	return nil
}

// Version returns the highest applied migration.
func (s *Store) Version(ctx context.Context) (int, error) {
	var v int
	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}
