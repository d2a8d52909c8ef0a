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
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gochartview/internal/dataset"
	"gochartview/internal/domain"
	applog "gochartview/internal/log"
)

// Summary describes a stored dataset without loading its samples.
type Summary struct {
	Name      string
	Title     string
	Series    int
	Points    int
	UpdatedAt time.Time
}

// Save stores doc under name, replacing any dataset of that name.
func (s *Store) Save(ctx context.Context, name string, doc dataset.Document) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("storage: dataset name is required")
	}
	l := applog.WithOperation(s.log, "save").With(slog.String("dataset", name))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := tx.ExecContext(ctx, s.rebind(`INSERT INTO datasets(name, title, updated_at) VALUES(?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET title = excluded.title, updated_at = excluded.updated_at`),
		name, doc.Title, now); err != nil {
		return fmt.Errorf("upsert dataset: %w", err)
	}
	if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM series WHERE dataset = ?`), name); err != nil {
		return fmt.Errorf("clear series: %w", err)
	}
	for i, raw := range doc.Series {
		data, err := json.Marshal(raw)
		if err != nil {
			return fmt.Errorf("encode series %q: %w", raw.Name, err)
		}
		if _, err := tx.ExecContext(ctx, s.rebind(`INSERT INTO series(dataset, position, name, shape, value_field, color, points, data)
			VALUES(?, ?, ?, ?, ?, ?, ?, ?)`),
			name, i, raw.Name, string(raw.Shape), raw.ValueField, raw.Color, raw.Len(), string(data)); err != nil {
			return fmt.Errorf("insert series %q: %w", raw.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	l.Info("dataset saved", slog.Int("series", len(doc.Series)))
	return nil
}

// Load reads a dataset back in its saved series order.
func (s *Store) Load(ctx context.Context, name string) (dataset.Document, error) {
	var doc dataset.Document
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT title FROM datasets WHERE name = ?`), name).Scan(&doc.Title)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return dataset.Document{}, fmt.Errorf("%w: %q", ErrSeriesNotFound, name)
	case err != nil:
		return dataset.Document{}, fmt.Errorf("select dataset: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT data FROM series WHERE dataset = ? ORDER BY position`), name)
	if err != nil {
		return dataset.Document{}, fmt.Errorf("select series: %w", err)
	}
	defer rows.Close()
	doc.Series = []domain.RawSeries{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return dataset.Document{}, err
		}
		var raw domain.RawSeries
		if err := json.Unmarshal([]byte(data), &raw); err != nil {
			return dataset.Document{}, fmt.Errorf("decode series of %q: %w", name, err)
		}
		doc.Series = append(doc.Series, raw)
	}
	if err := rows.Err(); err != nil {
		return dataset.Document{}, err
	}
	return doc, nil
}

// List returns every stored dataset ordered by name.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT d.name, d.title, d.updated_at, COUNT(s.position), COALESCE(SUM(s.points), 0)
		FROM datasets d LEFT JOIN series s ON s.dataset = d.name
		GROUP BY d.name, d.title, d.updated_at
		ORDER BY d.name`)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	defer rows.Close()
	var out []Summary
	for rows.Next() {
		var (
			sum     Summary
			updated string
			series  int64
			points  int64
		)
		if err := rows.Scan(&sum.Name, &sum.Title, &updated, &series, &points); err != nil {
			return nil, err
		}
		sum.Series, sum.Points = int(series), int(points)
		if t, err := time.Parse(time.RFC3339Nano, updated); err == nil {
			sum.UpdatedAt = t
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Delete removes a dataset and its series.
func (s *Store) Delete(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM series WHERE dataset = ?`), name); err != nil {
		return fmt.Errorf("delete series: %w", err)
	}
	res, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM datasets WHERE name = ?`), name)
	if err != nil {
		return fmt.Errorf("delete dataset: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %q", ErrSeriesNotFound, name)
	}
	return tx.Commit()
}

// DatasetsWith lists the datasets holding a series with the given name.
func (s *Store) DatasetsWith(ctx context.Context, series string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT DISTINCT dataset FROM series WHERE name = ? ORDER BY dataset`), series)
	if err != nil {
		return nil, fmt.Errorf("find series: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}
