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
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"

	applog "gochartview/internal/log"
)

// Supported driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

var (
	ErrSeriesNotFound = errors.New("storage: dataset not found")
	ErrUnknownDriver  = errors.New("storage: unknown driver")
)

// Options selects and authenticates the database. User and Password only
// apply to PostgreSQL and override what the DSN carries.
type Options struct {
	Driver   string
	DSN      string
	User     string
	Password string
}

// Store is a dataset store. It is safe for concurrent use.
type Store struct {
	db      *sql.DB
	dialect string
	log     *slog.Logger
}

// Open connects, then brings the schema up to date.
func Open(ctx context.Context, opt Options) (*Store, error) {
	driver := strings.ToLower(strings.TrimSpace(opt.Driver))
	if driver == "" {
		driver = DriverSQLite
	}
	l := applog.WithOperation(applog.WithComponent("storage"), "open").With(slog.String("driver", driver))

	var db *sql.DB
	switch driver {
	case DriverSQLite, "sqlite3":
		driver = DriverSQLite
		var err error
		if db, err = openSQLite(opt.DSN); err != nil {
			l.Error("sqlite open failed", slog.Any("err", err))
			return nil, err
		}
	case DriverPostgres, "postgres", "postgresql":
		driver = DriverPostgres
		cfg, err := pgx.ParseConfig(opt.DSN)
		if err != nil {
			return nil, fmt.Errorf("parse postgres dsn: %w", err)
		}
		if opt.User != "" {
			cfg.User = opt.User
		}
		if opt.Password != "" {
			cfg.Password = opt.Password
		}
		db = stdlib.OpenDB(*cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opt.Driver)
	}

	pctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	s := &Store{db: db, dialect: driver, log: applog.WithComponent("storage")}
	if err := s.migrate(pctx); err != nil {
		_ = db.Close()
		l.Error("migrate failed", slog.Any("err", err))
		return nil, err
	}
	l.Info("store ready")
	return s, nil
}

func openSQLite(dsn string) (*sql.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if !strings.HasPrefix(dsn, "file:") {
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create db dir: %w", err)
			}
		}
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", filepath.ToSlash(dsn))
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer is all SQLite supports anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	return db, nil
}

// Close releases the connection pool.
func (s *Store) Close() error { return s.db.Close() }

// Dialect reports the driver the store runs on.
func (s *Store) Dialect() string { return s.dialect }

// rebind rewrites ? placeholders to $n for PostgreSQL. Queries in this
// package never contain literal question marks.
func (s *Store) rebind(q string) string {
	if s.dialect != DriverPostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
