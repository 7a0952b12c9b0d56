package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver

	"github.com/okian/aquaguard/internal/domain/model"
)

const (
	defaultBusyTimeout  = 5 * time.Second
	defaultMaxOpenConns = 1
	dbDirPermission     = 0o750
)

const schema = `
CREATE TABLE IF NOT EXISTS health_data (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	village TEXT NOT NULL,
	diarrhea INTEGER NOT NULL,
	fever INTEGER NOT NULL,
	rainfall TEXT NOT NULL,
	risk TEXT NOT NULL,
	date TEXT NOT NULL
);`

// SQLiteStore persists records in the health_data table.
type SQLiteStore struct {
	db          *sql.DB
	busyTimeout time.Duration
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (creating if needed) the database at path and
// ensures the schema exists.
func NewSQLiteStore(path string, opts ...Option) (*SQLiteStore, error) {
	s := &SQLiteStore{
		busyTimeout: defaultBusyTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, dbDirPermission); err != nil {
			return nil, wrap("open", ErrStorage, err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=%d", path, s.busyTimeout.Milliseconds())
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, wrap("open", ErrStorage, err)
	}
	// a single writer avoids SQLITE_BUSY on concurrent inserts
	db.SetMaxOpenConns(defaultMaxOpenConns)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, wrap("open", ErrStorage, fmt.Errorf("create schema: %w", err))
	}
	s.db = db
	return s, nil
}

func (s *SQLiteStore) Save(ctx context.Context, r model.Record) (model.Record, error) {
	if err := validate(r); err != nil {
		return model.Record{}, err
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO health_data (village, diarrhea, fever, rainfall, risk, date) VALUES (?, ?, ?, ?, ?, ?)`,
		r.Village, r.Diarrhea, r.Fever, r.Rainfall, r.Risk, r.Date)
	if err != nil {
		return model.Record{}, wrap("save", ErrStorage, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Record{}, wrap("save", ErrStorage, err)
	}
	r.ID = id
	return r, nil
}

func (s *SQLiteStore) All(ctx context.Context) ([]model.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, village, diarrhea, fever, rainfall, risk, date FROM health_data ORDER BY id DESC`)
	if err != nil {
		return nil, wrap("all", ErrStorage, err)
	}
	defer rows.Close()

	out := make([]model.Record, 0)
	for rows.Next() {
		var r model.Record
		if err := rows.Scan(&r.ID, &r.Village, &r.Diarrhea, &r.Fever, &r.Rainfall, &r.Risk, &r.Date); err != nil {
			return nil, wrap("all", ErrStorage, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("all", ErrStorage, err)
	}
	return out, nil
}

func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM health_data`).Scan(&n); err != nil {
		return 0, wrap("count", ErrStorage, err)
	}
	return n, nil
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
