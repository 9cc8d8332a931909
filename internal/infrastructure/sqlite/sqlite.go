package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	infraconfig "pricetrack-service/internal/infrastructure/config"

	_ "modernc.org/sqlite"
)

type DB struct{ SQL *sql.DB }

// Open opens (creating if needed) the SQLite file at path in WAL mode so
// readers proceed while the poller writes.
func Open(ctx context.Context, path string) (*DB, error) {
	q := url.Values{}
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", infraconfig.DefaultSQLiteBusyMS))
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "synchronous(NORMAL)")
	dsn := "file:" + path + "?" + q.Encode()

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}
	db.SetMaxOpenConns(infraconfig.DefaultSQLiteMaxConns)
	db.SetConnMaxIdleTime(2 * time.Minute)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite %q: %w", path, err)
	}
	return &DB{SQL: db}, nil
}

func (d *DB) Close()                         { _ = d.SQL.Close() }
func (d *DB) Ping(ctx context.Context) error { return d.SQL.PingContext(ctx) }
