// Package historydb records closed ledgers, their per-operation
// results, and the trades they produced in a relational database for
// later querying. SQLite serves single-node deployments; PostgreSQL is
// available for shared ones.
package historydb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"  // postgres driver
	_ "modernc.org/sqlite" // sqlite driver, cgo-free
)

// Config selects the driver and target database.
type Config struct {
	// Driver is "sqlite" or "postgres".
	Driver string
	// DSN is the driver-specific connection string; a file path (or
	// ":memory:") for sqlite.
	DSN string

	MaxOpenConns int
	ConnTimeout  time.Duration
}

// DefaultConfig returns an in-memory sqlite configuration.
func DefaultConfig() *Config {
	return &Config{
		Driver:       "sqlite",
		DSN:          ":memory:",
		MaxOpenConns: 1,
		ConnTimeout:  5 * time.Second,
	}
}

// ErrClosed is returned when using a store after Close.
var ErrClosed = errors.New("historydb: closed")

// Store is a history database handle. It is safe for concurrent use;
// all methods take a context and respect its deadline.
type Store struct {
	db  *sql.DB
	cfg *Config
}

// Open connects and creates the schema if missing.
func Open(ctx context.Context, cfg *Config) (*Store, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Driver != "sqlite" && cfg.Driver != "postgres" {
		return nil, fmt.Errorf("historydb: unknown driver %q", cfg.Driver)
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("historydb: open %s: %w", cfg.Driver, err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("historydb: ping: %w", err)
	}

	s := &Store{db: db, cfg: cfg}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS closes (
			seq         INTEGER PRIMARY KEY,
			closed_at   TIMESTAMP NOT NULL,
			tx_count    INTEGER NOT NULL,
			trade_count INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS operations (
			close_seq  INTEGER NOT NULL,
			tx_index   INTEGER NOT NULL,
			op_index   INTEGER NOT NULL,
			source     TEXT NOT NULL,
			kind       TEXT NOT NULL,
			result     TEXT NOT NULL,
			applied    BOOLEAN NOT NULL,
			PRIMARY KEY (close_seq, tx_index, op_index)
		)`,
		`CREATE TABLE IF NOT EXISTS trades (
			close_seq      INTEGER NOT NULL,
			trade_index    INTEGER NOT NULL,
			maker          TEXT NOT NULL,
			taker          TEXT NOT NULL,
			sold_asset     TEXT NOT NULL,
			bought_asset   TEXT NOT NULL,
			amount_sold    BIGINT NOT NULL,
			amount_bought  BIGINT NOT NULL,
			maker_offer_id BIGINT NOT NULL,
			taker_offer_id BIGINT NOT NULL,
			PRIMARY KEY (close_seq, trade_index)
		)`,
		`CREATE INDEX IF NOT EXISTS trades_maker ON trades (maker)`,
		`CREATE INDEX IF NOT EXISTS trades_taker ON trades (taker)`,
		`CREATE INDEX IF NOT EXISTS operations_source ON operations (source)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("historydb: init schema: %w", err)
		}
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// bind rewrites ?-placeholders to $n for postgres.
func (s *Store) bind(query string) string {
	if s.cfg.Driver != "postgres" {
		return query
	}
	out := make([]byte, 0, len(query)+8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			out = append(out, fmt.Sprintf("$%d", n)...)
			continue
		}
		out = append(out, query[i])
	}
	return string(out)
}
