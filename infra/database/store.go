package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

type Options struct {
	Driver       string
	DSN          string
	MaxOpenConns int
	Seed         bool
}

// Store owns the process-wide database handle. Queries are written with '?'
// placeholders and rebound for the active driver.
type Store struct {
	db     *sqlx.DB
	driver string
	seed   bool
}

type Result struct {
	InsertedID   int64
	RowsAffected int64
}

func Open(opts Options) (*Store, error) {
	driver := opts.Driver
	if driver == "" {
		driver = DriverSQLite
	}
	if _, ok := schemas[driver]; !ok {
		return nil, &StoreInitError{Op: "open", Err: fmt.Errorf("unsupported driver %q", driver)}
	}

	db, err := sqlx.Open(driver, opts.DSN)
	if err != nil {
		return nil, &StoreInitError{Op: "open", Err: err}
	}

	maxOpen := opts.MaxOpenConns
	if driver == DriverSQLite {
		// One connection keeps ":memory:" databases alive and serializes
		// writers the way SQLite expects.
		if maxOpen < 1 {
			maxOpen = 1
		}
		db.SetMaxOpenConns(maxOpen)
		db.SetMaxIdleConns(maxOpen)
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
	} else {
		if maxOpen < 1 {
			maxOpen = 15
		}
		db.SetMaxOpenConns(maxOpen)
		db.SetMaxIdleConns(max(maxOpen/2, 1))
		db.SetConnMaxLifetime(5 * time.Minute)
		db.SetConnMaxIdleTime(2 * time.Minute)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &StoreInitError{Op: "connect", Err: err}
	}

	if driver == DriverSQLite {
		for _, p := range sqlitePragmas {
			if _, err := db.Exec(p); err != nil {
				db.Close()
				return nil, &StoreInitError{Op: fmt.Sprintf("pragma %q", p), Err: err}
			}
		}
	}

	zap.L().Info("Connected to database", zap.String("driver", driver))

	return &Store{db: db, driver: driver, seed: opts.Seed}, nil
}

// Initialize creates the tables if they are missing and seeds sample items
// into an empty catalog. It is safe to run on every start.
func (s *Store) Initialize(ctx context.Context) error {
	for _, stmt := range schemas[s.driver] {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return &StoreInitError{Op: "create tables", Err: err}
		}
	}

	if s.seed {
		if err := s.seedSampleItems(ctx); err != nil {
			return &StoreInitError{Op: "seed sample data", Err: err}
		}
	}

	zap.L().Info("Database initialized successfully")
	return nil
}

// Execute runs a mutating statement. InsertedID is only populated by drivers
// that report it (SQLite); inserts that need the id use RETURNING instead.
func (s *Store) Execute(ctx context.Context, query string, args ...any) (Result, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return Result{}, &QueryError{Query: query, Err: err}
	}

	var out Result
	if id, err := res.LastInsertId(); err == nil {
		out.InsertedID = id
	}
	if n, err := res.RowsAffected(); err == nil {
		out.RowsAffected = n
	}
	return out, nil
}

// FetchOne scans at most one row into dest and reports whether a row was found.
func (s *Store) FetchOne(ctx context.Context, dest any, query string, args ...any) (bool, error) {
	err := s.db.GetContext(ctx, dest, s.db.Rebind(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, &QueryError{Query: query, Err: err}
	}
	return true, nil
}

// FetchAll scans every row into dest, which must point to a slice.
func (s *Store) FetchAll(ctx context.Context, dest any, query string, args ...any) error {
	if err := s.db.SelectContext(ctx, dest, s.db.Rebind(query), args...); err != nil {
		return &QueryError{Query: query, Err: err}
	}
	return nil
}

func (s *Store) insert(ctx context.Context, query string, args ...any) (int64, error) {
	var id int64
	q := query + " RETURNING id"
	if err := s.db.QueryRowxContext(ctx, s.db.Rebind(q), args...).Scan(&id); err != nil {
		return 0, &QueryError{Query: q, Err: err}
	}
	return id, nil
}

func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return errors.New("database not initialized")
	}
	return s.db.PingContext(ctx)
}

// GetPoolStats returns current connection pool statistics
func (s *Store) GetPoolStats() map[string]interface{} {
	stats := s.db.Stats()
	return map[string]interface{}{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
	}
}

// Close releases the connection pool. Calling it more than once is a no-op.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return err
	}
	zap.L().Info("Database connection closed")
	return nil
}
