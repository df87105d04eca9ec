package bunx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/db/models"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/telemetry"
)

// DatabaseType represents the type of database
type DatabaseType string

const (
	DatabaseTypePostgreSQL DatabaseType = "postgres"
	DatabaseTypeSQLite     DatabaseType = "sqlite"
)

// Options tune the connection pool and query logging.
type Options struct {
	// MaxOpenConns caps PostgreSQL connections. SQLite always uses one.
	MaxOpenConns int

	// Logger receives one debug record per query when non-nil.
	Logger *slog.Logger

	// Metrics records query counts and latency when non-nil.
	Metrics *telemetry.DatabaseMetrics
}

// DetectDatabaseType determines the database type from a DSN string
func DetectDatabaseType(dsn string) DatabaseType {
	for _, prefix := range []string{"postgres://", "postgresql://", "unix://"} {
		if strings.HasPrefix(dsn, prefix) {
			return DatabaseTypePostgreSQL
		}
	}
	// SQLite patterns: file:, :memory:, or plain file path
	return DatabaseTypeSQLite
}

// NewDB creates a Bun database for PostgreSQL or SQLite based on the DSN and
// registers the application models.
func NewDB(ctx context.Context, dsn string, opts Options) (*bun.DB, error) {
	var (
		db  *bun.DB
		err error
	)

	switch DetectDatabaseType(dsn) {
	case DatabaseTypePostgreSQL:
		db, err = newPostgreSQLDB(ctx, dsn, opts)
	case DatabaseTypeSQLite:
		db, err = newSQLiteDB(ctx, dsn)
	default:
		return nil, fmt.Errorf("unsupported database type for DSN: %s", dsn)
	}
	if err != nil {
		return nil, err
	}

	models.Register(db)
	if opts.Logger != nil || opts.Metrics != nil {
		db.AddQueryHook(&queryHook{logger: opts.Logger, metrics: opts.Metrics})
	}
	return db, nil
}

func newPostgreSQLDB(ctx context.Context, dsn string, opts Options) (*bun.DB, error) {
	connector := pgdriver.NewConnector(pgdriver.WithDSN(dsn))
	sqldb := sql.OpenDB(connector)

	maxConns := opts.MaxOpenConns
	if maxConns <= 0 {
		maxConns = 25
	}
	sqldb.SetMaxOpenConns(maxConns)
	sqldb.SetMaxIdleConns(maxConns)

	db := bun.NewDB(sqldb, pgdialect.New())

	if err := db.PingContext(ctx); err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// newSQLiteDB creates a SQLite connection using modernc.org/sqlite driver
func newSQLiteDB(ctx context.Context, dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open("sqlite", sqliteDSN(dsn))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// Single connection: transactions must run all of their statements on tx.
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	if !strings.Contains(dsn, ":memory:") && !strings.Contains(dsn, "mode=memory") {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode = WAL"); err != nil {
			sqldb.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// sqliteDSN adds connection pragmas to dsn. modernc applies _pragma
// parameters on every new connection, so a recycled pool connection keeps
// foreign keys enabled and user_roles keeps cascading.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

// Close closes the database connection
func Close(db *bun.DB) error {
	if db == nil {
		return nil
	}
	return db.Close()
}

type queryHook struct {
	logger  *slog.Logger
	metrics *telemetry.DatabaseMetrics
}

func (h *queryHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *queryHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	elapsed := time.Since(event.StartTime)
	var err error
	if event.Err != nil && !errors.Is(event.Err, sql.ErrNoRows) {
		err = event.Err
	}

	if h.metrics != nil {
		h.metrics.RecordQuery(ctx, event.Operation(), float64(elapsed.Microseconds())/1000, err)
	}
	if h.logger != nil {
		attrs := []any{"operation", event.Operation(), "duration", elapsed}
		if err != nil {
			attrs = append(attrs, "error", err)
		}
		h.logger.DebugContext(ctx, "sql query", attrs...)
	}
}
