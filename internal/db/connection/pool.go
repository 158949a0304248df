package connection

import (
	"context"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/rebeliceyang/cardex/internal/filter"
)

// Supported drivers
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

// Config describes how to reach the catalog database
type Config struct {
	Driver string
	DSN    string
}

// Pool wraps sqlx with our configuration
type Pool struct {
	db     *sqlx.DB
	config Config
}

// NewPool opens the catalog database and checks that it answers
func NewPool(ctx context.Context, config Config) (*Pool, error) {
	if config.Driver == "" {
		config.Driver = DriverSQLite
	}
	if config.Driver != DriverSQLite && config.Driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported catalog driver %q", config.Driver)
	}

	db, err := sqlx.Open(config.Driver, buildDSN(config))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if config.Driver == DriverSQLite {
		// One writer at a time; concurrent readers would only queue on the lock
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(5)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(time.Hour)
		db.SetConnMaxIdleTime(30 * time.Minute)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Pool{db: db, config: config}, nil
}

// Close closes the connection pool
func (p *Pool) Close() error {
	if p.db == nil {
		return nil
	}
	return p.db.Close()
}

// Ping tests the connection
func (p *Pool) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// DB returns the underlying sqlx handle
func (p *Pool) DB() *sqlx.DB {
	return p.db
}

// Driver returns the database/sql driver name
func (p *Pool) Driver() string {
	return p.config.Driver
}

// Placeholder returns the bind variable style of the driver
func (p *Pool) Placeholder() filter.Placeholder {
	if sqlx.BindType(p.config.Driver) == sqlx.DOLLAR {
		return filter.Dollar
	}
	return filter.Question
}

// buildDSN adds the options the catalog relies on. SQLite needs foreign
// keys switched on per connection and a busy timeout for the history writer.
func buildDSN(config Config) string {
	if config.Driver != DriverSQLite {
		return config.DSN
	}
	dsn := config.DSN
	if dsn == "" {
		dsn = ":memory:"
	}
	if strings.Contains(dsn, "_foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on&_busy_timeout=5000"
}
