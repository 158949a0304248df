package connection

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rebeliceyang/cardex/internal/filter"
)

func TestBuildDSN(t *testing.T) {
	assert.Equal(t, "cards.db?_foreign_keys=on&_busy_timeout=5000", buildDSN(Config{Driver: DriverSQLite, DSN: "cards.db"}))
	assert.Equal(t, "file:cards.db?mode=rwc&_foreign_keys=on&_busy_timeout=5000", buildDSN(Config{Driver: DriverSQLite, DSN: "file:cards.db?mode=rwc"}))
	assert.Equal(t, "cards.db?_foreign_keys=off", buildDSN(Config{Driver: DriverSQLite, DSN: "cards.db?_foreign_keys=off"}))
	assert.Equal(t, "postgres://localhost/cards", buildDSN(Config{Driver: DriverPostgres, DSN: "postgres://localhost/cards"}))
}

func TestNewPool_SQLite(t *testing.T) {
	ctx := context.Background()
	pool, err := NewPool(ctx, Config{DSN: filepath.Join(t.TempDir(), "cards.db")})
	require.NoError(t, err)
	defer func() { _ = pool.Close() }()

	assert.Equal(t, DriverSQLite, pool.Driver())
	assert.Equal(t, filter.Question, pool.Placeholder())
	assert.NoError(t, pool.Ping(ctx))

	var enabled int
	require.NoError(t, pool.DB().GetContext(ctx, &enabled, "PRAGMA foreign_keys"))
	assert.Equal(t, 1, enabled)
}

func TestNewPool_UnsupportedDriver(t *testing.T) {
	_, err := NewPool(context.Background(), Config{Driver: "oracle"})
	assert.ErrorContains(t, err, "unsupported catalog driver")
}

func TestPlaceholder_Postgres(t *testing.T) {
	p := &Pool{config: Config{Driver: DriverPostgres}}
	assert.Equal(t, filter.Dollar, p.Placeholder())
}
