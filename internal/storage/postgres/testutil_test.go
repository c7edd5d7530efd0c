package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// allocationSchema mirrors the table a data team would publish the CSV into.
const allocationSchema = `
CREATE TABLE IF NOT EXISTS rfa_allocations (
	project_name TEXT PRIMARY KEY,
	bera_amount  NUMERIC
);
`

// setupTestDB creates a PostgreSQL container for testing and applies the schema.
// The returned pool is writable so tests can seed rows; dsn lets a test open
// a second pool with other options. Call cleanup when done.
func setupTestDB(t *testing.T) (pool *Pool, dsn string, cleanup func()) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")

	dsn, err = container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	pool, err = NewPool(ctx, dsn)
	require.NoError(t, err, "failed to create pool")

	_, err = pool.Exec(ctx, allocationSchema)
	require.NoError(t, err, "failed to apply schema")

	cleanup = func() {
		pool.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return pool, dsn, cleanup
}
