// Package dbtest starts a throwaway PostgreSQL container with the rms schema
// applied, for integration tests.
package dbtest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/stwalsh4118/rms/internal/config"
	"github.com/stwalsh4118/rms/internal/database"
)

// Start runs postgres:16-alpine, connects a pool, migrates it, and registers
// cleanup on t. Tests calling Start are skipped in -short mode.
func Start(t *testing.T) *database.Database {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("rms"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(wait.ForListeningPort("5432/tcp").WithStartupTimeout(2*time.Minute)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = pgContainer.Terminate(context.Background())
	})

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	db, err := database.NewPostgresPool(ctx, Config(host, port.Port()))
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, database.Migrate(ctx, db.Pool))

	return db
}

// Config returns the database configuration matching the container credentials.
func Config(host, port string) config.DatabaseConfig {
	return config.DatabaseConfig{
		Host:     host,
		Port:     port,
		Name:     "rms",
		User:     "postgres",
		Password: "postgres",
		PoolMin:  1,
		PoolMax:  8,
	}
}
