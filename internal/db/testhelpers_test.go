package db

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// testPool is shared by all tests in package db. Nil when no container runtime is available.
var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	os.Exit(run(m))
}

func run(m *testing.M) int {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		log.Printf("starting postgres container: %v; database tests will be skipped", err)
		return m.Run()
	}
	defer func() {
		_ = container.Terminate(ctx)
	}()

	host, err := container.Host(ctx)
	if err != nil {
		log.Fatalf("getting container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		log.Fatalf("getting container port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port())

	testPool, err = pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("connecting to test db: %v", err)
	}
	defer testPool.Close()

	if err := runMigrations(ctx, testPool); err != nil {
		log.Fatalf("running migrations: %v", err)
	}

	return m.Run()
}

// setupTestDB returns the shared pool with all tables truncated.
func setupTestDB(tb testing.TB) *pgxpool.Pool {
	tb.Helper()

	if testPool == nil {
		tb.Skip("postgres container unavailable")
	}

	_, err := testPool.Exec(context.Background(),
		`TRUNCATE spawn_entries, spawn_areas, kv_store RESTART IDENTITY CASCADE`)
	if err != nil {
		tb.Fatalf("truncating tables: %v", err)
	}
	return testPool
}

func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	// The sql.DB borrows connections from the shared pool and is left open.
	sqlDB := stdlib.OpenDBFromPool(pool)
	return migrate(ctx, sqlDB)
}
