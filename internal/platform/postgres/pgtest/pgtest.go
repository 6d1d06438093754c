// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package pgtest runs repository tests against a real PostgreSQL server.

Each call to [Open] creates a throwaway schema, applies the migrations into
it and returns a pool whose connections use that schema. Tests skip when
DATABASE_URL is not set.

Usage:

	pool := pgtest.Open(t)
	repository := ticket.NewRepository(postgres.OpenDB(pool))
*/
package pgtest

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/repairment/internal/platform/migration"
	"github.com/taibuivan/repairment/internal/platform/postgres"
	"github.com/taibuivan/repairment/pkg/uuidv7"
)

// EnvDatabaseURL names the variable holding the server to test against.
const EnvDatabaseURL = "DATABASE_URL"

const statementTimeout = 5 * time.Second

// Open returns a pool bound to a freshly migrated schema. The schema is
// dropped when the test ends.
func Open(t testing.TB) *pgxpool.Pool {
	t.Helper()

	rawURL := os.Getenv(EnvDatabaseURL)
	if rawURL == "" {
		t.Skipf("%s is not set; skipping PostgreSQL integration test", EnvDatabaseURL)
	}

	databaseURL, err := url.Parse(rawURL)
	if err != nil || (databaseURL.Scheme != "postgres" && databaseURL.Scheme != "postgresql") {
		t.Skipf("%s must be a postgres:// URL", EnvDatabaseURL)
	}

	ctx := context.Background()
	schema := "it_" + strings.ReplaceAll(uuidv7.New(), "-", "")

	admin, err := pgx.Connect(ctx, rawURL)
	if err != nil {
		t.Fatalf("pgtest: connect: %v", err)
	}
	defer func() { _ = admin.Close(ctx) }()

	if _, err := admin.Exec(ctx, "CREATE SCHEMA "+pgx.Identifier{schema}.Sanitize()); err != nil {
		t.Fatalf("pgtest: create schema: %v", err)
	}
	t.Cleanup(func() { dropSchema(t, rawURL, schema) })

	query := databaseURL.Query()
	query.Set("search_path", schema)
	databaseURL.RawQuery = query.Encode()
	dsn := databaseURL.String()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := migration.RunUp(dsn, migrationsPath(t), false, logger); err != nil {
		t.Fatalf("pgtest: migrate: %v", err)
	}

	pool, err := postgres.NewPool(ctx, dsn, statementTimeout, logger)
	if err != nil {
		t.Fatalf("pgtest: pool: %v", err)
	}
	t.Cleanup(pool.Close)

	return pool
}

// Exec runs seed statements and fails the test on the first error.
func Exec(t testing.TB, pool *pgxpool.Pool, statements ...string) {
	t.Helper()
	for _, statement := range statements {
		if _, err := pool.Exec(context.Background(), statement); err != nil {
			t.Fatalf("pgtest: seed %q: %v", statement, err)
		}
	}
}

func dropSchema(t testing.TB, rawURL, schema string) {
	ctx := context.Background()
	admin, err := pgx.Connect(ctx, rawURL)
	if err != nil {
		t.Logf("pgtest: drop schema %s: %v", schema, err)
		return
	}
	defer func() { _ = admin.Close(ctx) }()

	if _, err := admin.Exec(ctx, "DROP SCHEMA "+pgx.Identifier{schema}.Sanitize()+" CASCADE"); err != nil {
		t.Logf("pgtest: drop schema %s: %v", schema, err)
	}
}

// migrationsPath resolves data/migrations from this file's location, so tests
// work from any package directory.
func migrationsPath(t testing.TB) string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("pgtest: cannot locate migrations")
	}
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "data", "migrations")
}
