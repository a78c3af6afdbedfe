package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/chiefotto/clustercalculator/internal/config"
)

// TestDSNEnv names the variable holding a Postgres DSN for integration tests
const TestDSNEnv = "CLUSTERCALC_TEST_DATABASE_DSN"

// SetupTestDB connects to the integration database and applies the schema.
// The test is skipped when no database is configured.
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := os.Getenv(TestDSNEnv)
	if dsn == "" {
		t.Skipf("%s not set, skipping database test", TestDSNEnv)
	}

	cfg, err := config.ParseDSN(dsn)
	if err != nil {
		t.Fatalf("failed to parse %s: %v", TestDSNEnv, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := NewDB(ctx, cfg)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}
	if err := Migrate(ctx, db); err != nil {
		db.Close()
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(db.Close)
	return db
}
