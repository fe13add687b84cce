package database

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/yourusername/wildcard-sim/internal/config"
)

// SetupTestDB connects to the database named by the WILDCARD_SIM_TEST_DB*
// environment variables and ensures the schema. Tests that call it are
// skipped when WILDCARD_SIM_TEST_DB is unset.
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	if os.Getenv("WILDCARD_SIM_TEST_DB") == "" {
		t.Skip("integration test - set WILDCARD_SIM_TEST_DB to run")
	}

	cfg := config.DatabaseConfig{
		Host:           envOr("WILDCARD_SIM_TEST_DB_HOST", "localhost"),
		Port:           envIntOr("WILDCARD_SIM_TEST_DB_PORT", 5432),
		Name:           envOr("WILDCARD_SIM_TEST_DB", "wildcard_sim_test"),
		User:           envOr("WILDCARD_SIM_TEST_DB_USER", "postgres"),
		Password:       envOr("WILDCARD_SIM_TEST_DB_PASSWORD", "postgres"),
		SSLMode:        "disable",
		MaxConnections: 4,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := Initialize(ctx, cfg)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}

	return db
}

// TeardownTestDB closes the database connection cleanly
func TeardownTestDB(t *testing.T, db *DB) {
	t.Helper()
	db.Close()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
