package helpers

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SetupTestDB creates a test database connection. Tests that need a
// database are skipped when no URL is configured.
func SetupTestDB(t *testing.T) *pgxpool.Pool {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL or DATABASE_URL must be set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	return pool
}

// CleanupTestDB cleans up test data
func CleanupTestDB(t *testing.T, pool *pgxpool.Pool) {
	ctx := context.Background()
	tables := []string{
		"habit_logs", "streaks", "notifications", "achievements",
		"mood_entries", "goals", "habits", "categories",
	}
	for _, table := range tables {
		_, err := pool.Exec(ctx, "DELETE FROM "+table+" WHERE user_id IN (SELECT id FROM users WHERE email LIKE 'test%@example.com')")
		if err != nil {
			t.Logf("Warning: failed to cleanup %s: %v", table, err)
		}
	}
	if _, err := pool.Exec(ctx, "DELETE FROM users WHERE email LIKE 'test%@example.com'"); err != nil {
		t.Logf("Warning: failed to cleanup test users: %v", err)
	}
	pool.Close()
}
