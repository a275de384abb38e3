package testutil

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/lib/pq"
)

// SetupTestDB creates a connection to the test database.
// Tests that call this are skipped when no test database is reachable, so
// the unit suite stays runnable without local PostgreSQL.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	connStr := os.Getenv("TEST_DATABASE_URL")
	if connStr == "" {
		connStr = "host=localhost port=5432 user=postgres password=postgres dbname=curaledger_test sslmode=disable"
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Skipf("Skipping: failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("Skipping: test database unreachable: %v", err)
	}

	return db
}

// SetupTestTransaction creates a test database connection and begins a transaction
// The transaction is automatically rolled back when the test ends
// This ensures test isolation without needing cleanup
func SetupTestTransaction(t *testing.T) (*sql.DB, *sql.Tx) {
	t.Helper()

	db := SetupTestDB(t)

	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		db.Close()
		t.Fatalf("Failed to begin transaction: %v", err)
	}

	// Ensure transaction is rolled back when test ends
	t.Cleanup(func() {
		tx.Rollback()
		db.Close()
	})

	return db, tx
}

// CleanupTestDB cleans up test data from the database
// Use this if you're not using transactions
func CleanupTestDB(t *testing.T, db *sql.DB) {
	t.Helper()

	// Transaction rows reference subscriptions, which reference users.
	tables := []string{
		"subscription_transactions",
		"subscriptions",
		"records",
		"health_professionals",
		"users",
	}
	for _, table := range tables {
		if _, err := db.Exec("TRUNCATE TABLE " + table + " CASCADE"); err != nil {
			t.Logf("Warning: Failed to clean up %s: %v", table, err)
		}
	}
}
