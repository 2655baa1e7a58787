// Package testutil provides shared test fixtures: an in-memory SQLite
// database with the live schema and in-memory fakes for the repository
// and federation interfaces.
package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

// NewTestDB creates an in-memory SQLite database carrying the
// linked_accounts schema.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// In-memory SQLite is per-connection; more than one connection
	// would see an empty sibling database.
	db.SetMaxOpenConns(1)

	schema := `
	CREATE TABLE IF NOT EXISTS linked_accounts (
		id VARCHAR(36) PRIMARY KEY,
		aws_account_id VARCHAR(12) NOT NULL UNIQUE,
		name VARCHAR(255) NOT NULL,
		description TEXT,
		role_arn VARCHAR(2048) NOT NULL,
		external_id VARCHAR(1224),
		state VARCHAR(20) NOT NULL DEFAULT 'pending',
		last_verified_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_linked_accounts_state ON linked_accounts(state);
	`

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}
