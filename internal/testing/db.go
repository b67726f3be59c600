// Package testing provides testing utilities and helpers for the pfa module.
package testing

import (
	"fmt"
	"os"
	"testing"

	"github.com/aristath/pfa/internal/database"
	_ "modernc.org/sqlite"
)

// NewTestDB creates a temporary-file SQLite database for testing.
// Returns the database instance and a cleanup function that closes the
// connection and removes the file. The cleanup function is idempotent.
func NewTestDB(t *testing.T, name string) (*database.DB, func()) {
	t.Helper()
	return NewTestDBWithSchema(t, name, "")
}

// NewTestDBWithSchema creates a temporary-file SQLite database and executes
// schema on it (when non-empty).
func NewTestDBWithSchema(t *testing.T, name string, schema string) (*database.DB, func()) {
	t.Helper()

	// A temporary file per test keeps tests isolated
	tmpFile, err := os.CreateTemp("", fmt.Sprintf("test_%s_*.db", name))
	if err != nil {
		t.Fatalf("Failed to create temporary database file: %v", err)
	}
	tmpPath := tmpFile.Name()
	_ = tmpFile.Close()

	db, err := database.New(database.Config{
		Path:    tmpPath,
		Profile: database.ProfileCache,
		Name:    name,
	})
	if err != nil {
		_ = os.Remove(tmpPath)
		t.Fatalf("Failed to create test database %s: %v", name, err)
	}

	if schema != "" {
		if _, err := db.Conn().Exec(schema); err != nil {
			_ = db.Close()
			_ = os.Remove(tmpPath)
			t.Fatalf("Failed to execute custom schema for test database %s: %v", name, err)
		}
	}

	closed := false
	return db, func() {
		if closed {
			return
		}
		closed = true
		if err := db.Close(); err != nil {
			t.Logf("Warning: Failed to close test database %s: %v", name, err)
		}
		for _, suffix := range []string{"", "-wal", "-shm"} {
			_ = os.Remove(tmpPath + suffix)
		}
	}
}
