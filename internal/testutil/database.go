// Package testutil provides test helpers for setting up temporary databases,
// creating fixtures, and making assertions.
package testutil

import (
	"path/filepath"
	"testing"

	"patrimonio/internal/database"
)

// SetupTestManager opens a fully migrated database manager over a temporary
// directory. The encryption key file is created alongside the database file,
// mirroring production layout. Cleanup happens automatically with the test's
// temp dir.
func SetupTestManager(t *testing.T) *database.Manager {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	manager, err := database.Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := manager.Migrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if err := manager.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})

	return manager
}
