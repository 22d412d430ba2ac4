// Package testutil provides store fixtures for tests. Stores live in
// t.TempDir() and are migrated to the current schema before use.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/exgroup/staffstore/internal/schema"
	"github.com/exgroup/staffstore/pkg/config"
	"github.com/exgroup/staffstore/pkg/database"
	"github.com/exgroup/staffstore/pkg/logger"
)

// NewConfig returns a config rooted at a fresh temp directory
func NewConfig(t testing.TB) *config.Config {
	t.Helper()
	return &config.Config{
		Environment: config.EnvDevelopment,
		DataDir:     t.TempDir(),
		Database: config.DatabaseConfig{
			File:          "exstaff.db",
			BusyTimeoutMS: 5000,
		},
		Backup: config.BackupConfig{RetentionCount: 10},
		List:   config.ListConfig{DefaultPageSize: 10},
	}
}

// OpenStore opens a fresh store in a temp directory and migrates it to
// the current schema version. The store is closed when the test ends.
func OpenStore(t testing.TB) (*database.DB, *config.Config) {
	t.Helper()

	cfg := NewConfig(t)
	log := logger.Nop()

	db, err := database.Open(cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mgr := schema.NewManager(db, log)
	require.NoError(t, mgr.EnsureCurrent(context.Background()))

	return db, cfg
}

// WritePhotoFixture creates a small fake photo upload and returns its path
func WritePhotoFixture(t testing.TB, name string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("fake image bytes"), 0o644))
	return path
}

// Ptr returns a pointer to the given string, for optional fields
func Ptr(s string) *string {
	return &s
}
