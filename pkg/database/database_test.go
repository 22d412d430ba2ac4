package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exgroup/staffstore/pkg/config"
	"github.com/exgroup/staffstore/pkg/logger"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Environment: config.EnvDevelopment,
		DataDir:     filepath.Join(t.TempDir(), "data"),
		Database: config.DatabaseConfig{
			File:          "exstaff.db",
			BusyTimeoutMS: 5000,
		},
		Backup: config.BackupConfig{RetentionCount: 10},
		List:   config.ListConfig{DefaultPageSize: 10},
	}
}

func TestOpen_CreatesDataDirAndFile(t *testing.T) {
	cfg := testConfig(t)

	db, err := Open(cfg, logger.Nop())
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, filepath.Join(cfg.DataDir, "exstaff.db"), db.Path())
	require.NoError(t, db.Ping(context.Background()))

	_, err = os.Stat(db.Path())
	require.NoError(t, err)
}

func TestOpen_AppliesPragmas(t *testing.T) {
	cfg := testConfig(t)

	db, err := Open(cfg, logger.Nop())
	require.NoError(t, err)
	defer db.Close()

	var journalMode string
	require.NoError(t, db.Get(&journalMode, "PRAGMA journal_mode"))
	assert.Equal(t, "wal", journalMode)

	var foreignKeys int
	require.NoError(t, db.Get(&foreignKeys, "PRAGMA foreign_keys"))
	assert.Equal(t, 1, foreignKeys)

	var busyTimeout int
	require.NoError(t, db.Get(&busyTimeout, "PRAGMA busy_timeout"))
	assert.Equal(t, 5000, busyTimeout)
}

func TestOpen_ReopensExistingStore(t *testing.T) {
	cfg := testConfig(t)

	db, err := Open(cfg, logger.Nop())
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE marker (id INTEGER PRIMARY KEY)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(cfg, logger.Nop())
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.Get(&count, "SELECT COUNT(*) FROM marker"))
	assert.Zero(t, count)
}

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	return &DB{
		DB:     sqlx.NewDb(mockDB, "sqlmock"),
		path:   "mock",
		logger: logger.Nop(),
	}, mock
}

func TestTransaction_Commit(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE employees").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := db.Transaction(context.Background(), func(tx *sqlx.Tx) error {
		_, err := tx.Exec("UPDATE employees SET name = 'x' WHERE id = 1")
		return err
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransaction_RollbackOnError(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := db.Transaction(context.Background(), func(tx *sqlx.Tx) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransaction_BeginFails(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin().WillReturnError(errors.New("store closed"))

	err := db.Transaction(context.Background(), func(tx *sqlx.Tx) error {
		t.Fatal("fn must not run when begin fails")
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to begin transaction")
	require.NoError(t, mock.ExpectationsWereMet())
}
