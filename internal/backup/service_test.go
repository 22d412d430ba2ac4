package backup_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exgroup/staffstore/internal/backup"
	"github.com/exgroup/staffstore/internal/staff/repository"
	"github.com/exgroup/staffstore/pkg/database"
	"github.com/exgroup/staffstore/pkg/logger"
	"github.com/exgroup/staffstore/pkg/testutil"
)

func newBackupService(t *testing.T, retention int) (*backup.Service, *repository.EmployeeRepository, *database.DB) {
	t.Helper()

	db, _ := testutil.OpenStore(t)
	repo := repository.NewEmployeeRepository(db)
	return backup.NewService(db, repo, retention, logger.Nop()), repo, db
}

func seedEmployee(t *testing.T, repo *repository.EmployeeRepository, essid string) *repository.Employee {
	t.Helper()

	created, err := repo.Create(context.Background(), &repository.Employee{
		Name:             "Backup Subject " + essid,
		ESSID:            essid,
		EmploymentStatus: "current",
	})
	require.NoError(t, err)
	return created
}

func TestBackup_CreatesArtifact(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newBackupService(t, 10)

	seedEmployee(t, repo, "ESS-BK01")
	seedEmployee(t, repo, "ESS-BK02")

	destDir := filepath.Join(t.TempDir(), "backups")
	artifact, err := svc.Backup(ctx, destDir)
	require.NoError(t, err)

	assert.Equal(t, destDir, filepath.Dir(artifact))
	name := filepath.Base(artifact)
	assert.True(t, strings.HasPrefix(name, "staff_backup_"))
	assert.True(t, strings.HasSuffix(name, ".db"))

	// The artifact is a self-contained store with the live rows in it
	snap, err := sqlx.Connect("sqlite", artifact)
	require.NoError(t, err)
	defer snap.Close()

	var count int64
	require.NoError(t, snap.GetContext(ctx, &count, "SELECT COUNT(*) FROM employees"))
	assert.Equal(t, int64(2), count)

	var version int
	require.NoError(t, snap.GetContext(ctx, &version, "SELECT MAX(version) FROM db_version"))
	assert.Equal(t, 2, version)
}

func TestBackup_ArtifactIndependentOfLiveStore(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newBackupService(t, 10)

	created := seedEmployee(t, repo, "ESS-BK10")

	artifact, err := svc.Backup(ctx, t.TempDir())
	require.NoError(t, err)

	// Mutating the live store after the snapshot does not touch the copy
	require.NoError(t, repo.Delete(ctx, created.ID))

	snap, err := sqlx.Connect("sqlite", artifact)
	require.NoError(t, err)
	defer snap.Close()

	var count int64
	require.NoError(t, snap.GetContext(ctx, &count, "SELECT COUNT(*) FROM employees"))
	assert.Equal(t, int64(1), count)
}

func TestBackup_RetentionKeepsNewest(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newBackupService(t, 2)

	destDir := t.TempDir()

	// Two stale artifacts, backdated so the fresh backup is the newest
	old1 := filepath.Join(destDir, "staff_backup_20240101_000000.db")
	old2 := filepath.Join(destDir, "staff_backup_20240102_000000.db")
	require.NoError(t, os.WriteFile(old1, []byte("stale"), 0o644))
	require.NoError(t, os.WriteFile(old2, []byte("stale"), 0o644))
	require.NoError(t, os.Chtimes(old1, time.Now().Add(-48*time.Hour), time.Now().Add(-48*time.Hour)))
	require.NoError(t, os.Chtimes(old2, time.Now().Add(-24*time.Hour), time.Now().Add(-24*time.Hour)))

	artifact, err := svc.Backup(ctx, destDir)
	require.NoError(t, err)

	_, err = os.Stat(artifact)
	require.NoError(t, err)
	_, err = os.Stat(old2)
	require.NoError(t, err)
	_, err = os.Stat(old1)
	assert.True(t, os.IsNotExist(err), "oldest artifact should have been pruned")
}

func TestBackup_RetentionIgnoresOtherFiles(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newBackupService(t, 1)

	destDir := t.TempDir()

	bystander := filepath.Join(destDir, "notes.txt")
	require.NoError(t, os.WriteFile(bystander, []byte("keep me"), 0o644))
	require.NoError(t, os.Chtimes(bystander, time.Now().Add(-72*time.Hour), time.Now().Add(-72*time.Hour)))

	_, err := svc.Backup(ctx, destDir)
	require.NoError(t, err)

	_, err = os.Stat(bystander)
	require.NoError(t, err)
}

func TestBackup_CreatesDestDir(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newBackupService(t, 10)

	destDir := filepath.Join(t.TempDir(), "nested", "backups")
	artifact, err := svc.Backup(ctx, destDir)
	require.NoError(t, err)

	_, err = os.Stat(artifact)
	require.NoError(t, err)
}
