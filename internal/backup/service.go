// Package backup owns point-in-time snapshots of the store and tabular
// export. It reads the live store without mutating it.
package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/exgroup/staffstore/internal/staff/repository"
	"github.com/exgroup/staffstore/pkg/database"
	"github.com/exgroup/staffstore/pkg/errors"
	"github.com/exgroup/staffstore/pkg/logger"
)

// backupPrefix names snapshot artifacts; the embedded timestamp keeps
// them lexicographically sorted by creation time
const backupPrefix = "staff_backup_"

// Service creates backup artifacts and exports the employee table
type Service struct {
	db           *database.DB
	employeeRepo *repository.EmployeeRepository
	retention    int
	logger       *logger.Logger
}

// NewService creates a backup service keeping the given number of
// most recent artifacts per backup directory
func NewService(db *database.DB, employeeRepo *repository.EmployeeRepository, retention int, log *logger.Logger) *Service {
	return &Service{
		db:           db,
		employeeRepo: employeeRepo,
		retention:    retention,
		logger:       log.WithComponent("backup"),
	}
}

// Backup writes a consistent point-in-time copy of the store into a
// timestamp-named file inside destDir, creating the directory if absent,
// then applies retention. VACUUM INTO snapshots through SQLite itself,
// so a concurrent writer cannot leave a half-written row in the copy.
func (s *Service) Backup(ctx context.Context, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", errors.IO("failed to create backup directory", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	artifactPath := filepath.Join(destDir, fmt.Sprintf("%s%s.db", backupPrefix, timestamp))

	if _, err := s.db.ExecContext(ctx, `VACUUM INTO ?`, artifactPath); err != nil {
		return "", errors.IO("failed to snapshot store", err)
	}

	s.logger.Info().Str("artifact", artifactPath).Msg("created backup")

	s.applyRetention(destDir)

	return artifactPath, nil
}

// applyRetention deletes the oldest backup files beyond the retention
// count. Deletion failures are reported but never invalidate the backup
// that was just written.
func (s *Service) applyRetention(destDir string) {
	entries, err := os.ReadDir(destDir)
	if err != nil {
		s.logger.Error().Err(err).Str("dir", destDir).Msg("failed to scan backup directory")
		return
	}

	type artifact struct {
		path    string
		modTime time.Time
	}

	var artifacts []artifact
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".db") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		artifacts = append(artifacts, artifact{
			path:    filepath.Join(destDir, entry.Name()),
			modTime: info.ModTime(),
		})
	}

	// Newest first
	sort.Slice(artifacts, func(i, j int) bool {
		return artifacts[i].modTime.After(artifacts[j].modTime)
	})

	for _, old := range artifacts[min(s.retention, len(artifacts)):] {
		if err := os.Remove(old.path); err != nil {
			s.logger.Error().Err(err).Str("path", old.path).Msg("failed to remove old backup")
			continue
		}
		s.logger.Info().Str("path", old.path).Msg("removed old backup")
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
