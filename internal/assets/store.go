// Package assets owns the filesystem lifecycle of profile photos. Stored
// names are generated, never derived from caller input, so a crafted
// filename cannot traverse outside the managed directory or overwrite an
// existing asset.
package assets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/exgroup/staffstore/pkg/errors"
	"github.com/exgroup/staffstore/pkg/logger"
)

// DefaultExtension is used when a source file carries no extension
const DefaultExtension = "jpg"

// Store manages photo files under <dataDir>/files/profiles
type Store struct {
	dir    string
	logger *logger.Logger
}

// NewStore creates an asset store rooted at dataDir
func NewStore(dataDir string, log *logger.Logger) *Store {
	return &Store{
		dir:    filepath.Join(dataDir, "files", "profiles"),
		logger: log.WithComponent("assets"),
	}
}

// Dir returns the managed directory
func (s *Store) Dir() string {
	return s.dir
}

// Save copies the source file into the managed directory under a freshly
// generated unique name, preserving the source extension. Returns the
// stored path.
func (s *Store) Save(sourcePath string) (string, error) {
	src, err := os.Open(sourcePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NotFound("photo source file")
		}
		return "", errors.IO(fmt.Sprintf("failed to open photo source %s", sourcePath), err)
	}
	defer src.Close()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", errors.IO("failed to create profiles directory", err)
	}

	ext := strings.TrimPrefix(filepath.Ext(sourcePath), ".")
	if ext == "" {
		ext = DefaultExtension
	}
	destPath := filepath.Join(s.dir, fmt.Sprintf("%s.%s", uuid.NewString(), ext))

	dst, err := os.Create(destPath)
	if err != nil {
		return "", errors.IO("failed to create photo file", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(destPath)
		return "", errors.IO("failed to copy photo file", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(destPath)
		return "", errors.IO("failed to write photo file", err)
	}

	s.logger.Debug().Str("source", sourcePath).Str("stored", destPath).Msg("saved photo")
	return destPath, nil
}

// Delete removes a stored asset file
func (s *Store) Delete(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return errors.NotFound("photo file")
		}
		return errors.IO(fmt.Sprintf("failed to stat photo file %s", path), err)
	}

	if err := os.Remove(path); err != nil {
		return errors.IO(fmt.Sprintf("failed to delete photo file %s", path), err)
	}

	s.logger.Debug().Str("path", path).Msg("deleted photo")
	return nil
}
