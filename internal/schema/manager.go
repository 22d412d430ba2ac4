// Package schema owns the store's table definitions, version metadata and
// the migration sequence. EnsureCurrent must complete before any repository
// or backup operation starts.
package schema

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/exgroup/staffstore/pkg/database"
	"github.com/exgroup/staffstore/pkg/errors"
	"github.com/exgroup/staffstore/pkg/logger"
)

// Manager brings the store schema to the current version
type Manager struct {
	db     *database.DB
	logger *logger.Logger
}

// NewManager creates a new schema manager
func NewManager(db *database.DB, log *logger.Logger) *Manager {
	return &Manager{
		db:     db,
		logger: log.WithComponent("schema"),
	}
}

// EnsureCurrent applies all pending migration steps in ascending order,
// stamping the version after each step. It is idempotent: a store already
// at CurrentVersion is a no-op. A store stamped beyond CurrentVersion is a
// fatal configuration error, as is a gap in the migration sequence.
func (m *Manager) EnsureCurrent(ctx context.Context) error {
	if err := m.ensureVersionTable(ctx); err != nil {
		return errors.Schema("failed to create version table", err)
	}

	version, err := m.Version(ctx)
	if err != nil {
		return errors.Schema("failed to read schema version", err)
	}

	if version == CurrentVersion {
		m.logger.Debug().Int("version", version).Msg("schema is up to date")
		return nil
	}
	if version > CurrentVersion {
		return errors.Schema(
			fmt.Sprintf("store version %d is newer than supported version %d", version, CurrentVersion),
			nil,
		)
	}

	for next := version + 1; next <= CurrentVersion; next++ {
		step, ok := findMigration(next)
		if !ok {
			return errors.Schema(fmt.Sprintf("unknown migration step %d", next), nil)
		}

		if err := m.applyStep(ctx, step); err != nil {
			return errors.Schema(fmt.Sprintf("migration step %d (%s) failed", step.version, step.description), err)
		}

		m.logger.Info().
			Int("version", step.version).
			Str("description", step.description).
			Msg("applied migration step")
	}

	return nil
}

// Version returns the stamped schema version, 0 for a fresh store
func (m *Manager) Version(ctx context.Context) (int, error) {
	if err := m.ensureVersionTable(ctx); err != nil {
		return 0, err
	}

	var version int
	err := m.db.GetContext(ctx, &version,
		`SELECT COALESCE(MAX(version), 0) FROM db_version`)
	if err != nil {
		return 0, err
	}
	return version, nil
}

// applyStep runs one migration step and stamps its version in the same
// transaction, so a crash leaves the store at the last completed step.
func (m *Manager) applyStep(ctx context.Context, step migration) error {
	return m.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		for _, stmt := range step.statements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO db_version (version) VALUES (?)`, step.version)
		return err
	})
}

func (m *Manager) ensureVersionTable(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS db_version (
			version INTEGER PRIMARY KEY,
			applied_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`)
	return err
}

func findMigration(version int) (migration, bool) {
	for _, step := range migrations {
		if step.version == version {
			return step, true
		}
	}
	return migration{}, false
}
