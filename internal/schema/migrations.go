package schema

// CurrentVersion is the schema version this build of the application targets.
// Bump it when appending a migration step below.
const CurrentVersion = 2

// migration is a single schema evolution step. Steps are append-only:
// a shipped step must never be edited or removed.
type migration struct {
	version     int
	description string
	statements  []string
}

var migrations = []migration{
	{
		version:     1,
		description: "initial schema",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS employees (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL,
				father_name TEXT,
				spouse_name TEXT,
				current_place TEXT,
				current_post TEXT,
				current_address TEXT,
				phone_numbers TEXT,
				permanent_same_as_current INTEGER DEFAULT 0,
				permanent_place TEXT,
				permanent_post TEXT,
				permanent_address TEXT,
				emergency_contact_name TEXT,
				emergency_contact_relation TEXT,
				emergency_contact_phone TEXT,
				police_station TEXT,
				experience TEXT,
				job_post TEXT,
				employment_status TEXT DEFAULT 'applied',
				joining_date TEXT,
				exit_date TEXT,
				essid TEXT,
				photo_path TEXT,
				date_of_birth TEXT,
				uan TEXT,
				esiip TEXT,
				created_at TEXT DEFAULT CURRENT_TIMESTAMP,
				updated_at TEXT DEFAULT CURRENT_TIMESTAMP
			)`,
			`CREATE INDEX IF NOT EXISTS idx_employment_status ON employees(employment_status)`,
			`CREATE INDEX IF NOT EXISTS idx_current_place ON employees(current_place)`,
			`CREATE INDEX IF NOT EXISTS idx_current_post ON employees(current_post)`,
			`CREATE INDEX IF NOT EXISTS idx_job_post ON employees(job_post)`,
			`CREATE INDEX IF NOT EXISTS idx_name ON employees(name)`,
			`CREATE TRIGGER IF NOT EXISTS update_employee_timestamp
				AFTER UPDATE ON employees
				BEGIN
					UPDATE employees SET updated_at = CURRENT_TIMESTAMP WHERE id = NEW.id;
				END`,
		},
	},
	{
		version:     2,
		description: "unique essid index",
		statements: []string{
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_essid_unique ON employees(essid)`,
		},
	},
}
