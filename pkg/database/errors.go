package database

import (
	goerrors "errors"
	"strings"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/exgroup/staffstore/pkg/errors"
)

// MapSQLiteError converts a SQLite error to an AppError with meaningful messages.
// Returns nil if the error is not a sqlite.Error.
func MapSQLiteError(err error) *errors.AppError {
	var sqlErr *sqlite.Error
	if !goerrors.As(err, &sqlErr) {
		return nil
	}

	switch sqlErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return errors.Duplicate(formatUniqueMessage(sqlErr))

	case sqlite3.SQLITE_CONSTRAINT_NOTNULL:
		return errors.Validation(map[string]string{
			constraintColumn(sqlErr): "must not be empty",
		})

	case sqlite3.SQLITE_CONSTRAINT_CHECK:
		return errors.Validation(map[string]string{
			"input": "data validation failed",
		})

	default:
		return nil
	}
}

// formatUniqueMessage creates a user-facing message for unique constraint violations.
func formatUniqueMessage(sqlErr *sqlite.Error) string {
	msg := sqlErr.Error()
	if strings.Contains(msg, "essid") {
		return "an employee with this essid already exists"
	}
	return "a record with these values already exists"
}

// constraintColumn extracts the column name from a NOT NULL violation message
// of the form "NOT NULL constraint failed: employees.name".
func constraintColumn(sqlErr *sqlite.Error) string {
	msg := sqlErr.Error()
	idx := strings.LastIndex(msg, ".")
	if idx < 0 || idx == len(msg)-1 {
		return "required field"
	}
	return strings.TrimSpace(msg[idx+1:])
}
