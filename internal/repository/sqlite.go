package repository

import (
	"errors"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// IsUniqueViolation reports whether err is a unique or primary key
// constraint failure. Exactly-once claim and ballot semantics rely on the
// storage layer raising this for concurrent duplicates.
func IsUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	// The pure-go fallback driver reports constraint failures by message
	// only.
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// IsLockError reports whether err means the database is busy or locked.
// These are transient; the maintenance scheduler retries them with backoff.
func IsLockError(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
	}

	if err == nil {
		return false
	}

	return strings.Contains(err.Error(), "database is locked") ||
		strings.Contains(err.Error(), "database table is locked")
}
