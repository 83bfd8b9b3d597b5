package storage

import (
	"errors"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Sentinel errors for record store operations.
var (
	// ErrDuplicateKey is returned when a record's mobile number is already stored.
	ErrDuplicateKey = errors.New("mobile number already stored")

	// ErrStorageUnavailable is returned when the database is not open or
	// cannot be opened. Callers may retry Open.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrMalformedRecord is returned for records that break a persisted-record
	// invariant, on the way in or on the way out.
	ErrMalformedRecord = errors.New("malformed record")
)

// IsDuplicateKey reports whether err is a duplicate mobile number.
func IsDuplicateKey(err error) bool {
	return errors.Is(err, ErrDuplicateKey)
}

// IsStorageUnavailable reports whether err means the store could not be used.
func IsStorageUnavailable(err error) bool {
	return errors.Is(err, ErrStorageUnavailable)
}

// IsMalformedRecord reports whether err rejected a record's contents.
func IsMalformedRecord(err error) bool {
	return errors.Is(err, ErrMalformedRecord)
}

// isUniqueViolation reports whether a driver error is a UNIQUE constraint
// failure.
func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
			return true
		}
		if code&0xff == sqlite3.SQLITE_CONSTRAINT {
			return strings.Contains(sqliteErr.Error(), "UNIQUE")
		}
		return false
	}
	// drivers that do not expose extended codes
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
