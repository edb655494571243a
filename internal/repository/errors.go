// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// the booking service and handlers to distinguish between different failure
// scenarios. For example, ErrConflict signals that a reservation overlaps
// hours already held by another reservation, while ErrStorage marks an
// engine-level fault whose details must stay in the logs.
package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrConflict is returned when a reservation would claim an hour that is
// already held in the same room on the same day. Handlers should
// translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrNotFound is returned when a reservation addressed by id or cancel
// token does not exist, including when it was already cancelled.
var ErrNotFound = errors.New("reservation not found")

// ErrStorage wraps any fault raised by the database driver.  Callers see
// errors.Is(err, ErrStorage) == true while the cause stays in the chain
// for logging.
var ErrStorage = errors.New("storage failure")

// storageErr tags err as a storage fault that happened during op.
func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}

// isDuplicateKey reports whether err is a primary/unique key violation on
// either supported driver.
func isDuplicateKey(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			return true
		case sqlite3.SQLITE_CONSTRAINT:
			// extended result codes disabled
			return strings.Contains(liteErr.Error(), "UNIQUE")
		}
	}
	return false
}
