package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrNotFound is returned when a row addressed by its key does not exist.
var ErrNotFound = errors.New("not found")

// IsFatal reports whether err means the storage itself is unusable, as
// opposed to a problem with the single row being written.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, sql.ErrTxDone) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() & 0xff {
		case sqlite3.SQLITE_IOERR,
			sqlite3.SQLITE_CORRUPT,
			sqlite3.SQLITE_FULL,
			sqlite3.SQLITE_NOTADB,
			sqlite3.SQLITE_CANTOPEN,
			sqlite3.SQLITE_NOMEM:
			return true
		}
	}
	return false
}
