package db

import (
	"strings"

	"github.com/teranos/clwm/errors"
)

// ErrDatabaseClosed marks use of a world database after Close.
var ErrDatabaseClosed = errors.New("world database is closed")

// IsDatabaseClosed reports whether err comes from a closed database, either
// marked by this package or raised by database/sql, whose errors carry no type.
func IsDatabaseClosed(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrDatabaseClosed) || strings.Contains(err.Error(), "database is closed")
}

// MarkClosed tags a closed-database error with ErrDatabaseClosed. Other errors
// are returned unchanged.
func MarkClosed(err error) error {
	if err == nil || errors.Is(err, ErrDatabaseClosed) || !IsDatabaseClosed(err) {
		return err
	}
	return errors.Mark(err, ErrDatabaseClosed)
}
