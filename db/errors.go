package db

import (
	"strings"

	"github.com/teranos/kinlink/errors"
)

// ErrDatabaseClosed is returned when operations are attempted on a closed database.
var ErrDatabaseClosed = errors.New("database is closed")

// IsDatabaseClosed checks if an error indicates the database connection is closed,
// either as a wrapped ErrDatabaseClosed or as a raw driver message.
func IsDatabaseClosed(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDatabaseClosed) {
		return true
	}
	return strings.Contains(err.Error(), "database is closed")
}

// IsConstraintViolation reports whether err came from a failed SQLite
// constraint (foreign key, unique, not null). Both drivers only expose
// this through the message.
func IsConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "constraint failed") || strings.Contains(msg, "FOREIGN KEY constraint")
}
