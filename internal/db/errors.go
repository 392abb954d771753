package db

import (
	"errors"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrConstraint marks an insert or update rejected by a foreign-key or
// other table constraint.
var ErrConstraint = errors.New("constraint violation")

func isConstraintViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}
	return false
}

func classify(err error) error {
	if isConstraintViolation(err) {
		return ErrConstraint
	}
	return err
}
