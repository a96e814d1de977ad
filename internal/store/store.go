// Package store holds the SQL statements of the API. Every exported method
// issues exactly one parameterized statement.
package store

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

var (
	// ErrNotFound is returned when a statement targets a row that does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrDuplicate is returned when a unique key (users.email) would be violated.
	ErrDuplicate = errors.New("store: duplicate entry")
	// ErrQuizNotOwned is returned when a question targets a quiz the caller cannot write to.
	ErrQuizNotOwned = errors.New("store: quiz missing or not owned by caller")
)

const mysqlErrDupEntry = 1062

func translate(err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == mysqlErrDupEntry {
		return ErrDuplicate
	}
	return err
}
