package repository

import (
	"database/sql"
	"errors"
)

// ErrNoRow is returned when a lookup or targeted mutation matched nothing.
// Services map it onto the engine's not-found error at the boundary.
var ErrNoRow = errors.New("no matching row")

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoRow
	}
	return nil
}
