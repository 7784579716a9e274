package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
)

// expectOneRow convierte un UPDATE/DELETE sin filas afectadas en notFound.
func expectOneRow(res sql.Result, err error, notFound error) error {
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return notFound
	}
	return nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
