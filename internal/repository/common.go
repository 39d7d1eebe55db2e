package repository

import (
	"database/sql"
	"fmt"
)

// requireRowsAffected converts zero-row updates/deletes into sql.ErrNoRows
// so services can map them to not-found responses.
func requireRowsAffected(result sql.Result, resource string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for %s: %w", resource, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
