package postgres

import (
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

// isUniqueViolation recognises duplicate key errors from lib/pq, which the
// gorm postgres dialector does not translate when it wraps a *sql.DB.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}

	return errors.Is(err, gorm.ErrDuplicatedKey)
}
