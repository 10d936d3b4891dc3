package repository

import (
	"errors"

	"gorm.io/gorm"
)

// IsDuplicate reports whether err is a unique-constraint violation.
// Requires TranslateError on the gorm connection.
func IsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
