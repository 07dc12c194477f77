package persistence

import (
	"errors"

	"github.com/agromarket/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translate maps gorm's not-found error to the domain sentinel
func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}
