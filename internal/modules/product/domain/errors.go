package domain

import (
	"errors"
	"fmt"
)

var ErrProductNotFound = errors.New("product not found")

type ProductNotFoundError struct {
	ID int64
}

func (e ProductNotFoundError) Error() string {
	return fmt.Sprintf("product not found: %d", e.ID)
}

func (e ProductNotFoundError) Is(target error) bool {
	return target == ErrProductNotFound
}
