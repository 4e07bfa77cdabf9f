package services

import (
	"fmt"

	"github.com/google/uuid"
)

// parseID validates a client-supplied identifier and returns its canonical lowercase form
func parseID(field, id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("%w: %s is required", ErrValidation, field)
	}
	u, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w: %s must be a UUID", ErrValidation, field)
	}
	return u.String(), nil
}
