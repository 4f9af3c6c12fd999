package auth

import (
	"fmt"

	"workspace-chat/errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateClaims rejects tokens missing the user or workspace, or carrying unknown roles.
func ValidateClaims(claims Claims) error {
	if err := validate.Struct(claims); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrValidation, err)
	}
	return nil
}
