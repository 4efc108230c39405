package dtos

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/tooba16/real-states/internal/utils"
)

var validate = validator.New()

// Validate checks struct tags on an input and wraps failures in the
// domain validation error so callers can match with errors.Is.
func Validate(in interface{}) error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", utils.ErrValidation, err)
	}
	return nil
}
