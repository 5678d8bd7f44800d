package validate

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	apperror "goshop/internal/errors"
)

var v = validator.New(validator.WithRequiredStructEnabled())

// Struct runs the validator tags on a request payload and converts failures
// into a single ValidationError listing the offending fields.
func Struct(s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperror.NewValidationError(err.Error())
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}

	return apperror.NewValidationError("invalid fields: " + strings.Join(parts, ", "))
}
