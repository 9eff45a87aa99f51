package watchlog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrNotFound indicates the requested item doesn't exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate indicates a unique constraint violation.
	ErrDuplicate = errors.New("duplicate entry")

	// ErrConstraint indicates a check constraint violation.
	ErrConstraint = errors.New("constraint violation")

	// ErrInvalidRating is returned for ratings outside 1-5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

// ValidationError lists the fields of an Item that failed validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid item: " + strings.Join(e.Fields, "; ")
}

func newValidationError(errs validator.ValidationErrors) *ValidationError {
	ve := &ValidationError{}
	for _, fe := range errs {
		ve.Fields = append(ve.Fields, describeFieldError(fe))
	}
	return ve
}

func describeFieldError(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "datetime":
		return fmt.Sprintf("%s must be a YYYY-MM-DD date", name)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", name, fe.Param())
	case "min", "max":
		return fmt.Sprintf("%s must be between 1 and 5", name)
	default:
		return fmt.Sprintf("%s failed %s", name, fe.Tag())
	}
}
