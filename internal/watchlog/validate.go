package watchlog

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks an Item before it is written.
// Title and Genre are trimmed in place.
func Validate(it *Item) error {
	it.Title = strings.TrimSpace(it.Title)
	it.Genre = strings.TrimSpace(it.Genre)
	if it.CustomCategory != nil && strings.TrimSpace(*it.CustomCategory) == "" {
		it.CustomCategory = nil
	}

	if err := validate.Struct(it); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return newValidationError(verrs)
		}
		return err
	}
	return nil
}

// ValidateRating checks a rating update. nil clears the rating.
func ValidateRating(rating *int) error {
	if rating != nil && (*rating < 1 || *rating > 5) {
		return ErrInvalidRating
	}
	return nil
}
