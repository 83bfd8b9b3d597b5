package intake

import (
	"errors"
	"strings"

	"github.com/matsen/profiles/internal/draft"
)

// ErrValidation is wrapped by every ValidationError.
var ErrValidation = errors.New("validation failed")

// ValidationError carries the per-field messages that blocked a submit.
type ValidationError struct {
	Errors draft.Errors
}

func (e *ValidationError) Error() string {
	msgs := e.Errors.Messages()
	if len(msgs) == 0 {
		return ErrValidation.Error()
	}
	return ErrValidation.Error() + ": " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// FieldErrors returns the per-field messages carried by err, if any.
func FieldErrors(err error) (draft.Errors, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Errors, true
	}
	return nil, false
}
