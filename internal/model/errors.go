package model

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("blog not found")

// ValidationError reports input that can never succeed as sent. It is shown
// to the author and never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err wraps a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
