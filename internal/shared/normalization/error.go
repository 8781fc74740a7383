package normalization

import (
	"errors"
	"fmt"
)

// Error reports that a required identity or required text field could not be
// resolved from any known location in a payload. Optional fields never raise
// it; they fall back to documented defaults instead.
type Error struct {
	Entity string
	Reason string
}

func NewError(entity, reason string) *Error {
	return &Error{Entity: entity, Reason: reason}
}

func (e *Error) Error() string {
	return fmt.Sprintf("cannot normalize %s: %s", e.Entity, e.Reason)
}

// AsError unwraps err into a normalization Error when it carries one.
func AsError(err error) (*Error, bool) {
	var normErr *Error
	if errors.As(err, &normErr) {
		return normErr, true
	}
	return nil, false
}
