package domain

import "errors"

// ErrAppointmentCancelled is returned when an operation is attempted on an
// appointment that has already been cancelled. Cancelled is terminal.
var ErrAppointmentCancelled = errors.New("appointment is cancelled")

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func NewValidationError(msg string) error {
	return &ValidationError{msg: msg}
}
