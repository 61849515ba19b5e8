package models

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers map these to HTTP statuses with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

var (
	ErrInvalidDateFormat = fmt.Errorf("%w: invalid date format, please provide a valid date", ErrValidation)
	ErrInvalidTimeFormat = fmt.Errorf("%w: invalid time format, use HH:MM or HH:MM AM/PM", ErrValidation)
	ErrInvalidMode       = fmt.Errorf("%w: mode must be either online, offline, or hybrid", ErrValidation)
	ErrInvalidEmail      = fmt.Errorf("%w: please provide a valid email address", ErrValidation)
	ErrInvalidEventID    = fmt.Errorf("%w: eventId is not a valid identifier", ErrValidation)
	ErrInvalidBookingID  = fmt.Errorf("%w: booking id is not a valid identifier", ErrValidation)

	ErrEventNotFound           = fmt.Errorf("event %w", ErrNotFound)
	ErrBookingNotFound         = fmt.Errorf("booking %w", ErrNotFound)
	ErrReferencedEventNotFound = fmt.Errorf("referenced event %w", ErrNotFound)

	ErrAlreadyBooked = fmt.Errorf("%w: you have already booked this event", ErrConflict)
)

func fieldError(field, msg string) error {
	return fmt.Errorf("%w: %s %s", ErrValidation, field, msg)
}
