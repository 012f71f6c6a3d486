package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrBedOccupied is returned when the target bed already has a resident
	// in an occupying status at commit time.
	ErrBedOccupied = errors.New("bed already occupied")

	// ErrInvalidTransition is returned when a lifecycle operation is applied
	// to a resident not in the required source state.
	ErrInvalidTransition = errors.New("invalid lifecycle transition")

	// ErrDuplicatePayment is returned when an active payment already exists
	// for the resident's current month.
	ErrDuplicatePayment = errors.New("rent already marked paid for this month")

	ErrRoomNotFound         = errors.New("room not found")
	ErrResidentNotFound     = errors.New("resident not found")
	ErrResidentNotAllocated = errors.New("resident has no room assigned")
	ErrSameAssignment       = errors.New("destination matches current assignment")

	// ErrAlreadyAllocated rejects allocating a resident who already holds a
	// bed. Moves go through the switch operation so the history row is
	// never skipped.
	ErrAlreadyAllocated = errors.New("resident already has a bed, use a room switch")

	// ErrRoomOccupied blocks deleting a room that still has occupants.
	ErrRoomOccupied = errors.New("room still has active residents")
)

// ValidationError reports malformed or missing caller input. Always
// recoverable by correcting the request.
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

// Validationf builds a ValidationError for a field.
func Validationf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
