package service

import (
	"errors"
	"fmt"
)

// Entity kinds reported by NotFoundError.
const (
	KindUser          = "user"
	KindItem          = "item"
	KindBooking       = "booking"
	KindAvailableItem = "available item"
)

// NotFoundError reports an absent entity. KindAvailableItem means the
// item exists but is not open for booking.
type NotFoundError struct {
	Kind string
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id = %d not found", e.Kind, e.ID)
}

func errUserNotFound(id int64) error    { return &NotFoundError{Kind: KindUser, ID: id} }
func errItemNotFound(id int64) error    { return &NotFoundError{Kind: KindItem, ID: id} }
func errBookingNotFound(id int64) error { return &NotFoundError{Kind: KindBooking, ID: id} }
func errItemNotAvailable(id int64) error {
	return &NotFoundError{Kind: KindAvailableItem, ID: id}
}

// ValidationError reports malformed input or an action the caller may
// not take. Ownership and visibility failures share this kind, matching
// the original contract; both surface as a 400 at the boundary.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func errValidation(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ConflictError reports a violated creation invariant, e.g. a duplicate
// email, or a data-integrity failure at the storage boundary.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

func errConflict(format string, args ...interface{}) error {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}
