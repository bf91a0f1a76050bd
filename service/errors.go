package service

import (
	"errors"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrOperationFailed = errors.New("operation failed")
)

type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found"
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ConflictError is a rejected registration. Reason is shown to the registrant as is.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

var (
	ErrEventNotFound        = &NotFoundError{Entity: "Event"}
	ErrRegistrationNotFound = &NotFoundError{Entity: "Registration"}
	ErrPlanNotFound         = &NotFoundError{Entity: "Plan"}

	ErrAlreadyRegistered = &ConflictError{Reason: "You are already registered for this event"}
	ErrEventFull         = &ConflictError{Reason: "Event is full"}
	ErrEventInactive     = &ConflictError{Reason: "Event is currently inactive"}
)

// isDomainError reports errors that are answers, as opposed to failures to answer.
func isDomainError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict)
}
