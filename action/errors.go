package action

import (
	"errors"
	"fmt"
)

// Class partitions the failures an action can end with. Every class reaches
// the user through the same channel; only the message differs.
type Class int

const (
	ClassUnknown Class = iota
	ClassValidation
	ClassAuthorization
	ClassSubmission
	ClassNetwork
)

func (c Class) String() string {
	switch c {
	case ClassValidation:
		return "validation"
	case ClassAuthorization:
		return "authorization"
	case ClassSubmission:
		return "submission"
	case ClassNetwork:
		return "network"
	}
	return "unknown"
}

// Error is a failed action. Error() is the user-facing message.
type Error struct {
	Class   Class
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Err }

// Validation reports malformed or missing local input.
func Validation(msg string) *Error {
	return &Error{Class: ClassValidation, Message: msg}
}

// Authorization reports a session provider failure. The provider's message is
// kept verbatim.
func Authorization(err error) *Error {
	return &Error{Class: ClassAuthorization, Message: err.Error(), Err: err}
}

// Submission reports a ledger-side execution failure.
func Submission(prefix, detail string) *Error {
	return &Error{Class: ClassSubmission, Message: prefix + detail}
}

// Network reports an opaque transport failure.
func Network(err error) *Error {
	return &Error{Class: ClassNetwork, Message: err.Error(), Err: err}
}

// Networkf is Network with a formatted message.
func Networkf(format string, args ...interface{}) *Error {
	err := fmt.Errorf(format, args...)
	return &Error{Class: ClassNetwork, Message: err.Error(), Err: err}
}

// ClassOf returns the class of err, or ClassUnknown if err is not an *Error.
func ClassOf(err error) Class {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Class
	}
	return ClassUnknown
}
