package domain

import (
	"errors"
	"fmt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")

// ErrSessionResolution is returned when a structurally valid token refers
// to a user record that no longer exists.
var ErrSessionResolution = errors.New("session cannot be resolved")

var ErrForbidden = errors.New("access forbidden")
var ErrInvalidRole = errors.New("invalid role")

var ErrSeasonNotFound = errors.New("season not found")
var ErrCardNotFound = errors.New("card not found")

// ErrInvalidCardAssociation is returned when an attempt references a card
// that does not belong to the given season.
var ErrInvalidCardAssociation = errors.New("card does not belong to season")

// ErrAttemptRecording marks a domain validation failure while recording an
// attempt, as opposed to an infrastructure failure.
var ErrAttemptRecording = errors.New("attempt cannot be recorded")

// ErrContestantNotFound is returned only when a contestant name matches no
// attempt anywhere in the log. A known contestant with zero attempts under
// a season filter is a valid empty result, not this error.
var ErrContestantNotFound = errors.New("contestant not found")

// InfrastructureError wraps a store or network failure. The cause is
// retained for diagnostics but never rendered to the caller verbatim.
type InfrastructureError struct {
	Op  string
	Err error
}

func (e *InfrastructureError) Error() string {
	return fmt.Sprintf("infrastructure failure: %s: %v", e.Op, e.Err)
}

func (e *InfrastructureError) Unwrap() error { return e.Err }

// Infra wraps err as an InfrastructureError unless it already carries a
// domain meaning (sentinel errors pass through untouched).
func Infra(op string, err error) error {
	if err == nil {
		return nil
	}
	var ie *InfrastructureError
	if errors.As(err, &ie) {
		return err
	}
	for _, sentinel := range []error{
		ErrInvalidCredentials, ErrUserNotFound, ErrUserExists,
		ErrSessionResolution, ErrForbidden, ErrInvalidRole,
		ErrSeasonNotFound, ErrCardNotFound,
		ErrInvalidCardAssociation, ErrAttemptRecording, ErrContestantNotFound,
	} {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	return &InfrastructureError{Op: op, Err: err}
}
