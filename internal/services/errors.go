package services

import (
	"errors"
	"fmt"

	"github.com/hoshichaam/authportal/pkg/validator"
)

// ValidationError blocks a submit before any network call.
type ValidationError struct {
	Fields validator.FieldErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

// RejectedError is a non-OK answer from the auth service. Message is the
// server's own text and may be empty.
type RejectedError struct {
	Status  int
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("auth service rejected request: status=%d", e.Status)
	}
	return fmt.Sprintf("auth service rejected request: status=%d message=%q", e.Status, e.Message)
}

var (
	// ErrNetwork covers transport failures and malformed responses.
	ErrNetwork = errors.New("auth service unreachable")
	// ErrEmailInUse is the availability check saying no.
	ErrEmailInUse = errors.New("email address already in use")
	// ErrWrongStep is returned when a wizard action does not fit the current step.
	ErrWrongStep = errors.New("wizard is not on that step")
	// ErrBusy means the visitor already has a request in flight.
	ErrBusy = errors.New("request already in flight")
)

func networkError(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrNetwork, err)
}
