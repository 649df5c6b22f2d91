package service

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned for records that do not exist or belong to
	// another user. The two cases are deliberately indistinguishable.
	ErrNotFound = errors.New("not found")

	// ErrNoDiaryData is returned when a report is requested for a user with
	// no meals and no symptoms.
	ErrNoDiaryData = errors.New("no meals or symptoms logged yet; log some data before generating a report")

	ErrEmailTaken         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// GenerationErrorKind classifies a failed report generation.
type GenerationErrorKind string

const (
	KindThrottled     GenerationErrorKind = "throttled"
	KindMisconfigured GenerationErrorKind = "misconfigured"
	KindGeneration    GenerationErrorKind = "generation"
)

// ThrottleRetryAfter is the wait suggested to the caller when the provider
// or the local limiter rejects a request.
const ThrottleRetryAfter = time.Minute

// GenerationError is a terminal failure of a report generation request.
type GenerationError struct {
	Kind       GenerationErrorKind
	Message    string
	RetryAfter time.Duration
	Err        error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func throttledError(err error) *GenerationError {
	return &GenerationError{
		Kind:       KindThrottled,
		Message:    "the AI provider is rate limiting requests; wait 1 minute and try again",
		RetryAfter: ThrottleRetryAfter,
		Err:        err,
	}
}

func misconfiguredError(err error) *GenerationError {
	return &GenerationError{
		Kind:    KindMisconfigured,
		Message: "report generation is not configured on the server",
		Err:     err,
	}
}

func generationError(msg string, err error) *GenerationError {
	return &GenerationError{
		Kind:    KindGeneration,
		Message: msg,
		Err:     err,
	}
}
