package app

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest marks a comparison request that failed validation.
	ErrInvalidRequest = errors.New("invalid comparison request")

	// ErrEmptyResponse is returned when a side answered with a blank body.
	ErrEmptyResponse = errors.New("empty response body")
)

// ErrorKind classifies why a comparison run failed.
type ErrorKind string

const (
	KindInvalidRequest ErrorKind = "invalid_request"
	KindTransport      ErrorKind = "transport"
	KindEmptyResponse  ErrorKind = "empty_response"
	KindPersistence    ErrorKind = "persistence"
)

// Side names which endpoint an error belongs to.
type Side string

const (
	SideSource Side = "source"
	SideTarget Side = "target"
)

// ComparisonError is returned by Orchestrator.Run for every failed run.
type ComparisonError struct {
	Kind ErrorKind
	Side Side // empty when the failure is not tied to one endpoint
	Err  error
}

func (e *ComparisonError) Error() string {
	if e.Side != "" {
		return fmt.Sprintf("%s (%s): %v", e.Kind, e.Side, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *ComparisonError) Unwrap() error { return e.Err }

// KindOf returns the kind of a *ComparisonError anywhere in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var ce *ComparisonError
	if errors.As(err, &ce) {
		return ce.Kind, true
	}
	return "", false
}
