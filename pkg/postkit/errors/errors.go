// Package errors provides domain-specific error types for postkit
package errors

import (
	"errors"
	"fmt"
)

// Standard errors that can be used with errors.Is()
var (
	// ErrInvalidConfig indicates bad or missing initialization configuration
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnknownProvider indicates an unrecognized model provider id.
	// It is a configuration error, so it also matches ErrInvalidConfig.
	ErrUnknownProvider = fmt.Errorf("%w: unknown provider", ErrInvalidConfig)

	// ErrAuthentication indicates a missing or rejected credential
	ErrAuthentication = errors.New("authentication failed")

	// ErrFetch indicates the context document could not be retrieved
	ErrFetch = errors.New("context fetch failed")

	// ErrConversion indicates the fetched document could not be converted to text
	ErrConversion = errors.New("document conversion failed")

	// ErrBadTemplate indicates the prompt template references an unrecognized placeholder
	ErrBadTemplate = errors.New("malformed prompt template")

	// ErrEmptyResponse indicates the provider returned no candidates
	ErrEmptyResponse = errors.New("empty provider response")

	// ErrInvalidRequest indicates a malformed generation request
	ErrInvalidRequest = errors.New("invalid generation request")
)

// StageError wraps a pipeline failure with the stage and operation that produced it
type StageError struct {
	// Stage is the pipeline stage (e.g. "fetch", "compose", "generate")
	Stage string

	// Operation being performed (e.g. "get", "substitute", "complete")
	Op string

	// Underlying error
	Err error
}

// Error implements the error interface
func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Stage, e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *StageError) Unwrap() error {
	return e.Err
}

// New creates a new StageError
func New(stage, op string, err error) error {
	return &StageError{
		Stage: stage,
		Op:    op,
		Err:   err,
	}
}

// Wrap adds stage context to an existing error, passing nil through
func Wrap(err error, stage, op string) error {
	if err == nil {
		return nil
	}
	return &StageError{
		Stage: stage,
		Op:    op,
		Err:   err,
	}
}

// Is enables matching on stage and operation fields
func (e *StageError) Is(target error) bool {
	if errors.Is(e.Err, target) {
		return true
	}

	t, ok := target.(*StageError)
	if !ok {
		return false
	}

	if t.Stage != "" && t.Stage != e.Stage {
		return false
	}
	if t.Op != "" && t.Op != e.Op {
		return false
	}

	if t.Stage != "" || t.Op != "" {
		return true
	}

	return errors.Is(e.Err, t.Err)
}

// Stage returns the stage recorded on err, or "" if err carries none
func Stage(err error) string {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}
