package model

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is returned when required input is missing.
	ErrValidation = errors.New("validation failed")

	// ErrTransport is returned on network failure or a non-2xx response.
	ErrTransport = errors.New("transport failed")

	// ErrDecode is returned for a malformed geometry token.
	ErrDecode = errors.New("malformed polyline")

	// ErrOutOfRange is returned when a route index is not in the current set.
	ErrOutOfRange = errors.New("route index out of range")

	// ErrSuperseded is returned when a response arrives after a newer query reset the view.
	ErrSuperseded = errors.New("query superseded")
)

// GenericRouteFailure is shown when the service gave no message of its own.
const GenericRouteFailure = "An error occurred while finding the safe path."

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

type TransportError struct {
	Endpoint   string
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s request failed: %v", e.Endpoint, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s returned status %d: %s", e.Endpoint, e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("%s returned status %d", e.Endpoint, e.StatusCode)
	}
}

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

func (e *TransportError) Unwrap() error { return e.Err }

// UserMessage is the text surfaced to the user for this failure.
func (e *TransportError) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return GenericRouteFailure
}

type DecodeError struct {
	Offset int
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("malformed polyline at byte %d: %s", e.Offset, e.Reason)
}

func (e *DecodeError) Unwrap() error { return ErrDecode }

type OutOfRangeError struct {
	Index int
	Len   int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("route index %d out of range [0,%d)", e.Index, e.Len)
}

func (e *OutOfRangeError) Unwrap() error { return ErrOutOfRange }
