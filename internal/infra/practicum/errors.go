package practicum

import (
	"errors"
	"fmt"
)

// ErrMalformedBody is returned when a 200 response does not carry JSON.
var ErrMalformedBody = errors.New("practicum api returned a non-JSON body")

// NetworkError wraps a transport failure (DNS, refused connection, timeout).
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("practicum api request failed: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServiceDenialError is returned when the API answers with an error object,
// e.g. code "UnknownError" for bad params or "not_authenticated" for a bad token.
type ServiceDenialError struct {
	Code string
}

func (e *ServiceDenialError) Error() string {
	switch e.Code {
	case "UnknownError":
		return fmt.Sprintf("practicum api denied request: %s, check request params", e.Code)
	case "not_authenticated":
		return fmt.Sprintf("practicum api denied request: %s, check authorization header", e.Code)
	default:
		return fmt.Sprintf("practicum api denied request: %s", e.Code)
	}
}

// BadStatusError is returned for any HTTP status other than 200.
type BadStatusError struct {
	StatusCode int
}

func (e *BadStatusError) Error() string {
	return fmt.Sprintf("practicum api returned status %d", e.StatusCode)
}
