package homework

import (
	"errors"
	"fmt"
)

// Response validation errors.
var (
	ErrNotAMapping           = errors.New("api response is not a JSON object")
	ErrHomeworksMissing      = errors.New(`api response has no "homeworks" key`)
	ErrHomeworksNotASequence = errors.New(`api response field "homeworks" is not a list`)
	ErrMalformedRecord       = errors.New("malformed homework record")
)

// ErrNoHomeworks is returned when the API reports no submissions in the poll window.
var ErrNoHomeworks = errors.New("no homeworks in the poll window")

// MissingFieldError reports a homework record without a required field.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("homework record has no %q field", e.Field)
}

// UnknownStatusError reports a status code absent from Verdicts.
type UnknownStatusError struct {
	Status string
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("unknown homework status %q", e.Status)
}
