package todo

import (
	"errors"
	"fmt"
)

// NotFoundError reports a missing record. Authorization failures are
// reported with this kind as well; missing and not-authorized are
// deliberately indistinguishable to callers.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string {
	return e.Msg
}

// NotFoundf builds a NotFoundError from a format string.
func NotFoundf(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Msg: fmt.Sprintf(format, args...)}
}

// InvalidInputError reports a payload that failed validation.
type InvalidInputError struct {
	Msg string
}

func (e *InvalidInputError) Error() string {
	return e.Msg
}

// InvalidInputf builds an InvalidInputError from a format string.
func InvalidInputf(format string, args ...interface{}) *InvalidInputError {
	return &InvalidInputError{Msg: fmt.Sprintf(format, args...)}
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsInvalidInput reports whether err is an InvalidInputError.
func IsInvalidInput(err error) bool {
	var ii *InvalidInputError
	return errors.As(err, &ii)
}
