package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies service failures so the HTTP boundary can map them
// to status codes without string matching.
type ErrorKind int

const (
	KindPreconditionFailed ErrorKind = iota // monitoring not running
	KindConflict                            // source mode mismatch / job already active
	KindInvalidArgument                     // bad mode value, bad limit
	KindNotFound                            // unknown job id
	KindUnsupportedFormat                   // unknown upload extension
	KindParse                               // malformed upload content
	KindClassification                      // oracle failure
)

// ServiceError carries a kind plus a caller-facing message.
type ServiceError struct {
	Kind    ErrorKind
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// HTTPStatus returns the status code this error maps to at the boundary.
func (e *ServiceError) HTTPStatus() int {
	switch e.Kind {
	case KindPreconditionFailed:
		return 409
	case KindConflict:
		return 423
	case KindInvalidArgument:
		return 400
	case KindNotFound:
		return 404
	default:
		return 500
	}
}

func newError(kind ErrorKind, format string, args ...interface{}) *ServiceError {
	return &ServiceError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind of a service error. The second return is false
// for plain errors.
func KindOf(err error) (ErrorKind, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return 0, false
}
