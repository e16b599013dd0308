// Package analysis computes ETF growth, dividend and overlap metrics.
package analysis

import (
	"errors"
	"fmt"
)

// ErrorKind tags why a metric could not be produced
type ErrorKind int

const (
	// KindDataUnavailable means no usable price or dividend history
	KindDataUnavailable ErrorKind = iota + 1
	// KindAPI means the comparison endpoint failed or returned nothing
	KindAPI
	// KindComputation means the arithmetic on fetched data failed
	KindComputation
)

func (k ErrorKind) String() string {
	switch k {
	case KindDataUnavailable:
		return "data unavailable"
	case KindAPI:
		return "api error"
	case KindComputation:
		return "computation error"
	default:
		return "unknown error"
	}
}

// Error is returned by every calculator in place of a result
type Error struct {
	Kind ErrorKind
	// Subject is the ticker or "ETF1/ETF2" pair the error is about
	Subject string
	// Status is the HTTP status for KindAPI errors caused by a response, 0 otherwise
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	switch {
	case msg == "" && e.Err != nil:
		msg = e.Err.Error()
	case e.Err != nil:
		msg += ": " + e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s (%s): status %d: %s", e.Kind, e.Subject, e.Status, msg)
	}
	return fmt.Sprintf("%s (%s): %s", e.Kind, e.Subject, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func kindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsNotFound reports whether err means the ticker has no data
func IsNotFound(err error) bool {
	return kindOf(err) == KindDataUnavailable
}

func IsAPIError(err error) bool {
	return kindOf(err) == KindAPI
}

func IsComputation(err error) bool {
	return kindOf(err) == KindComputation
}
