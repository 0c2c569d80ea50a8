package evaluations

import (
	"errors"
	"net/http"
)

// Kind is the stable error category surfaced to callers.
type Kind string

const (
	KindValidation        Kind = "VALIDATION_ERROR"
	KindInvalidIdentifier Kind = "INVALID_IDENTIFIER"
	KindGeneration        Kind = "GENERATION_ERROR"
	KindMalformedAnalysis Kind = "MALFORMED_ANALYSIS"
	KindState             Kind = "STATE_ERROR"
	KindInsufficientData  Kind = "INSUFFICIENT_DATA"
	KindUnavailable       Kind = "UNAVAILABLE"
	KindConflict          Kind = "CONFLICT"
	KindInternal          Kind = "INTERNAL_ERROR"
)

// Error is returned by every Service operation.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func newError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, ErrState) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrValidation        = &Error{Kind: KindValidation}
	ErrInvalidIdentifier = &Error{Kind: KindInvalidIdentifier}
	ErrGeneration        = &Error{Kind: KindGeneration}
	ErrMalformedAnalysis = &Error{Kind: KindMalformedAnalysis}
	ErrState             = &Error{Kind: KindState}
	ErrInsufficientData  = &Error{Kind: KindInsufficientData}
	ErrUnavailable       = &Error{Kind: KindUnavailable}
	ErrConflict          = &Error{Kind: KindConflict}
)

// KindOf returns the kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// HTTPStatus maps a kind to its response status.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindInvalidIdentifier:
		return http.StatusUnprocessableEntity
	case KindGeneration, KindMalformedAnalysis:
		return http.StatusBadGateway
	case KindState, KindInsufficientData, KindConflict:
		return http.StatusConflict
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
