// Package domainerrors provides coded error values for the registry domain.
//
// Every failure the registry can produce is one of the codes below. Services
// construct these with New/Wrap; transports translate codes to their own
// status vocabulary with HTTPStatus. Callers branch on codes via HasCode,
// never on message text.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a failure class. Codes are part of the external contract:
// they appear in API responses and audit records.
type Code string

// Registry failure codes. AlreadyRegistered is deliberately shared by three
// duplicate conditions (existing identity, claimed DID, linked credential);
// callers that need to distinguish them already know which operation failed.
const (
	CodeNotAuthorized          Code = "not_authorized"
	CodeAlreadyRegistered      Code = "already_registered"
	CodeNotRegistered          Code = "not_registered"
	CodeInvalidDID             Code = "invalid_did"
	CodeCredentialLimitReached Code = "credential_limit_reached"
	CodeInvalidCredentialID    Code = "invalid_credential_id"
	CodePaused                 Code = "paused"
	CodeZeroAddress            Code = "zero_address"
	CodeCredentialNotFound     Code = "credential_not_found"
	CodeInvalidUpdate          Code = "invalid_update"
)

// Ambient codes used by infrastructure and transports.
const (
	CodeBadRequest   Code = "bad_request"
	CodeUnauthorized Code = "unauthorized"
	CodeNotFound     Code = "not_found"
	CodeInternal     Code = "internal_error"
)

// Error is a coded domain error. It optionally wraps an underlying cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is lets errors.Is match coded errors by value, so callers can compare
// against a freshly constructed one instead of a shared sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// New constructs a coded error with no underlying cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is an alias of HasCode kept for call-site readability.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf extracts the code from an error, defaulting to CodeInternal for
// anything uncoded.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// HTTPStatus maps a code to the HTTP status the transport layer responds with.
func HTTPStatus(code Code) int {
	switch code {
	case CodeNotAuthorized:
		return http.StatusForbidden
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeAlreadyRegistered:
		return http.StatusConflict
	case CodeNotRegistered, CodeCredentialNotFound, CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidDID, CodeInvalidCredentialID, CodeInvalidUpdate, CodeZeroAddress, CodeBadRequest:
		return http.StatusBadRequest
	case CodeCredentialLimitReached:
		return http.StatusUnprocessableEntity
	case CodePaused:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
