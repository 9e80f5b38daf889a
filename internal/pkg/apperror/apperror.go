package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies a domain failure. The HTTP mapping happens once, in the
// server error-handler middleware, never inside services.
type Kind string

const (
	KindDuplicateEmail       Kind = "DUPLICATE_EMAIL"
	KindWeakPassword         Kind = "WEAK_PASSWORD"
	KindInvalidCredentials   Kind = "INVALID_CREDENTIALS"
	KindInvalidOrExpiredCode Kind = "INVALID_OR_EXPIRED_CODE"
	KindInvalidToken         Kind = "INVALID_TOKEN"
	KindInvalidSessionAccess Kind = "INVALID_SESSION_ACCESS"
	KindNotFound             Kind = "NOT_FOUND"
	KindUnauthorized         Kind = "UNAUTHORIZED"
	KindValidationFailed     Kind = "VALIDATION_FAILED"
	KindExternalService      Kind = "EXTERNAL_SERVICE_ERROR"
	KindUnexpected           Kind = "UNEXPECTED"
)

type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from any error in the chain, defaulting to
// KindUnexpected for plain errors.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnexpected
}

// StatusCode maps an error kind to its HTTP status.
func StatusCode(err error) int {
	switch KindOf(err) {
	case KindDuplicateEmail, KindWeakPassword, KindValidationFailed, KindInvalidOrExpiredCode:
		return 400
	case KindInvalidCredentials, KindInvalidToken, KindUnauthorized:
		return 401
	case KindInvalidSessionAccess:
		return 403
	case KindNotFound:
		return 404
	case KindExternalService:
		return 502
	default:
		return 500
	}
}

// ClientMessage returns the message safe to surface. Unexpected errors get a
// generic message so internals never leak.
func ClientMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Kind != KindUnexpected {
		return appErr.Message
	}
	return "An unexpected error occurred"
}

func Newf(kind Kind, format string, args ...interface{}) *AppError {
	return &AppError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
