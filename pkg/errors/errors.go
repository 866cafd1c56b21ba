// Package errors defines the typed failures that cross the service boundary.
//
// Every failure a caller can act on is an *Error with a Kind; the HTTP layer
// maps each Kind to exactly one status. Anything else is treated as internal.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindDomain
	KindWeakPassword
	KindDuplicateEmail
	KindDuplicateEnrollment
	KindNotFound
	KindUnverifiedAccount
	KindRoleMismatch
	KindForbidden
	KindNoToken
	KindInvalidToken
	KindInvalidCredentials
	KindPayloadTooLarge
	KindMissingFile
	KindMissingCourse
	KindEmptyName
	KindRateLimited
)

var kindNames = map[Kind]string{
	KindInternal:            "InternalError",
	KindValidation:          "ValidationError",
	KindDomain:              "DomainError",
	KindWeakPassword:        "WeakPasswordError",
	KindDuplicateEmail:      "DuplicateEmailError",
	KindDuplicateEnrollment: "DuplicateEnrollmentError",
	KindNotFound:            "NotFoundError",
	KindUnverifiedAccount:   "UnverifiedAccountError",
	KindRoleMismatch:        "RoleMismatchError",
	KindForbidden:           "ForbiddenError",
	KindNoToken:             "NoTokenError",
	KindInvalidToken:        "InvalidTokenError",
	KindInvalidCredentials:  "InvalidCredentialsError",
	KindPayloadTooLarge:     "PayloadTooLargeError",
	KindMissingFile:         "MissingFileError",
	KindMissingCourse:       "MissingCourseError",
	KindEmptyName:           "EmptyNameError",
	KindRateLimited:         "RateLimitedError",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is a typed, client-safe failure.
// Message is safe to show to clients; Err holds the optional cause and is
// only ever logged.
type Error struct {
	Kind    Kind
	Code    int
	Message string
	Err     error
}

// New declares a sentinel error.
func New(kind Kind, code int, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel this error was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code && e.Message == t.Message
}

// Wrap attaches a cause to a sentinel without changing its kind or message.
func (e *Error) Wrap(cause error) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: e.Message, Err: cause}
}

// WithMessage returns a copy of the sentinel's kind and code carrying a
// more specific client message.
func (e *Error) WithMessage(format string, args ...any) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: fmt.Sprintf(format, args...)}
}

// As extracts the *Error from an error chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of err, KindInternal for untyped errors.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindInternal
}
