package tutor

import (
	"errors"
	"fmt"
	"time"
)

// Kind is the stable machine-readable failure category of a tutor operation.
type Kind string

const (
	KindUnauthenticated       Kind = "unauthenticated"
	KindAccessDenied          Kind = "access_denied"
	KindNotFound              Kind = "not_found"
	KindRateLimited           Kind = "rate_limited"
	KindGenerationUnavailable Kind = "generation_unavailable"
	KindInternal              Kind = "internal"
)

// Error carries the failure kind alongside a short human message. RetryAfter
// is set only for KindRateLimited.
type Error struct {
	Kind       Kind
	Message    string
	RetryAfter time.Duration
	cause      error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// AsError extracts a tutor *Error from an error chain.
func AsError(err error) (*Error, bool) {
	var te *Error
	ok := errors.As(err, &te)
	return te, ok
}

func errUnauthenticated() *Error {
	return &Error{Kind: KindUnauthenticated, Message: "sign in to use the tutor"}
}

func errAccessDenied() *Error {
	return &Error{Kind: KindAccessDenied, Message: "purchase required"}
}

func errNotFound(what string) *Error {
	return &Error{Kind: KindNotFound, Message: what + " not found"}
}

func errRateLimited(retryAfter time.Duration) *Error {
	return &Error{
		Kind:       KindRateLimited,
		Message:    "too many questions, please wait a moment",
		RetryAfter: retryAfter,
	}
}

func errGenerationUnavailable(cause error) *Error {
	return &Error{
		Kind:    KindGenerationUnavailable,
		Message: "Sorry — I couldn't generate a reply. Please try again.",
		cause:   cause,
	}
}

func errInternal(cause error) *Error {
	return &Error{Kind: KindInternal, Message: "something went wrong", cause: cause}
}
