package zhipu

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed call.
type Kind string

const (
	KindInvalidCredential Kind = "invalid_credential_format"
	KindTokenSigning      Kind = "token_signing_failure"
	KindTransport         Kind = "transport_failure"
	KindUnexpectedStatus  Kind = "unexpected_status"
	KindUnexpectedBody    Kind = "unexpected_body"
	KindInvalidPrompt     Kind = "invalid_prompt"
)

// Error is a classified failure of a chat-completion call.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int    // set for KindUnexpectedStatus
	Body       []byte // raw response body, when one was received
	Err        error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether the failure is transient. Nothing in this
// package retries; callers may use it to decide.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindTransport:
		return true
	case KindUnexpectedStatus:
		return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
	default:
		return false
	}
}

// AuthRejected reports whether the API refused the bearer token.
func (e *Error) AuthRejected() bool {
	return e.Kind == KindUnexpectedStatus &&
		(e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
}

// KindOf returns the Kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// IsAuthFailure reports whether no token could be produced for the call.
func IsAuthFailure(err error) bool {
	k := KindOf(err)
	return k == KindInvalidCredential || k == KindTokenSigning
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
