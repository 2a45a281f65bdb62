package blog

import (
	"errors"
	"fmt"
)

// Kind classifies workflow errors so the HTTP layer can map them.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindAuthorization
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not found"
	default:
		return "unknown"
	}
}

// Error is a user-facing workflow error. Message is the primary message;
// Details carries every message when more than one check failed.
type Error struct {
	Kind    Kind
	Message string
	Details []string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same Kind, so errors.Is(err, ErrNotFound)
// works for every not-found error regardless of message.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// Messages returns every message carried by the error.
func (e *Error) Messages() []string {
	if len(e.Details) > 0 {
		return e.Details
	}
	return []string{e.Message}
}

// Sentinels for errors.Is.
var (
	ErrValidation    = &Error{Kind: KindValidation, Message: "validation error"}
	ErrAuthorization = &Error{Kind: KindAuthorization, Message: "not authorized"}
	ErrNotFound      = &Error{Kind: KindNotFound, Message: "not found"}
)

// Validation builds a validation error. The first message becomes the
// primary one.
func Validation(msgs ...string) *Error {
	e := &Error{Kind: KindValidation, Message: "validation error"}
	if len(msgs) > 0 {
		e.Message = msgs[0]
	}
	if len(msgs) > 1 {
		e.Details = msgs
	}
	return e
}

// Unauthorized builds an authorization error.
func Unauthorized(msg string) *Error {
	return &Error{Kind: KindAuthorization, Message: msg}
}

// NotFound builds a not-found error.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// Messages extracts the user-facing messages from err, or nil when err is
// not a workflow error.
func Messages(err error) []string {
	var e *Error
	if errors.As(err, &e) {
		return e.Messages()
	}
	return nil
}
