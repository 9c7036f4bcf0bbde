// Package errs defines the error taxonomy shared by storage, workflow and
// service layers. Callers classify failures with KindOf rather than matching
// on message text.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an error for propagation to the caller.
type Kind uint8

const (
	// Internal is any failure that is not one of the classified kinds below.
	Internal Kind = iota
	// Validation means the input was malformed (negative amounts, empty reason, ...).
	Validation
	// InvalidState means the transition is not allowed from the current status.
	InvalidState
	// Authorization means the actor lacks the required role or org relationship.
	Authorization
	// NotFound means the referenced record does not exist (or must not be revealed).
	NotFound
	// Conflict means a storage-level guard failed because the record changed
	// between read and write.
	Conflict
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case InvalidState:
		return "invalid_state"
	case Authorization:
		return "authorization"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error is a classified error with a user-facing message.
type Error struct {
	Kind    Kind
	Message string
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

// Is lets errors.Is match on kind: errors.Is(err, &errs.Error{Kind: errs.NotFound}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == "" && t.Err == nil
}

func newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// ValidationError reports malformed input.
func ValidationError(format string, args ...any) error {
	return newf(Validation, format, args...)
}

// InvalidStateError reports a transition attempted from a status that does not permit it.
func InvalidStateError(format string, args ...any) error {
	return newf(InvalidState, format, args...)
}

// AuthorizationError reports a missing role or organization relationship.
func AuthorizationError(format string, args ...any) error {
	return newf(Authorization, format, args...)
}

// NotFoundError reports an unknown (or hidden) record.
func NotFoundError(format string, args ...any) error {
	return newf(NotFound, format, args...)
}

// ConflictError reports a failed concurrent-write guard.
func ConflictError(format string, args ...any) error {
	return newf(Conflict, format, args...)
}

// Wrap attaches a kind and message to an underlying error.
func Wrap(kind Kind, err error, message string) error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
