package services

import "errors"

// ErrorKind classifies a domain failure so the API boundary can pick a
// status code without inspecting message strings.
type ErrorKind int

const (
	KindInvalidInput ErrorKind = iota
	KindConflict
	KindNotFound
	KindUnauthorized
)

// Error is a typed domain failure. Message is safe to show to the
// caller: it never distinguishes "absent" from "owned by someone else"
// and never says whether a username or a password was wrong.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func invalidInput(msg string) *Error {
	return &Error{Kind: KindInvalidInput, Message: msg}
}

func conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func notFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

// KindOf returns the kind of a domain error, or false for unexpected
// errors (DB failures and the like), which map to a generic 500.
func KindOf(err error) (ErrorKind, bool) {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind, true
	}
	return 0, false
}
