package services

import "errors"

type ErrorKind string

const (
	KindBadRequest   ErrorKind = "BAD_REQUEST"
	KindUnauthorized ErrorKind = "UNAUTHORIZED"
	KindNotFound     ErrorKind = "NOT_FOUND"
	KindConflict     ErrorKind = "CONFLICT"
)

// Error is a business-rule failure that is safe to show to the caller.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// ValidationError reports malformed or incomplete input.
func ValidationError(msg string) *Error {
	return newError(KindBadRequest, msg)
}

var (
	ErrUnauthorized      = newError(KindUnauthorized, "unauthorized")
	ErrNotFound          = newError(KindNotFound, "not found")
	ErrUserNotFound      = newError(KindNotFound, "user not found")
	ErrPasscodeNotFound  = newError(KindNotFound, "Passcode not found")
	ErrPairNotFound      = newError(KindNotFound, "pair not found")
	ErrRegistryNotFound  = newError(KindNotFound, "student is not in the registry")
	ErrAlreadyUsed       = newError(KindBadRequest, "Passcode already used")
	ErrAlreadyRegistered = newError(KindBadRequest, "already registered")
	ErrAlreadyPaired     = newError(KindBadRequest, "freshman is already paired")
	ErrHintsAlreadySet   = newError(KindBadRequest, "Hints already set")
	ErrNoMoreHints       = newError(KindBadRequest, "No more hints can revealed")
	ErrCannotReveal      = newError(KindBadRequest, "Cannot revealed hints")
	ErrNotEnoughPoints   = newError(KindBadRequest, "Not enough passcode points")
	ErrInsufficientResin = newError(KindBadRequest, "Not enough resin")
	ErrMissingSocial     = ValidationError("Require at least of the social media URLs")
	ErrConflict          = newError(KindConflict, "request conflicted with a concurrent update")
)

// KindOf returns the kind of a business error, or "" for anything else.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
