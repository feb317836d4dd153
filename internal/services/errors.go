package services

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindAuth
	KindInvalidOrExpired
)

// Code is the machine-readable name of the kind used in response bodies
// and metric labels.
func (k Kind) Code() string {
	switch k {
	case KindValidation:
		return "validation_error"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindAuth:
		return "auth_error"
	case KindInvalidOrExpired:
		return "invalid_or_expired"
	default:
		return "internal_error"
	}
}

// Error is a classified account failure. Message is safe to show to callers;
// Err, if set, is the underlying cause and is only logged.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

var (
	ErrMissingFields       = &Error{Kind: KindValidation, Message: "Please fill in all fields"}
	ErrEmailTaken          = &Error{Kind: KindConflict, Message: "User already exists"}
	ErrMissingToken        = &Error{Kind: KindValidation, Message: "Invalid token"}
	ErrVerificationUnknown = &Error{Kind: KindNotFound, Message: "User not found or already verified"}
	ErrMissingCredentials  = &Error{Kind: KindValidation, Message: "Email and password are required"}
	ErrUserNotFound        = &Error{Kind: KindNotFound, Message: "User not found"}
	ErrInvalidPassword     = &Error{Kind: KindAuth, Message: "Invalid password"}
	ErrNotVerified         = &Error{Kind: KindAuth, Message: "User is not verified"}
	ErrEmailRequired       = &Error{Kind: KindValidation, Message: "Email is required"}
	ErrMissingResetInput   = &Error{Kind: KindValidation, Message: "Please provide both password and reset token"}
	ErrInvalidResetToken   = &Error{Kind: KindInvalidOrExpired, Message: "Invalid or expired password reset token"}
	ErrPasswordTooLong     = &Error{Kind: KindValidation, Message: "Password must be at most 72 bytes"}
)

func internalError(op string, err error) error {
	return &Error{Kind: KindInternal, Message: "Internal Server Error", Err: fmt.Errorf("%s: %w", op, err)}
}

// KindOf classifies err. Anything that is not an *Error is internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// PublicMessage is the text that may be returned to a caller for err.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return "Internal Server Error"
}
