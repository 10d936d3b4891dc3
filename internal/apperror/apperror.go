package apperror

import "errors"

type Kind string

const (
	Conflict        Kind = "conflict"
	Unauthorized    Kind = "unauthorized"
	NotFound        Kind = "not_found"
	TooManyRequests Kind = "too_many_requests"
	Internal        Kind = "internal"
)

// Code is a machine-readable tag carried alongside the message. Only
// token-verification failures set one; clients use it to decide between a
// silent refresh and a forced re-login.
type Code string

const (
	CodeTokenExpired Code = "token_expired"
	CodeInvalidToken Code = "invalid_token"
)

// Error is the single classified-failure value every flow returns. The
// boundary layer owns the one mapping from Kind to transport status.
type Error struct {
	Kind    Kind
	Message string
	Code    Code
}

func (e *Error) Error() string {
	return e.Message
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) WithCode(code Code) *Error {
	e.Code = code
	return e
}

// From unwraps err into a classified Error, reporting whether it is one.
func From(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
