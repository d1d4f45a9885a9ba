package relay

import (
	"errors"
	"fmt"
)

// Code is a stable category for programmatic error handling of relay
// failures.
//
// Replay codes are fatal to the specific request and must never be retried
// automatically with the same payload. ForbiddenTarget is likewise
// unrecoverable for the payload: no signature set can make it executable.
type Code string

const (
	CodeNonceAlreadyUsed Code = "NonceAlreadyUsed"
	CodeNonceMismatch    Code = "NonceMismatch"
	CodeForbiddenTarget  Code = "ForbiddenTarget"
)

// Error is a relay-level rejection. Authorization rejections are surfaced
// unchanged as *authz.Error; see authz.CodeOf.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

func relayErr(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf returns the stable Code for a relay error, or "" if err is not a
// relay rejection.
func CodeOf(err error) Code {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Code
}
