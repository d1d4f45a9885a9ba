package authz

import "errors"

// Code is a stable category for programmatic error handling.
//
// Every authorization code is recoverable by resubmitting a corrected
// signature set; the wallet nonce is untouched by a rejected validation.
// Callers should branch on Code rather than matching error strings.
type Code string

const (
	CodeInvalidOwnerSignature     Code = "InvalidOwnerSignature"
	CodeDuplicateOrUnsortedSigner Code = "DuplicateOrUnsortedSigner"
	CodeUnknownOrInactiveGuardian Code = "UnknownOrInactiveGuardian"
	CodeQuorumNotMet              Code = "QuorumNotMet"
)

// Error is an authorization rejection.
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

func reject(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// CodeOf returns the stable Code for an authorization error, or "" if err is
// not an authorization rejection.
func CodeOf(err error) Code {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Code
}
