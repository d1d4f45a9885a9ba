package wallet

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Code is a stable category for programmatic error handling.
//
// Callers should branch on Code rather than matching error strings; Error()
// text is for humans and may evolve. Every code here is caller-correctable:
// the directory state is untouched by a failed call.
type Code string

const (
	CodeAlreadyPending   Code = "AlreadyPending"
	CodeAlreadyActive    Code = "AlreadyActive"
	CodeNotPending       Code = "NotPending"
	CodeNotActive        Code = "NotActive"
	CodeTooEarly         Code = "TooEarly"
	CodeSelfConfirmation Code = "SelfConfirmation"
)

// StateError is a guardian lifecycle violation.
type StateError struct {
	Code    Code
	Address common.Address
	Message string
}

func (e *StateError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("guardian %s: %s", e.Address.Hex(), e.Message)
}

func stateErr(code Code, addr common.Address, msg string) error {
	return &StateError{Code: code, Address: addr, Message: msg}
}

// CodeOf returns the stable Code for a directory error, or "" if unknown.
func CodeOf(err error) Code {
	var e *StateError
	if !errors.As(err, &e) {
		return ""
	}
	return e.Code
}
