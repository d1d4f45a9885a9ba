package admin

import (
	"errors"
	"fmt"
)

// Code identifies why a submission was rejected by the group.
type Code string

const (
	CodeUnknownMember   Code = "UnknownMember"
	CodeDuplicateMember Code = "DuplicateMember"
	CodeThresholdNotMet Code = "ThresholdNotMet"
)

// Error is a structured group-verification failure.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("admin: %s: %s", e.Code, e.Message)
}

func groupErr(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the Code from err, or "" if err is not a group error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
