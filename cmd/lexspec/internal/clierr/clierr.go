// Package clierr maps command failures to process exit codes.
package clierr

import (
	"gitlab.com/tozd/go/errors"
)

// Process exit codes.
const (
	CodeFailure  = 1
	CodeInput    = 2
	CodeFindings = 3
)

// Error attaches an exit code to the error that ended a command.
type Error struct {
	Code int
	Err  error
}

func (e *Error) Error() string { return e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// Wrap annotates err with what the command was doing and the code to exit
// with. A nil err stays nil.
func Wrap(code int, err error, doing string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Err: errors.Errorf("%s: %w", doing, err)}
}

// Newf builds a fresh error that exits with code.
func Newf(code int, format string, args ...any) error {
	return &Error{Code: code, Err: errors.Errorf(format, args...)}
}

// Code returns the exit code for err: 0 for nil, the attached code when
// there is one, CodeFailure otherwise.
func Code(err error) int {
	if err == nil {
		return 0
	}
	var e *Error
	if errors.As(err, &e) && e.Code > 0 {
		return e.Code
	}
	return CodeFailure
}
