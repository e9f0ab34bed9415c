package operation

import (
	"errors"
	"fmt"
)

// Code classifies an operation error. Only the tracker's Pending loop
// is ever repeated; every code below surfaces to the caller as is.
type Code int

const (
	CodeValidation      Code = iota + 1 // required configuration or input missing
	CodeTransport                       // node or status endpoint unreachable
	CodeRemoteRejection                 // execution or signature returned status=false
	CodeOperationFailed                 // tracker observed Failed
	CodeUnknownStatus                   // tracker observed an unrecognised status
	CodeCancelled                       // caller aborted
	CodeConflict                        // same tracking key already in flight
)

func (c Code) String() string {
	switch c {
	case CodeValidation:
		return "ValidationError"
	case CodeTransport:
		return "TransportError"
	case CodeRemoteRejection:
		return "RemoteRejection"
	case CodeOperationFailed:
		return "OperationFailed"
	case CodeUnknownStatus:
		return "UnknownStatus"
	case CodeCancelled:
		return "Cancelled"
	case CodeConflict:
		return "Conflict"
	default:
		return fmt.Sprintf("Code(%d)", int(c))
	}
}

type Error struct {
	code    Code
	message string
	err     error
}

func NewError(code Code, message string, err error) *Error {
	return &Error{code: code, message: message, err: err}
}

func Errorf(code Code, format string, a ...any) *Error {
	return &Error{code: code, message: fmt.Sprintf(format, a...)}
}

func (e *Error) Code() Code {
	return e.code
}

func (e *Error) Message() string {
	return e.message
}

func (e *Error) Error() string {
	if e.err != nil && e.message == "" {
		return e.err.Error()
	}
	if e.err != nil {
		return fmt.Sprintf("%s: %s", e.message, e.err)
	}
	return e.message
}

func (e *Error) Unwrap() error {
	return e.err
}

// Is matches any operation error carrying the same code, so that
// errors.Is(err, ErrCancelled) holds however the error was wrapped.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.code == e.code
}

// Wrap prefixes the message while keeping the code, e.g.
// "failed to mint NFT: NFT mint failed".
func Wrap(err error, prefix string) error {
	if err == nil {
		return nil
	}

	var opErr *Error
	if errors.As(err, &opErr) {
		if opErr.code == CodeCancelled {
			return opErr
		}
		return &Error{code: opErr.code, message: prefix, err: opErr}
	}

	return &Error{code: CodeTransport, message: prefix, err: err}
}

// CodeOf returns the code of err, or 0 if err is not an operation error.
func CodeOf(err error) Code {
	var opErr *Error
	if errors.As(err, &opErr) {
		return opErr.code
	}
	return 0
}

var (
	ErrValidation      = &Error{code: CodeValidation, message: "validation error"}
	ErrTransport       = &Error{code: CodeTransport, message: "transport error"}
	ErrRemoteRejection = &Error{code: CodeRemoteRejection, message: "remote rejection"}
	ErrOperationFailed = &Error{code: CodeOperationFailed, message: "operation failed"}
	ErrUnknownStatus   = &Error{code: CodeUnknownStatus, message: "unknown status received"}
	ErrCancelled       = &Error{code: CodeCancelled, message: "operation cancelled"}
	ErrConflict        = &Error{code: CodeConflict, message: "operation already in flight"}
)
