package errors

import stderrors "errors"

// Error is the domain error type with a machine-readable code.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Caller-facing message
	Cause   error  // Wrapped underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a simple domain error with a code and message.
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a domain error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// GetCode extracts the code from the first domain error in err's chain.
// It returns CodeUnknown when no domain error is present.
func GetCode(err error) Code {
	var domainErr *Error
	if stderrors.As(err, &domainErr) {
		return domainErr.Code
	}
	return CodeUnknown
}

// Message returns the caller-facing message of the first domain error in
// err's chain, or err.Error() when there is none.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var domainErr *Error
	if stderrors.As(err, &domainErr) {
		return domainErr.Message
	}
	return err.Error()
}

// CallerFacing hides err's cause chain from its text: Error returns
// Message(err) while errors.Is and errors.As still see the full chain.
// It returns nil for a nil err.
func CallerFacing(err error) error {
	if err == nil {
		return nil
	}
	return callerFacingError{err: err}
}

type callerFacingError struct {
	err error
}

func (e callerFacingError) Error() string { return Message(e.err) }

func (e callerFacingError) Unwrap() error { return e.err }

// Sentinels for errors.Is checks by code.
var (
	ErrBadRequest          = New(CodeBadRequest, "bad request")
	ErrUnknownSession      = New(CodeUnknownSession, "unknown session")
	ErrCollaboratorFailure = New(CodeCollaboratorFailure, "collaborator failure")
	ErrTransportFatal      = New(CodeTransportFatal, "transport failure")
)
