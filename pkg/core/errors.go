// Package core defines the error taxonomy shared by the adapters, the
// session orchestrator, and the HTTP boundary.
package core

import "fmt"

// ErrorKind categorizes failures by the component that produced them.
type ErrorKind string

const (
	ErrUploadRejected  ErrorKind = "upload_rejected"
	ErrParseFailure    ErrorKind = "parse_failure"
	ErrAgentBind       ErrorKind = "agent_bind_failure"
	ErrNoSession       ErrorKind = "no_session_active"
	ErrTranscription   ErrorKind = "transcription_failure"
	ErrAgentInvocation ErrorKind = "agent_invocation_failure"
	ErrSynthesis       ErrorKind = "synthesis_failure"
	ErrUnexpected      ErrorKind = "unexpected"
)

// Error is a typed failure. Message is the short, user-visible sentence the
// transport layer surfaces; Err is the underlying cause, if any.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind.
func New(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an error of the given kind around an underlying cause. The
// cause's message is appended to keep the wire error human-readable.
func Wrap(kind ErrorKind, message string, err error) *Error {
	if err != nil && message != "" {
		message = fmt.Sprintf("%s: %v", message, err)
	} else if err != nil {
		message = err.Error()
	}
	return &Error{Kind: kind, Message: message, Err: err}
}

// NewUploadRejected reports a request the transport refused before any
// parsing happened (missing part, empty filename, wrong extension).
func NewUploadRejected(message string) *Error {
	return New(ErrUploadRejected, message)
}

// NewNoSession reports a query against a session with no loaded table.
func NewNoSession() *Error {
	return New(ErrNoSession, "No CSV file loaded. Please upload a CSV first.")
}
