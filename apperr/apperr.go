package apperr

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Error kind names. Every failure raised anywhere in the assembler is
// normalized into one of these before it reaches the Handler.
const (
	ConfigurationError   = "ConfigurationError"
	FileReadError        = "FileReadError"
	ContentParseError    = "ContentParseError"
	PartialNotFoundError = "PartialNotFoundError"
	CyclicIncludeError   = "CyclicIncludeError"
	TemplateCompileError = "TemplateCompileError"
	TemplateRenderError  = "TemplateRenderError"
)

// Error is the structured failure record passed to user callbacks and
// printed to the console. Path is empty when no file is implicated.
type Error struct {
	Name    string
	Reason  string
	Message string
	Path    string

	cause error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Name, e.Message, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds an Error of the given kind.
func New(name, message string) *Error {
	return &Error{Name: name, Message: message}
}

// Wrap builds an Error of the given kind around an underlying cause,
// recording the cause text as the Reason.
func Wrap(name string, cause error, message string) *Error {
	e := &Error{Name: name, Message: message, cause: cause}
	if cause != nil {
		e.Reason = cause.Error()
	}
	return e
}

// WithPath attaches the offending file path and returns the error.
func (e *Error) WithPath(path string) *Error {
	e.Path = path
	return e
}

// exit is swapped out in tests.
var exit = os.Exit

// Handler is the single funnel every component routes failures through.
// Policy: a configured callback suppresses process termination; failing
// that, console logging suppresses it; failing both, the error is printed
// and the process exits non-zero.
type Handler struct {
	OnError   func(*Error)
	LogErrors bool

	// Out receives console diagnostics. Defaults to os.Stderr.
	Out io.Writer
}

func (h *Handler) Handle(err error) {
	if err == nil {
		return
	}
	var ae *Error
	if !errors.As(err, &ae) {
		ae = &Error{Name: ContentParseError, Message: err.Error()}
	}

	if h.OnError != nil {
		h.OnError(ae)
		if h.LogErrors {
			h.print(ae)
		}
		return
	}
	if h.LogErrors {
		h.print(ae)
		return
	}
	h.print(ae)
	exit(1)
}

func (h *Handler) print(ae *Error) {
	out := h.Out
	if out == nil {
		out = os.Stderr
	}
	fmt.Fprintf(out, "error: %s\n", ae.Error())
	if ae.Reason != "" {
		fmt.Fprintf(out, "  reason: %s\n", ae.Reason)
	}
}
