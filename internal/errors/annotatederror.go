package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
)

// annotatedError includes more context than a plain error that is useful for troubleshooting.
type annotatedError struct {
	// msg is the error message.
	msg string
	// err is the wrapped error, nil for errors created with New.
	err error
	// pc is the program counter for the location of the error provided by runtime.Callers.
	pc uintptr
	// attrs are slog attributes that are added to the log event to provide more context for the error.
	attrs []slog.Attr
}

// New creates a new annotated error with the given message and attributes.
func New(msg string, attrs ...slog.Attr) error {
	var pcs [1]uintptr
	// Skip runtime.Callers and this function.
	runtime.Callers(2, pcs[:]) //nolint:mnd // see comment above
	return &annotatedError{
		msg:   msg,
		err:   nil,
		pc:    pcs[0],
		attrs: attrs,
	}
}

// NewSentinel creates a plain error without other context that can be used as sentinel error that can be detected
// with errors.Is.
func NewSentinel(msg string) error {
	return errors.New(msg)
}

// Wrap adds context to err. The returned error matches err with [Is] and [As].
//
// Wrap returns nil if err is nil.
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	var pcs [1]uintptr
	runtime.Callers(2, pcs[:]) //nolint:mnd // skip runtime.Callers and this function
	return &annotatedError{
		msg:   msg,
		err:   err,
		pc:    pcs[0],
		attrs: attrs,
	}
}

// Error implements error interface.
func (e *annotatedError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return fmt.Sprintf("%s: %s", e.msg, e.err.Error())
}

// Unwrap exposes the wrapped error to errors.Is and errors.As.
func (e *annotatedError) Unwrap() error {
	return e.err
}

// source returns the file:line where the error was created.
func (e *annotatedError) source() string {
	frames := runtime.CallersFrames([]uintptr{e.pc})
	frame, _ := frames.Next()
	return fmt.Sprintf("%s:%d", frame.File, frame.Line)
}

// LogValue formats the error for useful logging.
//
// The attributes of all annotated errors in the chain are collected so that context added at any level ends up in
// the log event. The source is the location of the innermost annotated error.
func (e *annotatedError) LogValue() slog.Value {
	var (
		attrs  []slog.Attr
		source string
		err    error = e
	)
	for err != nil {
		var annotated *annotatedError
		if !errors.As(err, &annotated) {
			break
		}
		source = annotated.source()
		attrs = append(attrs, annotated.attrs...)
		err = annotated.err
	}

	attrs = append([]slog.Attr{
		slog.String("message", e.Error()),
		slog.String("source", source),
	}, attrs...)
	return slog.GroupValue(attrs...)
}

// SlogError returns an attribute for logging err under the "error" key.
func SlogError(err error) slog.Attr {
	var annotated *annotatedError
	if errors.As(err, &annotated) {
		return slog.Any("error", annotated)
	}
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.String("error", err.Error())
}

// As exposes stdlib errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Is exposes stdlib errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Unwrap exposes stdlib errors.Unwrap.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// Join exposes stdlib errors.Join.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
