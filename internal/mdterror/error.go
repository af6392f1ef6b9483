// Package mdterror contains the portable error model shared by the schema driver,
// the query wrappers and the connection layer. An Error carries a severity level,
// a dialect independent Code and a stack of causes, the innermost being usually
// the native error returned by the database driver.
package mdterror

import (
	"errors"
	"fmt"
	"strings"
)

// Level is the severity of an error.
type Level string

const (
	LevelWarning  Level = "warning"
	LevelError    Level = "error"
	LevelCritical Level = "critical"
)

// Code is the dialect independent classification of a failure.
type Code string

const (
	NoError               Code = "no_error"
	UnknownError          Code = "unknown_error"
	ConstraintError       Code = "constraint_error"
	UniqueConstraintError Code = "unique_constraint_error"
	NotFound              Code = "not_found"
	DriverNotFound        Code = "driver_not_found"
)

// Error is a structured error. The zero value is a null error.
type Error struct {
	message string
	level   Level
	code    Code
	source  string
	native  error
	causes  []*Error
}

// New creates an error with UnknownError as code.
func New(message string, level Level, source string) *Error {
	return &Error{
		message: message,
		level:   level,
		code:    UnknownError,
		source:  source,
	}
}

// Newf is like New with a formatted message.
func Newf(level Level, source, format string, args ...any) *Error {
	return New(fmt.Sprintf(format, args...), level, source)
}

// FromNative wraps a native driver error so it can be stacked.
// It returns nil if err is nil.
func FromNative(err error, source string) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{
		message: err.Error(),
		level:   LevelCritical,
		code:    UnknownError,
		source:  source,
		native:  err,
	}
}

// WithCode sets the code and returns e.
func (e *Error) WithCode(code Code) *Error {
	e.code = code
	return e
}

// WithLevel sets the level and returns e.
func (e *Error) WithLevel(level Level) *Error {
	e.level = level
	return e
}

// Stack appends cause to the stack of causes. A nil cause is ignored.
func (e *Error) Stack(cause *Error) *Error {
	if cause != nil {
		e.causes = append(e.causes, cause)
	}
	return e
}

// StackNative is a shorthand for e.Stack(FromNative(err, source)).
func (e *Error) StackNative(err error, source string) *Error {
	return e.Stack(FromNative(err, source))
}

// IsNull reports if e carries nothing.
func (e *Error) IsNull() bool {
	return e == nil || (e.message == "" && e.native == nil && len(e.causes) == 0)
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Source() string {
	if e == nil {
		return ""
	}
	return e.source
}

// Level returns LevelCritical for a nil error.
func (e *Error) Level() Level {
	if e == nil {
		return LevelCritical
	}
	return e.level
}

// Code returns NoError for a nil error.
func (e *Error) Code() Code {
	if e == nil {
		return NoError
	}
	return e.code
}

// Native returns the driver error this error was built from, if any.
func (e *Error) Native() error {
	if e == nil {
		return nil
	}
	return e.native
}

// Causes returns the stacked causes, outermost first.
func (e *Error) Causes() []*Error {
	if e == nil {
		return nil
	}
	return e.causes
}

// Chain flattens e and its causes depth first, e being the first element.
func (e *Error) Chain() []*Error {
	if e == nil {
		return nil
	}
	out := []*Error{e}
	for _, c := range e.causes {
		out = append(out, c.Chain()...)
	}
	return out
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msgs := make([]string, 0, 1+len(e.causes))
	for _, c := range e.Chain() {
		if c.message != "" {
			msgs = append(msgs, c.message)
		}
	}
	return strings.Join(msgs, ": ")
}

// Unwrap exposes the native error and the causes to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e == nil {
		return nil
	}
	out := make([]error, 0, 1+len(e.causes))
	if e.native != nil {
		out = append(out, e.native)
	}
	for _, c := range e.causes {
		out = append(out, c)
	}
	return out
}

// CodeOf returns the code of the first *Error found in err's chain,
// NoError for nil and UnknownError for foreign errors.
func CodeOf(err error) Code {
	if err == nil {
		return NoError
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code()
	}
	return UnknownError
}
