package mvc

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// Error identifiers stored in Event.Error.
const (
	ErrorRouterNoMatch      = "error-router-no-match"
	ErrorControllerNotFound = "error-controller-not-found"
	ErrorControllerInvalid  = "error-controller-invalid"
	ErrorException          = "error-exception"
)

var (
	ErrModuleNotInitialized = errors.New("module could not be initialized")
	ErrMissingDependency    = errors.New("missing module dependency")
	ErrServiceNotFound      = errors.New("service not found")
	ErrServiceCycle         = errors.New("circular service dependency")
	ErrControllerNotFound   = errors.New("controller not found")
	ErrTemplateNotFound     = errors.New("template not found")
)

// LocatedError records where an error was raised.
type LocatedError struct {
	Err  error
	File string
	Line int
}

func (e *LocatedError) Error() string {
	return e.Err.Error()
}

func (e *LocatedError) Unwrap() error {
	return e.Err
}

// Location returns the file and line the error was raised at.
func (e *LocatedError) Location() (string, int) {
	return e.File, e.Line
}

// Errorf formats an error like fmt.Errorf and records the caller's location.
func Errorf(format string, args ...any) error {
	return locate(fmt.Errorf(format, args...), 2)
}

// Raise attaches the caller's location to err. A nil err stays nil.
func Raise(err error) error {
	if err == nil {
		return nil
	}
	return locate(err, 2)
}

func locate(err error, skip int) error {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return err
	}
	return &LocatedError{Err: err, File: file, Line: line}
}

// PanicError is a panic recovered while dispatching a controller.
type PanicError struct {
	Value any
	File  string
	Line  int
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

func (e *PanicError) Location() (string, int) {
	return e.File, e.Line
}

// newPanicError must be called from the deferred function that recovered.
func newPanicError(v any) *PanicError {
	pe := &PanicError{Value: v}
	pcs := make([]uintptr, 32)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	afterPanic := false
	for {
		f, more := frames.Next()
		if afterPanic && !strings.HasPrefix(f.Function, "runtime.") {
			pe.File, pe.Line = f.File, f.Line
			break
		}
		if f.Function == "runtime.gopanic" {
			afterPanic = true
		}
		if !more {
			break
		}
	}
	return pe
}
