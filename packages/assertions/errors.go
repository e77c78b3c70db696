package assertions

import (
	"errors"
	"fmt"
	"strings"
)

// ExpectationFailedError is an assertion that did not hold.
type ExpectationFailedError struct {
	Message  string
	Expected any
	Actual   any
}

func (e *ExpectationFailedError) Error() string {
	return e.Message
}

// Failf builds an ExpectationFailedError from a formatted message.
func Failf(format string, args ...any) *ExpectationFailedError {
	return &ExpectationFailedError{Message: fmt.Sprintf(format, args...)}
}

// UsageError reports a test that was written incorrectly: a missing
// collaborator, an invalid query, a config change after build.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return "invalid test: " + e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// Usagef builds a UsageError from a formatted message. %w is honoured.
func Usagef(format string, args ...any) *UsageError {
	return &UsageError{Err: fmt.Errorf(format, args...)}
}

// IsUsage reports whether err is or wraps a UsageError.
func IsUsage(err error) bool {
	var ue *UsageError
	return errors.As(err, &ue)
}

// Locator is implemented by errors that know where they were raised.
type Locator interface {
	Location() (file string, line int)
}

// Trace appends the chain of err to message, one line per error:
//
//	Exception '<type>' with message '<message>' in <file>:<line>
//
// A wrapper that only adds a location, and so has the same message as the
// error it wraps, is folded into that error's line. The location part is
// left out when unknown. Errors wrapping several causes list each cause in
// turn; an errors.Join value adds no line of its own.
func Trace(message string, err error) string {
	if err == nil {
		return message
	}
	return fmt.Sprintf("%s\n\nExceptions raised:\n%s\n", message, strings.Join(traceLines(err), "\n\n"))
}

func traceLines(err error) []string {
	var lines []string
	file, line := "", 0
	for cur := err; cur != nil; {
		if l, ok := cur.(Locator); ok {
			if f, n := l.Location(); f != "" {
				file, line = f, n
			}
		}

		if multi, ok := cur.(interface{ Unwrap() []error }); ok {
			causes := multi.Unwrap()
			if !isJoined(cur, causes) {
				lines = append(lines, traceEntry(cur, file, line))
			}
			for _, cause := range causes {
				if cause != nil {
					lines = append(lines, traceLines(cause)...)
				}
			}
			return lines
		}

		next := errors.Unwrap(cur)
		if next == nil || next.Error() != cur.Error() {
			lines = append(lines, traceEntry(cur, file, line))
			file, line = "", 0
		}
		cur = next
	}
	return lines
}

func traceEntry(err error, file string, line int) string {
	entry := fmt.Sprintf("Exception '%T' with message '%s'", err, err.Error())
	if file != "" {
		entry += fmt.Sprintf(" in %s:%d", file, line)
	}
	return entry
}

// isJoined reports whether err's message is nothing but its causes' messages
// joined by newlines.
func isJoined(err error, causes []error) bool {
	msgs := make([]string, 0, len(causes))
	for _, c := range causes {
		if c != nil {
			msgs = append(msgs, c.Error())
		}
	}
	return err.Error() == strings.Join(msgs, "\n")
}
