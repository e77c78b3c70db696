package output

import (
	"fmt"
	"io"
	"time"
)

// Expectation is one checked expectation about a dispatch.
type Expectation struct {
	Name    string
	Passed  bool
	Message string
}

// Result is a dispatch together with the expectations checked against it.
type Result struct {
	Method       string
	URL          string
	StatusCode   int
	Route        string
	Duration     time.Duration
	Error        string
	Expectations []Expectation
}

// Name identifies the dispatch, e.g. "GET /tests".
func (r *Result) Name() string {
	return r.Method + " " + r.URL
}

// Failed returns the number of expectations that did not hold.
func (r *Result) Failed() int {
	n := 0
	for _, e := range r.Expectations {
		if !e.Passed {
			n++
		}
	}
	return n
}

// Passed reports whether every expectation held.
func (r *Result) Passed() bool {
	return r.Failed() == 0
}

// Formatter writes results.
type Formatter interface {
	FormatResult(r *Result)
	Flush(totalDuration time.Duration) error
}

// Formats lists the names New accepts.
var Formats = []string{"console", "json", "junit", "tap"}

// New returns the formatter for format, writing to w.
func New(format string, w io.Writer, verbose bool) (Formatter, error) {
	switch format {
	case "", "console":
		return NewConsoleFormatter(WithWriter(w), WithVerbose(verbose)), nil
	case "json":
		return NewJSONFormatter(JSONWithWriter(w)), nil
	case "junit":
		return NewJUnitFormatter(JUnitWithWriter(w)), nil
	case "tap":
		return NewTAPFormatter(TAPWithWriter(w)), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (expected one of %v)", format, Formats)
	}
}
