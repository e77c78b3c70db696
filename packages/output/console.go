package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
)

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	passed  int
	failed  int
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

// WithVerbose also prints the expectations that held.
func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func (f *ConsoleFormatter) FormatResult(r *Result) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	for _, e := range r.Expectations {
		if e.Passed {
			f.passed++
			if f.verbose {
				fmt.Fprintf(f.writer, "%s %s\n", green("ok"), e.Name)
			}
			continue
		}
		f.failed++
		fmt.Fprintf(f.writer, "%s %s\n", red("FAIL"), e.Message)
	}
}

// Flush prints the totals when any expectation was checked.
func (f *ConsoleFormatter) Flush(totalDuration time.Duration) error {
	total := f.passed + f.failed
	if total == 0 {
		return nil
	}

	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	fmt.Fprintf(f.writer, "Expectations: ")
	if f.passed > 0 {
		fmt.Fprintf(f.writer, "%s, ", green(fmt.Sprintf("%d passed", f.passed)))
	}
	if f.failed > 0 {
		fmt.Fprintf(f.writer, "%s, ", red(fmt.Sprintf("%d failed", f.failed)))
	}
	fmt.Fprintf(f.writer, "%d total (%dms)\n", total, totalDuration.Milliseconds())
	return nil
}
