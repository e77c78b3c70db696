package output

import (
	"encoding/json"
	"io"
	"os"
	"time"
)

// JSONOutput represents the complete JSON output structure
type JSONOutput struct {
	Summary    JSONSummary    `json:"summary"`
	Dispatches []JSONDispatch `json:"dispatches"`
	Duration   float64        `json:"duration"`
	Time       string         `json:"time"`
}

// JSONSummary counts expectations over every dispatch.
type JSONSummary struct {
	Total  int `json:"total"`
	Passed int `json:"passed"`
	Failed int `json:"failed"`
}

// JSONDispatch represents a single dispatch and its expectations
type JSONDispatch struct {
	Method       string            `json:"method"`
	URL          string            `json:"url"`
	StatusCode   int               `json:"statusCode"`
	Route        string            `json:"route,omitempty"`
	Passed       bool              `json:"passed"`
	Duration     float64           `json:"duration"`
	Error        string            `json:"error,omitempty"`
	Expectations []JSONExpectation `json:"expectations,omitempty"`
}

// JSONExpectation represents an expectation result
type JSONExpectation struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Message string `json:"message,omitempty"`
}

// JSONFormatter formats dispatch results as JSON
type JSONFormatter struct {
	writer  io.Writer
	results []JSONDispatch
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer:  os.Stdout,
		results: make([]JSONDispatch, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) FormatResult(r *Result) {
	d := JSONDispatch{
		Method:     r.Method,
		URL:        r.URL,
		StatusCode: r.StatusCode,
		Route:      r.Route,
		Passed:     r.Passed(),
		Duration:   float64(r.Duration.Milliseconds()),
		Error:      r.Error,
	}
	for _, e := range r.Expectations {
		d.Expectations = append(d.Expectations, JSONExpectation{
			Name:    e.Name,
			Passed:  e.Passed,
			Message: e.Message,
		})
	}
	f.results = append(f.results, d)
}

// Flush writes the accumulated JSON output
func (f *JSONFormatter) Flush(totalDuration time.Duration) error {
	var summary JSONSummary
	for _, d := range f.results {
		for _, e := range d.Expectations {
			summary.Total++
			if e.Passed {
				summary.Passed++
			} else {
				summary.Failed++
			}
		}
	}

	output := JSONOutput{
		Summary:    summary,
		Dispatches: f.results,
		Duration:   float64(totalDuration.Milliseconds()),
		Time:       time.Now().Format(time.RFC3339),
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
