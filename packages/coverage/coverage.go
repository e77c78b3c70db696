// Package coverage reports which routes of an application were dispatched
// to, by controller test fixtures or by the server.
package coverage

import (
	"encoding/json"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/abdul-hamid-achik/mvctest/packages/router"
)

// Report represents a route coverage report.
type Report struct {
	TotalRoutes     int                          `json:"totalRoutes"`
	CoveredRoutes   int                          `json:"coveredRoutes"`
	CoveragePercent float64                      `json:"coveragePercent"`
	ByController    map[string]*ControllerReport `json:"byController,omitempty"`
	Routes          []RouteStatus                `json:"routes"`
	Unmatched       []Dispatch                   `json:"unmatched,omitempty"`
}

// ControllerReport represents coverage for the routes of one controller.
type ControllerReport struct {
	Controller      string  `json:"controller"`
	TotalRoutes     int     `json:"totalRoutes"`
	CoveredRoutes   int     `json:"coveredRoutes"`
	CoveragePercent float64 `json:"coveragePercent"`
}

// RouteStatus represents the coverage status of a route.
type RouteStatus struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	Pattern       string `json:"pattern"`
	Controller    string `json:"controller,omitempty"`
	Action        string `json:"action,omitempty"`
	Covered       bool   `json:"covered"`
	DispatchCount int    `json:"dispatchCount"`
}

// Dispatch is one recorded request. Route is empty when nothing matched.
type Dispatch struct {
	Method string `json:"method"`
	Path   string `json:"path"`
	Route  string `json:"route,omitempty"`
}

// Tracker records dispatches. It is safe for concurrent use, so one tracker
// can be shared by every fixture of a test binary or by a server.
type Tracker struct {
	mu         sync.Mutex
	dispatches []Dispatch
}

// NewTracker creates a new coverage tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Record adds a dispatch. route is the matched route name, or "".
func (t *Tracker) Record(method, path, route string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.dispatches = append(t.dispatches, Dispatch{Method: method, Path: path, Route: route})
}

// Dispatches returns the recorded dispatches in order.
func (t *Tracker) Dispatches() []Dispatch {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Dispatch(nil), t.dispatches...)
}

// Analyze compares the recorded dispatches against routes.
func (t *Tracker) Analyze(routes []*router.Route) *Report {
	report := &Report{
		TotalRoutes:  len(routes),
		ByController: make(map[string]*ControllerReport),
		Routes:       make([]RouteStatus, 0, len(routes)),
	}

	counts := make(map[string]int)
	for _, d := range t.Dispatches() {
		if d.Route == "" {
			report.Unmatched = append(report.Unmatched, d)
			continue
		}
		counts[d.Route]++
	}

	for _, route := range routes {
		count := counts[route.Name]
		covered := count > 0
		status := RouteStatus{
			Name:          route.Name,
			Type:          string(route.Type),
			Pattern:       route.Pattern,
			Controller:    route.Defaults["controller"],
			Action:        route.Defaults["action"],
			Covered:       covered,
			DispatchCount: count,
		}
		report.Routes = append(report.Routes, status)

		if covered {
			report.CoveredRoutes++
		}

		if status.Controller != "" {
			cr, exists := report.ByController[status.Controller]
			if !exists {
				cr = &ControllerReport{Controller: status.Controller}
				report.ByController[status.Controller] = cr
			}
			cr.TotalRoutes++
			if covered {
				cr.CoveredRoutes++
			}
		}
	}

	if report.TotalRoutes > 0 {
		report.CoveragePercent = float64(report.CoveredRoutes) / float64(report.TotalRoutes) * 100
	}
	for _, cr := range report.ByController {
		if cr.TotalRoutes > 0 {
			cr.CoveragePercent = float64(cr.CoveredRoutes) / float64(cr.TotalRoutes) * 100
		}
	}

	sort.Slice(report.Routes, func(i, j int) bool {
		return report.Routes[i].Name < report.Routes[j].Name
	})

	return report
}

// Uncovered returns the names of the routes nothing dispatched to.
func (r *Report) Uncovered() []string {
	var names []string
	for _, route := range r.Routes {
		if !route.Covered {
			names = append(names, route.Name)
		}
	}
	return names
}

// FormatConsole formats the report for console output.
func (r *Report) FormatConsole() string {
	var sb strings.Builder

	sb.WriteString("\nRoute Coverage Report\n")
	sb.WriteString("=====================\n\n")

	sb.WriteString(fmt.Sprintf("Total Routes:   %d\n", r.TotalRoutes))
	sb.WriteString(fmt.Sprintf("Covered Routes: %d\n", r.CoveredRoutes))
	sb.WriteString(fmt.Sprintf("Coverage:       %.1f%%\n\n", r.CoveragePercent))

	if len(r.ByController) > 0 {
		sb.WriteString("Coverage by Controller:\n")

		controllers := make([]string, 0, len(r.ByController))
		for c := range r.ByController {
			controllers = append(controllers, c)
		}
		sort.Strings(controllers)

		for _, c := range controllers {
			cr := r.ByController[c]
			sb.WriteString(fmt.Sprintf("  %s: %d/%d (%.1f%%)\n",
				c, cr.CoveredRoutes, cr.TotalRoutes, cr.CoveragePercent))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Route Details:\n")
	for _, route := range r.Routes {
		status := "[ ]"
		if route.Covered {
			status = "[x]"
		}
		sb.WriteString(fmt.Sprintf("  %s %s %s", status, route.Name, route.Pattern))
		if route.DispatchCount > 1 {
			sb.WriteString(fmt.Sprintf(" (x%d)", route.DispatchCount))
		}
		sb.WriteString("\n")
	}

	if len(r.Unmatched) > 0 {
		sb.WriteString("\nUnmatched Requests:\n")
		for _, d := range r.Unmatched {
			sb.WriteString(fmt.Sprintf("  %s %s\n", d.Method, d.Path))
		}
	}

	return sb.String()
}

// FormatJSON formats the report as JSON.
func (r *Report) FormatJSON() (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FormatHTML formats the report as HTML.
func (r *Report) FormatHTML() string {
	var sb strings.Builder

	sb.WriteString(`<!DOCTYPE html>
<html>
<head>
  <title>Route Coverage Report</title>
  <style>
    body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; margin: 40px; }
    h1 { color: #333; }
    .summary { background: #f5f5f5; padding: 20px; border-radius: 8px; margin: 20px 0; }
    .summary h2 { margin-top: 0; }
    .coverage-bar { background: #e0e0e0; height: 24px; border-radius: 4px; overflow: hidden; }
    .coverage-fill { background: #4caf50; height: 100%; }
    table { border-collapse: collapse; width: 100%; margin: 20px 0; }
    th, td { text-align: left; padding: 12px; border-bottom: 1px solid #ddd; }
    th { background: #f5f5f5; }
    .covered { color: #4caf50; }
    .uncovered { color: #f44336; }
  </style>
</head>
<body>
`)

	sb.WriteString("<h1>Route Coverage Report</h1>\n")

	sb.WriteString("<div class=\"summary\">\n")
	sb.WriteString("<h2>Summary</h2>\n")
	sb.WriteString(fmt.Sprintf("<p><strong>Coverage:</strong> %.1f%% (%d/%d routes)</p>\n",
		r.CoveragePercent, r.CoveredRoutes, r.TotalRoutes))
	sb.WriteString("<div class=\"coverage-bar\">\n")
	sb.WriteString(fmt.Sprintf("<div class=\"coverage-fill\" style=\"width: %.1f%%\"></div>\n", r.CoveragePercent))
	sb.WriteString("</div>\n")
	sb.WriteString("</div>\n")

	sb.WriteString("<h2>Routes</h2>\n")
	sb.WriteString("<table>\n")
	sb.WriteString("<tr><th>Status</th><th>Name</th><th>Type</th><th>Route</th><th>Controller</th><th>Action</th><th>Dispatches</th></tr>\n")

	for _, route := range r.Routes {
		statusClass := "uncovered"
		statusIcon := "&#x2717;"
		if route.Covered {
			statusClass = "covered"
			statusIcon = "&#x2713;"
		}

		sb.WriteString("<tr>\n")
		sb.WriteString(fmt.Sprintf("<td class=\"%s\">%s</td>\n", statusClass, statusIcon))
		sb.WriteString(fmt.Sprintf("<td><strong>%s</strong></td>\n", html.EscapeString(route.Name)))
		sb.WriteString(fmt.Sprintf("<td>%s</td>\n", html.EscapeString(route.Type)))
		sb.WriteString(fmt.Sprintf("<td><code>%s</code></td>\n", html.EscapeString(route.Pattern)))
		sb.WriteString(fmt.Sprintf("<td>%s</td>\n", html.EscapeString(route.Controller)))
		sb.WriteString(fmt.Sprintf("<td>%s</td>\n", html.EscapeString(route.Action)))
		sb.WriteString(fmt.Sprintf("<td>%d</td>\n", route.DispatchCount))
		sb.WriteString("</tr>\n")
	}

	sb.WriteString("</table>\n")
	sb.WriteString("</body>\n</html>")

	return sb.String()
}

// WriteFile writes the report in the format the extension of path selects:
// .json, .html or plain text otherwise.
func (r *Report) WriteFile(path string) error {
	var content string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		out, err := r.FormatJSON()
		if err != nil {
			return err
		}
		content = out
	case ".html", ".htm":
		content = r.FormatHTML()
	default:
		content = r.FormatConsole()
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing coverage report: %w", err)
	}
	return nil
}
