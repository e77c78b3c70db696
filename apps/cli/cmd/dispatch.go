package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/mvctest/packages/controllertest"
	"github.com/abdul-hamid-achik/mvctest/packages/http"
	"github.com/abdul-hamid-achik/mvctest/packages/output"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	dispatchMethodFlag     string
	dispatchDataFlag       []string
	dispatchXHRFlag        bool
	dispatchIncludeFlag    bool
	dispatchQueryFlag      string
	dispatchXPathFlag      string
	dispatchNamespaceFlag  map[string]string
	dispatchStatusFlag     int
	dispatchRouteFlag      string
	dispatchControllerFlag string
	dispatchActionFlag     string
	dispatchTemplateFlag   string
	dispatchOutputFlag     string
	dispatchVerboseFlag    bool
)

var dispatchCmd = &cobra.Command{
	Use:   "dispatch <url>",
	Short: "Dispatch a URL and print or query the response",
	Long: `Dispatch a URL through the application exactly as a controller test
fixture does, then print the response body, or the nodes a CSS selector or
XPath expression finds in it.

Expectation flags turn the dispatch into a one-off test: every expectation
that does not hold is printed and the command exits with status 1. The
--output flag reports expectations as json, junit or tap for CI.

Examples:
  mvctest dispatch /tests
  mvctest dispatch /tests -X POST -d num_post=2 --query div.post
  mvctest dispatch /feed --xpath //atom:entry/atom:title --ns atom=http://www.w3.org/2005/Atom
  mvctest dispatch /redirect --expect-status 302 -i
  mvctest dispatch /tests --expect-route myroute --output junit > report.xml`,
	Args: cobra.ExactArgs(1),
	RunE: dispatchCommand,
}

func init() {
	f := dispatchCmd.Flags()
	f.StringVarP(&dispatchMethodFlag, "method", "X", "GET", "HTTP method")
	f.StringArrayVarP(&dispatchDataFlag, "data", "d", nil, "Request parameter as key=value; repeatable, a[b]=1 nests")
	f.BoolVar(&dispatchXHRFlag, "xhr", false, "Send X-Requested-With: XMLHttpRequest")
	f.BoolVarP(&dispatchIncludeFlag, "include", "i", false, "Print the status line and headers")
	f.StringVar(&dispatchQueryFlag, "query", "", "Print the nodes matching a CSS selector")
	f.StringVar(&dispatchXPathFlag, "xpath", "", "Print the nodes matching an XPath expression")
	f.StringToStringVar(&dispatchNamespaceFlag, "ns", nil, "XPath namespace as prefix=uri")
	f.IntVar(&dispatchStatusFlag, "expect-status", 0, "Expect the response status code")
	f.StringVar(&dispatchRouteFlag, "expect-route", "", "Expect the matched route name")
	f.StringVar(&dispatchControllerFlag, "expect-controller", "", "Expect the matched controller name")
	f.StringVar(&dispatchActionFlag, "expect-action", "", "Expect the matched action name")
	f.StringVar(&dispatchTemplateFlag, "expect-template", "", "Expect a template to be rendered")
	f.StringVarP(&dispatchOutputFlag, "output", "o", "console", "Expectation report format (console, json, junit, tap)")
	f.BoolVarP(&dispatchVerboseFlag, "verbose", "v", false, "Also report expectations that held")
	dispatchCmd.MarkFlagsMutuallyExclusive("query", "xpath")
}

// cliReporter collects fixture failures instead of failing a test.
type cliReporter struct {
	messages []string
}

func (r *cliReporter) Helper() {}

func (r *cliReporter) Errorf(format string, args ...any) {
	r.messages = append(r.messages, fmt.Sprintf(format, args...))
}

func (r *cliReporter) FailNow() {}

func dispatchCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out, reportOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	if dispatchOutputFlag != "" && dispatchOutputFlag != "console" {
		// machine readable reports own stdout
		out, reportOut = io.Discard, cmd.OutOrStdout()
	}
	formatter, err := output.New(dispatchOutputFlag, reportOut, dispatchVerboseFlag)
	if err != nil {
		return &exitError{code: ExitUsageError, err: err}
	}

	rep := &cliReporter{}
	f := controllertest.NewHTTPFixture(rep,
		controllertest.WithApplicationConfig(cfg),
		controllertest.WithOutput(io.Discard),
	)
	if _, err := f.Application(); err != nil {
		return &exitError{code: ExitApplicationError, err: err}
	}

	var params http.Params
	if len(dispatchDataFlag) > 0 {
		params = http.ParamsFromValues(http.ParseQuery(strings.Join(dispatchDataFlag, "&")))
	}
	start := time.Now()
	f.Dispatch(args[0], dispatchMethodFlag, params, dispatchXHRFlag)
	elapsed := time.Since(start)
	if len(rep.messages) > 0 {
		return &exitError{code: ExitUsageError, err: fmt.Errorf("%s", strings.Join(rep.messages, "\n"))}
	}

	resp := f.Response()
	if dispatchIncludeFlag {
		printStatus(out, resp)
	}
	e := f.MustApplication().MvcEvent()
	if e.IsError() {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", color.YellowString("application error:"), e.Error)
		if ex := e.Exception(); ex != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "  %v\n", ex)
		}
	}

	switch {
	case dispatchQueryFlag != "" || dispatchXPathFlag != "":
		if len(dispatchNamespaceFlag) > 0 {
			f.RegisterXPathNamespaces(dispatchNamespaceFlag)
		}
		path, useXPath := dispatchQueryFlag, false
		if dispatchXPathFlag != "" {
			path, useXPath = dispatchXPathFlag, true
		}
		nodes, err := f.Query(path, useXPath)
		if err != nil {
			return &exitError{code: ExitUsageError, err: err}
		}
		for _, n := range nodes {
			fmt.Fprintln(out, n.OuterHTML())
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%d node(s) matched %s\n", nodes.Len(), path)
	default:
		fmt.Fprintln(out, resp.BodyString())
	}

	result := &output.Result{
		Method:       strings.ToUpper(dispatchMethodFlag),
		URL:          args[0],
		StatusCode:   resp.StatusCode,
		Duration:     elapsed,
		Error:        e.Error,
		Expectations: checkExpectations(f, rep),
	}
	if e.RouteMatch != nil {
		result.Route = e.RouteMatch.MatchedRouteName()
	}
	formatter.FormatResult(result)
	if err := formatter.Flush(elapsed); err != nil {
		return err
	}
	if failed := result.Failed(); failed > 0 {
		return &exitError{code: ExitAssertionFailure, err: fmt.Errorf("%d expectation(s) failed", failed)}
	}
	return nil
}

// checkExpectations runs the fixture assertion behind every expectation flag
// that was given.
func checkExpectations(f *controllertest.HTTPFixture, rep *cliReporter) []output.Expectation {
	var results []output.Expectation
	check := func(name string, assert func()) {
		before := len(rep.messages)
		assert()
		failures := rep.messages[before:]
		results = append(results, output.Expectation{
			Name:    name,
			Passed:  len(failures) == 0,
			Message: strings.Join(failures, "; "),
		})
	}

	if dispatchStatusFlag != 0 {
		check(fmt.Sprintf("status %d", dispatchStatusFlag), func() { f.AssertResponseStatusCode(dispatchStatusFlag) })
	}
	if dispatchRouteFlag != "" {
		check("route "+dispatchRouteFlag, func() { f.AssertMatchedRouteName(dispatchRouteFlag) })
	}
	if dispatchControllerFlag != "" {
		check("controller "+dispatchControllerFlag, func() { f.AssertControllerName(dispatchControllerFlag) })
	}
	if dispatchActionFlag != "" {
		check("action "+dispatchActionFlag, func() { f.AssertActionName(dispatchActionFlag) })
	}
	if dispatchTemplateFlag != "" {
		check("template "+dispatchTemplateFlag, func() { f.AssertTemplateName(dispatchTemplateFlag) })
	}
	return results
}

func printStatus(w io.Writer, resp *http.Response) {
	status := fmt.Sprintf("HTTP/1.1 %d %s", resp.StatusCode, resp.ReasonPhrase)
	switch {
	case resp.StatusCode >= 400:
		status = color.RedString(status)
	case resp.StatusCode >= 300:
		status = color.YellowString(status)
	default:
		status = color.GreenString(status)
	}
	fmt.Fprintln(w, status)
	keys := make([]string, 0, len(resp.Headers))
	for k := range resp.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%s: %s\n", color.CyanString(k), strings.Join(resp.Headers[k], ", "))
	}
	fmt.Fprintln(w)
}
