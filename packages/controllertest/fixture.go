package controllertest

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/abdul-hamid-achik/mvctest/packages/assertions"
	"github.com/abdul-hamid-achik/mvctest/packages/constraint"
	"github.com/abdul-hamid-achik/mvctest/packages/core/config"
	"github.com/abdul-hamid-achik/mvctest/packages/coverage"
	"github.com/abdul-hamid-achik/mvctest/packages/http"
	"github.com/abdul-hamid-achik/mvctest/packages/logging"
	"github.com/abdul-hamid-achik/mvctest/packages/mvc"
	"github.com/abdul-hamid-achik/mvctest/packages/snapshot"
)

// ErrApplicationBuilt is returned by SetApplicationConfig once the
// application has been built from an earlier config.
var ErrApplicationBuilt = errors.New("application config can not be set, the application is already built")

type appState int

const (
	stateUnbuilt appState = iota
	stateBuilt
	// stateDiscarded follows a Reset of a built application. The next access
	// rebuilds it.
	stateDiscarded
)

// TemplateSearch selects how template assertions walk the view model tree.
type TemplateSearch int

const (
	// SearchFirstChild checks a model, then descends into its first child
	// only.
	SearchFirstChild TemplateSearch = iota
	// SearchAllChildren checks every model in the tree.
	SearchAllChildren
)

func (s TemplateSearch) String() string {
	switch s {
	case SearchFirstChild:
		return "first-child"
	case SearchAllChildren:
		return "all-children"
	default:
		return fmt.Sprintf("TemplateSearch(%d)", int(s))
	}
}

// Fixture owns one application and the ambient state it runs in.
type Fixture struct {
	t          TestingT
	cfg        *config.ApplicationConfig
	app        *mvc.Application
	state      appState
	traceError bool
	catalog    *mvc.Catalog
	globals    *mvc.Globals
	output     io.Writer
	search     TemplateSearch
	snapshots  *snapshot.Manager
	coverage   *coverage.Tracker
}

// Option configures a fixture.
type Option func(*Fixture)

// WithApplicationConfig sets the configuration the application is built from.
func WithApplicationConfig(cfg *config.ApplicationConfig) Option {
	return func(f *Fixture) {
		f.setConfig(cfg)
	}
}

// WithTraceError controls whether failure messages list the application
// error. It defaults to true.
func WithTraceError(trace bool) Option {
	return func(f *Fixture) {
		f.traceError = trace
	}
}

// WithCatalog resolves module names against c instead of mvc.DefaultCatalog.
func WithCatalog(c *mvc.Catalog) Option {
	return func(f *Fixture) {
		f.catalog = c
	}
}

// WithOutput is handed to the application as the send-response output. The
// fixture detaches the send-response listener, so nothing is written unless
// a test reattaches it.
func WithOutput(w io.Writer) Option {
	return func(f *Fixture) {
		f.output = w
	}
}

// WithTemplateSearch sets the template search policy.
func WithTemplateSearch(s TemplateSearch) Option {
	return func(f *Fixture) {
		f.search = s
	}
}

// WithSnapshots sets the manager used by snapshot assertions. The default
// keeps snapshots under testdata and honours snapshot.UpdateEnv.
func WithSnapshots(m *snapshot.Manager) Option {
	return func(f *Fixture) {
		f.snapshots = m
	}
}

// WithCoverage records every dispatch, and the route it matched, in tr.
// Share one tracker between fixtures to report route coverage for a package.
func WithCoverage(tr *coverage.Tracker) Option {
	return func(f *Fixture) {
		f.coverage = tr
	}
}

// NewFixture creates a fixture with a fresh ambient context. When t supports
// Cleanup, the fixture resets itself at the end of the test.
func NewFixture(t TestingT, opts ...Option) *Fixture {
	f := &Fixture{
		t:          t,
		traceError: true,
		catalog:    mvc.DefaultCatalog,
		globals:    mvc.NewGlobals(),
		search:     SearchFirstChild,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.Reset(false)
	if c, ok := t.(cleanupT); ok {
		c.Cleanup(func() {
			f.warnUnconsumedError()
			f.Reset(false)
		})
	}
	return f
}

// SetApplicationConfig replaces the configuration. Config caching is turned
// off when the config asks for it.
func (f *Fixture) SetApplicationConfig(cfg *config.ApplicationConfig) error {
	if f.state == stateBuilt && f.cfg != nil {
		return ErrApplicationBuilt
	}
	f.setConfig(cfg)
	return nil
}

func (f *Fixture) setConfig(cfg *config.ApplicationConfig) {
	if cfg == nil {
		f.cfg = nil
		return
	}
	f.cfg = cfg.Clone()
	f.cfg.DisableConfigCache()
}

// ApplicationConfig returns the configuration in use. Changing it has no
// effect on an application that is already built.
func (f *Fixture) ApplicationConfig() *config.ApplicationConfig {
	return f.cfg
}

// Application returns the application, building it on first use.
func (f *Fixture) Application() (*mvc.Application, error) {
	if f.app != nil {
		return f.app, nil
	}

	cfg := f.cfg
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	app, err := mvc.Init(cfg,
		mvc.WithCatalog(f.catalog),
		mvc.WithGlobals(f.globals),
		mvc.WithOutput(f.output),
	)
	if err != nil {
		return nil, fmt.Errorf("building application: %w", err)
	}

	listener, err := mvc.GetAs[*mvc.SendResponseListener](app.ServiceManager(), mvc.ServiceSendResponseListener)
	if err != nil {
		return nil, err
	}
	listener.Detach(app.EventManager())

	f.app = app
	f.state = stateBuilt
	logging.Debug("ControllerTest", "application built with modules %v", cfg.Modules)
	return app, nil
}

// MustApplication is Application for tests: a build error fails the test.
func (f *Fixture) MustApplication() *mvc.Application {
	f.t.Helper()
	app, err := f.Application()
	if err != nil {
		f.report(err)
		return nil
	}
	return app
}

// Built reports whether an application is currently built.
func (f *Fixture) Built() bool {
	return f.state == stateBuilt
}

func (f *Fixture) ServiceManager() *mvc.ServiceManager {
	f.t.Helper()
	if app := f.MustApplication(); app != nil {
		return app.ServiceManager()
	}
	return nil
}

func (f *Fixture) Request() *http.Request {
	f.t.Helper()
	if app := f.MustApplication(); app != nil {
		return app.Request()
	}
	return nil
}

func (f *Fixture) Response() *http.Response {
	f.t.Helper()
	if app := f.MustApplication(); app != nil {
		return app.Response()
	}
	return nil
}

// Globals is the ambient state shared by every application the fixture
// builds.
func (f *Fixture) Globals() *mvc.Globals {
	return f.globals
}

func (f *Fixture) TraceError() bool {
	return f.traceError
}

func (f *Fixture) SetTraceError(trace bool) *Fixture {
	f.traceError = trace
	return f
}

func (f *Fixture) TemplateSearch() TemplateSearch {
	return f.search
}

func (f *Fixture) SetTemplateSearch(s TemplateSearch) *Fixture {
	f.search = s
	return f
}

// URL prepares the request without running the application. A query string
// in rawURL replaces the current query. params go to the post fields for
// POST, are merged into the query for GET and DELETE and become the
// form-encoded body for PUT and PATCH. An empty method means GET.
func (f *Fixture) URL(rawURL, method string, params http.Params) error {
	app, err := f.Application()
	if err != nil {
		return err
	}
	if method == "" {
		method = http.MethodGet
	}
	method = strings.ToUpper(method)

	req := app.Request()
	query := copyValues(req.Query)
	post := copyValues(req.Post)

	uri, err := url.Parse(rawURL)
	if err != nil {
		return assertions.Usagef("parsing url %q: %w", rawURL, err)
	}
	if uri.RawQuery != "" {
		query = http.ParseQuery(uri.RawQuery)
	}

	if len(params) > 0 {
		switch method {
		case http.MethodPost:
			post = params.Values()
		case http.MethodGet, http.MethodDelete:
			for k, v := range params.Values() {
				query[k] = v
			}
		case http.MethodPut, http.MethodPatch:
			req.SetContent(params.Encode())
		default:
			logging.Warn("ControllerTest", "additional params are only supported by GET, POST, PUT and PATCH, ignoring them for %s", method)
		}
	}

	req.SetMethod(method)
	req.Query = query
	req.Post = post
	if err := req.SetURI(rawURL); err != nil {
		return assertions.Usagef("parsing url %q: %w", rawURL, err)
	}
	return nil
}

// Dispatch runs a request for rawURL through the application. An empty
// method keeps the current request method.
func (f *Fixture) Dispatch(rawURL, method string, params http.Params, isXMLHttpRequest bool) {
	f.t.Helper()
	app, err := f.Application()
	if err != nil {
		f.report(err)
		return
	}

	if method == "" {
		method = app.Request().Method
	}
	if method == "" {
		method = http.MethodGet
	}
	if isXMLHttpRequest {
		app.Request().SetHeader("X-Requested-With", "XMLHttpRequest")
	}

	if err := f.URL(rawURL, method, params); err != nil {
		f.report(err)
		return
	}
	logging.Debug("ControllerTest", "dispatching %s %s", method, rawURL)
	app.Run()

	if f.coverage != nil {
		route := ""
		if m := app.MvcEvent().RouteMatch; m != nil {
			route = m.MatchedRouteName()
		}
		f.coverage.Record(app.Request().Method, app.Request().Path(), route)
	}
}

// Reset discards the application. Session and cookies are cleared unless
// keepPersistence is set; get and post buffers and shared listeners always
// are.
func (f *Fixture) Reset(keepPersistence bool) *Fixture {
	if f.app != nil {
		f.state = stateDiscarded
	}
	f.app = nil
	f.globals.Reset(keepPersistence)
	return f
}

// TriggerApplicationEvent triggers name on the application's event manager
// with its event. Route and dispatch stop at the first listener returning a
// response or flagging an error, as during Run.
func (f *Fixture) TriggerApplicationEvent(name string) (*mvc.ResponseCollection, error) {
	app, err := f.Application()
	if err != nil {
		return nil, err
	}
	events := app.EventManager()
	e := app.MvcEvent()

	if name != mvc.EventRoute && name != mvc.EventDispatch {
		return events.TriggerEvent(name, e), nil
	}

	e.SetName(name)
	return events.TriggerUntil(e, func(r any) bool {
		if _, ok := r.(*http.Response); ok {
			return true
		}
		return e.IsError()
	}), nil
}

// failf builds an assertion failure, listing the application error when
// trace-error is on.
func (f *Fixture) failf(format string, args ...any) error {
	return &assertions.ExpectationFailedError{
		Message: f.failureMessage(fmt.Sprintf(format, args...)),
	}
}

func (f *Fixture) failureMessage(message string) string {
	if !f.traceError || f.app == nil {
		return message
	}
	return assertions.Trace(message, f.app.MvcEvent().Exception())
}

// evaluate runs a constraint against value and decorates the failure.
func (f *Fixture) evaluate(value any, c constraint.Constraint) error {
	err := constraint.Evaluate(value, c)
	var failed *assertions.ExpectationFailedError
	if errors.As(err, &failed) {
		failed.Message = f.failureMessage(failed.Message)
	}
	return err
}

func (f *Fixture) warnUnconsumedError() {
	if !f.traceError || f.app == nil {
		return
	}
	if err := f.app.MvcEvent().Exception(); err != nil {
		logging.Warn("ControllerTest", "application error was never asserted: %v", err)
	}
}

func copyValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
