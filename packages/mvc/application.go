package mvc

import (
	"io"
	"os"

	"github.com/abdul-hamid-achik/mvctest/packages/core/config"
	"github.com/abdul-hamid-achik/mvctest/packages/http"
	"github.com/abdul-hamid-achik/mvctest/packages/logging"
	"github.com/abdul-hamid-achik/mvctest/packages/router"
)

// Application runs requests through the lifecycle events.
type Application struct {
	config   *config.ApplicationConfig
	services *ServiceManager
	events   *EventManager
	event    *Event
	request  *http.Request
	response *http.Response
	globals  *Globals
}

type options struct {
	catalog *Catalog
	globals *Globals
	output  io.Writer
}

// Option configures Init.
type Option func(*options)

// WithCatalog sets the module catalog. The default is DefaultCatalog.
func WithCatalog(c *Catalog) Option {
	return func(o *options) {
		o.catalog = c
	}
}

// WithGlobals shares ambient request state between applications.
func WithGlobals(g *Globals) Option {
	return func(o *options) {
		o.globals = g
	}
}

// WithOutput sets where the send-response listener writes. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.output = w
	}
}

// Init builds and bootstraps an application from cfg.
func Init(cfg *config.ApplicationConfig, opts ...Option) (*Application, error) {
	o := &options{catalog: DefaultCatalog, output: os.Stdout}
	for _, opt := range opts {
		opt(o)
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if o.globals == nil {
		o.globals = NewGlobals()
	}

	sm := NewServiceManager()
	sm.SetService(ServiceApplicationConfig, cfg)
	sm.SetService(ServiceGlobals, o.globals)
	sm.SetService(ServiceSharedEventManager, o.globals.SharedEvents)

	mm := NewModuleManager(cfg, o.catalog)
	sm.SetService(ServiceModuleManager, mm)
	if err := mm.LoadModules(sm); err != nil {
		return nil, err
	}

	merged := mm.MergedConfig()
	sm.Configure(merged.ServiceManager)
	sm.Configure(cfg.ServiceManager)
	sm.SetService(ServiceConfig, merged)
	if !sm.Has(ServiceRouter) {
		sm.SetFactory(ServiceRouter, routerFactory)
	}
	sm.SetService(ServiceControllerManager, NewControllerManager(mm.Controllers()))
	sm.SetFactory(ServiceViewRenderer, func(*ServiceManager) (any, error) {
		return NewRenderer(merged.ViewManager), nil
	})

	request := http.NewRequest()
	request.Query = cloneValues(o.globals.Get)
	request.Post = cloneValues(o.globals.Post)
	for k, v := range o.globals.Cookie {
		request.Cookies[k] = v
	}
	response := http.NewResponse()
	sm.SetService(ServiceRequest, request)
	sm.SetService(ServiceResponse, response)

	events := NewEventManager(o.globals.SharedEvents, ApplicationIdentifier)
	sm.SetService(ServiceEventManager, events)
	sm.SetService(ServiceSendResponseListener, NewSendResponseListener(o.output))

	app := &Application{
		config:   cfg,
		services: sm,
		events:   events,
		request:  request,
		response: response,
		globals:  o.globals,
	}
	sm.SetService(ServiceApplication, app)

	if err := app.bootstrap(mm); err != nil {
		return nil, err
	}
	logging.Debug("Application", "bootstrapped with modules %v", mm.GetModules())
	return app, nil
}

func routerFactory(sm *ServiceManager) (any, error) {
	cfg, err := GetAs[*config.ModuleConfig](sm, ServiceConfig)
	if err != nil {
		return nil, err
	}
	return router.FromConfig(cfg.Router)
}

func (a *Application) bootstrap(mm *ModuleManager) error {
	r, err := a.Router()
	if err != nil {
		return err
	}

	e := NewEvent(EventBootstrap, a)
	e.Request = a.request
	e.Response = a.response
	e.Router = r
	e.ViewModel = a.layoutModel()
	a.event = e

	a.attachDefaultListeners()
	send, err := GetAs[*SendResponseListener](a.services, ServiceSendResponseListener)
	if err != nil {
		return err
	}
	send.Attach(a.events)

	if err := mm.bootstrap(e); err != nil {
		return err
	}
	a.events.TriggerEvent(EventBootstrap, e)
	return nil
}

// Run routes and dispatches the current request, then renders and finishes.
// Application errors are recorded on the event, not returned.
func (a *Application) Run() *Application {
	e := a.event
	e.Request = a.request
	e.Response = a.response
	e.RouteMatch = nil
	e.Result = nil
	e.Error = ""
	e.SetParam(ParamException, nil)
	e.ViewModel = a.layoutModel()

	shortCircuit := func(r any) bool {
		if _, ok := r.(*http.Response); ok {
			return true
		}
		return e.IsError()
	}

	e.SetName(EventRoute)
	result := a.events.TriggerUntil(e, shortCircuit)
	if result.Stopped() {
		if resp, ok := result.Last().(*http.Response); ok {
			return a.finish(e, resp)
		}
	}
	if e.IsError() {
		return a.completeRequest(e)
	}

	e.SetName(EventDispatch)
	result = a.events.TriggerUntil(e, shortCircuit)
	if resp, ok := result.Last().(*http.Response); ok {
		return a.finish(e, resp)
	}

	e.Response = a.response
	return a.completeRequest(e)
}

func (a *Application) finish(e *Event, resp *http.Response) *Application {
	a.setResponse(resp)
	e.Result = resp
	a.events.TriggerEvent(EventFinish, e)
	return a
}

func (a *Application) completeRequest(e *Event) *Application {
	a.events.TriggerEvent(EventRender, e)
	a.events.TriggerEvent(EventFinish, e)
	return a
}

func (a *Application) setResponse(resp *http.Response) {
	a.response = resp
	a.event.Response = resp
	a.services.SetService(ServiceResponse, resp)
}

func (a *Application) layoutModel() *ViewModel {
	layout := a.viewConfig().Layout
	if layout == "" {
		layout = DefaultLayout
	}
	return &ViewModel{Template: layout, Variables: map[string]any{}, CaptureTo: "content"}
}

func (a *Application) viewConfig() config.ViewManagerConfig {
	cfg, err := GetAs[*config.ModuleConfig](a.services, ServiceConfig)
	if err != nil {
		return config.ViewManagerConfig{}
	}
	return cfg.ViewManager
}

func (a *Application) Config() *config.ApplicationConfig {
	return a.config
}

func (a *Application) ServiceManager() *ServiceManager {
	return a.services
}

func (a *Application) EventManager() *EventManager {
	return a.events
}

// MvcEvent returns the event shared by all lifecycle triggers.
func (a *Application) MvcEvent() *Event {
	return a.event
}

func (a *Application) Request() *http.Request {
	return a.request
}

// SetRequest replaces the request before Run.
func (a *Application) SetRequest(r *http.Request) {
	a.request = r
	a.event.Request = r
	a.services.SetService(ServiceRequest, r)
}

// Response returns the response of the last run.
func (a *Application) Response() *http.Response {
	return a.response
}

func (a *Application) Globals() *Globals {
	return a.globals
}

func (a *Application) Router() (*router.Router, error) {
	return GetAs[*router.Router](a.services, ServiceRouter)
}

func (a *Application) ModuleManager() (*ModuleManager, error) {
	return GetAs[*ModuleManager](a.services, ServiceModuleManager)
}

func (a *Application) ControllerManager() (*ControllerManager, error) {
	return GetAs[*ControllerManager](a.services, ServiceControllerManager)
}
