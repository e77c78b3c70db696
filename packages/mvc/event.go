package mvc

import (
	"github.com/abdul-hamid-achik/mvctest/packages/http"
	"github.com/abdul-hamid-achik/mvctest/packages/router"
)

// Lifecycle event names.
const (
	EventBootstrap     = "bootstrap"
	EventRoute         = "route"
	EventDispatch      = "dispatch"
	EventDispatchError = "dispatch.error"
	EventRender        = "render"
	EventRenderError   = "render.error"
	EventFinish        = "finish"
)

// ParamException is the event parameter holding the application error.
const ParamException = "exception"

// Event carries the state of one request through the lifecycle.
type Event struct {
	name        string
	application *Application
	params      map[string]any
	stopped     bool

	Request    *http.Request
	Response   *http.Response
	Router     *router.Router
	RouteMatch *router.RouteMatch
	ViewModel  *ViewModel
	Result     any
	Error      string
}

// NewEvent creates an event for app. app may be nil for standalone use.
func NewEvent(name string, app *Application) *Event {
	return &Event{name: name, application: app, params: map[string]any{}}
}

func (e *Event) Name() string {
	return e.name
}

func (e *Event) SetName(name string) {
	e.name = name
}

func (e *Event) Application() *Application {
	return e.application
}

func (e *Event) Param(name string) any {
	return e.params[name]
}

// SetParam stores a parameter. A nil value removes it.
func (e *Event) SetParam(name string, value any) {
	if value == nil {
		delete(e.params, name)
		return
	}
	e.params[name] = value
}

func (e *Event) Params() map[string]any {
	out := make(map[string]any, len(e.params))
	for k, v := range e.params {
		out[k] = v
	}
	return out
}

// Exception returns the stored application error, if any.
func (e *Event) Exception() error {
	err, _ := e.params[ParamException].(error)
	return err
}

func (e *Event) IsError() bool {
	return e.Error != ""
}

// StopPropagation stops the remaining listeners of the current trigger.
func (e *Event) StopPropagation(stop bool) {
	e.stopped = stop
}

func (e *Event) PropagationIsStopped() bool {
	return e.stopped
}
