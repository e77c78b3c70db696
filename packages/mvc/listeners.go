package mvc

import (
	"io"
	"strings"
	"unicode"

	"github.com/abdul-hamid-achik/mvctest/packages/http"
	"github.com/abdul-hamid-achik/mvctest/packages/logging"
)

// Event params set by the dispatch listener.
const (
	ParamController      = "controller"
	ParamControllerClass = "controller-class"
)

func (a *Application) attachDefaultListeners() {
	a.events.Attach(EventRoute, a.onRoute, 1)
	a.events.Attach(EventDispatch, a.onDispatch, 1)
	a.events.Attach(EventDispatch, a.createViewModel, -80)
	a.events.Attach(EventDispatch, a.injectTemplate, -90)
	a.events.Attach(EventDispatch, a.injectViewModel, -100)
	a.events.Attach(EventDispatchError, a.notFoundStrategy, 1)
	a.events.Attach(EventDispatchError, a.exceptionStrategy, 1)
	a.events.Attach(EventRender, a.onRender, -10000)
}

func (a *Application) onRoute(e *Event) any {
	if e.Router == nil {
		r, err := a.Router()
		if err != nil {
			return a.raiseDispatchError(e, ErrorException, err)
		}
		e.Router = r
	}

	match := e.Router.Match(e.Request)
	if match == nil {
		return a.raiseDispatchError(e, ErrorRouterNoMatch, nil)
	}
	e.RouteMatch = match
	return match
}

func (a *Application) onDispatch(e *Event) any {
	if e.RouteMatch == nil {
		return a.raiseDispatchError(e, ErrorRouterNoMatch, nil)
	}

	name := e.RouteMatch.Param("controller", "")
	e.SetParam(ParamController, name)

	cm, err := GetAs[*ControllerManager](a.services, ServiceControllerManager)
	if err != nil {
		return a.raiseDispatchError(e, ErrorException, err)
	}
	if !cm.Has(name) {
		logging.Debug("Dispatch", "controller %q not found", name)
		return a.raiseDispatchError(e, ErrorControllerNotFound, nil)
	}
	ctrl, err := cm.Get(name)
	if err != nil {
		return a.raiseDispatchError(e, ErrorControllerInvalid, err)
	}
	e.SetParam(ParamControllerClass, ClassName(ctrl))

	logging.Debug("Dispatch", "dispatching %s::%s", name, e.RouteMatch.Param("action", "index"))
	result, err := safeDispatch(ctrl, e)
	if err != nil {
		logging.Error("Dispatch", err, "controller %s failed", name)
		return a.raiseDispatchError(e, ErrorException, err)
	}

	e.Result = result
	return result
}

func safeDispatch(c Controller, e *Event) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newPanicError(r)
		}
	}()
	return c.Dispatch(e)
}

// raiseDispatchError records the error and runs the dispatch.error listeners.
func (a *Application) raiseDispatchError(e *Event, kind string, err error) any {
	e.Error = kind
	if err != nil {
		e.SetParam(ParamException, err)
	}

	name := e.Name()
	results := a.events.TriggerEvent(EventDispatchError, e)
	e.SetName(name)
	return results.Last()
}

func (a *Application) createViewModel(e *Event) any {
	switch result := e.Result.(type) {
	case nil:
		e.Result = NewViewModel(nil)
	case map[string]any:
		e.Result = NewViewModel(result)
	case map[string]string:
		vars := make(map[string]any, len(result))
		for k, v := range result {
			vars[k] = v
		}
		e.Result = NewViewModel(vars)
	}
	return nil
}

func (a *Application) injectTemplate(e *Event) any {
	model, ok := e.Result.(*ViewModel)
	if !ok || model.Template != "" {
		return nil
	}
	className, _ := e.Param(ParamControllerClass).(string)
	action := ""
	if e.RouteMatch != nil {
		action = e.RouteMatch.Param("action", "index")
	}
	model.Template = a.inferTemplate(className, action)
	return nil
}

// inferTemplate builds <module>/<controller>/<action>, e.g. baz/index/unittests.
func (a *Application) inferTemplate(className, action string) string {
	module := ModuleNameFor(a.config.Modules, className)
	if module == "" {
		pkg := className
		if i := strings.LastIndex(className, "."); i >= 0 {
			pkg = className[:i]
		}
		module = strings.ToLower(pkg[strings.LastIndex(pkg, "/")+1:])
	}
	controller := strings.TrimSuffix(ShortClassName(className), "Controller")
	return module + "/" + camelToDash(controller) + "/" + camelToDash(action)
}

func camelToDash(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			r = unicode.ToLower(r)
		}
		if r == '_' {
			r = '-'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (a *Application) injectViewModel(e *Event) any {
	model, ok := e.Result.(*ViewModel)
	if !ok {
		return nil
	}
	if model.Terminal || e.ViewModel == nil {
		e.ViewModel = model
		return nil
	}
	e.ViewModel.AddChild(model)
	return nil
}

func (a *Application) notFoundStrategy(e *Event) any {
	switch e.Error {
	case ErrorRouterNoMatch, ErrorControllerNotFound, ErrorControllerInvalid:
	default:
		return nil
	}

	e.Response.SetStatusCode(404)
	model := NewViewModel(map[string]any{
		"message": "Page not found.",
		"reason":  e.Error,
	})
	model.Template = a.viewConfig().NotFoundTemplate
	if model.Template == "" {
		model.Template = DefaultNotFoundTemplate
	}
	a.attachErrorModel(e, model)
	return model
}

func (a *Application) exceptionStrategy(e *Event) any {
	if e.Error != ErrorException {
		return nil
	}

	e.Response.SetStatusCode(500)
	vm := a.viewConfig()
	model := NewViewModel(map[string]any{
		"message":            "An error occurred during execution; please try again later.",
		"display_exceptions": vm.GetDisplayExceptions(),
	})
	if err := e.Exception(); err != nil && vm.GetDisplayExceptions() {
		model.SetVariable("exception", err.Error())
	}
	model.Template = vm.ExceptionTemplate
	if model.Template == "" {
		model.Template = DefaultExceptionTemplate
	}
	a.attachErrorModel(e, model)
	return model
}

func (a *Application) attachErrorModel(e *Event, model *ViewModel) {
	e.Result = model
	if e.ViewModel == nil {
		e.ViewModel = model
		return
	}
	e.ViewModel.AddChild(model)
}

func (a *Application) onRender(e *Event) any {
	if _, ok := e.Result.(*http.Response); ok {
		return nil
	}

	renderer, err := GetAs[*Renderer](a.services, ServiceViewRenderer)
	if err == nil {
		var out string
		out, err = renderer.Render(e.ViewModel)
		if err == nil {
			e.Response.SetBody(out)
			return out
		}
	}

	logging.Error("View", err, "rendering failed")
	e.Error = ErrorException
	e.SetParam(ParamException, err)
	e.Response.SetStatusCode(500)
	e.Response.SetBody(err.Error())

	name := e.Name()
	a.events.TriggerEvent(EventRenderError, e)
	e.SetName(name)
	return nil
}

// SendResponseListener writes the final response on the finish event.
type SendResponseListener struct {
	w       io.Writer
	handles map[*EventManager]ListenerHandle
}

func NewSendResponseListener(w io.Writer) *SendResponseListener {
	return &SendResponseListener{w: w, handles: make(map[*EventManager]ListenerHandle)}
}

func (l *SendResponseListener) Attach(events *EventManager) {
	if _, ok := l.handles[events]; ok {
		return
	}
	l.handles[events] = events.Attach(EventFinish, l.onFinish, -10000)
}

// Detach removes the listener from events.
func (l *SendResponseListener) Detach(events *EventManager) bool {
	h, ok := l.handles[events]
	if !ok {
		return false
	}
	delete(l.handles, events)
	return events.Detach(h)
}

func (l *SendResponseListener) onFinish(e *Event) any {
	if l.w == nil || e.Response == nil {
		return nil
	}
	if _, err := e.Response.WriteTo(l.w); err != nil {
		logging.Error("Application", err, "sending response")
	}
	return nil
}
