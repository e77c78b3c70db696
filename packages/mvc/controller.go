package mvc

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/abdul-hamid-achik/mvctest/packages/http"
)

// Controller handles a dispatched request. The result is a view model, a
// map of view variables, an *http.Response that skips rendering, or nil.
type Controller interface {
	Dispatch(e *Event) (any, error)
}

// ControllerFactory creates a controller.
type ControllerFactory func() Controller

// PluginProvider exposes controller plugins by name.
type PluginProvider interface {
	Plugin(name string) (any, bool)
}

// Plugin names known to ActionController.
const (
	PluginURL            = "url"
	PluginRedirect       = "redirect"
	PluginFlashMessenger = "flashmessenger"
)

// ActionFunc implements one controller action.
type ActionFunc func(e *Event) (any, error)

// ActionController dispatches to registered actions by the route match's
// "action" parameter. Embed it and register actions in the constructor:
//
//	c := &IndexController{}
//	c.Action("unittests", c.unittests)
type ActionController struct {
	event   *Event
	actions map[string]ActionFunc
	plugins map[string]any
}

// Action registers fn under name. Names are compared ignoring case, dashes
// and underscores, so "custom-response" and "customResponse" are the same.
func (c *ActionController) Action(name string, fn ActionFunc) {
	if c.actions == nil {
		c.actions = make(map[string]ActionFunc)
	}
	c.actions[normalizeAction(name)] = fn
}

func (c *ActionController) Dispatch(e *Event) (any, error) {
	c.event = e
	action := "index"
	if e.RouteMatch != nil {
		action = e.RouteMatch.Param("action", "index")
	}

	fn, ok := c.actions[normalizeAction(action)]
	if !ok {
		return c.notFound(e), nil
	}
	return fn(e)
}

func (c *ActionController) notFound(e *Event) *ViewModel {
	if e.Response != nil {
		e.Response.SetStatusCode(404)
	}
	return NewViewModel(map[string]any{"content": "Page not found"})
}

func (c *ActionController) Event() *Event {
	return c.event
}

func (c *ActionController) Request() *http.Request {
	if c.event == nil {
		return nil
	}
	return c.event.Request
}

func (c *ActionController) Response() *http.Response {
	if c.event == nil {
		return nil
	}
	return c.event.Response
}

// Param returns a route match parameter.
func (c *ActionController) Param(name, def string) string {
	if c.event == nil || c.event.RouteMatch == nil {
		return def
	}
	return c.event.RouteMatch.Param(name, def)
}

// Plugin returns a named plugin, creating it on first use.
func (c *ActionController) Plugin(name string) (any, bool) {
	name = strings.ToLower(name)
	if p, ok := c.plugins[name]; ok {
		return p, true
	}

	var p any
	switch name {
	case PluginURL:
		p = &URLPlugin{controller: c}
	case PluginRedirect:
		p = &RedirectPlugin{controller: c}
	case PluginFlashMessenger:
		p = newFlashMessenger(c.globals())
	default:
		return nil, false
	}

	if c.plugins == nil {
		c.plugins = make(map[string]any)
	}
	c.plugins[name] = p
	return p, true
}

func (c *ActionController) URL() *URLPlugin {
	p, _ := c.Plugin(PluginURL)
	return p.(*URLPlugin)
}

func (c *ActionController) Redirect() *RedirectPlugin {
	p, _ := c.Plugin(PluginRedirect)
	return p.(*RedirectPlugin)
}

func (c *ActionController) FlashMessenger() *FlashMessenger {
	p, _ := c.Plugin(PluginFlashMessenger)
	return p.(*FlashMessenger)
}

func (c *ActionController) globals() *Globals {
	if c.event == nil || c.event.Application() == nil {
		return nil
	}
	return c.event.Application().Globals()
}

func normalizeAction(name string) string {
	r := strings.NewReplacer("-", "", "_", "", ".", "")
	return strings.ToLower(r.Replace(name))
}

// ControllerManager creates controllers by name. Instances are shared for the
// lifetime of the application.
type ControllerManager struct {
	factories map[string]ControllerFactory
	instances map[string]Controller
}

func NewControllerManager(factories map[string]ControllerFactory) *ControllerManager {
	cm := &ControllerManager{
		factories: make(map[string]ControllerFactory, len(factories)),
		instances: make(map[string]Controller),
	}
	for name, f := range factories {
		cm.factories[name] = f
	}
	return cm
}

func (cm *ControllerManager) SetFactory(name string, f ControllerFactory) {
	cm.factories[name] = f
	delete(cm.instances, name)
}

func (cm *ControllerManager) Has(name string) bool {
	_, ok := cm.factories[name]
	return ok
}

func (cm *ControllerManager) Get(name string) (Controller, error) {
	if c, ok := cm.instances[name]; ok {
		return c, nil
	}
	f, ok := cm.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrControllerNotFound, name)
	}
	c := f()
	if c == nil {
		return nil, fmt.Errorf("controller factory %s returned nil", name)
	}
	cm.instances[name] = c
	return c, nil
}

// Names lists the registered controller names, sorted.
func (cm *ControllerManager) Names() []string {
	names := make([]string, 0, len(cm.factories))
	for name := range cm.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ClassName returns the fully qualified type name of v: package path, a dot
// and the type name.
func ClassName(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.PkgPath() == "" {
		return t.Name()
	}
	return t.PkgPath() + "." + t.Name()
}

// ShortClassName returns the type name without its package path.
func ShortClassName(className string) string {
	return className[strings.LastIndex(className, ".")+1:]
}

// ModuleNameFor finds which of modules owns the controller class. A module
// "A/B" owns classes whose package path contains the segments a/b. When
// several modules match, the longest name wins. The result is the last
// segment of the module name, lowercased, or "" when nothing matches.
func ModuleNameFor(modules []string, className string) string {
	pkg := className
	if i := strings.LastIndex(className, "."); i >= 0 {
		pkg = className[:i]
	}
	haystack := "/" + strings.ToLower(pkg) + "/"

	best := ""
	for _, module := range modules {
		normalized := strings.Trim(strings.ReplaceAll(module, "\\", "/"), "/")
		if normalized == "" {
			continue
		}
		if strings.Contains(haystack, "/"+strings.ToLower(normalized)+"/") && len(normalized) > len(best) {
			best = normalized
		}
	}
	if best == "" {
		return ""
	}
	return strings.ToLower(best[strings.LastIndex(best, "/")+1:])
}
