package router

import (
	"errors"
	"fmt"
	"sort"

	"github.com/abdul-hamid-achik/mvctest/packages/core/config"
	"github.com/abdul-hamid-achik/mvctest/packages/http"
	"github.com/abdul-hamid-achik/mvctest/packages/logging"
)

var ErrRouteNotFound = errors.New("route not found")

// RouteMatch is the result of routing a request.
type RouteMatch struct {
	name   string
	params map[string]string
}

// NewRouteMatch creates a match for the named route.
func NewRouteMatch(name string, params map[string]string) *RouteMatch {
	p := make(map[string]string, len(params))
	for k, v := range params {
		p[k] = v
	}
	return &RouteMatch{name: name, params: p}
}

func (m *RouteMatch) MatchedRouteName() string {
	return m.name
}

func (m *RouteMatch) SetMatchedRouteName(name string) {
	m.name = name
}

// Param returns the named parameter or def when it is absent.
func (m *RouteMatch) Param(name, def string) string {
	if v, ok := m.params[name]; ok {
		return v
	}
	return def
}

func (m *RouteMatch) SetParam(name, value string) {
	m.params[name] = value
}

// Params returns a copy of all parameters.
func (m *RouteMatch) Params() map[string]string {
	out := make(map[string]string, len(m.params))
	for k, v := range m.params {
		out[k] = v
	}
	return out
}

// Router matches incoming requests to routes
type Router struct {
	routes []*Route
	byName map[string]*Route
}

// NewRouter creates a new router
func NewRouter() *Router {
	return &Router{
		routes: make([]*Route, 0),
		byName: make(map[string]*Route),
	}
}

// FromConfig compiles every route in cfg.
func FromConfig(cfg config.RouterConfig) (*Router, error) {
	r := NewRouter()
	names := make([]string, 0, len(cfg.Routes))
	for name := range cfg.Routes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		route, err := NewRoute(name, cfg.Routes[name])
		if err != nil {
			return nil, err
		}
		r.AddRoute(route)
	}
	return r, nil
}

// AddRoute adds a route, replacing any route with the same name. Routes are
// tried by descending priority, then in the order they were added.
func (r *Router) AddRoute(route *Route) {
	if _, exists := r.byName[route.Name]; exists {
		for i, existing := range r.routes {
			if existing.Name == route.Name {
				r.routes = append(r.routes[:i], r.routes[i+1:]...)
				break
			}
		}
	}
	r.routes = append(r.routes, route)
	r.byName[route.Name] = route
	sort.SliceStable(r.routes, func(i, j int) bool {
		return r.routes[i].Priority > r.routes[j].Priority
	})
}

// Routes returns the routes in matching order.
func (r *Router) Routes() []*Route {
	return append([]*Route(nil), r.routes...)
}

// Route returns a route by name.
func (r *Router) Route(name string) (*Route, bool) {
	route, ok := r.byName[name]
	return route, ok
}

// Match finds the first route matching req, or nil.
func (r *Router) Match(req *http.Request) *RouteMatch {
	for _, route := range r.routes {
		if params := route.Match(req); params != nil {
			logging.Debug("Router", "matched route %s for %s %s", route.Name, req.Method, req.Path())
			return NewRouteMatch(route.Name, params)
		}
	}
	logging.Debug("Router", "no route matched %s %s", req.Method, req.Path())
	return nil
}

// Assemble generates the URL for the named route.
func (r *Router) Assemble(name string, params map[string]string) (string, error) {
	route, ok := r.byName[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrRouteNotFound, name)
	}
	return route.Assemble(params)
}
