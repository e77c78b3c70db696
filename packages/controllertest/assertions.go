package controllertest

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/abdul-hamid-achik/mvctest/packages/assertions"
	"github.com/abdul-hamid-achik/mvctest/packages/constraint"
	"github.com/abdul-hamid-achik/mvctest/packages/http"
	"github.com/abdul-hamid-achik/mvctest/packages/mvc"
	"github.com/abdul-hamid-achik/mvctest/packages/router"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// AssertModulesLoaded asserts that every named module was loaded.
func (f *Fixture) AssertModulesLoaded(modules ...string) bool {
	f.t.Helper()
	return f.report(f.checkModules(modules, true))
}

// AssertNotModulesLoaded asserts that none of the named modules was loaded.
func (f *Fixture) AssertNotModulesLoaded(modules ...string) bool {
	f.t.Helper()
	return f.report(f.checkModules(modules, false))
}

func (f *Fixture) checkModules(modules []string, wantLoaded bool) error {
	app, err := f.Application()
	if err != nil {
		return err
	}
	mm, err := app.ModuleManager()
	if err != nil {
		return assertions.Usagef("invalid ModuleManager found in ServiceManager: %w", err)
	}

	loaded := make(map[string]bool)
	for _, name := range mm.GetModules() {
		loaded[name] = true
	}
	var list []string
	for _, name := range modules {
		if loaded[name] != wantLoaded {
			list = append(list, name)
		}
	}
	if len(list) == 0 {
		return nil
	}
	if wantLoaded {
		return f.failf(`Several modules are not loaded "%s"`, strings.Join(list, ", "))
	}
	return f.failf(`Several modules WAS not loaded "%s"`, strings.Join(list, ", "))
}

func (f *Fixture) response() (*http.Response, error) {
	app, err := f.Application()
	if err != nil {
		return nil, err
	}
	return app.Response(), nil
}

// AssertResponseStatusCode asserts the status code of the last response.
func (f *Fixture) AssertResponseStatusCode(code int) bool {
	f.t.Helper()
	return f.report(f.checkStatusCode(code, true))
}

// AssertNotResponseStatusCode asserts the last response has another status.
func (f *Fixture) AssertNotResponseStatusCode(code int) bool {
	f.t.Helper()
	return f.report(f.checkStatusCode(code, false))
}

func (f *Fixture) checkStatusCode(code int, want bool) error {
	resp, err := f.response()
	if err != nil {
		return err
	}
	match := resp.StatusCode
	switch {
	case want && code != match:
		return f.failf(`Failed asserting response code "%d", actual status code is "%d"`, code, match)
	case !want && code == match:
		return f.failf(`Failed asserting response code was NOT "%d"`, code)
	}
	return nil
}

// AssertApplicationException asserts that the last run stored an application
// error and returns it. target selects the expected error: nil accepts any
// error, an error value is matched with errors.Is and a pointer to an error
// type with errors.As. A non-empty message must be part of the error text.
// With trace-error on, the error is consumed: later failure messages no
// longer list it.
func (f *Fixture) AssertApplicationException(target any, message string) error {
	f.t.Helper()
	app, err := f.Application()
	if err != nil {
		f.report(err)
		return nil
	}

	e := app.MvcEvent()
	exception := e.Exception()
	if exception == nil {
		f.report(f.failf(`Failed asserting application exception, param "exception" does not exist`))
		return nil
	}
	if f.traceError {
		e.SetParam(mvc.ParamException, nil)
	}

	ok, name, err := matchError(exception, target)
	if err != nil {
		f.report(err)
		return exception
	}
	if !ok {
		f.report(assertions.Failf(`Failed asserting that exception of type "%s" is thrown, actual exception is "%T" with message '%s'`, name, exception, exception.Error()))
		return exception
	}
	if message != "" && !strings.Contains(exception.Error(), message) {
		f.report(assertions.Failf(`Failed asserting that exception message '%s' contains '%s'`, exception.Error(), message))
	}
	return exception
}

func matchError(err error, target any) (bool, string, error) {
	switch t := target.(type) {
	case nil:
		return true, "error", nil
	case error:
		return errors.Is(err, t), fmt.Sprintf("%T", t), nil
	}

	typ := reflect.TypeOf(target)
	if typ.Kind() != reflect.Pointer || reflect.ValueOf(target).IsNil() {
		return false, "", assertions.Usagef("exception target must be an error or a non-nil pointer, got %T", target)
	}
	elem := typ.Elem()
	if elem.Kind() != reflect.Interface && !elem.Implements(errorType) {
		return false, "", assertions.Usagef("exception target %T does not point to an error type", target)
	}
	return errors.As(err, target), elem.String(), nil
}

// AssertModuleName asserts, ignoring case, the module of the dispatched
// controller.
func (f *Fixture) AssertModuleName(module string) bool {
	f.t.Helper()
	return f.report(f.evaluate(module, constraint.IsCurrentModuleName(f)))
}

func (f *Fixture) AssertNotModuleName(module string) bool {
	f.t.Helper()
	return f.report(f.evaluate(module, constraint.Not(constraint.IsCurrentModuleName(f))))
}

func (f *Fixture) routeMatch() (*router.RouteMatch, error) {
	app, err := f.Application()
	if err != nil {
		return nil, err
	}
	match := app.MvcEvent().RouteMatch
	if match == nil {
		return nil, f.failf("No route matched")
	}
	return match, nil
}

func (f *Fixture) controller() (mvc.Controller, error) {
	match, err := f.routeMatch()
	if err != nil {
		return nil, err
	}
	name := match.Param("controller", "")
	if name == "" {
		return nil, assertions.Usagef("no string controller identifier discovered in route match")
	}
	cm, err := f.app.ControllerManager()
	if err != nil {
		return nil, assertions.Usagef("invalid ControllerManager instance in ServiceManager: %w", err)
	}
	ctrl, err := cm.Get(name)
	if err != nil {
		return nil, assertions.Usagef("did not receive a controller for %s: %w", name, err)
	}
	return ctrl, nil
}

// AssertControllerClass asserts, ignoring case, the type name of the
// dispatched controller without its package.
func (f *Fixture) AssertControllerClass(class string) bool {
	f.t.Helper()
	return f.report(f.checkControllerClass(class, true))
}

func (f *Fixture) AssertNotControllerClass(class string) bool {
	f.t.Helper()
	return f.report(f.checkControllerClass(class, false))
}

func (f *Fixture) checkControllerClass(class string, want bool) error {
	ctrl, err := f.controller()
	if err != nil {
		return err
	}
	match := strings.ToLower(mvc.ShortClassName(mvc.ClassName(ctrl)))
	class = strings.ToLower(class)
	switch {
	case want && class != match:
		return f.failf(`Failed asserting controller class "%s", actual controller class is "%s"`, class, match)
	case !want && class == match:
		return f.failf(`Failed asserting controller class was NOT "%s"`, class)
	}
	return nil
}

// AssertControllerName asserts, ignoring case, the controller name the route
// matched.
func (f *Fixture) AssertControllerName(name string) bool {
	f.t.Helper()
	return f.report(f.checkParam("controller", name, true))
}

func (f *Fixture) AssertNotControllerName(name string) bool {
	f.t.Helper()
	return f.report(f.checkParam("controller", name, false))
}

// AssertActionName asserts, ignoring case, the action the route matched.
func (f *Fixture) AssertActionName(name string) bool {
	f.t.Helper()
	return f.report(f.checkParam("action", name, true))
}

func (f *Fixture) AssertNotActionName(name string) bool {
	f.t.Helper()
	return f.report(f.checkParam("action", name, false))
}

func (f *Fixture) checkParam(param, expected string, want bool) error {
	match, err := f.routeMatch()
	if err != nil {
		return err
	}
	actual := strings.ToLower(match.Param(param, ""))
	expected = strings.ToLower(expected)
	switch {
	case want && expected != actual:
		return f.failf(`Failed asserting %s name "%s", actual %s name is "%s"`, param, expected, param, actual)
	case !want && expected == actual:
		return f.failf(`Failed asserting %s name was NOT "%s"`, param, expected)
	}
	return nil
}

// AssertMatchedRouteName asserts, ignoring case, the name of the matched
// route.
func (f *Fixture) AssertMatchedRouteName(route string) bool {
	f.t.Helper()
	return f.report(f.checkRouteName(route, true))
}

func (f *Fixture) AssertNotMatchedRouteName(route string) bool {
	f.t.Helper()
	return f.report(f.checkRouteName(route, false))
}

func (f *Fixture) checkRouteName(route string, want bool) error {
	match, err := f.routeMatch()
	if err != nil {
		return err
	}
	actual := strings.ToLower(match.MatchedRouteName())
	route = strings.ToLower(route)
	switch {
	case want && route != actual:
		return f.failf(`Failed asserting matched route name was "%s", actual matched route name is "%s"`, route, actual)
	case !want && route == actual:
		return f.failf(`Failed asserting route matched was NOT "%s"`, route)
	}
	return nil
}

// AssertNoMatchedRoute asserts that routing found no route.
func (f *Fixture) AssertNoMatchedRoute() bool {
	f.t.Helper()
	app, err := f.Application()
	if err != nil {
		return f.report(err)
	}
	if match := app.MvcEvent().RouteMatch; match != nil {
		return f.report(f.failf(`Failed asserting that no route matched, actual matched route name is "%s"`, match.MatchedRouteName()))
	}
	return true
}

// AssertTemplateName asserts that the template was used in the view model
// tree, searched according to the template search policy.
func (f *Fixture) AssertTemplateName(template string) bool {
	f.t.Helper()
	return f.report(f.checkTemplate(template, true))
}

func (f *Fixture) AssertNotTemplateName(template string) bool {
	f.t.Helper()
	return f.report(f.checkTemplate(template, false))
}

func (f *Fixture) checkTemplate(template string, want bool) error {
	app, err := f.Application()
	if err != nil {
		return err
	}
	found := searchTemplates(app.MvcEvent().ViewModel, template, f.search)
	switch {
	case want && !found:
		return f.failf(`Failed asserting template "%s" was used`, template)
	case !want && found:
		return f.failf(`Failed asserting template "%s" was NOT used`, template)
	}
	return nil
}

func searchTemplates(model *mvc.ViewModel, template string, search TemplateSearch) bool {
	if model == nil {
		return false
	}
	if model.Template == template {
		return true
	}
	for _, child := range model.Children {
		found := searchTemplates(child, template, search)
		if search == SearchFirstChild || found {
			return found
		}
	}
	return false
}
