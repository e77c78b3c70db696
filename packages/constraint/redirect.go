package constraint

import (
	"github.com/abdul-hamid-achik/mvctest/packages/assertions"
	"github.com/abdul-hamid-achik/mvctest/packages/http"
	"github.com/abdul-hamid-achik/mvctest/packages/mvc"
)

func location(tc TestCase) (string, bool) {
	app, err := tc.Application()
	if err != nil {
		return "", false
	}
	var resp *http.Response
	if e := app.MvcEvent(); e != nil && e.Response != nil {
		resp = e.Response
	} else {
		resp = app.Response()
	}
	if resp == nil || !resp.HasHeader("Location") {
		return "", false
	}
	return resp.Header("Location"), true
}

type hasRedirect struct {
	tc TestCase
}

// HasRedirect holds when the response carries a Location header. The
// observed value is ignored.
func HasRedirect(tc TestCase) Constraint {
	return hasRedirect{tc: tc}
}

func (c hasRedirect) Matches(any) (bool, error) {
	_, ok := location(c.tc)
	return ok, nil
}

func (c hasRedirect) String() string {
	return "has a redirect"
}

func (c hasRedirect) FailureDescription(other any) string {
	return describe(other, c)
}

type isRedirectedRouteName struct {
	tc TestCase
}

// IsRedirectedRouteName holds when the observed route name assembles, through
// the dispatched controller's url plugin, to the response's Location.
func IsRedirectedRouteName(tc TestCase) Constraint {
	return isRedirectedRouteName{tc: tc}
}

func (c isRedirectedRouteName) Matches(other any) (bool, error) {
	route, ok := other.(string)
	if !ok {
		return false, nil
	}
	loc, ok := location(c.tc)
	if !ok {
		return false, nil
	}

	ctrl, err := controllerFor(c.tc)
	if err != nil {
		return false, err
	}
	provider, ok := ctrl.(mvc.PluginProvider)
	if !ok {
		return false, assertions.Usagef("url controller plugin not found; cannot determine if URL matches route")
	}
	plugin, _ := provider.Plugin(mvc.PluginURL)
	urlPlugin, ok := plugin.(*mvc.URLPlugin)
	if !ok {
		return false, assertions.Usagef("url controller plugin not found; cannot determine if URL matches route")
	}

	url, err := urlPlugin.FromRoute(route, nil)
	if err != nil {
		return false, assertions.Usagef("assembling route %q: %w", route, err)
	}
	return loc == url, nil
}

func (c isRedirectedRouteName) String() string {
	return "is the redirected route name"
}

func (c isRedirectedRouteName) FailureDescription(other any) string {
	return describe(other, c)
}
