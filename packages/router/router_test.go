package router

import (
	"testing"

	"github.com/abdul-hamid-achik/mvctest/packages/core/config"
	"github.com/abdul-hamid-achik/mvctest/packages/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func request(t *testing.T, method, uri string) *http.Request {
	t.Helper()
	req := http.NewRequest().SetMethod(method)
	require.NoError(t, req.SetURI(uri))
	return req
}

func bazRoutes() config.RouterConfig {
	defaults := map[string]string{"controller": "baz_index", "action": "unittests"}
	return config.RouterConfig{Routes: map[string]config.RouteConfig{
		"myroute":    {Type: "literal", Route: "/tests", Defaults: defaults},
		"myroutebis": {Type: "literal", Route: "/tests-bis", Defaults: defaults},
		"dnsroute": {
			Type:        "hostname",
			Route:       ":subdomain.domain.tld",
			Constraints: map[string]string{"subdomain": `\w+`},
			Defaults:    defaults,
		},
		"parametrized": {Type: "segment", Route: "/with-param/:param", Defaults: defaults},
		"optional":     {Type: "segment", Route: "/blog[/:slug]"},
		"post-only":    {Type: "literal", Route: "/submit", Methods: []string{"post"}},
	}}
}

func TestRouter_Match(t *testing.T) {
	r, err := FromConfig(bazRoutes())
	require.NoError(t, err)

	tests := []struct {
		name      string
		method    string
		uri       string
		wantRoute string
		wantParam map[string]string
	}{
		{"literal", "GET", "/tests", "myroute", map[string]string{"action": "unittests"}},
		{"literal with query", "GET", "/tests?foo=bar", "myroute", nil},
		{"hostname", "GET", "http://my.domain.tld:443", "dnsroute", map[string]string{"subdomain": "my"}},
		{"segment", "GET", "/with-param/foo", "parametrized", map[string]string{"param": "foo", "controller": "baz_index"}},
		{"optional absent", "GET", "/blog", "optional", nil},
		{"optional present", "GET", "/blog/hello", "optional", map[string]string{"slug": "hello"}},
		{"method allowed", "POST", "/submit", "post-only", nil},
		{"method refused", "GET", "/submit", "", nil},
		{"no match", "GET", "/nowhere", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match := r.Match(request(t, tt.method, tt.uri))
			if tt.wantRoute == "" {
				assert.Nil(t, match)
				return
			}
			require.NotNil(t, match)
			assert.Equal(t, tt.wantRoute, match.MatchedRouteName())
			for k, v := range tt.wantParam {
				assert.Equal(t, v, match.Param(k, ""), "param %s", k)
			}
		})
	}
}

func TestRouter_Assemble(t *testing.T) {
	r, err := FromConfig(bazRoutes())
	require.NoError(t, err)

	url, err := r.Assemble("myroute", nil)
	require.NoError(t, err)
	assert.Equal(t, "/tests", url)

	url, err = r.Assemble("parametrized", map[string]string{"param": "bar"})
	require.NoError(t, err)
	assert.Equal(t, "/with-param/bar", url)

	url, err = r.Assemble("optional", nil)
	require.NoError(t, err)
	assert.Equal(t, "/blog", url)

	url, err = r.Assemble("optional", map[string]string{"slug": "x"})
	require.NoError(t, err)
	assert.Equal(t, "/blog/x", url)

	_, err = r.Assemble("parametrized", nil)
	assert.ErrorIs(t, err, ErrMissingParameter)

	_, err = r.Assemble("unknown", nil)
	assert.ErrorIs(t, err, ErrRouteNotFound)
}

func TestRouter_Priority(t *testing.T) {
	r := NewRouter()
	low, err := NewRoute("low", config.RouteConfig{Type: "segment", Route: "/:any"})
	require.NoError(t, err)
	high, err := NewRoute("high", config.RouteConfig{Type: "literal", Route: "/exact", Priority: 10})
	require.NoError(t, err)

	r.AddRoute(low)
	r.AddRoute(high)

	match := r.Match(request(t, "GET", "/exact"))
	require.NotNil(t, match)
	assert.Equal(t, "high", match.MatchedRouteName())
	assert.Len(t, r.Routes(), 2)
}

func TestRouter_AddRouteReplaces(t *testing.T) {
	r := NewRouter()
	first, _ := NewRoute("a", config.RouteConfig{Route: "/one"})
	second, _ := NewRoute("a", config.RouteConfig{Route: "/two"})
	r.AddRoute(first)
	r.AddRoute(second)

	assert.Len(t, r.Routes(), 1)
	assert.Nil(t, r.Match(request(t, "GET", "/one")))
	assert.NotNil(t, r.Match(request(t, "GET", "/two")))
}

func TestNewRoute_Errors(t *testing.T) {
	_, err := NewRoute("x", config.RouteConfig{Type: "regex", Route: "/x"})
	assert.ErrorIs(t, err, ErrUnknownRouteType)

	_, err = NewRoute("x", config.RouteConfig{Type: "segment", Route: "/x[/:y"})
	assert.Error(t, err)

	_, err = NewRoute("x", config.RouteConfig{Type: "segment", Route: "/x]"})
	assert.Error(t, err)
}

func TestRouteMatch(t *testing.T) {
	m := NewRouteMatch("r", map[string]string{"a": "1"})
	assert.Equal(t, "1", m.Param("a", ""))
	assert.Equal(t, "def", m.Param("b", "def"))

	m.SetParam("b", "2")
	m.SetMatchedRouteName("other")
	assert.Equal(t, "other", m.MatchedRouteName())
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, m.Params())
}
