package server_test

import (
	"context"
	"io"
	"net"
	nethttp "net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/mvctest/internal/testmodules"
	"github.com/abdul-hamid-achik/mvctest/packages/core/config"
	"github.com/abdul-hamid-achik/mvctest/packages/coverage"
	"github.com/abdul-hamid-achik/mvctest/packages/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, s *server.Server, target string, cookies ...*nethttp.Cookie) *nethttp.Response {
	t.Helper()
	req := httptest.NewRequest(nethttp.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec.Result()
}

func body(t *testing.T, resp *nethttp.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

func TestServer_ServeHTTP(t *testing.T) {
	s := server.NewServer(testmodules.Config())

	resp := get(t, s, "/tests?num_get=2")
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	content := body(t, resp)
	assert.Contains(t, content, `<div id="content">foo</div>`)
	assert.Equal(t, 2, strings.Count(content, `class="get"`))
}

func TestServer_Errors(t *testing.T) {
	s := server.NewServer(testmodules.Config())

	assert.Equal(t, nethttp.StatusNotFound, get(t, s, "/does-not-exist").StatusCode)
	assert.Equal(t, nethttp.StatusInternalServerError, get(t, s, "/exception").StatusCode)
}

func TestServer_Redirect(t *testing.T) {
	s := server.NewServer(testmodules.Config())

	resp := get(t, s, "/redirect-to-route")
	assert.Equal(t, nethttp.StatusFound, resp.StatusCode)
	assert.Equal(t, "/tests", resp.Header.Get("Location"))
}

func TestServer_PostForm(t *testing.T) {
	s := server.NewServer(testmodules.Config())

	form := url.Values{"num_post": {"3"}}
	req := httptest.NewRequest(nethttp.MethodPost, "/tests", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, 3, strings.Count(rec.Body.String(), `class="post"`))
}

func TestServer_SessionPersistsThroughCookie(t *testing.T) {
	s := server.NewServer(testmodules.Config())

	first := get(t, s, "/tests-persistence")
	assert.Contains(t, body(t, first), `<p id="persistence">0</p>`)

	var session *nethttp.Cookie
	for _, c := range first.Cookies() {
		if c.Name == server.SessionCookie {
			session = c
		}
	}
	require.NotNil(t, session, "session cookie not set")

	second := get(t, s, "/tests-persistence", session)
	assert.Contains(t, body(t, second), `<p id="persistence">1</p>`)
	assert.Empty(t, second.Cookies())

	fresh := get(t, s, "/tests-persistence")
	assert.Contains(t, body(t, fresh), `<p id="persistence">0</p>`)
}

func TestServer_SetConfig(t *testing.T) {
	s := server.NewServer(nil)
	assert.Equal(t, nethttp.StatusNotFound, get(t, s, "/tests").StatusCode)

	s.SetConfig(testmodules.Config())
	assert.Equal(t, nethttp.StatusOK, get(t, s, "/tests").StatusCode)
	assert.False(t, s.Config().ModuleListenerOptions.GetConfigCacheEnabled())
}

func TestServer_InitError(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Modules = []string{"Router", "DoesNotExist"}
	s := server.NewServer(cfg)

	resp := get(t, s, "/tests")
	assert.Equal(t, nethttp.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, body(t, resp), "initializing application")
}

func TestServer_Addr(t *testing.T) {
	assert.Equal(t, ":8080", server.NewServer(nil).Addr())
	assert.Equal(t, ":9999", server.NewServer(nil, server.WithPort(9999)).Addr())
}

func TestServer_Coverage(t *testing.T) {
	tracker := coverage.NewTracker()
	s := server.NewServer(testmodules.Config(), server.WithCoverage(tracker))

	get(t, s, "/tests")
	get(t, s, "/redirect")
	get(t, s, "/nope")

	assert.Equal(t, []coverage.Dispatch{
		{Method: "GET", Path: "/tests", Route: "myroute"},
		{Method: "GET", Path: "/redirect", Route: "redirect"},
		{Method: "GET", Path: "/nope"},
	}, tracker.Dispatches())
}

func TestServer_StartWithContext_ListenError(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer ln.Close()

	port := ln.Addr().(*net.TCPAddr).Port
	s := server.NewServer(testmodules.Config(), server.WithPort(port))

	errs := make(chan error, 1)
	go func() { errs <- s.StartWithContext(context.Background()) }()

	select {
	case err := <-errs:
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("StartWithContext did not return on an occupied port")
	}
}

func TestServer_StartWithContext_Cancel(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	s := server.NewServer(testmodules.Config(), server.WithPort(port))
	ctx, cancel := context.WithCancel(context.Background())

	errs := make(chan error, 1)
	go func() { errs <- s.StartWithContext(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errs:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("StartWithContext did not return after cancel")
	}
}
