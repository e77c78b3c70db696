// Package server serves an application configuration over HTTP. Every
// request gets a freshly built application, so what a browser sees is what a
// controller test dispatching the same URL would see.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	nethttp "net/http"
	"sync"
	"time"

	"github.com/abdul-hamid-achik/mvctest/packages/core/config"
	"github.com/abdul-hamid-achik/mvctest/packages/coverage"
	"github.com/abdul-hamid-achik/mvctest/packages/http"
	"github.com/abdul-hamid-achik/mvctest/packages/logging"
	"github.com/abdul-hamid-achik/mvctest/packages/mvc"
)

// SessionCookie carries the session identifier between requests.
const SessionCookie = "MVCTESTSESSID"

// Server builds an application per request from its configuration.
type Server struct {
	mu       sync.RWMutex
	cfg      *config.ApplicationConfig
	catalog  *mvc.Catalog
	port     int
	delay    time.Duration
	verbose  bool
	sessions *sessionStore
	coverage *coverage.Tracker
}

// Option is a functional option for Server
type Option func(*Server)

// WithPort sets the server port
func WithPort(port int) Option {
	return func(s *Server) {
		s.port = port
	}
}

// WithDelay adds a delay to all responses
func WithDelay(delay time.Duration) Option {
	return func(s *Server) {
		s.delay = delay
	}
}

// WithVerbose logs every request at info level
func WithVerbose(verbose bool) Option {
	return func(s *Server) {
		s.verbose = verbose
	}
}

// WithCatalog sets the module catalog applications are built from.
func WithCatalog(c *mvc.Catalog) Option {
	return func(s *Server) {
		s.catalog = c
	}
}

// WithCoverage records every request, and the route it matched, in tr.
func WithCoverage(tr *coverage.Tracker) Option {
	return func(s *Server) {
		s.coverage = tr
	}
}

// NewServer creates a server for cfg. Config caching is turned off so edits
// to module overlays show up on the next request.
func NewServer(cfg *config.ApplicationConfig, opts ...Option) *Server {
	s := &Server{
		port:     8080,
		catalog:  mvc.DefaultCatalog,
		sessions: newSessionStore(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.SetConfig(cfg)
	return s
}

// SetConfig replaces the configuration used for subsequent requests.
func (s *Server) SetConfig(cfg *config.ApplicationConfig) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	cfg = cfg.Clone()
	cfg.DisableConfigCache()

	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
}

// Config returns a copy of the current configuration.
func (s *Server) Config() *config.ApplicationConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Clone()
}

// Addr is the listen address.
func (s *Server) Addr() string {
	return fmt.Sprintf(":%d", s.port)
}

// Handle runs req through a new application and returns its response.
func (s *Server) Handle(req *http.Request) (*http.Response, error) {
	g := mvc.NewGlobals()
	g.Get = req.Query
	g.Post = req.Post
	for k, v := range req.Cookies {
		g.Cookie[k] = v
	}
	sid := req.Cookies[SessionCookie]
	if session, ok := s.sessions.load(sid); ok {
		g.Session = session
		g.SessionID = sid
	}

	app, err := mvc.Init(s.Config(),
		mvc.WithCatalog(s.catalog),
		mvc.WithGlobals(g),
		mvc.WithOutput(io.Discard),
	)
	if err != nil {
		return nil, fmt.Errorf("initializing application: %w", err)
	}
	app.SetRequest(req)
	app.Run()

	e := app.MvcEvent()
	if s.coverage != nil {
		route := ""
		if e.RouteMatch != nil {
			route = e.RouteMatch.MatchedRouteName()
		}
		s.coverage.Record(req.Method, req.Path(), route)
	}

	resp := app.Response()
	if g.HasSession() {
		s.sessions.store(g.SessionID, g.Session)
		if g.SessionID != sid {
			resp.Headers.Add("Set-Cookie", (&nethttp.Cookie{Name: SessionCookie, Value: g.SessionID, Path: "/", HttpOnly: true}).String())
		}
	}
	if e.IsError() {
		logging.Warn("Server", "%s %s: %s", req.Method, req.RequestURI, e.Error)
	}
	return resp, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w nethttp.ResponseWriter, r *nethttp.Request) {
	start := time.Now()

	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	req, err := http.FromStdRequest(r)
	if err != nil {
		nethttp.Error(w, err.Error(), nethttp.StatusBadRequest)
		return
	}

	resp, err := s.Handle(req)
	if err != nil {
		logging.Error("Server", err, "%s %s", r.Method, r.URL.Path)
		nethttp.Error(w, err.Error(), nethttp.StatusInternalServerError)
		return
	}
	if err := resp.Write(w); err != nil {
		logging.Error("Server", err, "writing response for %s", r.URL.Path)
	}

	if s.verbose {
		logging.Info("Server", "%s %s -> %d (%s)", r.Method, r.URL.Path, resp.StatusCode, time.Since(start))
	}
}

// StartWithContext serves until ctx is done, then shuts down gracefully.
func (s *Server) StartWithContext(ctx context.Context) error {
	server := &nethttp.Server{
		Addr:              s.Addr(),
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := context.WithCancel(ctx)
	defer stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logging.Info("Server", "listening on http://localhost:%d with modules %v", s.port, s.Config().Modules)
	err := server.ListenAndServe()
	stop()
	<-done
	if err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		return err
	}
	return nil
}

type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]map[string]any
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]map[string]any)}
}

// load returns a copy of the session so concurrent requests never share a map.
func (st *sessionStore) load(id string) (map[string]any, bool) {
	if id == "" {
		return nil, false
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	session, ok := st.sessions[id]
	if !ok {
		return nil, false
	}
	out := make(map[string]any, len(session))
	for k, v := range session {
		out[k] = v
	}
	return out, true
}

func (st *sessionStore) store(id string, session map[string]any) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[id] = session
}
