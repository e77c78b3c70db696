package controllertest_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/abdul-hamid-achik/mvctest/internal/testmodules"
	"github.com/abdul-hamid-achik/mvctest/packages/controllertest"
	"github.com/abdul-hamid-achik/mvctest/packages/core/config"
	"github.com/stretchr/testify/require"
)

// recorder is a TestingT that keeps failures instead of stopping the test.
type recorder struct {
	name     string
	failed   bool
	messages []string
}

func (r *recorder) Helper() {}

func (r *recorder) Errorf(format string, args ...any) {
	r.messages = append(r.messages, fmt.Sprintf(format, args...))
}

func (r *recorder) FailNow() {
	r.failed = true
}

func (r *recorder) Name() string {
	return r.name
}

func (r *recorder) last() string {
	if len(r.messages) == 0 {
		return ""
	}
	return r.messages[len(r.messages)-1]
}

func (r *recorder) reset() {
	r.failed = false
	r.messages = nil
}

func newFixture(t *testing.T, opts ...controllertest.Option) *controllertest.HTTPFixture {
	t.Helper()
	opts = append([]controllertest.Option{controllertest.WithApplicationConfig(testmodules.Config())}, opts...)
	return controllertest.NewHTTPFixture(t, opts...)
}

// recording returns a fixture reporting to a recorder, for tests that check
// failures.
func recording(t *testing.T, cfg *config.ApplicationConfig) (*controllertest.HTTPFixture, *recorder) {
	t.Helper()
	if cfg == nil {
		cfg = testmodules.Config()
	}
	rec := &recorder{name: t.Name()}
	f := controllertest.NewHTTPFixture(rec, controllertest.WithApplicationConfig(cfg))
	t.Cleanup(func() { f.Reset(false) })
	return f, rec
}

// requireFailure checks that the last assertion failed with a message
// containing each of parts, then clears the recorder.
func requireFailure(t *testing.T, rec *recorder, passed bool, parts ...string) {
	t.Helper()
	require.False(t, passed)
	require.True(t, rec.failed, "expected the assertion to fail")
	for _, p := range parts {
		require.True(t, strings.Contains(rec.last(), p), "message %q does not contain %q", rec.last(), p)
	}
	rec.reset()
}

func modules(names ...string) *config.ApplicationConfig {
	cfg := config.DefaultConfig()
	cfg.Modules = append([]string{"Router"}, names...)
	return cfg
}
