// Package testmodules registers the example modules used by the fixture and
// loader tests in mvc.DefaultCatalog, and builds the application configs
// those tests start from.
package testmodules

import (
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/mvctest/internal/testmodules/bar"
	"github.com/abdul-hamid-achik/mvctest/internal/testmodules/baz"
	"github.com/abdul-hamid-achik/mvctest/internal/testmodules/foo"
	"github.com/abdul-hamid-achik/mvctest/internal/testmodules/modulewithevents"
	namespaced "github.com/abdul-hamid-achik/mvctest/internal/testmodules/modulewithnamespace/testmodule"
	similartest "github.com/abdul-hamid-achik/mvctest/internal/testmodules/modulewithsimilarname/test"
	similartestmodule "github.com/abdul-hamid-achik/mvctest/internal/testmodules/modulewithsimilarname/testmodule"
	"github.com/abdul-hamid-achik/mvctest/packages/core/config"
)

// Catalog names of the registered modules.
const (
	Baz                             = baz.Name
	Foo                             = foo.Name
	Bar                             = bar.Name
	ModuleWithEvents                = modulewithevents.Name
	ModuleWithNamespace             = namespaced.Name
	ModuleWithSimilarNameTest       = similartest.Name
	ModuleWithSimilarNameTestModule = similartestmodule.Name
)

// CacheDir is where the merged module config would be cached if caching
// were left on.
func CacheDir() string {
	return filepath.Join(os.TempDir(), "mvctest-module-cache")
}

// Config is the base application: the router and Baz, with config caching
// requested so tests can check that fixtures turn it off.
func Config() *config.ApplicationConfig {
	cfg := config.DefaultConfig()
	cfg.Modules = []string{"Router", Baz}
	cfg.ModuleListenerOptions.ConfigCacheEnabled = config.BoolPtr(true)
	cfg.ModuleListenerOptions.ConfigCacheKey = "testmodules"
	cfg.ModuleListenerOptions.CacheDir = CacheDir()
	return cfg
}

// WithDependencies adds Foo and Bar to the base application.
func WithDependencies() *config.ApplicationConfig {
	cfg := config.DefaultConfig()
	cfg.Modules = []string{"Router", Baz, Foo, Bar}
	return cfg
}

// WithDependenciesDisabled loads Bar without the Foo module it relies on.
func WithDependenciesDisabled() *config.ApplicationConfig {
	cfg := config.DefaultConfig()
	cfg.Modules = []string{"Router", Baz, Bar}
	return cfg
}

// WithSharedEvents adds ModuleWithEvents to the base application.
func WithSharedEvents() *config.ApplicationConfig {
	cfg := config.DefaultConfig()
	cfg.Modules = []string{"Router", Baz, ModuleWithEvents}
	return cfg
}
