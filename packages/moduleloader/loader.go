package moduleloader

import (
	"fmt"

	"github.com/abdul-hamid-achik/mvctest/packages/core/config"
	"github.com/abdul-hamid-achik/mvctest/packages/logging"
	"github.com/abdul-hamid-achik/mvctest/packages/mvc"
)

// Loader holds an application bootstrapped from a module list.
type Loader struct {
	app     *mvc.Application
	modules *mvc.ModuleManager
}

type options struct {
	catalog *mvc.Catalog
}

// Option configures New.
type Option func(*options)

// WithCatalog resolves module names against c instead of mvc.DefaultCatalog.
func WithCatalog(c *mvc.Catalog) Option {
	return func(o *options) {
		o.catalog = c
	}
}

// New loads modules eagerly. modules is a []string of module names, a
// map[string]string of module name to module path, or a full
// *config.ApplicationConfig. The list forms get the default modules
// prepended.
func New(modules any, opts ...Option) (*Loader, error) {
	o := &options{catalog: mvc.DefaultCatalog}
	for _, opt := range opts {
		opt(o)
	}

	cfg, err := normalize(modules)
	if err != nil {
		return nil, err
	}

	app, err := mvc.Init(cfg, mvc.WithCatalog(o.catalog), mvc.WithOutput(nil))
	if err != nil {
		return nil, err
	}
	mm, err := app.ModuleManager()
	if err != nil {
		return nil, err
	}

	logging.Debug("ModuleLoader", "loaded modules %v", mm.GetModules())
	return &Loader{app: app, modules: mm}, nil
}

func normalize(modules any) (*config.ApplicationConfig, error) {
	switch m := modules.(type) {
	case *config.ApplicationConfig:
		if m == nil {
			return nil, fmt.Errorf("nil application config")
		}
		return m.Clone(), nil
	case config.ApplicationConfig:
		return m.Clone(), nil
	default:
		return config.FromModuleList(modules)
	}
}

func (l *Loader) Application() *mvc.Application {
	return l.app
}

func (l *Loader) ServiceManager() *mvc.ServiceManager {
	return l.app.ServiceManager()
}

func (l *Loader) ModuleManager() *mvc.ModuleManager {
	return l.modules
}

// Module returns a loaded module instance.
func (l *Loader) Module(name string) (any, bool) {
	return l.modules.GetModule(name)
}
