package mvc

import (
	"sort"
	"sync"

	"github.com/abdul-hamid-achik/mvctest/packages/core/config"
)

// ModuleFactory creates a module instance. Modules are plain values; what the
// kernel does with one depends on the capability interfaces it implements.
type ModuleFactory func() any

// ConfigProvider contributes routes, templates and services.
type ConfigProvider interface {
	Config() *config.ModuleConfig
}

// ServiceProvider registers service factories.
type ServiceProvider interface {
	RegisterServices(sm *ServiceManager) error
}

// ControllerProvider contributes controller factories keyed by controller
// name, as referenced by a route's "controller" default.
type ControllerProvider interface {
	Controllers() map[string]ControllerFactory
}

// DependencyIndicator names modules that must be loaded first.
type DependencyIndicator interface {
	Dependencies() []string
}

// BootstrapListener runs once the application is bootstrapped.
type BootstrapListener interface {
	OnBootstrap(e *Event) error
}

// Catalog maps module names to factories. Go modules are compiled in, so the
// catalog plays the part of a module autoloader.
type Catalog struct {
	mu        sync.RWMutex
	factories map[string]ModuleFactory
}

func NewCatalog() *Catalog {
	return &Catalog{factories: make(map[string]ModuleFactory)}
}

func (c *Catalog) Register(name string, f ModuleFactory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.factories[name] = f
}

func (c *Catalog) Lookup(name string) (ModuleFactory, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	f, ok := c.factories[name]
	return f, ok
}

// Names returns the registered module names, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.factories))
	for name := range c.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone copies the catalog so a caller can add modules locally.
func (c *Catalog) Clone() *Catalog {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := NewCatalog()
	for name, f := range c.factories {
		out.factories[name] = f
	}
	return out
}

// DefaultCatalog is used when no catalog is given to Init.
var DefaultCatalog = NewCatalog()

// RegisterModule adds a module to DefaultCatalog. Call it from init.
func RegisterModule(name string, f ModuleFactory) {
	DefaultCatalog.Register(name, f)
}

func init() {
	RegisterModule("Router", func() any { return routerModule{} })
}

// routerModule provides the Router service built from the merged route
// configuration.
type routerModule struct{}

func (routerModule) RegisterServices(sm *ServiceManager) error {
	sm.SetFactory(ServiceRouter, routerFactory)
	return nil
}
