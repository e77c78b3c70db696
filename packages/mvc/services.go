package mvc

import (
	"fmt"
	"sort"

	"github.com/abdul-hamid-achik/mvctest/packages/core/config"
)

// Well-known service names.
const (
	ServiceApplicationConfig    = "ApplicationConfig"
	ServiceConfig               = "config"
	ServiceModuleManager        = "ModuleManager"
	ServiceControllerManager    = "ControllerManager"
	ServiceRouter               = "Router"
	ServiceRequest              = "Request"
	ServiceResponse             = "Response"
	ServiceEventManager         = "EventManager"
	ServiceSharedEventManager   = "SharedEventManager"
	ServiceSendResponseListener = "SendResponseListener"
	ServiceViewRenderer         = "ViewRenderer"
	ServiceGlobals              = "Globals"
	ServiceApplication          = "Application"
)

// Factory builds a service on first use.
type Factory func(sm *ServiceManager) (any, error)

// ServiceManager is a minimal service container. Services are shared: a
// factory runs at most once.
type ServiceManager struct {
	services  map[string]any
	factories map[string]Factory
	aliases   map[string]string
	creating  map[string]bool
}

func NewServiceManager() *ServiceManager {
	return &ServiceManager{
		services:  make(map[string]any),
		factories: make(map[string]Factory),
		aliases:   make(map[string]string),
		creating:  make(map[string]bool),
	}
}

// Configure registers plain services and aliases from configuration.
func (sm *ServiceManager) Configure(cfg config.ServiceManagerConfig) {
	for name, v := range cfg.Services {
		sm.SetService(name, v)
	}
	for alias, target := range cfg.Aliases {
		sm.SetAlias(alias, target)
	}
}

func (sm *ServiceManager) SetService(name string, service any) {
	sm.services[name] = service
}

func (sm *ServiceManager) SetFactory(name string, f Factory) {
	delete(sm.services, name)
	sm.factories[name] = f
}

func (sm *ServiceManager) SetAlias(alias, target string) {
	sm.aliases[alias] = target
}

func (sm *ServiceManager) resolve(name string) string {
	seen := map[string]bool{}
	for {
		target, ok := sm.aliases[name]
		if !ok || seen[name] {
			return name
		}
		seen[name] = true
		name = target
	}
}

// Has reports whether a service or factory is registered under name.
func (sm *ServiceManager) Has(name string) bool {
	name = sm.resolve(name)
	if _, ok := sm.services[name]; ok {
		return true
	}
	_, ok := sm.factories[name]
	return ok
}

func (sm *ServiceManager) Get(name string) (any, error) {
	name = sm.resolve(name)
	if s, ok := sm.services[name]; ok {
		return s, nil
	}
	f, ok := sm.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrServiceNotFound, name)
	}
	if sm.creating[name] {
		return nil, fmt.Errorf("%w: %s", ErrServiceCycle, name)
	}

	sm.creating[name] = true
	defer delete(sm.creating, name)

	s, err := f(sm)
	if err != nil {
		return nil, fmt.Errorf("creating service %s: %w", name, err)
	}
	sm.services[name] = s
	return s, nil
}

// Names lists registered service names in sorted order.
func (sm *ServiceManager) Names() []string {
	seen := map[string]bool{}
	for name := range sm.services {
		seen[name] = true
	}
	for name := range sm.factories {
		seen[name] = true
	}
	for name := range sm.aliases {
		seen[name] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetAs fetches a service and asserts its type.
func GetAs[T any](sm *ServiceManager, name string) (T, error) {
	var zero T
	s, err := sm.Get(name)
	if err != nil {
		return zero, err
	}
	typed, ok := s.(T)
	if !ok {
		return zero, fmt.Errorf("service %s is %T, not %T", name, s, zero)
	}
	return typed, nil
}
