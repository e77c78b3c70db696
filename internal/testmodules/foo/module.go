// Package foo provides a route and the FooObject service.
package foo

import (
	"github.com/abdul-hamid-achik/mvctest/packages/core/config"
	"github.com/abdul-hamid-achik/mvctest/packages/mvc"
)

const Name = "Foo"

// ServiceFooObject is the name of the service registered by the module.
const ServiceFooObject = "FooObject"

func init() {
	mvc.RegisterModule(Name, func() any { return &Module{} })
}

// Object is the value behind FooObject. Bar decorates it.
type Object struct {
	Bar string
}

type Module struct{}

func (m *Module) Config() *config.ModuleConfig {
	return &config.ModuleConfig{
		Router: config.RouterConfig{Routes: map[string]config.RouteConfig{
			"fooroute": {
				Type:     "literal",
				Route:    "/foo-test",
				Defaults: map[string]string{"controller": "foo_index", "action": "unittests"},
			},
		}},
	}
}

func (m *Module) RegisterServices(sm *mvc.ServiceManager) error {
	sm.SetFactory(ServiceFooObject, func(*mvc.ServiceManager) (any, error) {
		return &Object{}, nil
	})
	return nil
}
