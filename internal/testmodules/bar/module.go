// Package bar builds BarObject on top of the Foo module's FooObject. It does
// not declare the dependency, so loading it alone succeeds and only fetching
// BarObject fails.
package bar

import (
	"github.com/abdul-hamid-achik/mvctest/internal/testmodules/foo"
	"github.com/abdul-hamid-achik/mvctest/packages/core/config"
	"github.com/abdul-hamid-achik/mvctest/packages/mvc"
)

const Name = "Bar"

const ServiceBarObject = "BarObject"

func init() {
	mvc.RegisterModule(Name, func() any { return &Module{} })
}

type Module struct{}

func (m *Module) Config() *config.ModuleConfig {
	return &config.ModuleConfig{
		Router: config.RouterConfig{Routes: map[string]config.RouteConfig{
			"barroute": {
				Type:     "literal",
				Route:    "/bar-test",
				Defaults: map[string]string{"controller": "bar_index", "action": "unittests"},
			},
		}},
	}
}

func (m *Module) RegisterServices(sm *mvc.ServiceManager) error {
	sm.SetFactory(ServiceBarObject, func(sm *mvc.ServiceManager) (any, error) {
		obj, err := mvc.GetAs[*foo.Object](sm, foo.ServiceFooObject)
		if err != nil {
			return nil, err
		}
		obj.Bar = "baz"
		return obj, nil
	})
	return nil
}
