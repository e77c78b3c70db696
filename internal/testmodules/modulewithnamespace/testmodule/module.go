// Package testmodule is a module whose name carries a namespace.
package testmodule

import (
	"github.com/abdul-hamid-achik/mvctest/packages/core/config"
	"github.com/abdul-hamid-achik/mvctest/packages/mvc"
)

const Name = "ModuleWithNamespace/TestModule"

func init() {
	mvc.RegisterModule(Name, func() any { return &Module{} })
}

type Module struct{}

func (m *Module) Config() *config.ModuleConfig {
	return &config.ModuleConfig{
		Router: config.RouterConfig{Routes: map[string]config.RouteConfig{
			"namespace_route": {
				Type:     "literal",
				Route:    "/namespace-test",
				Defaults: map[string]string{"controller": "namespace_index", "action": "unittests"},
			},
		}},
		ViewManager: config.ViewManagerConfig{Templates: map[string]string{
			"testmodule/index/unittests": `<p id="module">namespaced</p>`,
		}},
	}
}

func (m *Module) Controllers() map[string]mvc.ControllerFactory {
	return map[string]mvc.ControllerFactory{"namespace_index": NewIndexController}
}

type IndexController struct {
	mvc.ActionController
}

func NewIndexController() mvc.Controller {
	c := &IndexController{}
	c.Action("unittests", func(*mvc.Event) (any, error) {
		return nil, nil
	})
	return c
}
