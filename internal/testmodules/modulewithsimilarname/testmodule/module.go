package testmodule

import (
	"github.com/abdul-hamid-achik/mvctest/packages/core/config"
	"github.com/abdul-hamid-achik/mvctest/packages/mvc"
)

const Name = "ModuleWithSimilarName/TestModule"

func init() {
	mvc.RegisterModule(Name, func() any { return &Module{} })
}

type Module struct{}

func (m *Module) Config() *config.ModuleConfig {
	return &config.ModuleConfig{
		Router: config.RouterConfig{Routes: map[string]config.RouteConfig{
			"similar_name_2_route": {
				Type:     "literal",
				Route:    "/similar-name-2-test",
				Defaults: map[string]string{"controller": "similar_name_2_index", "action": "unittests"},
			},
		}},
		ViewManager: config.ViewManagerConfig{Templates: map[string]string{
			"testmodule/index/unittests": `<p id="module">testmodule</p>`,
		}},
	}
}

func (m *Module) Controllers() map[string]mvc.ControllerFactory {
	return map[string]mvc.ControllerFactory{"similar_name_2_index": NewIndexController}
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
