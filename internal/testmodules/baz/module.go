// Package baz is the module most fixture tests dispatch against. Its index
// controller renders a small page with countable nodes, redirects, fails on
// purpose and answers with custom and XML responses.
package baz

import (
	_ "embed"

	"github.com/abdul-hamid-achik/mvctest/packages/core/config"
	"github.com/abdul-hamid-achik/mvctest/packages/mvc"
)

// Name is the catalog name of the module.
const Name = "Baz"

//go:embed module.config.yaml
var moduleConfig []byte

func init() {
	mvc.RegisterModule(Name, func() any { return &Module{} })
}

type Module struct{}

func (m *Module) Config() *config.ModuleConfig {
	cfg, err := config.ParseModuleConfig(moduleConfig)
	if err != nil {
		panic(err)
	}
	return cfg
}

func (m *Module) Controllers() map[string]mvc.ControllerFactory {
	return map[string]mvc.ControllerFactory{
		"baz_index": NewIndexController,
	}
}
