package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ModuleConfigFile is looked up inside a module path.
const ModuleConfigFile = "module.config.yaml"

// ModuleConfig is the declarative part of a module's configuration. Modules
// return it from Go code and may extend it with a YAML overlay on disk.
type ModuleConfig struct {
	Router         RouterConfig         `yaml:"router,omitempty" json:"router,omitempty"`
	ViewManager    ViewManagerConfig    `yaml:"view_manager,omitempty" json:"view_manager,omitempty"`
	ServiceManager ServiceManagerConfig `yaml:"service_manager,omitempty" json:"service_manager,omitempty"`
}

// RouterConfig holds named route definitions.
type RouterConfig struct {
	Routes map[string]RouteConfig `yaml:"routes,omitempty" json:"routes,omitempty"`
}

// RouteConfig defines one route. Type is literal, segment or hostname.
type RouteConfig struct {
	Type        string            `yaml:"type" json:"type"`
	Route       string            `yaml:"route" json:"route"`
	Methods     []string          `yaml:"methods,omitempty" json:"methods,omitempty"`
	Defaults    map[string]string `yaml:"defaults,omitempty" json:"defaults,omitempty"`
	Constraints map[string]string `yaml:"constraints,omitempty" json:"constraints,omitempty"`
	Priority    int               `yaml:"priority,omitempty" json:"priority,omitempty"`
}

// ViewManagerConfig configures templates and error pages.
type ViewManagerConfig struct {
	Layout            string            `yaml:"layout,omitempty" json:"layout,omitempty"`
	NotFoundTemplate  string            `yaml:"not_found_template,omitempty" json:"not_found_template,omitempty"`
	ExceptionTemplate string            `yaml:"exception_template,omitempty" json:"exception_template,omitempty"`
	DisplayExceptions *bool             `yaml:"display_exceptions,omitempty" json:"display_exceptions,omitempty"`
	TemplateMap       map[string]string `yaml:"template_map,omitempty" json:"template_map,omitempty"`
	Templates         map[string]string `yaml:"templates,omitempty" json:"templates,omitempty"`
}

// GetDisplayExceptions defaults to false.
func (v ViewManagerConfig) GetDisplayExceptions() bool {
	return getBool(v.DisplayExceptions, false)
}

// LoadModuleConfig reads a module overlay. A missing file yields an empty
// config and no error.
func LoadModuleConfig(path string) (*ModuleConfig, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ModuleConfig{}, nil
		}
		return nil, err
	}
	if info.IsDir() {
		path = filepath.Join(path, ModuleConfigFile)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return &ModuleConfig{}, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading module config: %w", err)
	}
	content, err := expandReferences(path, string(data))
	if err != nil {
		return nil, err
	}

	mc := &ModuleConfig{}
	if err := decode(path, []byte(content), mc); err != nil {
		return nil, fmt.Errorf("parsing module config %s: %w", path, err)
	}

	base := filepath.Dir(path)
	for name, file := range mc.ViewManager.TemplateMap {
		if !filepath.IsAbs(file) {
			mc.ViewManager.TemplateMap[name] = filepath.Join(base, file)
		}
	}
	return mc, nil
}

// ParseModuleConfig decodes a YAML module config, typically one embedded in
// the module's package.
func ParseModuleConfig(data []byte) (*ModuleConfig, error) {
	mc := &ModuleConfig{}
	if err := yaml.Unmarshal(data, mc); err != nil {
		return nil, fmt.Errorf("parsing module config: %w", err)
	}
	return mc, nil
}

// Merge folds other into m. Entries from other win.
func (m *ModuleConfig) Merge(other *ModuleConfig) {
	if other == nil {
		return
	}
	for name, route := range other.Router.Routes {
		if m.Router.Routes == nil {
			m.Router.Routes = make(map[string]RouteConfig)
		}
		m.Router.Routes[name] = route
	}

	vm := other.ViewManager
	if vm.Layout != "" {
		m.ViewManager.Layout = vm.Layout
	}
	if vm.NotFoundTemplate != "" {
		m.ViewManager.NotFoundTemplate = vm.NotFoundTemplate
	}
	if vm.ExceptionTemplate != "" {
		m.ViewManager.ExceptionTemplate = vm.ExceptionTemplate
	}
	if vm.DisplayExceptions != nil {
		m.ViewManager.DisplayExceptions = BoolPtr(*vm.DisplayExceptions)
	}
	for name, file := range vm.TemplateMap {
		if m.ViewManager.TemplateMap == nil {
			m.ViewManager.TemplateMap = make(map[string]string)
		}
		m.ViewManager.TemplateMap[name] = file
	}
	for name, src := range vm.Templates {
		if m.ViewManager.Templates == nil {
			m.ViewManager.Templates = make(map[string]string)
		}
		m.ViewManager.Templates[name] = src
	}

	for name, v := range other.ServiceManager.Services {
		if m.ServiceManager.Services == nil {
			m.ServiceManager.Services = make(map[string]any)
		}
		m.ServiceManager.Services[name] = v
	}
	for name, target := range other.ServiceManager.Aliases {
		if m.ServiceManager.Aliases == nil {
			m.ServiceManager.Aliases = make(map[string]string)
		}
		m.ServiceManager.Aliases[name] = target
	}
}
