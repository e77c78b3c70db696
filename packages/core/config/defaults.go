package config

import (
	"fmt"
	"sort"
)

// DefaultModules are prepended to module lists normalized by FromModuleList.
var DefaultModules = []string{"Router"}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *ApplicationConfig {
	return &ApplicationConfig{
		Modules: []string{},
		ModuleListenerOptions: ModuleListenerOptions{
			ModulePaths: map[string]string{},
		},
	}
}

// IsDefault returns true if the config matches defaults.
func (c *ApplicationConfig) IsDefault() bool {
	return len(c.Modules) == 0 &&
		len(c.ModuleListenerOptions.ModulePaths) == 0 &&
		len(c.ModuleListenerOptions.ConfigGlobPaths) == 0 &&
		c.ModuleListenerOptions.ConfigCacheEnabled == nil &&
		len(c.ServiceManager.Services) == 0 &&
		len(c.ServiceManager.Aliases) == 0
}

// FromModuleList normalizes a bare module list into an application config.
// It accepts a []string of module names or a map[string]string of module name
// to module path. Map entries are added in name order.
func FromModuleList(modules any) (*ApplicationConfig, error) {
	cfg := DefaultConfig()
	cfg.Modules = append(cfg.Modules, DefaultModules...)

	switch m := modules.(type) {
	case []string:
		for _, name := range m {
			cfg.Modules = append(cfg.Modules, name)
		}
	case map[string]string:
		names := make([]string, 0, len(m))
		for name := range m {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			cfg.Modules = append(cfg.Modules, name)
			cfg.ModuleListenerOptions.ModulePaths[name] = m[name]
		}
	default:
		return nil, fmt.Errorf("unsupported module list type %T", modules)
	}

	return cfg, nil
}
