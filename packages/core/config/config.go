package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/abdul-hamid-achik/mvctest/packages/core/env"
	"github.com/abdul-hamid-achik/mvctest/packages/logging"
	"gopkg.in/yaml.v3"
)

// ApplicationConfig describes which modules an application loads, where their
// on-disk configuration lives and which services are overridden.
type ApplicationConfig struct {
	Modules               []string              `yaml:"modules" json:"modules"`
	ModuleListenerOptions ModuleListenerOptions `yaml:"module_listener_options,omitempty" json:"module_listener_options,omitempty"`
	ServiceManager        ServiceManagerConfig  `yaml:"service_manager,omitempty" json:"service_manager,omitempty"`
}

// ModuleListenerOptions controls module resolution and config caching.
type ModuleListenerOptions struct {
	ModulePaths        map[string]string `yaml:"module_paths,omitempty" json:"module_paths,omitempty"`
	ConfigGlobPaths    []string          `yaml:"config_glob_paths,omitempty" json:"config_glob_paths,omitempty"`
	ConfigCacheEnabled *bool             `yaml:"config_cache_enabled,omitempty" json:"config_cache_enabled,omitempty"`
	ConfigCacheKey     string            `yaml:"config_cache_key,omitempty" json:"config_cache_key,omitempty"`
	CacheDir           string            `yaml:"cache_dir,omitempty" json:"cache_dir,omitempty"`
}

// ServiceManagerConfig holds plain service values and aliases. Factories are
// Go code and are contributed by modules instead.
type ServiceManagerConfig struct {
	Services map[string]any    `yaml:"services,omitempty" json:"services,omitempty"`
	Aliases  map[string]string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
}

// BoolPtr is a helper for the optional boolean fields.
func BoolPtr(b bool) *bool {
	return &b
}

func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetConfigCacheEnabled returns the cache setting, defaulting to false.
func (o ModuleListenerOptions) GetConfigCacheEnabled() bool {
	return getBool(o.ConfigCacheEnabled, false)
}

// DisableConfigCache turns config caching off when the option was given.
// An absent option is left absent.
func (c *ApplicationConfig) DisableConfigCache() {
	if c.ModuleListenerOptions.ConfigCacheEnabled != nil {
		c.ModuleListenerOptions.ConfigCacheEnabled = BoolPtr(false)
	}
}

// HasModule reports whether name is in the module list.
func (c *ApplicationConfig) HasModule(name string) bool {
	for _, m := range c.Modules {
		if m == name {
			return true
		}
	}
	return false
}

// ModulePath returns the configured on-disk path of a module, if any.
func (c *ApplicationConfig) ModulePath(name string) (string, bool) {
	p, ok := c.ModuleListenerOptions.ModulePaths[name]
	return p, ok && p != ""
}

// Clone returns a deep copy so callers can modify it freely.
func (c *ApplicationConfig) Clone() *ApplicationConfig {
	if c == nil {
		return nil
	}
	out := &ApplicationConfig{
		Modules: append([]string(nil), c.Modules...),
		ModuleListenerOptions: ModuleListenerOptions{
			ConfigGlobPaths: append([]string(nil), c.ModuleListenerOptions.ConfigGlobPaths...),
			ConfigCacheKey:  c.ModuleListenerOptions.ConfigCacheKey,
			CacheDir:        c.ModuleListenerOptions.CacheDir,
		},
	}
	if c.ModuleListenerOptions.ConfigCacheEnabled != nil {
		out.ModuleListenerOptions.ConfigCacheEnabled = BoolPtr(*c.ModuleListenerOptions.ConfigCacheEnabled)
	}
	if c.ModuleListenerOptions.ModulePaths != nil {
		out.ModuleListenerOptions.ModulePaths = make(map[string]string, len(c.ModuleListenerOptions.ModulePaths))
		for k, v := range c.ModuleListenerOptions.ModulePaths {
			out.ModuleListenerOptions.ModulePaths[k] = v
		}
	}
	if c.ServiceManager.Services != nil {
		out.ServiceManager.Services = make(map[string]any, len(c.ServiceManager.Services))
		for k, v := range c.ServiceManager.Services {
			out.ServiceManager.Services[k] = v
		}
	}
	if c.ServiceManager.Aliases != nil {
		out.ServiceManager.Aliases = make(map[string]string, len(c.ServiceManager.Aliases))
		for k, v := range c.ServiceManager.Aliases {
			out.ServiceManager.Aliases[k] = v
		}
	}
	return out
}

// Merge merges another config into this one and returns the result. Module
// lists are appended (duplicates skipped), maps are merged with other taking
// precedence, scalar options are overridden only when set in other.
func (c *ApplicationConfig) Merge(other *ApplicationConfig) *ApplicationConfig {
	result := c.Clone()
	if result == nil {
		result = &ApplicationConfig{}
	}
	if other == nil {
		return result
	}

	for _, m := range other.Modules {
		if !result.HasModule(m) {
			result.Modules = append(result.Modules, m)
		}
	}

	opts := other.ModuleListenerOptions
	if len(opts.ModulePaths) > 0 {
		if result.ModuleListenerOptions.ModulePaths == nil {
			result.ModuleListenerOptions.ModulePaths = make(map[string]string)
		}
		for k, v := range opts.ModulePaths {
			result.ModuleListenerOptions.ModulePaths[k] = v
		}
	}
	result.ModuleListenerOptions.ConfigGlobPaths = append(result.ModuleListenerOptions.ConfigGlobPaths, opts.ConfigGlobPaths...)
	if opts.ConfigCacheEnabled != nil {
		result.ModuleListenerOptions.ConfigCacheEnabled = BoolPtr(*opts.ConfigCacheEnabled)
	}
	if opts.ConfigCacheKey != "" {
		result.ModuleListenerOptions.ConfigCacheKey = opts.ConfigCacheKey
	}
	if opts.CacheDir != "" {
		result.ModuleListenerOptions.CacheDir = opts.CacheDir
	}

	if len(other.ServiceManager.Services) > 0 {
		if result.ServiceManager.Services == nil {
			result.ServiceManager.Services = make(map[string]any)
		}
		for k, v := range other.ServiceManager.Services {
			result.ServiceManager.Services[k] = v
		}
	}
	if len(other.ServiceManager.Aliases) > 0 {
		if result.ServiceManager.Aliases == nil {
			result.ServiceManager.Aliases = make(map[string]string)
		}
		for k, v := range other.ServiceManager.Aliases {
			result.ServiceManager.Aliases[k] = v
		}
	}

	return result
}

// ConfigFilenames contains the file names searched by FindAndLoadConfig.
var ConfigFilenames = []string{
	"mvctest.yaml",
	".mvctest.yaml",
	"application.config.yaml",
	"application.config.yml",
	"application.config.json",
}

// LoadConfig loads configuration from the specified path or searches the
// current directory when path is empty.
func LoadConfig(path string) (*ApplicationConfig, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory.
func FindAndLoadConfig(dir string) (*ApplicationConfig, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}
	return DefaultConfig(), nil
}

func loadConfigFromFile(path string) (*ApplicationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content, err := expandReferences(path, string(data))
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := decode(path, []byte(content), cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	resolveModulePaths(filepath.Dir(path), cfg)
	return cfg, nil
}

// expandReferences resolves ${VAR} references, using a .env file located next
// to the config file when there is one.
func expandReferences(path, content string) (string, error) {
	vars := map[string]string{}
	dotenv := filepath.Join(filepath.Dir(path), ".env")
	if _, err := os.Stat(dotenv); err == nil {
		loaded, err := env.LoadDotEnv(dotenv)
		if err != nil {
			return "", err
		}
		vars = loaded
	}

	expanded, missing := env.Expand(content, vars)
	for _, name := range missing {
		logging.Warn("Config", "unresolved variable ${%s} in %s", name, path)
	}
	return expanded, nil
}

func decode(path string, data []byte, out any) error {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return json.Unmarshal(data, out)
	}
	return yaml.Unmarshal(data, out)
}

// resolveModulePaths makes relative module and glob paths relative to the
// directory of the config file.
func resolveModulePaths(base string, cfg *ApplicationConfig) {
	for name, p := range cfg.ModuleListenerOptions.ModulePaths {
		if p != "" && !filepath.IsAbs(p) {
			cfg.ModuleListenerOptions.ModulePaths[name] = filepath.Join(base, p)
		}
	}
	for i, p := range cfg.ModuleListenerOptions.ConfigGlobPaths {
		if !filepath.IsAbs(p) {
			cfg.ModuleListenerOptions.ConfigGlobPaths[i] = filepath.Join(base, p)
		}
	}
}

// SaveConfig writes the configuration as YAML.
func (c *ApplicationConfig) SaveConfig(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
