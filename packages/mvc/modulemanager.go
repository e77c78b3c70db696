package mvc

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/abdul-hamid-achik/mvctest/packages/core/config"
	"github.com/abdul-hamid-achik/mvctest/packages/logging"
	"gopkg.in/yaml.v3"
)

// ModuleManager loads the configured modules and merges their configuration.
type ModuleManager struct {
	cfg     *config.ApplicationConfig
	catalog *Catalog

	loaded      []string
	modules     map[string]any
	merged      *config.ModuleConfig
	controllers map[string]ControllerFactory
	fromCache   bool
}

func NewModuleManager(cfg *config.ApplicationConfig, catalog *Catalog) *ModuleManager {
	if catalog == nil {
		catalog = DefaultCatalog
	}
	return &ModuleManager{
		cfg:         cfg,
		catalog:     catalog,
		modules:     make(map[string]any),
		merged:      &config.ModuleConfig{},
		controllers: make(map[string]ControllerFactory),
	}
}

// LoadModules instantiates every configured module in order. Loading stops at
// the first module that cannot be found or whose dependencies are missing.
func (m *ModuleManager) LoadModules(sm *ServiceManager) error {
	cached, err := m.readCache()
	if err != nil {
		logging.Warn("Modules", "ignoring config cache: %v", err)
	}
	if cached != nil {
		m.merged = cached
		m.fromCache = true
	}

	for _, name := range m.cfg.Modules {
		if err := m.loadModule(name, sm); err != nil {
			return err
		}
	}

	if !m.fromCache {
		if err := m.mergeGlobConfig(); err != nil {
			return err
		}
		if err := m.writeCache(); err != nil {
			logging.Warn("Modules", "writing config cache: %v", err)
		}
	}
	return nil
}

func (m *ModuleManager) loadModule(name string, sm *ServiceManager) error {
	if _, done := m.modules[name]; done {
		return nil
	}

	factory, ok := m.catalog.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: Module (%s) could not be initialized.", ErrModuleNotInitialized, name)
	}
	module := factory()

	if dep, ok := module.(DependencyIndicator); ok {
		for _, d := range dep.Dependencies() {
			if _, loaded := m.modules[d]; !loaded {
				return fmt.Errorf("%w: module %q depends on module %q, which was not initialized", ErrMissingDependency, name, d)
			}
		}
	}

	if !m.fromCache {
		if cp, ok := module.(ConfigProvider); ok {
			m.merged.Merge(cp.Config())
		}
		if path, ok := m.cfg.ModulePath(name); ok {
			overlay, err := config.LoadModuleConfig(path)
			if err != nil {
				return fmt.Errorf("module %s: %w", name, err)
			}
			m.merged.Merge(overlay)
		}
	}

	if sp, ok := module.(ServiceProvider); ok {
		if err := sp.RegisterServices(sm); err != nil {
			return fmt.Errorf("module %s: registering services: %w", name, err)
		}
	}
	if cp, ok := module.(ControllerProvider); ok {
		for cname, f := range cp.Controllers() {
			m.controllers[cname] = f
		}
	}

	m.modules[name] = module
	m.loaded = append(m.loaded, name)
	logging.Debug("Modules", "loaded module %s", name)
	return nil
}

func (m *ModuleManager) mergeGlobConfig() error {
	for _, pattern := range m.cfg.ModuleListenerOptions.ConfigGlobPaths {
		files, err := filepath.Glob(pattern)
		if err != nil {
			return fmt.Errorf("config glob %q: %w", pattern, err)
		}
		sort.Strings(files)
		for _, file := range files {
			overlay, err := config.LoadModuleConfig(file)
			if err != nil {
				return err
			}
			m.merged.Merge(overlay)
		}
	}
	return nil
}

// CachePath returns the config cache file, or "" when caching is off.
func (m *ModuleManager) CachePath() string {
	opts := m.cfg.ModuleListenerOptions
	if !opts.GetConfigCacheEnabled() || opts.CacheDir == "" {
		return ""
	}
	key := opts.ConfigCacheKey
	if key == "" {
		key = "default"
	}
	return filepath.Join(opts.CacheDir, "module-config-cache."+key+".yaml")
}

func (m *ModuleManager) readCache() (*config.ModuleConfig, error) {
	path := m.CachePath()
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	mc := &config.ModuleConfig{}
	if err := yaml.Unmarshal(data, mc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	logging.Debug("Modules", "merged config read from cache %s", path)
	return mc, nil
}

func (m *ModuleManager) writeCache() error {
	path := m.CachePath()
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(m.merged)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// GetModules returns the loaded module names in load order.
func (m *ModuleManager) GetModules() []string {
	return append([]string(nil), m.loaded...)
}

// GetModule returns a loaded module instance.
func (m *ModuleManager) GetModule(name string) (any, bool) {
	module, ok := m.modules[name]
	return module, ok
}

// MergedConfig is the configuration merged from all modules.
func (m *ModuleManager) MergedConfig() *config.ModuleConfig {
	return m.merged
}

// LoadedFromCache reports whether the merged config came from the cache.
func (m *ModuleManager) LoadedFromCache() bool {
	return m.fromCache
}

// Controllers returns the controller factories contributed by modules.
func (m *ModuleManager) Controllers() map[string]ControllerFactory {
	out := make(map[string]ControllerFactory, len(m.controllers))
	for k, v := range m.controllers {
		out[k] = v
	}
	return out
}

func (m *ModuleManager) bootstrap(e *Event) error {
	for _, name := range m.loaded {
		if bl, ok := m.modules[name].(BootstrapListener); ok {
			if err := bl.OnBootstrap(e); err != nil {
				return fmt.Errorf("module %s: bootstrap: %w", name, err)
			}
		}
	}
	return nil
}
