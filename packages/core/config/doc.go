// Package config handles application configuration for mvctest.
//
// It provides functionality for:
//   - Loading application configuration from YAML or JSON files
//   - Expanding ${VAR} references, with a sibling .env file as first source
//   - Merging configurations (module lists append, maps override)
//   - Normalizing a bare module list into a full configuration
//   - Module-level configuration overlays (routes, templates, services)
package config
