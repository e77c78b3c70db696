package env

import (
	"os"
	"regexp"
	"strings"
)

var referencePattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-[^}]*)?\}`)

// Expand replaces ${VAR} and ${VAR:-default} references in content.
// Unknown references without a default are replaced by an empty string and
// reported in the returned slice so callers can warn about them.
func Expand(content string, vars map[string]string) (string, []string) {
	var missing []string

	expanded := referencePattern.ReplaceAllStringFunc(content, func(ref string) string {
		parts := referencePattern.FindStringSubmatch(ref)
		name, fallback := parts[1], parts[2]

		if v, ok := vars[name]; ok {
			return v
		}
		if v, ok := os.LookupEnv(name); ok {
			return v
		}
		if fallback != "" {
			return strings.TrimPrefix(fallback, ":-")
		}
		missing = append(missing, name)
		return ""
	})

	return expanded, missing
}
