package constraint

import (
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/mvctest/packages/mvc"
)

type isCurrentModuleName struct {
	tc TestCase
}

// IsCurrentModuleName holds when the observed value names, case-insensitively,
// the module owning the dispatched controller.
func IsCurrentModuleName(tc TestCase) Constraint {
	return isCurrentModuleName{tc: tc}
}

func (c isCurrentModuleName) Matches(other any) (bool, error) {
	current, err := CurrentModuleName(c.tc)
	if err != nil {
		return false, err
	}
	return strings.ToLower(fmt.Sprint(other)) == current, nil
}

func (c isCurrentModuleName) String() string {
	return "is the actual module name"
}

func (c isCurrentModuleName) FailureDescription(other any) string {
	current, _ := CurrentModuleName(c.tc)
	return fmt.Sprintf("%q %s, actual module name is %q", fmt.Sprint(other), c.String(), current)
}

// CurrentModuleName derives the module of the dispatched controller from the
// configured module list. It is lowercased, and empty when no module owns
// the controller.
func CurrentModuleName(tc TestCase) (string, error) {
	ctrl, err := controllerFor(tc)
	if err != nil {
		return "", err
	}
	var modules []string
	if cfg := tc.ApplicationConfig(); cfg != nil {
		modules = cfg.Modules
	}
	return mvc.ModuleNameFor(modules, mvc.ClassName(ctrl)), nil
}
