package constraint

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/mvctest/packages/assertions"
	"github.com/abdul-hamid-achik/mvctest/packages/core/config"
	"github.com/abdul-hamid-achik/mvctest/packages/mvc"
)

// Constraint is a predicate over an observed value. A non-nil error from
// Matches means the test itself is wrong.
type Constraint interface {
	Matches(other any) (bool, error)
	String() string
	FailureDescription(other any) string
}

// TestCase is what constraints need from the fixture that owns them.
type TestCase interface {
	Application() (*mvc.Application, error)
	ApplicationConfig() *config.ApplicationConfig
}

// Evaluate checks value against c. A mismatch is an
// *assertions.ExpectationFailedError, a broken test an *assertions.UsageError.
func Evaluate(value any, c Constraint) error {
	ok, err := c.Matches(value)
	if err != nil {
		if assertions.IsUsage(err) {
			return err
		}
		return &assertions.UsageError{Err: err}
	}
	if ok {
		return nil
	}
	return &assertions.ExpectationFailedError{
		Message: "Failed asserting that " + c.FailureDescription(value) + ".",
		Actual:  value,
	}
}

func describe(other any, c Constraint) string {
	return export(other) + " " + c.String()
}

func export(v any) string {
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%v", v)
}

type not struct {
	c Constraint
}

// Not inverts c. Usage errors pass through.
func Not(c Constraint) Constraint {
	return not{c: c}
}

func (n not) Matches(other any) (bool, error) {
	ok, err := n.c.Matches(other)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

func (n not) String() string {
	return negate(n.c.String())
}

func (n not) FailureDescription(other any) string {
	return describe(other, n)
}

var negations = strings.NewReplacer(
	" and ", " or ",
	"is ", "is not ",
	"has ", "does not have ",
)

func negate(s string) string {
	negated := negations.Replace(s)
	if negated == s {
		return "not " + s
	}
	return negated
}

type and struct {
	cs []Constraint
}

// And holds when every constraint holds. Evaluation stops at the first
// constraint that does not match.
func And(cs ...Constraint) Constraint {
	return and{cs: cs}
}

func (a and) Matches(other any) (bool, error) {
	for _, c := range a.cs {
		ok, err := c.Matches(other)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func (a and) String() string {
	parts := make([]string, len(a.cs))
	for i, c := range a.cs {
		parts[i] = c.String()
	}
	return strings.Join(parts, " and ")
}

func (a and) FailureDescription(other any) string {
	return describe(other, a)
}

var errNoRouteMatch = errors.New("no route match discovered; cannot determine matched controller class name")

// controllerFor returns the controller the last dispatch routed to.
func controllerFor(tc TestCase) (mvc.Controller, error) {
	app, err := tc.Application()
	if err != nil {
		return nil, assertions.Usagef("invalid application instance: %w", err)
	}
	match := app.MvcEvent().RouteMatch
	if match == nil {
		return nil, &assertions.UsageError{Err: errNoRouteMatch}
	}
	name := match.Param("controller", "")
	if name == "" {
		return nil, assertions.Usagef("invalid controller identifier found in route match params")
	}
	cm, err := app.ControllerManager()
	if err != nil {
		return nil, assertions.Usagef("invalid ControllerManager found in ServiceManager: %w", err)
	}
	ctrl, err := cm.Get(name)
	if err != nil {
		return nil, assertions.Usagef("invalid controller pulled from ControllerManager by identifier %q: %w", name, err)
	}
	return ctrl, nil
}
