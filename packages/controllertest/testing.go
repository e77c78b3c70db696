package controllertest

import (
	"errors"

	"github.com/abdul-hamid-achik/mvctest/packages/assertions"
)

// TestingT is the part of *testing.T the fixtures report through.
type TestingT interface {
	Helper()
	Errorf(format string, args ...any)
	FailNow()
}

type cleanupT interface {
	Cleanup(func())
}

type namedT interface {
	Name() string
}

// report fails the test with err. A nil err passes.
func (f *Fixture) report(err error) bool {
	f.t.Helper()
	if err == nil {
		return true
	}

	var failed *assertions.ExpectationFailedError
	if errors.As(err, &failed) {
		f.t.Errorf("%s", failed.Message)
	} else {
		if !assertions.IsUsage(err) {
			err = &assertions.UsageError{Err: err}
		}
		f.t.Errorf("%s", err.Error())
	}
	f.t.FailNow()
	return false
}
