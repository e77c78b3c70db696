package controllertest

import (
	"strings"

	"github.com/abdul-hamid-achik/mvctest/packages/assertions"
	"github.com/abdul-hamid-achik/mvctest/packages/snapshot"
)

func (f *HTTPFixture) evaluator() (*assertions.Evaluator, error) {
	resp, err := f.response()
	if err != nil {
		return nil, err
	}
	return assertions.NewEvaluator(resp), nil
}

// jsonPath looks path up in the JSON body of the last response. Paths use
// gjson syntax; a leading $. and items[0] indexing are accepted.
func (f *HTTPFixture) jsonPath(path string) (any, bool, error) {
	e, err := f.evaluator()
	if err != nil {
		return nil, false, err
	}
	v, ok, err := e.JSONPath(path)
	if err != nil {
		return nil, false, f.failf("Failed asserting JSON path %s: %v", path, err)
	}
	return v, ok, nil
}

// AssertJSONPath asserts the value at path equals expected. Numbers compare
// by value, so 2 matches the decoded 2.0.
func (f *HTTPFixture) AssertJSONPath(path string, expected any) bool {
	f.t.Helper()
	actual, ok, err := f.jsonPath(path)
	if err != nil {
		return f.report(err)
	}
	if !ok {
		return f.report(f.failf("Failed asserting JSON path %s EXISTS", path))
	}
	if pass, msg := assertions.Equal(actual, expected); !pass {
		return f.report(f.failf("Failed asserting JSON path %s equals %v: %s", path, expected, msg))
	}
	return true
}

func (f *HTTPFixture) AssertJSONPathExists(path string) bool {
	f.t.Helper()
	_, ok, err := f.jsonPath(path)
	if err != nil {
		return f.report(err)
	}
	if !ok {
		return f.report(f.failf("Failed asserting JSON path %s EXISTS", path))
	}
	return true
}

func (f *HTTPFixture) AssertNotJSONPathExists(path string) bool {
	f.t.Helper()
	actual, ok, err := f.jsonPath(path)
	if err != nil {
		return f.report(err)
	}
	if ok {
		return f.report(f.failf("Failed asserting JSON path %s DOES NOT EXIST, actual value is %v", path, actual))
	}
	return true
}

// AssertResponseMatchesJSONSchema validates the body against schema, given
// inline or as a file path.
func (f *HTTPFixture) AssertResponseMatchesJSONSchema(schema string) bool {
	f.t.Helper()
	e, err := f.evaluator()
	if err != nil {
		return f.report(err)
	}
	if ok, msg := e.MatchesSchema(schema); !ok {
		return f.report(f.failf("Failed asserting response matches JSON schema: %s", msg))
	}
	return true
}

// AssertResponse evaluates declarative assertions against the last response
// and reports every one that fails.
func (f *HTTPFixture) AssertResponse(as ...assertions.Assertion) bool {
	f.t.Helper()
	resp, err := f.response()
	if err != nil {
		return f.report(err)
	}

	var failed []string
	for _, r := range assertions.EvaluateAll(resp, as) {
		if !r.Passed {
			failed = append(failed, r.Subject+" "+r.Operator+": "+r.Message)
		}
	}
	if len(failed) > 0 {
		return f.report(f.failf("Failed asserting response:\n%s", strings.Join(failed, "\n")))
	}
	return true
}

// AssertResponseMatchesSnapshot compares the body of the last response with
// the snapshot stored under the test name and name. Missing snapshots are
// only written in update mode.
func (f *HTTPFixture) AssertResponseMatchesSnapshot(name string) bool {
	f.t.Helper()
	resp, err := f.response()
	if err != nil {
		return f.report(err)
	}
	if f.snapshots == nil {
		f.snapshots = snapshot.DefaultManager()
	}

	testName := "snapshot"
	if n, ok := f.t.(namedT); ok {
		testName = n.Name()
	}
	result := f.snapshots.Compare(testName, name, snapshot.FromBody(resp.Body))
	if !result.Passed {
		return f.report(f.failf("Failed asserting response matches snapshot %q: %s", name, result.Message))
	}
	return true
}
