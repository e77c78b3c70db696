package controllertest_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/abdul-hamid-achik/mvctest/internal/testmodules"
	"github.com/abdul-hamid-achik/mvctest/packages/assertions"
	"github.com/abdul-hamid-achik/mvctest/packages/controllertest"
	"github.com/abdul-hamid-achik/mvctest/packages/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const itemsSchema = `{
  "type": "object",
  "required": ["name", "items"],
  "properties": {
    "name": {"type": "string"},
    "items": {"type": "array", "items": {"type": "object", "required": ["id"]}}
  }
}`

func TestAssertJSONPath(t *testing.T) {
	f, rec := recording(t, nil)
	f.Dispatch("/tests-json", "", nil, false)

	assert.True(t, f.AssertJSONPath("name", "baz"))
	assert.True(t, f.AssertJSONPath("$.count", 2))
	assert.True(t, f.AssertJSONPath("items[1].tag", "second"))
	assert.True(t, f.AssertJSONPathExists("items.0.id"))
	assert.True(t, f.AssertNotJSONPathExists("missing"))

	requireFailure(t, rec, f.AssertJSONPath("name", "foo"), "Failed asserting JSON path name equals foo")
	requireFailure(t, rec, f.AssertJSONPath("missing", "foo"), "Failed asserting JSON path missing EXISTS")
	requireFailure(t, rec, f.AssertJSONPathExists("missing"), "Failed asserting JSON path missing EXISTS")
	requireFailure(t, rec, f.AssertNotJSONPathExists("name"), "DOES NOT EXIST, actual value is baz")
}

func TestAssertJSONPath_NotJSON(t *testing.T) {
	f, rec := recording(t, nil)
	f.Dispatch("/tests", "", nil, false)

	requireFailure(t, rec, f.AssertJSONPath("name", "baz"), "response body is not JSON")
}

func TestAssertResponseMatchesJSONSchema(t *testing.T) {
	f, rec := recording(t, nil)
	f.Dispatch("/tests-json", "", nil, false)

	assert.True(t, f.AssertResponseMatchesJSONSchema(itemsSchema))

	path := filepath.Join(t.TempDir(), "schema.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"type": "object", "required": ["version"]}`), 0o644))
	requireFailure(t, rec, f.AssertResponseMatchesJSONSchema(path), "Failed asserting response matches JSON schema", "version")
}

func TestAssertResponse(t *testing.T) {
	f, rec := recording(t, nil)
	f.Dispatch("/tests-json", "", nil, false)

	assert.True(t, f.AssertResponse(
		assertions.Assertion{Subject: "status", Operator: assertions.OpEquals, Expected: 200},
		assertions.Assertion{Subject: "header Content-Type", Operator: assertions.OpContains, Expected: "json"},
		assertions.Assertion{Subject: "body.items", Operator: assertions.OpLength, Expected: 2},
	))

	requireFailure(t, rec,
		f.AssertResponse(
			assertions.Assertion{Subject: "status", Operator: assertions.OpEquals, Expected: 201},
			assertions.Assertion{Subject: "body.name", Operator: assertions.OpEquals, Expected: "baz"},
		),
		"Failed asserting response:", "status ==",
	)
}

func TestAssertResponseMatchesSnapshot(t *testing.T) {
	dir := t.TempDir()

	f := newFixture(t, controllertest.WithSnapshots(snapshot.NewManager(dir, true)))
	f.Dispatch("/tests-json", "", nil, false)
	f.AssertResponseMatchesSnapshot("json")

	files, err := filepath.Glob(filepath.Join(dir, snapshot.SnapshotDir, "*"+snapshot.SnapshotExt))
	require.NoError(t, err)
	assert.Len(t, files, 1)

	f = newFixture(t, controllertest.WithSnapshots(snapshot.NewManager(dir, false)))
	f.Dispatch("/tests-json", "", nil, false)
	f.AssertResponseMatchesSnapshot("json")
}

func TestAssertResponseMatchesSnapshot_Mismatch(t *testing.T) {
	dir := t.TempDir()

	recorded := newFixture(t, controllertest.WithSnapshots(snapshot.NewManager(dir, true)))
	recorded.Dispatch("/tests-json", "", nil, false)
	recorded.AssertResponseMatchesSnapshot("body")

	rec := &recorder{name: t.Name()}
	f := controllertest.NewHTTPFixture(rec,
		controllertest.WithApplicationConfig(testmodules.Config()),
		controllertest.WithSnapshots(snapshot.NewManager(dir, false)),
	)
	t.Cleanup(func() { f.Reset(false) })

	f.Dispatch("/tests", "", nil, false)
	requireFailure(t, rec, f.AssertResponseMatchesSnapshot("body"), `Failed asserting response matches snapshot "body": snapshot mismatch`)
	requireFailure(t, rec, f.AssertResponseMatchesSnapshot("missing"), "does not exist")
}
