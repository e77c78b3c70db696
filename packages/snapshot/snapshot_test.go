package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_Compare_NewSnapshot(t *testing.T) {
	tmpDir := t.TempDir()
	manager := NewManager(tmpDir, true)

	result := manager.Compare("TestUsers/get", "", map[string]any{"id": 1, "name": "John"})
	require.True(t, result.Passed, result.Message)
	assert.True(t, result.IsNew)

	_, err := os.Stat(filepath.Join(tmpDir, SnapshotDir, "TestUsers.snap.json"))
	assert.NoError(t, err)
}

func TestManager_Compare_ExistingSnapshot(t *testing.T) {
	tmpDir := t.TempDir()
	data := map[string]any{"id": 1, "name": "John"}

	result := NewManager(tmpDir, true).Compare("TestUsers", "body", data)
	require.True(t, result.Passed && result.IsNew)

	reader := NewManager(tmpDir, false)
	result = reader.Compare("TestUsers", "body", data)
	assert.True(t, result.Passed, result.Message)

	result = reader.Compare("TestUsers", "body", map[string]any{"id": 1, "name": "Jane"})
	assert.False(t, result.Passed)
	assert.Equal(t, "snapshot mismatch", result.Message)
}

func TestManager_Compare_UpdateExisting(t *testing.T) {
	manager := NewManager(t.TempDir(), true)

	result := manager.Compare("TestUsers", "", map[string]any{"name": "John"})
	require.True(t, result.IsNew)

	result = manager.Compare("TestUsers", "", map[string]any{"name": "Jane"})
	assert.True(t, result.Passed)
	assert.True(t, result.WasUpdated)
}

func TestManager_Compare_NoSnapshotNoUpdateMode(t *testing.T) {
	result := NewManager(t.TempDir(), false).Compare("TestUsers", "", "<html></html>")
	assert.False(t, result.Passed)
	assert.Contains(t, result.Message, UpdateEnv)
}

func TestGenerateKey(t *testing.T) {
	manager := NewManager(".", false)

	assert.Equal(t, "TestA/sub::body", manager.generateKey("TestA/sub", "body", nil))
	assert.Equal(t, "TestA", manager.generateKey("TestA", "", nil))
	assert.Contains(t, manager.generateKey("", "", nil), "anon_")
}

func TestSnapshotFilePath(t *testing.T) {
	manager := NewManager("base", false)
	assert.Equal(t, filepath.Join("base", SnapshotDir, "TestX.snap.json"), manager.getSnapshotFilePath("TestX/case one"))
	assert.Equal(t, filepath.Join("base", SnapshotDir, "a_b.snap.json"), manager.getSnapshotFilePath("a b"))
}

func TestFromBody(t *testing.T) {
	assert.Equal(t, map[string]any{"a": float64(1)}, FromBody([]byte(`{"a":1}`)))
	assert.Equal(t, "<p>x</p>", FromBody([]byte("<p>x</p>")))
}

func TestDefaultManager(t *testing.T) {
	t.Setenv(UpdateEnv, "true")
	m := DefaultManager()
	assert.True(t, m.updateMode)
	assert.Equal(t, "testdata", m.baseDir)
}
