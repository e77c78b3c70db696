// Package snapshot stores response bodies next to tests and compares later
// runs against them.
package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
)

const (
	// SnapshotDir is the directory name for storing snapshots
	SnapshotDir = "__snapshots__"
	// SnapshotExt is the file extension for snapshot files
	SnapshotExt = ".snap.json"
	// UpdateEnv turns update mode on for DefaultManager when set to a true value.
	UpdateEnv = "MVCTEST_UPDATE_SNAPSHOTS"
)

// Manager handles snapshot storage and comparison.
type Manager struct {
	baseDir       string
	updateMode    bool
	snapshotsRead map[string]map[string]any // file -> {name -> value}
}

// NewManager creates a new snapshot manager.
func NewManager(baseDir string, updateMode bool) *Manager {
	return &Manager{
		baseDir:       baseDir,
		updateMode:    updateMode,
		snapshotsRead: make(map[string]map[string]any),
	}
}

// DefaultManager keeps snapshots under testdata of the package being tested.
func DefaultManager() *Manager {
	update, _ := strconv.ParseBool(os.Getenv(UpdateEnv))
	return NewManager("testdata", update)
}

// SnapshotResult represents the result of a snapshot comparison.
type SnapshotResult struct {
	Passed     bool
	Message    string
	Expected   any
	Actual     any
	IsNew      bool
	WasUpdated bool
}

// Compare compares an actual value against a stored snapshot.
// If updateMode is true and there's a mismatch, the snapshot is updated.
// Snapshots of one top-level test share a file; the name parameter is
// optional, if empty the test name alone is the key.
func (m *Manager) Compare(testName, snapshotName string, actual any) *SnapshotResult {
	result := &SnapshotResult{
		Actual: actual,
	}

	snapshotFile := m.getSnapshotFilePath(testName)
	key := m.generateKey(testName, snapshotName, actual)

	snapshots, err := m.loadSnapshots(snapshotFile)
	if err != nil {
		result.Passed = false
		result.Message = fmt.Sprintf("failed to load snapshots: %v", err)
		return result
	}

	expected, exists := snapshots[key]
	if !exists {
		if m.updateMode {
			snapshots[key] = actual
			if err := m.saveSnapshots(snapshotFile, snapshots); err != nil {
				result.Passed = false
				result.Message = fmt.Sprintf("failed to save snapshot: %v", err)
				return result
			}
			result.Passed = true
			result.IsNew = true
			result.Expected = actual
			result.Message = "new snapshot created"
			return result
		}

		result.Passed = false
		result.Message = fmt.Sprintf("snapshot %q does not exist (run with %s=1 to create)", key, UpdateEnv)
		return result
	}

	result.Expected = expected

	if m.deepEqual(expected, actual) {
		result.Passed = true
		return result
	}

	if m.updateMode {
		snapshots[key] = actual
		if err := m.saveSnapshots(snapshotFile, snapshots); err != nil {
			result.Passed = false
			result.Message = fmt.Sprintf("failed to update snapshot: %v", err)
			return result
		}
		result.Passed = true
		result.WasUpdated = true
		result.Message = "snapshot updated"
		return result
	}

	result.Passed = false
	result.Message = "snapshot mismatch"
	return result
}

// getSnapshotFilePath returns the snapshot file of the top-level test.
func (m *Manager) getSnapshotFilePath(testName string) string {
	group := testName
	if i := strings.Index(group, "/"); i >= 0 {
		group = group[:i]
	}
	if group == "" {
		group = "snapshots"
	}
	return filepath.Join(m.baseDir, SnapshotDir, sanitize(group)+SnapshotExt)
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, name)
}

// generateKey generates a unique key for a snapshot.
func (m *Manager) generateKey(testName, snapshotName string, value any) string {
	if snapshotName != "" {
		return fmt.Sprintf("%s::%s", testName, snapshotName)
	}
	if testName != "" {
		return testName
	}
	hash := sha256.Sum256([]byte(fmt.Sprintf("%v", value)))
	return "anon_" + hex.EncodeToString(hash[:8])
}

// loadSnapshots loads snapshots from a file.
func (m *Manager) loadSnapshots(path string) (map[string]any, error) {
	if cached, ok := m.snapshotsRead[path]; ok {
		return cached, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]any), nil
		}
		return nil, err
	}

	var snapshots map[string]any
	if err := json.Unmarshal(data, &snapshots); err != nil {
		return nil, err
	}
	if snapshots == nil {
		snapshots = make(map[string]any)
	}

	m.snapshotsRead[path] = snapshots
	return snapshots, nil
}

// saveSnapshots saves snapshots to a file.
func (m *Manager) saveSnapshots(path string, snapshots map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(snapshots, "", "  ")
	if err != nil {
		return err
	}

	m.snapshotsRead[path] = snapshots

	return os.WriteFile(path, data, 0644)
}

// deepEqual compares two values for deep equality.
func (m *Manager) deepEqual(a, b any) bool {
	// Handle JSON number comparisons
	aJSON, _ := json.Marshal(a)
	bJSON, _ := json.Marshal(b)

	var aVal, bVal any
	if err := json.Unmarshal(aJSON, &aVal); err == nil {
		a = aVal
	}
	if err := json.Unmarshal(bJSON, &bVal); err == nil {
		b = bVal
	}

	return reflect.DeepEqual(a, b)
}

// FromBody turns a response body into a snapshot value: decoded JSON when
// the body is JSON, the text otherwise.
func FromBody(body []byte) any {
	var v any
	if err := json.Unmarshal(body, &v); err == nil {
		return v
	}
	return string(body)
}
