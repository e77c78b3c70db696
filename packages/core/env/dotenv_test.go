package env

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDotEnv(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected map[string]string
	}{
		{
			name:     "simple key-value",
			content:  "CACHE_DIR=/tmp/cache",
			expected: map[string]string{"CACHE_DIR": "/tmp/cache"},
		},
		{
			name:     "quoted values",
			content:  "A=\"with spaces\"\nB='single'",
			expected: map[string]string{"A": "with spaces", "B": "single"},
		},
		{
			name:     "comments, blanks and export prefix",
			content:  "# comment\n\nexport MODULE_PATH=./modules\nbroken line",
			expected: map[string]string{"MODULE_PATH": "./modules"},
		},
		{
			name:     "empty key skipped",
			content:  "=value\nKEY=",
			expected: map[string]string{"KEY": ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDotEnv(strings.NewReader(tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("KEY=value\n"), 0644))

	vars, err := LoadDotEnv(path)
	require.NoError(t, err)
	assert.Equal(t, "value", vars["KEY"])

	_, err = LoadDotEnv(filepath.Join(dir, "missing.env"))
	assert.Error(t, err)
}

func TestExpand(t *testing.T) {
	t.Setenv("MVCTEST_FROM_OS", "os-value")

	out, missing := Expand(
		"a=${LOCAL} b=${MVCTEST_FROM_OS} c=${NOPE:-fallback} d=${ABSENT}",
		map[string]string{"LOCAL": "local-value"},
	)

	assert.Equal(t, "a=local-value b=os-value c=fallback d=", out)
	assert.Equal(t, []string{"ABSENT"}, missing)
}

func TestExpandPrefersCallerVariables(t *testing.T) {
	t.Setenv("SHARED", "from-os")
	out, missing := Expand("${SHARED}", map[string]string{"SHARED": "from-file"})
	assert.Equal(t, "from-file", out)
	assert.Empty(t, missing)
}
