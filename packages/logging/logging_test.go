package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("Warning")
	require.NoError(t, err)
	assert.Equal(t, LevelWarn, lvl)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestInitFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	Init(LevelWarn, &buf)
	t.Cleanup(func() { Use(nil) })

	Debug("Router", "hidden %d", 1)
	Warn("Fixture", "params not supported for %s", "HEAD")
	Error("Application", errors.New("boom"), "dispatch failed")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "params not supported for HEAD")
	assert.Contains(t, out, "subsystem=Fixture")
	assert.Contains(t, out, "error=boom")
}

func TestDefaultLoggerDiscards(t *testing.T) {
	Use(nil)
	assert.NotPanics(t, func() { Info("CLI", "nothing to see") })
}
