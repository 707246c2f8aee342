package logger

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

func TestParseLevel(t *testing.T) {
	for v := 0; v <= 5; v++ {
		lvl, err := ParseLevel(v)
		require.NoError(t, err)
		assert.Equal(t, Level(v), lvl)
	}

	_, err := ParseLevel(6)
	assert.Error(t, err)
	_, err = ParseLevel(-1)
	assert.Error(t, err)
}

func TestQuietPrintsNothing(t *testing.T) {
	var buf bytes.Buffer
	l := New(Quiet, &buf)

	l.Log("log")
	l.Success("ok")
	l.Warn("warn")
	l.Error("error")
	l.Info("info")
	l.Verbose("verbose")

	assert.Empty(t, buf.String())
}

func TestStandardLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Standard, &buf)

	l.Log("✅ Gateway started successfully")
	l.Error("❌ Failed to start relayer: boom")
	l.Verbose("hidden detail")

	out := buf.String()
	assert.Contains(t, out, "✅ Gateway started successfully")
	assert.Contains(t, out, "❌ Failed to start relayer: boom")
	assert.NotContains(t, out, "hidden detail")
}

func TestVerboseLevelShowsDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	l := New(Verbose, &buf)

	l.Info("info line")
	l.Verbose("/tmp/chains/osmosis/osmosis")

	out := buf.String()
	assert.Contains(t, out, "info line")
	assert.Contains(t, out, "/tmp/chains/osmosis/osmosis")
}

func TestWarningsStartAtWarningLevel(t *testing.T) {
	var buf bytes.Buffer
	New(Standard, &buf).Warn("⚠ Failed to stop Relayer")
	assert.Empty(t, buf.String())

	New(Warning, &buf).Warn("⚠ Failed to stop Relayer")
	assert.Contains(t, buf.String(), "⚠ Failed to stop Relayer")
}
