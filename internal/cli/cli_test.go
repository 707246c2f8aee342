package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/caribic/internal/docker/dockertest"
	"github.com/blackwell-systems/caribic/internal/orchestrator"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		verbosity = 1
	})

	err := Execute("test")
	return out.String(), err
}

func writeConfig(t *testing.T, root string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"project_root": "` + filepath.ToSlash(root) + `", "mithril": {"enabled": false}}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func useRecorder(t *testing.T) *dockertest.Recorder {
	t.Helper()
	rec := &dockertest.Recorder{}
	prev := runner
	runner = rec
	t.Cleanup(func() { runner = prev })
	return rec
}

func TestStartFailureStopsServices(t *testing.T) {
	rec := useRecorder(t)
	root := t.TempDir()

	out, err := runCLI(t, "start", "--config", writeConfig(t, root))

	var stepErr *orchestrator.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, orchestrator.StageNetwork, stepErr.Stage)
	assert.Contains(t, out, "❌ Failed to start local Cardano network: no docker compose project")
	assert.Contains(t, out, "🚨 Stopping services...")
	assert.NotContains(t, out, "✗")
	assert.NotContains(t, out, "Bridge started successfully")

	// only the osmosis clone ran; nothing was up to stop
	lines := rec.Lines()
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "git clone")
}

func TestExecutePrintsOtherErrors(t *testing.T) {
	out, err := runCLI(t, "config", "--output", "xml", "--config", writeConfig(t, t.TempDir()))
	require.Error(t, err)
	assert.Contains(t, out, "✗ invalid output format: xml")
}

func TestStopWithNothingRunning(t *testing.T) {
	root := t.TempDir()

	out, err := runCLI(t, "stop", "--config", writeConfig(t, root))

	require.NoError(t, err)
	assert.Contains(t, out, "🚨 Stopping services...")
	assert.Contains(t, out, "❎ Bridge stopped successfully")
}

func TestInvalidVerbosity(t *testing.T) {
	_, err := runCLI(t, "demo", "--verbose", "9", "--config", writeConfig(t, t.TempDir()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid verbosity")
}

func TestDemo(t *testing.T) {
	out, err := runCLI(t, "demo", "--config", writeConfig(t, t.TempDir()))
	require.NoError(t, err)
	assert.Contains(t, out, "Demo")
}

func TestQuietSuppressesOutput(t *testing.T) {
	out, err := runCLI(t, "demo", "--verbose", "0", "--config", writeConfig(t, t.TempDir()))
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestConfigYAML(t *testing.T) {
	root := t.TempDir()

	out, err := runCLI(t, "config", "--output", "yaml", "--config", writeConfig(t, root))

	require.NoError(t, err)
	assert.Contains(t, out, "project_root: "+root)
	assert.Contains(t, out, "testnet_magic: 42")
	assert.Contains(t, out, "genesis_timeout: 30m0s")
}

func TestConfigInvalidOutput(t *testing.T) {
	_, err := runCLI(t, "config", "--output", "xml", "--config", writeConfig(t, t.TempDir()))
	require.Error(t, err)
}

func TestCheckFailsOnEmptyProject(t *testing.T) {
	out, err := runCLI(t, "check", "--config", writeConfig(t, t.TempDir()))
	require.Error(t, err)
	assert.Contains(t, out, "❌")
}
