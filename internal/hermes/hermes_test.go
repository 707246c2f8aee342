package hermes

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/caribic/internal/docker/dockertest"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default("http://localhost:26657", "http://localhost:26658/")
	require.Len(t, cfg.Chains, 2)

	side := cfg.Chains[0]
	assert.Equal(t, SidechainID, side.ID)
	assert.Equal(t, "ws://localhost:26657/websocket", side.EventSource.URL)
	assert.Equal(t, "stake", side.GasPrice.Denom)

	osmo := cfg.Chains[1]
	assert.Equal(t, OsmosisID, osmo.ID)
	assert.Equal(t, "ws://localhost:26658/websocket", osmo.EventSource.URL)
	assert.Equal(t, "osmo", osmo.AccountPrefix)
}

func TestSaveLoadDefault(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := "/home/dev/.hermes/config.toml"

	require.NoError(t, Save(fs, path, Default("http://localhost:26657", "http://localhost:26658")))

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[[chains]]")
	assert.Contains(t, string(data), `id = "localosmosis"`)

	doc, err := Load(fs, path)
	require.NoError(t, err)
	osmo, ok := doc.Chain(OsmosisID)
	require.True(t, ok)
	assert.Equal(t, "http://localhost:26658", osmo["rpc_addr"])
	assert.Equal(t, "osmo", osmo["account_prefix"])
}

const templateTOML = `
[global]
log_level = "debug"

[mode.packets]
enabled = true
clear_interval = 100

[rest]
enabled = true
host = "127.0.0.1"
port = 3000

[[chains]]
id = "sidechain"
rpc_addr = "http://old:1"
max_gas = 3000000
gas_multiplier = 1.1
trust_threshold = { numerator = "1", denominator = "3" }
event_source = { mode = "push", url = "ws://old:1/websocket", batch_delay = "500ms" }

[[chains]]
id = "localosmosis"
rpc_addr = "http://old:2"
`

func TestSetRPCKeepsUnmanagedKeys(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/tmpl/config.toml", []byte(templateTOML), 0644))

	doc, err := Load(fs, "/tmpl/config.toml")
	require.NoError(t, err)
	require.NoError(t, doc.SetRPC(SidechainID, "https://side.example:443"))
	require.NoError(t, doc.SetRPC(OsmosisID, "http://localhost:26658"))
	assert.Error(t, doc.SetRPC("unknown", "http://x"))

	require.NoError(t, Save(fs, "/out/config.toml", doc))
	data, err := afero.ReadFile(fs, "/out/config.toml")
	require.NoError(t, err)
	assert.NotContains(t, string(data), "trusting_period")
	assert.NotContains(t, string(data), "grpc_addr")

	got, err := Load(fs, "/out/config.toml")
	require.NoError(t, err)

	rest, ok := got["rest"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, int64(3000), rest["port"])
	mode := got["mode"].(map[string]any)
	assert.Equal(t, int64(100), mode["packets"].(map[string]any)["clear_interval"])

	side, ok := got.Chain(SidechainID)
	require.True(t, ok)
	assert.Equal(t, "https://side.example:443", side["rpc_addr"])
	assert.Equal(t, int64(3000000), side["max_gas"])
	assert.Equal(t, 1.1, side["gas_multiplier"])
	assert.Equal(t, map[string]any{"numerator": "1", "denominator": "3"}, side["trust_threshold"])
	es := side["event_source"].(map[string]any)
	assert.Equal(t, "wss://side.example:443/websocket", es["url"])
	assert.Equal(t, "push", es["mode"])

	osmo, ok := got.Chain(OsmosisID)
	require.True(t, ok)
	assert.Equal(t, "http://localhost:26658", osmo["rpc_addr"])
	assert.NotContains(t, osmo, "event_source")
}

func TestLoadErrors(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := Load(fs, "/missing.toml")
	assert.Error(t, err)

	require.NoError(t, afero.WriteFile(fs, "/bad.toml", []byte("[[chains]\nid="), 0644))
	_, err = Load(fs, "/bad.toml")
	assert.Error(t, err)
}

func TestClientCommands(t *testing.T) {
	rec := &dockertest.Recorder{}
	c := Client{Runner: rec, Binary: "hermes", ConfigPath: "/h/config.toml"}
	ctx := context.Background()

	require.NoError(t, c.AddKey(ctx, SidechainID, "/m/sidechain.txt"))
	require.NoError(t, c.CreateChannel(ctx, SidechainID, OsmosisID, "transfer"))

	assert.Equal(t, []string{
		"hermes --config /h/config.toml keys add --chain sidechain --mnemonic-file /m/sidechain.txt --overwrite",
		"hermes --config /h/config.toml create channel --a-chain sidechain --b-chain localosmosis --a-port transfer --b-port transfer --new-client-connection --yes",
	}, rec.Lines())
}

func TestClientCreateChannelError(t *testing.T) {
	rec := (&dockertest.Recorder{}).On("hermes --config /h/config.toml create channel", "", errors.New("no route"))
	c := Client{Runner: rec, Binary: "hermes", ConfigPath: "/h/config.toml"}

	err := c.CreateChannel(context.Background(), SidechainID, OsmosisID, "transfer")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "between sidechain and localosmosis")
}
