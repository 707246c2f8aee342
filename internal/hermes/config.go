// Package hermes writes the Hermes relayer configuration and drives the
// hermes CLI to build IBC channels between the Cosmos sidechain and Osmosis.
package hermes

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"
)

const (
	SidechainID = "sidechain"
	OsmosisID   = "localosmosis"
)

// Config is the Hermes config.toml caribic writes when the project ships
// no template. Optional fields are left out of the file when unset.
type Config struct {
	Global    Global    `toml:"global"`
	Mode      Mode      `toml:"mode"`
	Telemetry Telemetry `toml:"telemetry"`
	Chains    []Chain   `toml:"chains"`
}

type Global struct {
	LogLevel string `toml:"log_level"`
}

type Mode struct {
	Clients     Toggle `toml:"clients"`
	Connections Toggle `toml:"connections"`
	Channels    Toggle `toml:"channels"`
	Packets     Toggle `toml:"packets"`
}

type Toggle struct {
	Enabled bool `toml:"enabled"`
}

type Telemetry struct {
	Enabled bool   `toml:"enabled"`
	Host    string `toml:"host,omitempty"`
	Port    int    `toml:"port,omitempty"`
}

type Chain struct {
	ID             string      `toml:"id"`
	Type           string      `toml:"type,omitempty"`
	RPCAddr        string      `toml:"rpc_addr"`
	GRPCAddr       string      `toml:"grpc_addr,omitempty"`
	EventSource    EventSource `toml:"event_source"`
	RPCTimeout     string      `toml:"rpc_timeout,omitempty"`
	AccountPrefix  string      `toml:"account_prefix,omitempty"`
	KeyName        string      `toml:"key_name,omitempty"`
	StorePrefix    string      `toml:"store_prefix,omitempty"`
	GasPrice       GasPrice    `toml:"gas_price"`
	ClockDrift     string      `toml:"clock_drift,omitempty"`
	TrustingPeriod string      `toml:"trusting_period,omitempty"`
}

type EventSource struct {
	Mode       string `toml:"mode"`
	URL        string `toml:"url"`
	BatchDelay string `toml:"batch_delay,omitempty"`
}

type GasPrice struct {
	Price float64 `toml:"price"`
	Denom string  `toml:"denom"`
}

// Default returns a two-chain config for the sidechain and local Osmosis.
func Default(sidechainRPC, osmosisRPC string) Config {
	return Config{
		Global: Global{LogLevel: "info"},
		Mode: Mode{
			Clients:     Toggle{Enabled: true},
			Connections: Toggle{Enabled: true},
			Channels:    Toggle{Enabled: true},
			Packets:     Toggle{Enabled: true},
		},
		Telemetry: Telemetry{Enabled: false, Host: "127.0.0.1", Port: 3001},
		Chains: []Chain{
			newChain(SidechainID, sidechainRPC, "http://localhost:9090", "cosmos", "stake"),
			newChain(OsmosisID, osmosisRPC, "http://localhost:9094", "osmo", "uosmo"),
		},
	}
}

func newChain(id, rpc, grpc, prefix, denom string) Chain {
	return Chain{
		ID:             id,
		Type:           "CosmosSdk",
		RPCAddr:        rpc,
		GRPCAddr:       grpc,
		EventSource:    EventSource{Mode: "push", URL: websocketURL(rpc), BatchDelay: "500ms"},
		RPCTimeout:     "10s",
		AccountPrefix:  prefix,
		KeyName:        id + "-relayer",
		StorePrefix:    "ibc",
		GasPrice:       GasPrice{Price: 0.0026, Denom: denom},
		ClockDrift:     "5s",
		TrustingPeriod: "14days",
	}
}

func websocketURL(rpc string) string {
	ws := strings.Replace(rpc, "https://", "wss://", 1)
	ws = strings.Replace(ws, "http://", "ws://", 1)
	return strings.TrimSuffix(ws, "/") + "/websocket"
}

// Document is a Hermes config.toml kept as decoded TOML tables, so keys
// caribic does not manage survive a Load and Save untouched.
type Document map[string]any

func (d Document) chains() []map[string]any {
	switch v := d["chains"].(type) {
	case []map[string]any:
		return v
	case []any:
		chains := make([]map[string]any, 0, len(v))
		for _, c := range v {
			if m, ok := c.(map[string]any); ok {
				chains = append(chains, m)
			}
		}
		return chains
	}
	return nil
}

// Chain returns the [[chains]] table with id.
func (d Document) Chain(id string) (map[string]any, bool) {
	for _, ch := range d.chains() {
		if ch["id"] == id {
			return ch, true
		}
	}
	return nil, false
}

// SetRPC points chainID at rpc. Only rpc_addr and event_source.url change.
func (d Document) SetRPC(chainID, rpc string) error {
	ch, ok := d.Chain(chainID)
	if !ok {
		return fmt.Errorf("chain %q not found in hermes config", chainID)
	}
	ch["rpc_addr"] = rpc
	if es, ok := ch["event_source"].(map[string]any); ok {
		es["url"] = websocketURL(rpc)
	}
	return nil
}

// Load decodes a Hermes config file.
func Load(fs afero.Fs, path string) (Document, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read hermes config: %w", err)
	}

	doc := Document{}
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse hermes config: %w", err)
	}
	return doc, nil
}

// Save encodes cfg, a Config or a Document, to path, creating parent
// directories.
func Save(fs afero.Fs, path string, cfg any) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode hermes config: %w", err)
	}

	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create hermes config dir: %w", err)
	}

	if err := afero.WriteFile(fs, path, buf.Bytes(), os.FileMode(0644)); err != nil {
		return fmt.Errorf("failed to write hermes config: %w", err)
	}
	return nil
}
