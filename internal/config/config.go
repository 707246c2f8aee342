// Package config provides configuration management for the caribic CLI.
//
// It implements the disciplined Viper pattern where Viper stays contained
// in this package and the rest of the codebase receives explicit Config structs.
// Configuration sources are resolved in this order: flags > env > config file > defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the explicit configuration struct
// This is what the rest of the codebase sees
type Config struct {
	ProjectRoot string        `yaml:"project_root"`
	Mithril     MithrilConfig `yaml:"mithril"`
	Cardano     CardanoConfig `yaml:"cardano"`
	Cosmos      CosmosConfig  `yaml:"cosmos"`
	Osmosis     OsmosisConfig `yaml:"osmosis"`
	Hermes      HermesConfig  `yaml:"hermes"`
	Health      HealthConfig  `yaml:"health"`
}

// MithrilConfig toggles the Mithril certification service
type MithrilConfig struct {
	Enabled        bool          `yaml:"enabled"`
	AggregatorURL  string        `yaml:"aggregator_url"`
	GenesisTimeout time.Duration `yaml:"genesis_timeout"`
	PollInterval   time.Duration `yaml:"poll_interval"`
}

// CardanoConfig describes the local Cardano devnet
type CardanoConfig struct {
	TestnetMagic  int           `yaml:"testnet_magic"`
	NodeContainer string        `yaml:"node_container"`
	ReadyTimeout  time.Duration `yaml:"ready_timeout"`
}

// CosmosConfig describes the Cosmos sidechain endpoints
type CosmosConfig struct {
	RPCURL string `yaml:"rpc_url"`
}

// OsmosisConfig describes where the Osmosis appchain comes from and listens
type OsmosisConfig struct {
	RPCURL string `yaml:"rpc_url"`
	GitURL string `yaml:"git_url"`
	GitRef string `yaml:"git_ref"`
}

// HermesConfig locates the Hermes relayer binary and its config file
type HermesConfig struct {
	Binary     string `yaml:"binary"`
	ConfigPath string `yaml:"config_path"`
}

// HealthConfig controls endpoint readiness probes
type HealthConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	Interval     time.Duration `yaml:"interval"`
	StartTimeout time.Duration `yaml:"start_timeout"`
}

var envKeyReplacer = strings.NewReplacer(".", "_")

// DefaultConfigPath returns the platform specific location of config.json
func DefaultConfigPath() string {
	if runtime.GOOS == "windows" {
		if dir, err := os.UserConfigDir(); err == nil {
			return filepath.Join(dir, "caribic", "config.json")
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.json"
	}
	return filepath.Join(home, ".caribic", "config.json")
}

func defaultHermesConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".hermes", "config.toml")
	}
	return filepath.Join(home, ".hermes", "config.toml")
}

// Init initializes viper with defaults and the config file at path.
// An empty path falls back to DefaultConfigPath. A missing file is not an error.
func Init(path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	// Set defaults
	viper.SetDefault("project_root", ".")
	viper.SetDefault("mithril.enabled", false)
	viper.SetDefault("mithril.aggregator_url", "http://localhost:8080/aggregator")
	viper.SetDefault("mithril.genesis_timeout", 30*time.Minute)
	viper.SetDefault("mithril.poll_interval", 10*time.Second)
	viper.SetDefault("cardano.testnet_magic", 42)
	viper.SetDefault("cardano.node_container", "cardano-node")
	viper.SetDefault("cardano.ready_timeout", 5*time.Minute)
	viper.SetDefault("cosmos.rpc_url", "http://localhost:26657")
	viper.SetDefault("osmosis.rpc_url", "http://localhost:26658")
	viper.SetDefault("osmosis.git_url", "https://github.com/osmosis-labs/osmosis.git")
	viper.SetDefault("osmosis.git_ref", "v25.2.0")
	viper.SetDefault("hermes.binary", "hermes")
	viper.SetDefault("hermes.config_path", defaultHermesConfigPath())
	viper.SetDefault("health.timeout", 2*time.Second)
	viper.SetDefault("health.interval", 2*time.Second)
	viper.SetDefault("health.start_timeout", 5*time.Minute)

	// Bind environment variables with prefix
	viper.SetEnvPrefix("CARIBIC")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	// Read config file (ignore if not found)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to stat config file: %w", err)
	}

	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	return nil
}

// Load reads from all sources and returns explicit Config
func Load() (*Config, error) {
	root := viper.GetString("project_root")
	if root != "" {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve project root %q: %w", root, err)
		}
		root = abs
	}

	cfg := &Config{
		ProjectRoot: root,
		Mithril: MithrilConfig{
			Enabled:        viper.GetBool("mithril.enabled"),
			AggregatorURL:  viper.GetString("mithril.aggregator_url"),
			GenesisTimeout: viper.GetDuration("mithril.genesis_timeout"),
			PollInterval:   viper.GetDuration("mithril.poll_interval"),
		},
		Cardano: CardanoConfig{
			TestnetMagic:  viper.GetInt("cardano.testnet_magic"),
			NodeContainer: viper.GetString("cardano.node_container"),
			ReadyTimeout:  viper.GetDuration("cardano.ready_timeout"),
		},
		Cosmos: CosmosConfig{
			RPCURL: viper.GetString("cosmos.rpc_url"),
		},
		Osmosis: OsmosisConfig{
			RPCURL: viper.GetString("osmosis.rpc_url"),
			GitURL: viper.GetString("osmosis.git_url"),
			GitRef: viper.GetString("osmosis.git_ref"),
		},
		Hermes: HermesConfig{
			Binary:     viper.GetString("hermes.binary"),
			ConfigPath: viper.GetString("hermes.config_path"),
		},
		Health: HealthConfig{
			Timeout:      viper.GetDuration("health.timeout"),
			Interval:     viper.GetDuration("health.interval"),
			StartTimeout: viper.GetDuration("health.start_timeout"),
		},
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures config is sane
func (c *Config) Validate() error {
	if c.ProjectRoot == "" {
		return fmt.Errorf("project_root must be set")
	}

	if c.Mithril.Enabled {
		if c.Mithril.GenesisTimeout <= 0 {
			return fmt.Errorf("invalid mithril genesis timeout: %s", c.Mithril.GenesisTimeout)
		}
		if c.Mithril.PollInterval <= 0 {
			return fmt.Errorf("invalid mithril poll interval: %s", c.Mithril.PollInterval)
		}
		if err := validateURL("mithril aggregator", c.Mithril.AggregatorURL); err != nil {
			return err
		}
	}

	if c.Cardano.TestnetMagic < 1 {
		return fmt.Errorf("invalid cardano testnet magic: %d", c.Cardano.TestnetMagic)
	}

	if c.Cardano.NodeContainer == "" {
		return fmt.Errorf("cardano node container must be set")
	}

	if c.Cardano.ReadyTimeout <= 0 {
		return fmt.Errorf("invalid cardano ready timeout: %s", c.Cardano.ReadyTimeout)
	}

	if err := validateURL("cosmos rpc", c.Cosmos.RPCURL); err != nil {
		return err
	}

	if err := validateURL("osmosis rpc", c.Osmosis.RPCURL); err != nil {
		return err
	}

	if c.Hermes.Binary == "" {
		return fmt.Errorf("hermes binary must be set")
	}

	if c.Health.Timeout <= 0 {
		return fmt.Errorf("invalid health timeout: %s", c.Health.Timeout)
	}

	if c.Health.Interval <= 0 {
		return fmt.Errorf("invalid health interval: %s", c.Health.Interval)
	}

	if c.Health.StartTimeout <= 0 {
		return fmt.Errorf("invalid health start timeout: %s", c.Health.StartTimeout)
	}

	return nil
}

func validateURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s url %q: %w", name, raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid %s url %q (must be http or https)", name, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid %s url %q (missing host)", name, raw)
	}
	return nil
}

// Layout returns the service directories under the project root
func (c *Config) Layout() Layout {
	return Layout{Root: c.ProjectRoot}
}

// Display shows current config (for caribic config)
func Display() (string, error) {
	cfg, err := Load()
	if err != nil {
		return "", err
	}

	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		configFile = "(not found)"
	}

	return fmt.Sprintf(`Configuration:
  project_root:       %s

Mithril:
  enabled:            %t
  aggregator_url:     %s
  genesis_timeout:    %s
  poll_interval:      %s

Cardano:
  testnet_magic:      %d
  node_container:     %s
  ready_timeout:      %s

Endpoints:
  Cosmos RPC:         %s
  Osmosis RPC:        %s
  start_timeout:      %s

Hermes:
  binary:             %s
  config_path:        %s

Sources:
  Config file:        %s
  Environment:        CARIBIC_*
  Flags:              --config, --verbose
`,
		cfg.ProjectRoot,
		cfg.Mithril.Enabled,
		cfg.Mithril.AggregatorURL,
		cfg.Mithril.GenesisTimeout,
		cfg.Mithril.PollInterval,
		cfg.Cardano.TestnetMagic,
		cfg.Cardano.NodeContainer,
		cfg.Cardano.ReadyTimeout,
		cfg.Cosmos.RPCURL,
		cfg.Osmosis.RPCURL,
		cfg.Health.StartTimeout,
		cfg.Hermes.Binary,
		cfg.Hermes.ConfigPath,
		configFile,
	), nil
}
