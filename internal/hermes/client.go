package hermes

import (
	"context"
	"fmt"

	"github.com/blackwell-systems/caribic/internal/docker"
)

// Client runs hermes subcommands against one config file.
type Client struct {
	Runner     docker.Runner
	Binary     string
	ConfigPath string
}

func (c Client) run(ctx context.Context, args ...string) (string, error) {
	full := append([]string{"--config", c.ConfigPath}, args...)
	return c.Runner.Run(ctx, "", nil, c.Binary, full...)
}

// AddKey restores the relayer key for chainID from a mnemonic file.
func (c Client) AddKey(ctx context.Context, chainID, mnemonicFile string) error {
	if _, err := c.run(ctx, "keys", "add", "--chain", chainID, "--mnemonic-file", mnemonicFile, "--overwrite"); err != nil {
		return fmt.Errorf("failed to add hermes key for %s: %w", chainID, err)
	}
	return nil
}

// CreateChannel opens a channel on port between chains a and b, creating
// the clients and connection it needs.
func (c Client) CreateChannel(ctx context.Context, a, b, port string) error {
	_, err := c.run(ctx, "create", "channel",
		"--a-chain", a,
		"--b-chain", b,
		"--a-port", port,
		"--b-port", port,
		"--new-client-connection",
		"--yes",
	)
	if err != nil {
		return fmt.Errorf("failed to create %s channel between %s and %s: %w", port, a, b, err)
	}
	return nil
}
