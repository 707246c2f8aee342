// Package cardano queries the local Cardano devnet node.
package cardano

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cast"

	"github.com/blackwell-systems/caribic/internal/docker"
)

// Tip is the chain tip reported by cardano-cli.
type Tip struct {
	Epoch        uint64
	Slot         uint64
	Block        uint64
	Era          string
	SyncProgress float64
}

// QueryTip runs `cardano-cli query tip` inside the node container.
func QueryTip(ctx context.Context, r docker.Runner, container string, magic int) (Tip, error) {
	out, err := docker.Exec(ctx, r, container,
		"cardano-cli", "query", "tip", "--testnet-magic", cast.ToString(magic))
	if err != nil {
		return Tip{}, err
	}
	return ParseTip(out)
}

// ParseTip decodes cardano-cli tip JSON. Numeric fields may arrive as
// numbers or strings depending on the cli version.
func ParseTip(raw string) (Tip, error) {
	var fields map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &fields); err != nil {
		return Tip{}, fmt.Errorf("failed to parse tip: %w", err)
	}

	epochField, ok := fields["epoch"]
	if !ok {
		return Tip{}, fmt.Errorf("tip has no epoch field")
	}

	epoch, err := cast.ToUint64E(epochField)
	if err != nil {
		return Tip{}, fmt.Errorf("invalid epoch %v: %w", epochField, err)
	}

	return Tip{
		Epoch:        epoch,
		Slot:         cast.ToUint64(fields["slot"]),
		Block:        cast.ToUint64(fields["block"]),
		Era:          cast.ToString(fields["era"]),
		SyncProgress: cast.ToFloat64(fields["syncProgress"]),
	}, nil
}

// ImmutableChunks counts the immutable chunk files the node has written.
func ImmutableChunks(fs afero.Fs, dir string) (int, error) {
	matches, err := afero.Glob(fs, filepath.Join(dir, "*.chunk"))
	if err != nil {
		return 0, err
	}
	return len(matches), nil
}
