// Package mithril gates Mithril genesis certification on Cardano progress.
package mithril

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"

	"github.com/blackwell-systems/caribic/internal/cardano"
	"github.com/blackwell-systems/caribic/internal/config"
	"github.com/blackwell-systems/caribic/internal/docker"
	"github.com/blackwell-systems/caribic/internal/logger"
	"github.com/blackwell-systems/caribic/internal/orchestrator"
)

const (
	genesisService    = "mithril-aggregator-genesis"
	aggregatorService = "mithril-aggregator"
)

// EpochSource reports the current Cardano epoch.
type EpochSource func(ctx context.Context) (uint64, error)

// Waiter blocks until the devnet has written immutable files for the
// captured epoch and then bootstraps the Mithril certificate chain.
type Waiter struct {
	Fs       afero.Fs
	Runner   docker.Runner
	Epochs   EpochSource
	Log      *logger.Logger
	Timeout  time.Duration
	Interval time.Duration
	Magic    int
}

// NewWaiter returns a Waiter reading the node's tip through docker exec.
func NewWaiter(cfg *config.Config, fs afero.Fs, runner docker.Runner, log *logger.Logger) *Waiter {
	return &Waiter{
		Fs:     fs,
		Runner: runner,
		Epochs: func(ctx context.Context) (uint64, error) {
			tip, err := cardano.QueryTip(ctx, runner, cfg.Cardano.NodeContainer, cfg.Cardano.TestnetMagic)
			if err != nil {
				return 0, err
			}
			return tip.Epoch, nil
		},
		Log:      log,
		Timeout:  cfg.Mithril.GenesisTimeout,
		Interval: cfg.Mithril.PollInterval,
		Magic:    cfg.Cardano.TestnetMagic,
	}
}

// Env is the environment the Mithril compose project expects.
func Env(l config.Layout, magic int) []string {
	return []string{
		fmt.Sprintf("CARDANO_NODE_DIR=%s", filepath.Join(l.Cardano(), "devnet")),
		fmt.Sprintf("CARDANO_NETWORK_MAGIC=%d", magic),
	}
}

// WaitAndCertifyGenesis waits for immutable chunk files and an epoch at
// or beyond epoch, then runs genesis certification and restarts the
// aggregator on the new certificate chain.
func (w *Waiter) WaitAndCertifyGenesis(ctx context.Context, root string, epoch orchestrator.Epoch) error {
	l := config.Layout{Root: root}

	waitCtx, cancel := context.WithTimeout(ctx, w.Timeout)
	defer cancel()

	if err := w.waitImmutable(waitCtx, l.ImmutableDB(), uint64(epoch)); err != nil {
		return err
	}

	compose := docker.Compose{Runner: w.Runner, Dir: l.Mithril(), Env: Env(l, w.Magic)}
	if _, err := compose.RunOnce(ctx, genesisService); err != nil {
		return fmt.Errorf("genesis certification failed: %w", err)
	}
	if err := compose.Up(ctx, aggregatorService); err != nil {
		return fmt.Errorf("failed to restart aggregator after genesis: %w", err)
	}
	return nil
}

// ready reports whether dir has chunk files and the chain reached target.
func (w *Waiter) ready(ctx context.Context, dir string, target uint64) (bool, error) {
	chunks, err := cardano.ImmutableChunks(w.Fs, dir)
	if err != nil {
		return false, err
	}
	if chunks == 0 {
		return false, nil
	}

	current, err := w.Epochs(ctx)
	if err != nil {
		// node may be busy writing the next chunk; poll again
		w.Log.Verbose(fmt.Sprintf("epoch query failed: %v", err))
		return false, nil
	}
	w.Log.Verbose(fmt.Sprintf("immutable chunks: %d, epoch %d/%d", chunks, current, target))
	return current >= target, nil
}

func (w *Waiter) waitImmutable(ctx context.Context, dir string, target uint64) error {
	// fsnotify only sees the real filesystem; without a watch the ticker
	// alone drives polling.
	var events <-chan fsnotify.Event
	var watchErrs <-chan error
	if _, isOs := w.Fs.(*afero.OsFs); isOs {
		if watcher, err := fsnotify.NewWatcher(); err == nil {
			defer watcher.Close()
			if err := watcher.Add(dir); err == nil {
				events, watchErrs = watcher.Events, watcher.Errors
			} else {
				w.Log.Verbose(fmt.Sprintf("not watching %s: %v", dir, err))
			}
		}
	}

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		ok, err := w.ready(ctx, dir, target)
		if err != nil {
			return fmt.Errorf("failed to inspect immutable files: %w", err)
		}
		if ok {
			return nil
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("no immutable files for epoch %d after %s", target, w.Timeout)
			}
			return ctx.Err()
		case ev := <-events:
			w.Log.Verbose(fmt.Sprintf("immutable db event: %s", ev))
		case err := <-watchErrs:
			w.Log.Verbose(fmt.Sprintf("immutable db watch error: %v", err))
		case <-ticker.C:
		}
	}
}
