// Package bridge starts and stops the individual testbed components: the
// Cardano devnet, Mithril, the gateway, the Cosmos sidechain, the relayer,
// the Osmosis appchain and Hermes.
//
// Bridge implements orchestrator.Launcher and orchestrator.Stopper. Every
// stop is safe to call on a component that was never started.
package bridge

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/afero"
	"github.com/subosito/gotenv"

	"github.com/blackwell-systems/caribic/internal/cardano"
	"github.com/blackwell-systems/caribic/internal/config"
	"github.com/blackwell-systems/caribic/internal/docker"
	"github.com/blackwell-systems/caribic/internal/hermes"
	"github.com/blackwell-systems/caribic/internal/logger"
	"github.com/blackwell-systems/caribic/internal/mithril"
	"github.com/blackwell-systems/caribic/internal/orchestrator"
)

// Bridge launches components with docker compose and local tooling.
type Bridge struct {
	cfg    *config.Config
	fs     afero.Fs
	runner docker.Runner
	client *http.Client
	log    *logger.Logger
}

// New returns a Bridge for cfg.
func New(cfg *config.Config, fs afero.Fs, runner docker.Runner, log *logger.Logger) *Bridge {
	return &Bridge{
		cfg:    cfg,
		fs:     fs,
		runner: runner,
		client: &http.Client{Timeout: cfg.Health.Timeout},
		log:    log,
	}
}

func (b *Bridge) compose(dir string, env []string) docker.Compose {
	return docker.Compose{Runner: b.runner, Dir: dir, Env: env}
}

func (b *Bridge) requireProject(dir string) error {
	if !docker.HasProject(b.fs, dir) {
		return fmt.Errorf("no docker compose project in %s", dir)
	}
	return nil
}

// PrepareOsmosis clones Osmosis into dir when missing and copies the
// local configuration overlay on top of it.
func (b *Bridge) PrepareOsmosis(ctx context.Context, dir string) error {
	cloned, err := afero.DirExists(b.fs, filepath.Join(dir, ".git"))
	if err != nil {
		return err
	}

	if !cloned {
		if err := b.fs.MkdirAll(filepath.Dir(dir), 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", filepath.Dir(dir), err)
		}
		b.log.Info(fmt.Sprintf("cloning %s@%s", b.cfg.Osmosis.GitURL, b.cfg.Osmosis.GitRef))
		_, err := b.runner.Run(ctx, filepath.Dir(dir), nil, "git",
			"clone", "--depth", "1", "--branch", b.cfg.Osmosis.GitRef, b.cfg.Osmosis.GitURL, dir)
		if err != nil {
			return fmt.Errorf("failed to clone osmosis: %w", err)
		}
	} else {
		b.log.Verbose(fmt.Sprintf("osmosis already cloned in %s", dir))
	}

	overlay := b.cfg.Layout().OsmosisOverlay()
	if ok, _ := afero.DirExists(b.fs, overlay); !ok {
		b.log.Verbose(fmt.Sprintf("no configuration overlay in %s", overlay))
		return nil
	}
	return copyTree(b.fs, overlay, dir)
}

// copyTree copies every regular file under src into dst, overwriting.
func copyTree(fs afero.Fs, src, dst string) error {
	return afero.Walk(fs, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return fs.MkdirAll(target, 0755)
		}
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		if err := afero.WriteFile(fs, target, data, info.Mode().Perm()); err != nil {
			return fmt.Errorf("failed to write %s: %w", target, err)
		}
		return nil
	})
}

// StartNetwork brings up the Cardano devnet and waits until the node
// answers tip queries.
func (b *Bridge) StartNetwork(ctx context.Context, root string) error {
	dir := config.Layout{Root: root}.Cardano()
	if err := b.requireProject(dir); err != nil {
		return err
	}
	if err := b.compose(dir, nil).Up(ctx); err != nil {
		return err
	}
	_, err := b.waitTip(ctx, b.cfg.Cardano.ReadyTimeout)
	return err
}

func (b *Bridge) waitTip(ctx context.Context, timeout time.Duration) (cardano.Tip, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(b.cfg.Health.Interval)
	defer ticker.Stop()

	for {
		tip, err := cardano.QueryTip(ctx, b.runner, b.cfg.Cardano.NodeContainer, b.cfg.Cardano.TestnetMagic)
		if err == nil {
			b.log.Verbose(fmt.Sprintf("cardano tip: epoch %d slot %d", tip.Epoch, tip.Slot))
			return tip, nil
		}
		select {
		case <-ctx.Done():
			return cardano.Tip{}, fmt.Errorf("cardano node not ready after %s: %w", timeout, err)
		case <-ticker.C:
		}
	}
}

// StartMithril starts the Mithril aggregator and signers and returns the
// Cardano epoch observed once they are up.
func (b *Bridge) StartMithril(ctx context.Context, root string) (orchestrator.Epoch, error) {
	l := config.Layout{Root: root}
	dir := l.Mithril()
	if err := b.requireProject(dir); err != nil {
		return 0, err
	}
	if err := b.compose(dir, mithril.Env(l, b.cfg.Cardano.TestnetMagic)).Up(ctx); err != nil {
		return 0, err
	}

	tip, err := b.waitTip(ctx, b.cfg.Cardano.ReadyTimeout)
	if err != nil {
		return 0, err
	}
	return orchestrator.Epoch(tip.Epoch), nil
}

// StartGateway builds and starts the gateway with the variables from its
// .env file, seeding .env from .env.example on first run.
func (b *Bridge) StartGateway(ctx context.Context, dir string) error {
	if err := b.requireProject(dir); err != nil {
		return err
	}
	env, err := b.gatewayEnv(dir)
	if err != nil {
		return err
	}
	return b.compose(dir, env).Build(ctx)
}

func (b *Bridge) gatewayEnv(dir string) ([]string, error) {
	envPath := filepath.Join(dir, ".env")
	if ok, _ := afero.Exists(b.fs, envPath); !ok {
		example := filepath.Join(dir, ".env.example")
		if ok, _ := afero.Exists(b.fs, example); !ok {
			return nil, nil
		}
		data, err := afero.ReadFile(b.fs, example)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", example, err)
		}
		if err := afero.WriteFile(b.fs, envPath, data, 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", envPath, err)
		}
	}

	f, err := b.fs.Open(envPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", envPath, err)
	}
	defer f.Close()

	vars, err := gotenv.StrictParse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", envPath, err)
	}

	env := make([]string, 0, len(vars))
	for k, v := range vars {
		env = append(env, k+"="+v)
	}
	sort.Strings(env)
	return env, nil
}

// StartSidechain starts the Cosmos sidechain and waits for its RPC.
func (b *Bridge) StartSidechain(ctx context.Context, dir string) error {
	if err := b.requireProject(dir); err != nil {
		return err
	}
	if err := b.compose(dir, nil).Up(ctx); err != nil {
		return err
	}
	return docker.WaitHealthy(ctx, b.client, b.cfg.Cosmos.RPCURL+"/health", b.cfg.Health.Interval, b.cfg.Health.StartTimeout)
}

// StartRelayer builds and starts the relayer.
func (b *Bridge) StartRelayer(ctx context.Context, dir string) error {
	if err := b.requireProject(dir); err != nil {
		return err
	}
	return b.compose(dir, nil).Build(ctx)
}

// StartAppchain starts the Osmosis localnet and waits for its RPC.
func (b *Bridge) StartAppchain(ctx context.Context, dir string) error {
	if ok, _ := afero.DirExists(b.fs, dir); !ok {
		return fmt.Errorf("osmosis directory %s does not exist", dir)
	}
	if _, err := b.runner.Run(ctx, dir, nil, "make", "localnet-start"); err != nil {
		return fmt.Errorf("failed to start osmosis localnet: %w", err)
	}
	return docker.WaitHealthy(ctx, b.client, b.cfg.Osmosis.RPCURL+"/health", b.cfg.Health.Interval, b.cfg.Health.StartTimeout)
}

// ConfigureRelayTooling writes the Hermes config, restores relayer keys
// and creates the transfer channel between the sidechain and Osmosis.
// A project template is kept as is apart from the two chain endpoints.
func (b *Bridge) ConfigureRelayTooling(ctx context.Context, dir string) error {
	overlay := filepath.Join(b.cfg.Layout().OsmosisOverlay(), "hermes")

	if err := b.writeHermesConfig(filepath.Join(overlay, "config.toml")); err != nil {
		return err
	}
	b.log.Verbose(fmt.Sprintf("hermes config written to %s", b.cfg.Hermes.ConfigPath))

	client := hermes.Client{Runner: b.runner, Binary: b.cfg.Hermes.Binary, ConfigPath: b.cfg.Hermes.ConfigPath}
	for _, chain := range []string{hermes.SidechainID, hermes.OsmosisID} {
		mnemonic := filepath.Join(overlay, chain+".mnemonic")
		if ok, _ := afero.Exists(b.fs, mnemonic); !ok {
			return fmt.Errorf("missing relayer mnemonic %s", mnemonic)
		}
		if err := client.AddKey(ctx, chain, mnemonic); err != nil {
			return err
		}
	}

	return client.CreateChannel(ctx, hermes.SidechainID, hermes.OsmosisID, "transfer")
}

func (b *Bridge) writeHermesConfig(template string) error {
	if ok, _ := afero.Exists(b.fs, template); !ok {
		return hermes.Save(b.fs, b.cfg.Hermes.ConfigPath, hermes.Default(b.cfg.Cosmos.RPCURL, b.cfg.Osmosis.RPCURL))
	}

	doc, err := hermes.Load(b.fs, template)
	if err != nil {
		return err
	}
	if err := doc.SetRPC(hermes.SidechainID, b.cfg.Cosmos.RPCURL); err != nil {
		return err
	}
	if err := doc.SetRPC(hermes.OsmosisID, b.cfg.Osmosis.RPCURL); err != nil {
		return err
	}
	return hermes.Save(b.fs, b.cfg.Hermes.ConfigPath, doc)
}

func (b *Bridge) composeDown(ctx context.Context, dir string, env []string) error {
	if !docker.HasProject(b.fs, dir) {
		b.log.Verbose(fmt.Sprintf("nothing to stop in %s", dir))
		return nil
	}
	return b.compose(dir, env).Down(ctx)
}

// StopNetwork stops the Cardano devnet.
func (b *Bridge) StopNetwork(ctx context.Context, root string) error {
	return b.composeDown(ctx, config.Layout{Root: root}.Cardano(), nil)
}

// StopSidechain stops the Cosmos sidechain.
func (b *Bridge) StopSidechain(ctx context.Context, dir string) error {
	return b.composeDown(ctx, dir, nil)
}

// StopRelayer stops the relayer.
func (b *Bridge) StopRelayer(ctx context.Context, dir string) error {
	return b.composeDown(ctx, dir, nil)
}

// StopAppchain stops the Osmosis localnet if it was ever prepared.
func (b *Bridge) StopAppchain(ctx context.Context, dir string) error {
	if ok, _ := afero.DirExists(b.fs, dir); !ok {
		b.log.Verbose(fmt.Sprintf("nothing to stop in %s", dir))
		return nil
	}
	if _, err := b.runner.Run(ctx, dir, nil, "make", "localnet-stop"); err != nil {
		return fmt.Errorf("failed to stop osmosis localnet: %w", err)
	}
	return nil
}

// StopMithril stops the Mithril aggregator and signers.
func (b *Bridge) StopMithril(ctx context.Context, root string) error {
	l := config.Layout{Root: root}
	return b.composeDown(ctx, l.Mithril(), mithril.Env(l, b.cfg.Cardano.TestnetMagic))
}
