// Package orchestrator starts and stops the Cardano to Cosmos bridge testbed.
//
// Start walks a fixed, linear list of steps and stops at the first failure.
// A failed start always runs exactly one Teardown pass before returning.
// Startup never runs two steps at once and never retries a step.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/blackwell-systems/caribic/internal/config"
)

// Launcher starts bridge components. Each call blocks until the component
// is usable by the next step or has failed.
type Launcher interface {
	PrepareOsmosis(ctx context.Context, dir string) error
	StartNetwork(ctx context.Context, root string) error
	StartMithril(ctx context.Context, root string) (Epoch, error)
	StartGateway(ctx context.Context, dir string) error
	StartSidechain(ctx context.Context, dir string) error
	StartRelayer(ctx context.Context, dir string) error
	StartAppchain(ctx context.Context, dir string) error
	ConfigureRelayTooling(ctx context.Context, dir string) error
}

// GenesisWaiter blocks until Mithril can certify the given epoch, then
// runs genesis certification.
type GenesisWaiter interface {
	WaitAndCertifyGenesis(ctx context.Context, root string, epoch Epoch) error
}

// Notifier receives human readable progress lines.
type Notifier interface {
	Log(msg string)
	Success(msg string)
	Warn(msg string)
	Error(msg string)
	Verbose(msg string)
}

// State is the lifecycle position of an orchestrated run.
type State int

const (
	StateInit State = iota
	StateStarting
	StateRunning
	StateFailed
	StateStopping
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateFailed:
		return "failed"
	case StateStopping:
		return "stopping"
	case StateTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Orchestrator drives one start or stop run.
type Orchestrator struct {
	launcher Launcher
	waiter   GenesisWaiter
	teardown *Teardown
	log      Notifier
	state    State
}

// New returns an Orchestrator in StateInit.
func New(launcher Launcher, waiter GenesisWaiter, teardown *Teardown, log Notifier) *Orchestrator {
	return &Orchestrator{
		launcher: launcher,
		waiter:   waiter,
		teardown: teardown,
		log:      log,
		state:    StateInit,
	}
}

// State reports where the run currently is.
func (o *Orchestrator) State() State {
	return o.state
}

type step struct {
	stage Stage
	run   func(ctx context.Context) error
}

// mithrilBranch contributes the Mithril steps to a plan. It is chosen once
// per run, so skipping Mithril is decided in exactly one place.
type mithrilBranch interface {
	start(root string, epoch *Epoch) []step
	genesis(root string, epoch *Epoch) []step
}

type mithrilEnabled struct {
	launcher Launcher
	waiter   GenesisWaiter
}

func (m mithrilEnabled) start(root string, epoch *Epoch) []step {
	return []step{{StageMithril, func(ctx context.Context) error {
		current, err := m.launcher.StartMithril(ctx, root)
		if err != nil {
			return err
		}
		*epoch = current
		return nil
	}}}
}

func (m mithrilEnabled) genesis(root string, epoch *Epoch) []step {
	return []step{{StageGenesis, func(ctx context.Context) error {
		return m.waiter.WaitAndCertifyGenesis(ctx, root, *epoch)
	}}}
}

type mithrilDisabled struct{}

func (mithrilDisabled) start(string, *Epoch) []step   { return nil }
func (mithrilDisabled) genesis(string, *Epoch) []step { return nil }

func (o *Orchestrator) branch(enabled bool) mithrilBranch {
	if enabled {
		return mithrilEnabled{launcher: o.launcher, waiter: o.waiter}
	}
	return mithrilDisabled{}
}

// plan builds the ordered startup steps. epoch stays at its zero sentinel
// unless the Mithril branch captures one.
func (o *Orchestrator) plan(cfg *config.Config, epoch *Epoch) []step {
	root := cfg.ProjectRoot
	l := cfg.Layout()
	mithril := o.branch(cfg.Mithril.Enabled)

	steps := []step{
		{StagePrepare, func(ctx context.Context) error {
			o.log.Verbose(l.Osmosis())
			return o.launcher.PrepareOsmosis(ctx, l.Osmosis())
		}},
		{StageNetwork, func(ctx context.Context) error {
			return o.launcher.StartNetwork(ctx, root)
		}},
	}
	steps = append(steps, mithril.start(root, epoch)...)
	steps = append(steps,
		step{StageGateway, func(ctx context.Context) error {
			return o.launcher.StartGateway(ctx, l.Gateway())
		}},
		step{StageSidechain, func(ctx context.Context) error {
			return o.launcher.StartSidechain(ctx, l.Cosmos())
		}},
		step{StageRelayer, func(ctx context.Context) error {
			return o.launcher.StartRelayer(ctx, l.Relayer())
		}},
		step{StageAppchain, func(ctx context.Context) error {
			return o.launcher.StartAppchain(ctx, l.Osmosis())
		}},
		step{StageRelayConfig, func(ctx context.Context) error {
			return o.launcher.ConfigureRelayTooling(ctx, l.Osmosis())
		}},
	)
	steps = append(steps, mithril.genesis(root, epoch)...)
	return steps
}

// Stages lists the stages a start with cfg would run, in order.
func (o *Orchestrator) Stages(cfg *config.Config) []Stage {
	var epoch Epoch
	steps := o.plan(cfg, &epoch)
	out := make([]Stage, len(steps))
	for i, s := range steps {
		out[i] = s.stage
	}
	return out
}

// Start brings the bridge up. On the first failing step it logs the cause,
// tears every component down and returns a *StepError.
func (o *Orchestrator) Start(ctx context.Context, cfg *config.Config) error {
	o.state = StateStarting

	var epoch Epoch
	for _, s := range o.plan(cfg, &epoch) {
		if err := s.run(ctx); err != nil {
			o.state = StateFailed
			stepErr := &StepError{Stage: s.stage, Cause: err}
			o.log.Error("❌ " + stepErr.Error())
			o.stop(ctx, cfg.ProjectRoot)
			return stepErr
		}
		o.log.Success(stages[s.stage].success)
	}

	o.state = StateRunning
	o.log.Success("\n✅ Bridge started successfully")
	return nil
}

// Stop tears the bridge down on user request. Individual stop failures are
// reported as warnings only.
func (o *Orchestrator) Stop(ctx context.Context, root string) {
	o.stop(ctx, root)
	o.log.Success("\n❎ Bridge stopped successfully")
}

func (o *Orchestrator) stop(ctx context.Context, root string) {
	o.state = StateStopping
	o.log.Log("🚨 Stopping services...")
	if err := o.teardown.Run(ctx, root); err != nil {
		o.log.Verbose(fmt.Sprintf("teardown finished with errors: %v", err))
	}
	o.state = StateTerminated
}
