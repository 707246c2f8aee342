package orchestrator

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/blackwell-systems/caribic/internal/config"
)

// Service names a stoppable bridge component.
type Service string

const (
	ServiceNetwork   Service = "Cardano network"
	ServiceSidechain Service = "Cosmos sidechain"
	ServiceRelayer   Service = "Relayer"
	ServiceAppchain  Service = "Osmosis appchain"
	ServiceMithril   Service = "Mithril"
)

// TeardownOrder is the fixed stop order. The gateway is never stopped here.
var TeardownOrder = []Service{
	ServiceNetwork,
	ServiceSidechain,
	ServiceRelayer,
	ServiceAppchain,
	ServiceMithril,
}

// Stopper stops bridge components. Every method must be a no-op for a
// component that is not running.
type Stopper interface {
	StopNetwork(ctx context.Context, root string) error
	StopSidechain(ctx context.Context, dir string) error
	StopRelayer(ctx context.Context, dir string) error
	StopAppchain(ctx context.Context, dir string) error
	StopMithril(ctx context.Context, root string) error
}

// Teardown stops every component regardless of which ones were started.
type Teardown struct {
	stopper Stopper
	log     Notifier
}

// NewTeardown returns a Teardown over stopper.
func NewTeardown(stopper Stopper, log Notifier) *Teardown {
	return &Teardown{stopper: stopper, log: log}
}

type stopCall struct {
	service Service
	dir     string
	stop    func(context.Context, string) error
}

func (t *Teardown) plan(root string) []stopCall {
	l := config.Layout{Root: root}
	calls := map[Service]stopCall{
		ServiceNetwork:   {ServiceNetwork, root, t.stopper.StopNetwork},
		ServiceSidechain: {ServiceSidechain, l.Cosmos(), t.stopper.StopSidechain},
		ServiceRelayer:   {ServiceRelayer, l.Relayer(), t.stopper.StopRelayer},
		ServiceAppchain:  {ServiceAppchain, l.Osmosis(), t.stopper.StopAppchain},
		ServiceMithril:   {ServiceMithril, root, t.stopper.StopMithril},
	}

	ordered := make([]stopCall, 0, len(TeardownOrder))
	for _, s := range TeardownOrder {
		ordered = append(ordered, calls[s])
	}
	return ordered
}

// Run attempts to stop every component in TeardownOrder. A failing stop is
// logged and the pass continues. The returned error aggregates the
// individual failures for reporting; callers must not treat it as fatal.
func (t *Teardown) Run(ctx context.Context, root string) error {
	var errs error
	for _, call := range t.plan(root) {
		t.log.Verbose(fmt.Sprintf("stopping %s in %s", call.service, call.dir))
		if err := call.stop(ctx, call.dir); err != nil {
			t.log.Warn(fmt.Sprintf("⚠ Failed to stop %s: %v", call.service, err))
			errs = multierr.Append(errs, fmt.Errorf("stop %s: %w", call.service, err))
		}
	}
	return errs
}
