package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestTeardownOrderAndDirectories(t *testing.T) {
	dirs := map[Service]string{}
	s := &dirStopper{dirs: dirs}
	td := NewTeardown(s, &recordingNotifier{})

	require.NoError(t, td.Run(context.Background(), "/p"))

	assert.Equal(t, TeardownOrder, s.order)
	assert.Equal(t, "/p", dirs[ServiceNetwork])
	assert.Equal(t, "/p/cosmos", dirs[ServiceSidechain])
	assert.Equal(t, "/p/relayer", dirs[ServiceRelayer])
	assert.Equal(t, "/p/chains/osmosis/osmosis", dirs[ServiceAppchain])
	assert.Equal(t, "/p", dirs[ServiceMithril])
}

func TestTeardownIsBestEffort(t *testing.T) {
	f := newFakeBridge()
	f.failAt["stop "+string(ServiceSidechain)] = errors.New("sidechain stuck")
	f.failAt["stop "+string(ServiceAppchain)] = errors.New("make failed")
	n := &recordingNotifier{}
	td := NewTeardown(f, n)

	err := td.Run(context.Background(), "/p")

	// every service is attempted exactly once
	assert.Equal(t, TeardownOrder, f.stopCalls)
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.Len(t, n.warns, 2)
}

func TestTeardownTwiceIsHarmless(t *testing.T) {
	f := newFakeBridge()
	n := &recordingNotifier{}
	td := NewTeardown(f, n)

	require.NoError(t, td.Run(context.Background(), "/p"))
	require.NoError(t, td.Run(context.Background(), "/p"))

	assert.Len(t, f.stopCalls, 2*len(TeardownOrder))
	assert.Empty(t, n.warns)
}

type dirStopper struct {
	dirs  map[Service]string
	order []Service
}

func (d *dirStopper) rec(s Service, dir string) error {
	d.order = append(d.order, s)
	d.dirs[s] = dir
	return nil
}

func (d *dirStopper) StopNetwork(_ context.Context, dir string) error {
	return d.rec(ServiceNetwork, dir)
}
func (d *dirStopper) StopSidechain(_ context.Context, dir string) error {
	return d.rec(ServiceSidechain, dir)
}
func (d *dirStopper) StopRelayer(_ context.Context, dir string) error {
	return d.rec(ServiceRelayer, dir)
}
func (d *dirStopper) StopAppchain(_ context.Context, dir string) error {
	return d.rec(ServiceAppchain, dir)
}
func (d *dirStopper) StopMithril(_ context.Context, root string) error {
	return d.rec(ServiceMithril, root)
}
