package docker_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/caribic/internal/docker"
	"github.com/blackwell-systems/caribic/internal/docker/dockertest"
)

func TestComposeCommands(t *testing.T) {
	rec := &dockertest.Recorder{}
	c := docker.Compose{Runner: rec, Dir: "/p/relayer", Env: []string{"A=1"}}
	ctx := context.Background()

	require.NoError(t, c.Up(ctx))
	require.NoError(t, c.Build(ctx, "relayer"))
	require.NoError(t, c.Down(ctx))
	_, err := c.RunOnce(ctx, "genesis", "--flag")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"docker compose up -d",
		"docker compose up -d --build relayer",
		"docker compose down",
		"docker compose run --rm genesis --flag",
	}, rec.Lines())

	for _, call := range rec.Calls() {
		assert.Equal(t, "/p/relayer", call.Dir)
		assert.Equal(t, []string{"A=1"}, call.Env)
	}
}

func TestComposeErrorsAreWrapped(t *testing.T) {
	boom := errors.New("exit status 1")
	rec := (&dockertest.Recorder{}).On("docker compose down", "", boom)

	err := docker.Compose{Runner: rec, Dir: "/p"}.Down(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "docker compose down failed")
}

func TestHasProject(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/p/cosmos/docker-compose.yml", []byte("services: {}"), 0644))
	require.NoError(t, fs.MkdirAll("/p/empty", 0755))

	assert.True(t, docker.HasProject(fs, "/p/cosmos"))
	assert.False(t, docker.HasProject(fs, "/p/empty"))
	assert.False(t, docker.HasProject(fs, "/p/missing"))
}

func TestCheckHealth(t *testing.T) {
	codes := map[string]int{"/up": 200, "/starting": 503, "/down": 500}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(codes[r.URL.Path])
	}))
	defer srv.Close()

	client := &http.Client{Timeout: time.Second}
	ctx := context.Background()

	assert.Equal(t, docker.ServiceUp, docker.CheckHealth(ctx, client, srv.URL+"/up"))
	assert.Equal(t, docker.ServiceStarting, docker.CheckHealth(ctx, client, srv.URL+"/starting"))
	assert.Equal(t, docker.ServiceDown, docker.CheckHealth(ctx, client, srv.URL+"/down"))
	assert.Equal(t, docker.ServiceDown, docker.CheckHealth(ctx, client, "http://127.0.0.1:1/health"))
}

func TestWaitHealthy(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := &http.Client{Timeout: time.Second}
	err := docker.WaitHealthy(context.Background(), client, srv.URL, 5*time.Millisecond, 2*time.Second)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, hits.Load(), int32(3))
}

func TestWaitHealthyTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := &http.Client{Timeout: time.Second}
	err := docker.WaitHealthy(context.Background(), client, srv.URL, 5*time.Millisecond, 30*time.Millisecond)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
