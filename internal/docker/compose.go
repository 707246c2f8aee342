package docker

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Runner executes an external command in dir and returns its combined output.
type Runner interface {
	Run(ctx context.Context, dir string, env []string, name string, args ...string) (string, error)
}

// ExecRunner runs commands on the local host.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, dir string, env []string, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	if len(env) > 0 {
		cmd.Env = append(cmd.Environ(), env...)
	}

	output, err := cmd.CombinedOutput()
	if err != nil {
		return string(output), fmt.Errorf("%s %s failed: %w\n%s", name, strings.Join(args, " "), err, output)
	}

	return string(output), nil
}

var composeFiles = []string{"docker-compose.yml", "docker-compose.yaml", "compose.yml", "compose.yaml"}

// Compose drives a docker compose project rooted at Dir
type Compose struct {
	Runner Runner
	Dir    string
	Env    []string
}

// HasProject reports whether dir contains a compose file
func HasProject(fs afero.Fs, dir string) bool {
	for _, name := range composeFiles {
		if ok, _ := afero.Exists(fs, filepath.Join(dir, name)); ok {
			return true
		}
	}
	return false
}

// Up starts the stack, or only the given services
func (c Compose) Up(ctx context.Context, services ...string) error {
	args := append([]string{"compose", "up", "-d"}, services...)
	if _, err := c.Runner.Run(ctx, c.Dir, c.Env, "docker", args...); err != nil {
		return fmt.Errorf("docker compose up failed: %w", err)
	}
	return nil
}

// Build starts the stack after rebuilding images
func (c Compose) Build(ctx context.Context, services ...string) error {
	args := append([]string{"compose", "up", "-d", "--build"}, services...)
	if _, err := c.Runner.Run(ctx, c.Dir, c.Env, "docker", args...); err != nil {
		return fmt.Errorf("docker compose up --build failed: %w", err)
	}
	return nil
}

// Down stops the stack. Stopping a stack that is not running is a no-op for docker.
func (c Compose) Down(ctx context.Context) error {
	if _, err := c.Runner.Run(ctx, c.Dir, c.Env, "docker", "compose", "down"); err != nil {
		return fmt.Errorf("docker compose down failed: %w", err)
	}
	return nil
}

// RunOnce runs a one-off container for service and removes it afterwards
func (c Compose) RunOnce(ctx context.Context, service string, args ...string) (string, error) {
	full := append([]string{"compose", "run", "--rm", service}, args...)
	out, err := c.Runner.Run(ctx, c.Dir, c.Env, "docker", full...)
	if err != nil {
		return out, fmt.Errorf("docker compose run %s failed: %w", service, err)
	}
	return out, nil
}

// Exec runs a command inside a running container
func Exec(ctx context.Context, r Runner, container string, args ...string) (string, error) {
	full := append([]string{"exec", container}, args...)
	out, err := r.Run(ctx, "", nil, "docker", full...)
	if err != nil {
		return out, fmt.Errorf("docker exec %s failed: %w", container, err)
	}
	return out, nil
}
