// Package check verifies the host has what the testbed needs.
package check

import (
	"fmt"
	"os/exec"

	"github.com/spf13/afero"

	"github.com/blackwell-systems/caribic/internal/config"
)

// Result is the outcome of one prerequisite check.
type Result struct {
	Name string
	OK   bool
	Hint string
}

// Checker runs prerequisite checks against a config.
type Checker struct {
	Fs       afero.Fs
	LookPath func(string) (string, error)
}

// New returns a Checker using the host PATH.
func New(fs afero.Fs) *Checker {
	return &Checker{Fs: fs, LookPath: exec.LookPath}
}

type tool struct {
	name string
	hint string
}

var tools = []tool{
	{"docker", "install Docker: https://docs.docker.com/engine/install/"},
	{"git", "install git from your package manager"},
	{"make", "install make (build-essential / xcode-select --install)"},
}

// Run checks the required binaries and the project layout.
func (c *Checker) Run(cfg *config.Config) []Result {
	var results []Result

	binaries := append([]tool{}, tools...)
	binaries = append(binaries, tool{cfg.Hermes.Binary, "install Hermes: https://hermes.informal.systems/quick-start/installation.html"})

	for _, bin := range binaries {
		_, err := c.LookPath(bin.name)
		results = append(results, Result{
			Name: fmt.Sprintf("%s installed", bin.name),
			OK:   err == nil,
			Hint: bin.hint,
		})
	}

	rootOK, _ := afero.DirExists(c.Fs, cfg.ProjectRoot)
	results = append(results, Result{
		Name: fmt.Sprintf("project root %s exists", cfg.ProjectRoot),
		OK:   rootOK,
		Hint: "set project_root in the caribic config file",
	})

	l := cfg.Layout()
	for _, dir := range []string{l.Cardano(), l.Cosmos(), l.Relayer(), l.Gateway()} {
		ok, _ := afero.DirExists(c.Fs, dir)
		results = append(results, Result{
			Name: fmt.Sprintf("%s exists", dir),
			OK:   ok,
			Hint: "project_root must point at a cardano-ibc checkout",
		})
	}

	if cfg.Mithril.Enabled {
		ok, _ := afero.DirExists(c.Fs, l.Mithril())
		results = append(results, Result{
			Name: fmt.Sprintf("%s exists", l.Mithril()),
			OK:   ok,
			Hint: "disable mithril or restore chains/mithrils",
		})
	}

	return results
}

// Passed reports whether every result is OK.
func Passed(results []Result) bool {
	for _, r := range results {
		if !r.OK {
			return false
		}
	}
	return true
}
