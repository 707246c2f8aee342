// Package cli wires the caribic commands.
package cli

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/caribic/internal/bridge"
	"github.com/blackwell-systems/caribic/internal/config"
	"github.com/blackwell-systems/caribic/internal/docker"
	"github.com/blackwell-systems/caribic/internal/logger"
	"github.com/blackwell-systems/caribic/internal/mithril"
	"github.com/blackwell-systems/caribic/internal/orchestrator"
)

var (
	configPath string
	verbosity  int

	log = logger.Default(logger.Standard)

	// runner executes docker, git, make and hermes for every command.
	runner docker.Runner = docker.ExecRunner{}
)

var rootCmd = &cobra.Command{
	Use:   "caribic",
	Short: "Local Cardano to Cosmos IBC testbed",
	Long: `caribic creates a local development environment with a Cardano devnet,
Mithril, the gateway, a Cosmos sidechain, the relayer and an Osmosis appchain
connected over IBC.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logger.ParseLevel(verbosity)
		if err != nil {
			return err
		}
		log = logger.New(level, cmd.OutOrStdout())

		if level > logger.Quiet {
			printHeader(cmd)
		}

		if err := config.Init(configPath); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().IntVar(&verbosity, "verbose", int(logger.Standard),
		"Verbosity level (0 = quiet, 1 = standard, 2 = warning, 3 = error, 4 = info, 5 = verbose)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigPath(),
		"Configuration file")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command. Startup failures have already been
// reported by the orchestrator; anything else is printed here.
func Execute(version string) error {
	rootCmd.Version = version

	err := rootCmd.Execute()
	if err != nil {
		var stepErr *orchestrator.StepError
		if !errors.As(err, &stepErr) {
			fmt.Fprintln(rootCmd.ErrOrStderr(), color.RedString("✗ %v", err))
		}
	}
	return err
}

func printHeader(cmd *cobra.Command) {
	fmt.Fprintln(cmd.OutOrStdout(), color.CyanString(`
   ___           _ _     _
  / __\__ _ _ __(_) |__ (_) ___
 / /  / _' | '__| | '_ \| |/ __|
/ /__| (_| | |  | | |_) | | (__
\____/\__,_|_|  |_|_.__/|_|\___|
`))
}

// newOrchestrator builds the orchestrator over the real launchers.
func newOrchestrator(cfg *config.Config) *orchestrator.Orchestrator {
	fs := afero.NewOsFs()

	b := bridge.New(cfg, fs, runner, log)
	waiter := mithril.NewWaiter(cfg, fs, runner, log)

	return orchestrator.New(b, waiter, orchestrator.NewTeardown(b, log), log)
}
