package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/blackwell-systems/caribic/internal/config"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the local bridge environment",
	Long: `Creates a local development environment including all necessary
components for an IBC connection between Cardano and Osmosis.

Services are started one after another. If any of them fails, every
service is stopped again and caribic exits with status 1.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Load configuration (Viper resolves behind the scenes)
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		return newOrchestrator(cfg).Start(cmd.Context(), cfg)
	},
}

func init() {
	// Define flags
	startCmd.Flags().Bool("mithril", false, "Start Mithril and run genesis certification")

	// Bind flags to viper
	viper.BindPFlag("mithril.enabled", startCmd.Flags().Lookup("mithril"))
}
