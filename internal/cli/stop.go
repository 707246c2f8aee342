package cli

import (
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/caribic/internal/config"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the local bridge environment",
	Long: `Stop the Cardano network, the Cosmos sidechain, the relayer, Osmosis and
Mithril. Services that are not running are skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		newOrchestrator(cfg).Stop(cmd.Context(), cfg.ProjectRoot)
		return nil
	},
}
