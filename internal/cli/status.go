package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/caribic/internal/config"
	"github.com/blackwell-systems/caribic/internal/docker"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show status of the bridge endpoints",
	Long:  `Display health status of the Cosmos sidechain, Osmosis and the Mithril aggregator.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		status, err := docker.Status(cmd.Context(), cfg)
		if err != nil {
			color.Red("✗ Failed to get status: %v", err)
			return err
		}

		// Print status
		color.Cyan("Service          Status       Endpoint")
		color.Cyan("──────────────────────────────────────────────────")

		printServiceStatus("Cosmos sidechain", status.Cosmos, cfg.Cosmos.RPCURL)
		printServiceStatus("Osmosis", status.Osmosis, cfg.Osmosis.RPCURL)
		if cfg.Mithril.Enabled {
			printServiceStatus("Mithril", status.Mithril, cfg.Mithril.AggregatorURL)
		}

		return nil
	},
}

func printServiceStatus(name string, status docker.ServiceStatus, endpoint string) {
	var statusText string
	switch status {
	case docker.ServiceUp:
		statusText = color.GreenString("✓ UP        ")
	case docker.ServiceDown:
		statusText = color.RedString("✗ DOWN      ")
	case docker.ServiceStarting:
		statusText = color.YellowString("⚠ STARTING  ")
	default:
		statusText = color.RedString("✗ UNKNOWN   ")
	}

	color.New().Printf("%-16s %s %s\n", name, statusText, endpoint)
}
