package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/blackwell-systems/caribic/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		switch output {
		case "text":
			text, err := config.Display()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
		case "yaml":
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to marshal config YAML: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
		default:
			return fmt.Errorf("invalid output format: %s (must be text or yaml)", output)
		}
		return nil
	},
}

func init() {
	configCmd.Flags().StringP("output", "o", "text", "Output format (text|yaml)")
}
