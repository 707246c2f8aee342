package cli

import (
	"errors"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/caribic/internal/check"
	"github.com/blackwell-systems/caribic/internal/config"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify prerequisites and configuration",
	Long: `Verifies that all the prerequisites are installed and ensures that the
configuration is correctly set up.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		results := check.New(afero.NewOsFs()).Run(cfg)
		for _, r := range results {
			if r.OK {
				log.Success("✅ " + r.Name)
				continue
			}
			log.Error("❌ " + r.Name)
			log.Log("   " + r.Hint)
		}

		if !check.Passed(results) {
			return errors.New("prerequisites are missing")
		}
		return nil
	},
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Perform a token swap between Cardano and Osmosis",
	Run: func(cmd *cobra.Command, args []string) {
		log.Log("Demo")
	},
}
