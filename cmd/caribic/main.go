package main

import (
	"os"

	"github.com/blackwell-systems/caribic/internal/cli"
)

var version = "dev"

func main() {
	// Execute root command; configuration is loaded once the --config flag is parsed
	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}
