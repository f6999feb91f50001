// Main entry point for the go-akashdhara service
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "go-akashdhara",
	Short: "Space exploration backend: daily image, launch timeline, mission catalog and AstroBot",
	Long: "go-akashdhara serves the AkashDhara site: NASA's picture of the day, launches and " +
		"space-history events for any date, the mission catalog with filtering and comparison, " +
		"and the AstroBot chat assistant.",
	SilenceUsage: true,
	RunE:         runServe,
}

func main() {
	rootCmd.AddCommand(serveCmd, eventsCmd, missionsCmd, apodCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
