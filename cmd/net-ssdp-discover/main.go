// Net-ssdp-discover is an active SSDP discovery utility.
//
// It multicasts an M-SEARCH probe on the local network, collects the
// unicast replies from UPnP/SSDP services, and prints the deduplicated
// results. A live watch mode and named search-target aliases are also
// provided. The tool only listens for direct replies to its own probe;
// it never fetches device description documents.
//
// Usage:
//
//	net-ssdp-discover [command] [flags]
//
// Running without arguments performs a scan with the default settings.
// See 'net-ssdp-discover --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ShadowStrikeHQ/net-ssdp-discover/internal/logging"
	"github.com/ShadowStrikeHQ/net-ssdp-discover/internal/ssdp"
	"github.com/ShadowStrikeHQ/net-ssdp-discover/internal/version"
)

func main() {
	defer logging.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", ssdp.GetShortErrorMessage(err))
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "net-ssdp-discover",
	Short: "Active SSDP/UPnP service discovery",
	Long: `A command-line tool for discovering SSDP/UPnP services on the local network.

Sends an M-SEARCH multicast probe and collects unicast replies, with
tolerant parsing of real-world device responses and deduplication of
services that answer in multiple rounds.

If no command is specified, a scan runs with the configured defaults.`,
	Version: version.Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: scan when no subcommand provided
		return runScan(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("net-ssdp-discover %s\n", version.Full())
	},
}
