// Upnpcast discovers UPnP media renderers and starts playback on them.
//
// It scans the local network with an SSDP M-SEARCH, resolves each
// responder's description document, and can push a media URL to any
// renderer that exposes an AVTransport service.
//
// Usage:
//
//	upnpcast [command] [flags]
//
// See 'upnpcast --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/upnpcast/internal/logging"
	"github.com/muurk/upnpcast/internal/version"
)

func main() {
	if err := logging.InitializeFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "upnpcast",
	Short: "UPnP media renderer discovery and playback",
	Long: `A utility for casting media to UPnP/DLNA renderers.

Discovers renderers on the local network via SSDP and drives playback
through the AVTransport service: point any TV, speaker, or media box at a
media URL from the command line.`,
	Version: version.Version,
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
		fmt.Printf("upnpcast %s (commit: %s)\n", version.Version, version.Commit)
	},
}
