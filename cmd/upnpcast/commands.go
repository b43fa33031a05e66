package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/upnpcast/internal/config"
	"github.com/muurk/upnpcast/internal/control"
	"github.com/muurk/upnpcast/internal/ssdp"
	"github.com/muurk/upnpcast/internal/upnp"
)

// Command flags
var (
	scanTimeout  int
	outputFormat string
	targetDevice string
	location     string
)

func init() {
	rootCmd.PersistentFlags().IntVar(&scanTimeout, "timeout", 0, "Scan timeout in seconds (default from config)")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(pauseCmd)
}

// scanCmd discovers renderers on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for UPnP media renderers on the network",
	Long: `Scan for media renderers using SSDP discovery.

This command multicasts an M-SEARCH request, listens for responses until the
timeout, and displays every device that exposes an AVTransport service.`,
	Example: `  # Scan with the default timeout
  upnpcast scan

  # Longer scan for sleepy devices
  upnpcast scan --timeout 10

  # JSON output for scripting
  upnpcast scan --format json`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVar(&outputFormat, "format", "detailed", "Output format (detailed, json)")
}

func runScan(cmd *cobra.Command, args []string) error {
	devices := discoverDevices(cmd.Context())

	if outputFormat == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(devices)
	}

	if len(devices) == 0 {
		fmt.Println("No renderers found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Ensure the renderer is powered on and on the same network")
		fmt.Println("  - Check that your firewall allows UDP port 1900")
		fmt.Println("  - Try increasing --timeout for slower networks")
		return nil
	}

	fmt.Printf("Found %d renderer(s):\n\n", len(devices))
	for i, device := range devices {
		fmt.Printf("%d. %s\n", i+1, displayName(device))
		fmt.Printf("   Manufacturer: %s\n", device.Manufacturer)
		fmt.Printf("   Type:         %s\n", device.DeviceType)
		fmt.Printf("   Address:      %s\n", device.Address)
		fmt.Printf("   Location:     %s\n", device.Location)
		fmt.Println()
	}

	fmt.Println("Use 'upnpcast play <media-url> --device <name>' to start playback")
	return nil
}

// playCmd starts playback on a renderer
var playCmd = &cobra.Command{
	Use:   "play <media-url>",
	Short: "Play a media URL on a renderer",
	Long: `Start playback of a media URL on a UPnP renderer.

The target renderer is found by a discovery scan and matched against
--device by friendly name, nickname, or IP address. With --location the
scan is skipped and the description URL is resolved directly.`,
	Example: `  # Cast to the only renderer on the network
  upnpcast play http://example.com/song.mp3

  # Pick a renderer by name or address
  upnpcast play http://example.com/movie.mp4 --device "Living Room TV"
  upnpcast play http://example.com/movie.mp4 --device 192.168.1.50

  # Skip discovery when the description URL is known
  upnpcast play http://example.com/song.mp3 --location http://192.168.1.50:49152/desc.xml`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&targetDevice, "device", "", "Renderer name, nickname, or IP address")
	playCmd.Flags().StringVar(&location, "location", "", "Description URL (skips discovery)")
	stopCmd.Flags().StringVar(&targetDevice, "device", "", "Renderer name, nickname, or IP address")
	stopCmd.Flags().StringVar(&location, "location", "", "Description URL (skips discovery)")
	pauseCmd.Flags().StringVar(&targetDevice, "device", "", "Renderer name, nickname, or IP address")
	pauseCmd.Flags().StringVar(&location, "location", "", "Description URL (skips discovery)")
}

func runPlay(cmd *cobra.Command, args []string) error {
	device, err := selectDevice(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("Casting to %s...\n", displayName(device))
	result := control.NewClient().Play(cmd.Context(), device, args[0])
	if !result.Success {
		return fmt.Errorf("playback failed: %s", result.Error)
	}

	rememberDevice(device)
	fmt.Println("Playback started.")
	return nil
}

// stopCmd halts playback on a renderer
var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop playback on a renderer",
	RunE: func(cmd *cobra.Command, args []string) error {
		device, err := selectDevice(cmd.Context())
		if err != nil {
			return err
		}
		result := control.NewClient().Stop(cmd.Context(), device)
		if !result.Success {
			return fmt.Errorf("stop failed: %s", result.Error)
		}
		fmt.Println("Playback stopped.")
		return nil
	},
}

// pauseCmd pauses playback on a renderer
var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause playback on a renderer",
	RunE: func(cmd *cobra.Command, args []string) error {
		device, err := selectDevice(cmd.Context())
		if err != nil {
			return err
		}
		result := control.NewClient().Pause(cmd.Context(), device)
		if !result.Success {
			return fmt.Errorf("pause failed: %s", result.Error)
		}
		fmt.Println("Playback paused.")
		return nil
	},
}

// discoverDevices runs one SSDP scan with the configured timeout
func discoverDevices(ctx context.Context) []*upnp.Device {
	timeout := time.Duration(scanTimeout) * time.Second
	broadcast := true

	if registry, err := config.LoadRegistry(); err == nil && registry.Preferences != nil {
		if scanTimeout <= 0 {
			timeout = time.Duration(registry.Preferences.ScanTimeout) * time.Second
		}
		broadcast = registry.Preferences.Broadcast
	}

	scanner := ssdp.NewScanner()
	if timeout > 0 {
		scanner.Timeout = timeout
	}
	scanner.Broadcast = broadcast
	return scanner.Discover(ctx)
}

// selectDevice resolves the playback target from --location or a scan
func selectDevice(ctx context.Context) (*upnp.Device, error) {
	if location != "" {
		device, err := upnp.NewResolver().Resolve(ctx, location, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", location, err)
		}
		return device, nil
	}

	devices := discoverDevices(ctx)
	if len(devices) == 0 {
		return nil, fmt.Errorf("no renderers found (try a longer --timeout, or --location to skip discovery)")
	}

	if targetDevice == "" {
		if len(devices) == 1 {
			return devices[0], nil
		}
		names := make([]string, len(devices))
		for i, d := range devices {
			names[i] = displayName(d)
		}
		return nil, fmt.Errorf("multiple renderers found, pick one with --device: %s", strings.Join(names, ", "))
	}

	want := strings.ToLower(targetDevice)
	for _, device := range devices {
		if strings.ToLower(device.Name) == want ||
			strings.ToLower(displayName(device)) == want ||
			device.Address == targetDevice {
			return device, nil
		}
	}
	return nil, fmt.Errorf("no renderer matching %q found", targetDevice)
}

// displayName prefers the user's nickname over the advertised friendly name
func displayName(device *upnp.Device) string {
	if registry, err := config.LoadRegistry(); err == nil {
		if meta := registry.GetDevice(device.Location); meta != nil && meta.Nickname != "" {
			return meta.Nickname
		}
	}
	return device.Name
}

// rememberDevice records last-seen metadata for the device. Best-effort;
// playback already succeeded, so a config write failure is not an error.
func rememberDevice(device *upnp.Device) {
	registry, err := config.LoadRegistry()
	if err != nil {
		return
	}
	registry.NoteSeen(device.Location, device.Address)
	_ = registry.Save()
}
