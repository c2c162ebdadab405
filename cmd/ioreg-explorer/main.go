// Ioreg-explorer browses the IORegistry of iOS devices attached over USB.
//
// It talks to devices through usbmuxd: enumerates attached devices, reads
// their lockdown properties and queries the diagnostics relay for registry
// subtrees filtered by plane, entry name and entry class.
//
// Usage:
//
//	ioreg-explorer [command] [flags]
//
// Running without arguments launches the interactive explorer.
// See 'ioreg-explorer --help' for available commands.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/ioreg-explorer/internal/config"
	"github.com/muurk/ioreg-explorer/internal/usbmux"
	"github.com/muurk/ioreg-explorer/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Global flags
var (
	logLevel       string
	usbmuxdAddress string
	clientLabel    string
	opTimeout      int
)

// settings are the config file preferences with flag overrides applied
type settings struct {
	addr            usbmux.Addr
	label           string
	timeout         time.Duration
	exportFilename  string
	discoverTimeout time.Duration
	logToFile       bool
	registry        *config.Registry
}

var current settings

var rootCmd = &cobra.Command{
	Use:   "ioreg-explorer",
	Short: "IORegistry explorer for iOS devices",
	Long: `Browse the IORegistry of iOS devices attached over USB.

Devices are reached through usbmuxd, which must be running. Registry
queries go through the diagnostics relay and can be narrowed by plane,
entry name and entry class.

If no command is specified, the interactive explorer launches.`,
	Version:           version.Version,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
	RunE:              runExplorer,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); defaults to $"+"IOREG_EXPLORER_LOG_LEVEL")
	rootCmd.PersistentFlags().StringVar(&usbmuxdAddress, "usbmuxd", "", "usbmuxd address (unix:/path or host:port)")
	rootCmd.PersistentFlags().StringVar(&clientLabel, "label", "", "Client label recorded in device operation logs")
	rootCmd.PersistentFlags().IntVar(&opTimeout, "timeout", 0, "Per-operation timeout in seconds (0 waits indefinitely)")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("ioreg-explorer " + version.Full())
	},
}

// loadSettings reads the config file and applies flag overrides.
func loadSettings(cmd *cobra.Command, args []string) error {
	registry, err := config.LoadRegistry()
	if err != nil {
		return err
	}

	s, err := resolveSettings(registry, cmd)
	if err != nil {
		return err
	}
	current = s
	return nil
}

func resolveSettings(registry *config.Registry, cmd *cobra.Command) (settings, error) {
	prefs := registry.Preferences
	s := settings{
		addr:            usbmux.DefaultAddr(),
		label:           prefs.ClientLabel,
		timeout:         prefs.OperationTimeoutDuration(),
		exportFilename:  prefs.ExportFilename,
		discoverTimeout: prefs.DiscoverTimeoutDuration(),
		logToFile:       prefs.LogToFile,
		registry:        registry,
	}

	addr := prefs.USBMuxdAddress
	if cmd.Flags().Changed("usbmuxd") {
		addr = usbmuxdAddress
	}
	if addr != "" {
		parsed, err := usbmux.ParseAddr(addr)
		if err != nil {
			return settings{}, err
		}
		s.addr = parsed
	}

	if cmd.Flags().Changed("label") && clientLabel != "" {
		s.label = clientLabel
	}
	if cmd.Flags().Changed("timeout") {
		if opTimeout < 0 {
			return settings{}, fmt.Errorf("--timeout must not be negative")
		}
		s.timeout = time.Duration(opTimeout) * time.Second
	}

	return s, nil
}
