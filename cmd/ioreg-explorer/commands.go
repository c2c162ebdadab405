package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/muurk/ioreg-explorer/internal/config"
	"github.com/muurk/ioreg-explorer/internal/discovery"
	"github.com/muurk/ioreg-explorer/internal/dispatch"
	"github.com/muurk/ioreg-explorer/internal/explorer"
	"github.com/muurk/ioreg-explorer/internal/ioreg"
	"github.com/muurk/ioreg-explorer/internal/logging"
	"github.com/muurk/ioreg-explorer/internal/ui"
	"github.com/muurk/ioreg-explorer/internal/usbmux"
)

// Command flags
var (
	deviceName  string
	planeFilter string
	nameFilter  string
	classFilter string
	outputPath  string
	scanTimeout int
	forceInit   bool
)

// errNoResult means the worker finished a command without emitting a
// result; the cause was logged.
var errNoResult = errors.New("the device did not answer; run with --log-level=debug for details")

func init() {
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(ioregCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(appsCmd)
	rootCmd.AddCommand(configCmd)

	infoCmd.Flags().StringVar(&deviceName, "device", "", "Device name or UDID (defaults to the only attached device)")

	ioregCmd.Flags().StringVar(&deviceName, "device", "", "Device name or UDID (defaults to the only attached device)")
	ioregCmd.Flags().StringVar(&planeFilter, "plane", "", "Registry plane (e.g. IOService, IOPower)")
	ioregCmd.Flags().StringVar(&nameFilter, "name", "", "Entry name")
	ioregCmd.Flags().StringVar(&classFilter, "class", "", "Entry class")
	ioregCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the snapshot as an XML plist instead of printing it")

	scanCmd.Flags().IntVar(&scanTimeout, "timeout", 0, "Scan timeout in seconds (defaults to discover_timeout from the config)")

	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}

// initCommandLogging sends logs to stderr so stdout stays scriptable.
func initCommandLogging() error {
	return logging.InitializeWithOptions(logging.Options{
		Level:       logLevel,
		OutputPaths: []string{"stderr"},
	})
}

// session runs a dispatcher for the lifetime of one subcommand.
type session struct {
	d      *dispatch.Dispatcher
	g      *errgroup.Group
	cancel context.CancelFunc
}

func startSession(ctx context.Context) *session {
	ctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)

	d := newDispatcher()
	g.Go(func() error {
		if err := d.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	return &session{d: d, g: g, cancel: cancel}
}

// enumerate runs one Enumerate. It always produces exactly one result.
func (s *session) enumerate(ctx context.Context) (dispatch.Result, error) {
	s.d.Submit(dispatch.Enumerate{})
	return s.d.Receive(ctx)
}

// final submits the last command of the session and waits for its result.
// errNoResult is returned when the command failed without a result.
func (s *session) final(ctx context.Context, cmd dispatch.Command) (dispatch.Result, error) {
	s.d.Submit(cmd)
	s.d.Close()

	res, err := s.d.Receive(ctx)
	if errors.Is(err, dispatch.ErrClosed) {
		return nil, errNoResult
	}
	return res, err
}

func (s *session) stop() error {
	s.d.Close()
	s.cancel()
	return s.g.Wait()
}

// rosterOrError turns a non-roster enumeration result into an error.
func rosterOrError(res dispatch.Result) (dispatch.Roster, error) {
	switch r := res.(type) {
	case dispatch.EnumerationOK:
		return r.Roster, nil
	case dispatch.ServiceUnavailable:
		return nil, fmt.Errorf("failed to connect to usbmuxd: %w", r.Err)
	case dispatch.EnumerationFailed:
		return nil, fmt.Errorf("failed to get list of connected devices from usbmuxd: %w", r.Err)
	default:
		return nil, fmt.Errorf("unexpected result %s", res.Kind())
	}
}

// resolveDevice picks the device named query, matching the display name
// first and the UDID second. An empty query picks the only device.
func resolveDevice(roster dispatch.Roster, query string) (string, usbmux.Device, error) {
	if len(roster) == 0 {
		return "", usbmux.Device{}, errors.New(explorer.NoDevicesPlaceholder)
	}

	if query == "" {
		if len(roster) > 1 {
			return "", usbmux.Device{}, fmt.Errorf("several devices attached, pick one with --device: %s",
				strings.Join(roster.Names(), ", "))
		}
		for name, dev := range roster {
			return name, dev, nil
		}
	}

	if dev, ok := roster[query]; ok {
		return query, dev, nil
	}
	for name, dev := range roster {
		if strings.EqualFold(dev.UDID(), query) {
			return name, dev, nil
		}
	}
	return "", usbmux.Device{}, fmt.Errorf("no device named %q; attached: %s", query, strings.Join(roster.Names(), ", "))
}

func usbmuxdTroubleshooting() []string {
	return []string{
		explorer.UnavailableHint(runtime.GOOS),
		"Check the daemon address (" + current.addr.String() + "), or set it with --usbmuxd",
		"Unlock the device and accept the Trust prompt",
	}
}

// devicesCmd lists attached devices
var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List devices attached through usbmuxd",
	Long: `List the devices usbmuxd reports, keyed by their device name.

Devices that fail the lockdown handshake, or report no name, are left out.`,
	RunE: runDevices,
}

func runDevices(cmd *cobra.Command, args []string) error {
	if err := initCommandLogging(); err != nil {
		return err
	}
	defer logging.Sync()

	ctx := cmd.Context()
	s := startSession(ctx)
	res, err := s.enumerate(ctx)
	if stopErr := s.stop(); err == nil {
		err = stopErr
	}
	if err != nil {
		return err
	}

	p := ui.NewPrinter(os.Stdout)
	roster, err := rosterOrError(res)
	if err != nil {
		p.PrintError("Listing devices", err, usbmuxdTroubleshooting())
		return err
	}
	if len(roster) == 0 {
		p.Println(explorer.NoDevicesPlaceholder)
		return nil
	}

	details := make([]ui.Detail, 0, len(roster))
	for _, name := range roster.Names() {
		details = append(details, ui.Detail{Key: name, Value: roster[name].String()})
	}
	p.PrintSuccess(fmt.Sprintf("%d device(s) attached", len(roster)), details)
	return nil
}

// infoCmd prints device information
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show device information",
	Example: `  # Only one device attached
  ioreg-explorer info

  # Pick a device by name or UDID
  ioreg-explorer info --device "Sam's iPhone"`,
	RunE: runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	if err := initCommandLogging(); err != nil {
		return err
	}
	defer logging.Sync()

	ctx := cmd.Context()
	s := startSession(ctx)
	defer s.stop()

	res, err := s.enumerate(ctx)
	if err != nil {
		return err
	}

	p := ui.NewPrinter(os.Stdout)
	roster, err := rosterOrError(res)
	if err != nil {
		p.PrintError("Listing devices", err, usbmuxdTroubleshooting())
		return err
	}
	name, dev, err := resolveDevice(roster, deviceName)
	if err != nil {
		return err
	}

	res, err = s.final(ctx, dispatch.FetchInfo{Device: dev})
	if err != nil {
		p.PrintError("Reading "+name, err, nil)
		return err
	}

	info := res.(dispatch.InfoOK).Info
	details := make([]ui.Detail, 0, len(info))
	for _, f := range info {
		details = append(details, ui.Detail{Key: f.Label, Value: f.Value})
	}
	p.PrintSuccess(name, details)
	return nil
}

// ioregCmd queries the registry
var ioregCmd = &cobra.Command{
	Use:   "ioreg",
	Short: "Query the IORegistry of a device",
	Long: `Query the device IORegistry through the diagnostics relay.

Empty filters are left out of the request. Without --output the snapshot
is printed as indented text; with it the snapshot is written as an XML
property list.`,
	Example: `  # Whole power plane
  ioreg-explorer ioreg --plane IOPower

  # One entry by class, saved to a file
  ioreg-explorer ioreg --class IOPMPowerSource -o battery.plist`,
	RunE: runIOReg,
}

func runIOReg(cmd *cobra.Command, args []string) error {
	if err := initCommandLogging(); err != nil {
		return err
	}
	defer logging.Sync()

	ctx := cmd.Context()
	s := startSession(ctx)
	defer s.stop()

	res, err := s.enumerate(ctx)
	if err != nil {
		return err
	}
	roster, err := rosterOrError(res)
	if err != nil {
		ui.NewPrinter(os.Stderr).PrintError("Listing devices", err, usbmuxdTroubleshooting())
		return err
	}
	name, dev, err := resolveDevice(roster, deviceName)
	if err != nil {
		return err
	}

	filter := dispatch.NewFilter(planeFilter, nameFilter, classFilter)
	res, err = s.final(ctx, dispatch.FetchRegistry{Device: dev, Filter: filter})
	if err != nil {
		return fmt.Errorf("registry query on %s: %w", name, err)
	}

	snapshot := res.(dispatch.RegistryOK).Snapshot
	if outputPath != "" {
		if err := ioreg.Export(outputPath, snapshot); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved %s registry (%s) to %s\n", name, filter, outputPath)
		return nil
	}

	if snapshot == nil {
		return fmt.Errorf("%s returned no registry for %s", name, filter)
	}
	fmt.Print(snapshot.Render())
	return nil
}

// scanCmd looks for Wi-Fi sync devices on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the network for Wi-Fi sync devices",
	Long: `Scan for iOS devices advertising Wi-Fi sync over mDNS.

This does not go through usbmuxd. Use it to check whether a device that
usbmuxd does not list is reachable on the network at all.`,
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	if err := initCommandLogging(); err != nil {
		return err
	}
	defer logging.Sync()

	timeout := current.discoverTimeout
	if scanTimeout > 0 {
		timeout = time.Duration(scanTimeout) * time.Second
	}

	fmt.Printf("Scanning for %s services (timeout: %s)...\n\n", discovery.ServiceType, timeout)

	devices, err := discovery.ScanForDevices(cmd.Context(), timeout)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	p := ui.NewPrinter(os.Stdout)
	if len(devices) == 0 {
		p.PrintError("No devices found", nil, []string{
			"Enable \"Show this iPhone when on Wi-Fi\" in Finder or iTunes",
			"Make sure the device is awake and on the same network",
			"Try increasing --timeout for slower networks",
		})
		return nil
	}

	details := make([]ui.Detail, 0, len(devices))
	for _, d := range devices {
		details = append(details, ui.Detail{Key: d.Hostname, Value: d.String()})
	}
	p.PrintSuccess(fmt.Sprintf("Found %d device(s)", len(devices)), details)
	return nil
}

// appsCmd lists known pairing file locations
var appsCmd = &cobra.Command{
	Use:   "apps",
	Short: "List known apps and the pairing file name each expects",
	Long: `List applications that consume a pairing file and the file name each
one expects. The list comes from the apps section of the config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := current.registry
		details := make([]ui.Detail, 0, len(registry.Apps))
		for _, app := range registry.AppNames() {
			file, _ := registry.PairingFile(app)
			details = append(details, ui.Detail{Key: app, Value: file})
		}
		ui.NewPrinter(os.Stdout).PrintSuccess("Known apps", details)
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err == nil && !forceInit {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.CreateDefaultConfig(); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}
