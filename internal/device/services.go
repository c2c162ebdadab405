package device

import (
	"context"
	"fmt"
	"os"

	"github.com/danielpaulus/go-ios/ios"
	"go.uber.org/zap"

	"github.com/muurk/ioreg-explorer/internal/diagnostics"
	"github.com/muurk/ioreg-explorer/internal/dispatch"
	"github.com/muurk/ioreg-explorer/internal/ioreg"
	"github.com/muurk/ioreg-explorer/internal/logging"
	"github.com/muurk/ioreg-explorer/internal/usbmux"
)

// Services implements dispatch.Services on top of go-ios.
type Services struct {
	addr  usbmux.Addr
	label string
}

var _ dispatch.Services = (*Services)(nil)

// NewServices creates device services talking to the daemon at addr. go-ios
// reads the daemon address from USBMUXD_SOCKET_ADDRESS, so the process
// environment is pointed at addr. label only tags log entries.
func NewServices(addr usbmux.Addr, label string) *Services {
	if err := os.Setenv(usbmux.SocketAddressEnvVar, addr.Socket()); err != nil {
		logging.Warn("Failed to export usbmuxd address", zap.Stringer("usbmuxd", addr), zap.Error(err))
	}
	return &Services{addr: addr, label: label}
}

// ListDevices lists attached devices.
func (s *Services) ListDevices(ctx context.Context) ([]usbmux.Device, error) {
	if err := s.addr.Probe(ctx); err != nil {
		return nil, err
	}

	list, err := run(ctx, ios.ListDevices)
	if err != nil {
		return nil, usbmux.Classify(s.addr, fmt.Errorf("list devices: %w", err))
	}

	devices := make([]usbmux.Device, 0, len(list.DeviceList))
	for _, entry := range list.DeviceList {
		devices = append(devices, fromEntry(entry))
	}
	logging.Debug("usbmuxd device list",
		zap.String("client", s.label),
		zap.Int("count", len(devices)),
	)
	return devices, nil
}

// Properties reads the lockdown property set.
func (s *Services) Properties(ctx context.Context, dev usbmux.Device) (map[string]interface{}, error) {
	values, err := run(ctx, func() (map[string]interface{}, error) {
		return ios.GetValuesPlist(toEntry(dev))
	})
	if err != nil {
		return nil, usbmux.Classify(s.addr, fmt.Errorf("lockdown %s: %w", dev.UDID(), err))
	}
	return values, nil
}

// Registry queries the diagnostics relay with filter.
func (s *Services) Registry(ctx context.Context, dev usbmux.Device, filter dispatch.Filter) (*ioreg.Snapshot, error) {
	client, err := run(ctx, func() (*diagnostics.Client, error) {
		return diagnostics.Connect(toEntry(dev))
	})
	if err != nil {
		return nil, usbmux.Classify(s.addr, fmt.Errorf("diagnostics %s: %w", dev.UDID(), err))
	}
	defer client.Close()
	logging.LogDeviceEvent(dev.UDID(), "diagnostics_connected")

	tree, err := client.IORegistry(ctx, filter.Plane, filter.Name, filter.Class)
	if err != nil {
		return nil, fmt.Errorf("ioregistry %s (%s): %w", dev.UDID(), filter, err)
	}

	if err := client.Goodbye(ctx); err != nil {
		logging.Debug("Diagnostics goodbye failed", zap.String("udid", dev.UDID()), zap.Error(err))
	}

	return ioreg.New(tree), nil
}

// run calls op and returns early when ctx is done. go-ios calls take no
// context, so an abandoned op finishes in the background.
func run[T any](ctx context.Context, op func() (T, error)) (T, error) {
	type outcome struct {
		value T
		err   error
	}

	done := make(chan outcome, 1)
	go func() {
		value, err := op()
		done <- outcome{value: value, err: err}
	}()

	select {
	case o := <-done:
		return o.value, o.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func fromEntry(entry ios.DeviceEntry) usbmux.Device {
	id := entry.Properties.DeviceID
	if id == 0 {
		id = entry.DeviceID
	}
	return usbmux.Device{
		DeviceID:       id,
		SerialNumber:   entry.Properties.SerialNumber,
		ConnectionType: entry.Properties.ConnectionType,
		ProductID:      entry.Properties.ProductID,
		LocationID:     entry.Properties.LocationID,
	}
}

func toEntry(dev usbmux.Device) ios.DeviceEntry {
	return ios.DeviceEntry{
		DeviceID: dev.DeviceID,
		Properties: ios.DeviceProperties{
			DeviceID:       dev.DeviceID,
			SerialNumber:   dev.SerialNumber,
			ConnectionType: dev.ConnectionType,
			ProductID:      dev.ProductID,
			LocationID:     dev.LocationID,
		},
	}
}
