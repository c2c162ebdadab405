package device

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielpaulus/go-ios/ios"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/ioreg-explorer/internal/dispatch"
	"github.com/muurk/ioreg-explorer/internal/usbmux"
)

func unreachable(t *testing.T) usbmux.Addr {
	t.Setenv(usbmux.SocketAddressEnvVar, "")
	return usbmux.Addr{Network: "unix", Address: filepath.Join(t.TempDir(), "missing.sock")}
}

func TestNewServices_ExportsSocket(t *testing.T) {
	addr := unreachable(t)
	NewServices(addr, "test")
	assert.Equal(t, addr.Address, ios.GetUsbmuxdSocket())
}

func TestServices_ListDevicesUnavailable(t *testing.T) {
	s := NewServices(unreachable(t), "test")

	_, err := s.ListDevices(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, usbmux.ErrUnavailable)
}

func TestServices_PropertiesWrapsUDID(t *testing.T) {
	s := NewServices(unreachable(t), "test")
	dev := usbmux.Device{DeviceID: 7, SerialNumber: "ABC"}

	_, err := s.Properties(context.Background(), dev)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lockdown ABC")
}

func TestServices_RegistryError(t *testing.T) {
	s := NewServices(unreachable(t), "test")
	dev := usbmux.Device{DeviceID: 7, SerialNumber: "ABC"}

	snapshot, err := s.Registry(context.Background(), dev, dispatch.NewFilter("IOPower", "", ""))
	require.Error(t, err)
	assert.Nil(t, snapshot)
	assert.Contains(t, err.Error(), "diagnostics ABC")
}

func TestRun_ReturnsOnCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	release := make(chan struct{})
	defer close(release)

	_, err := run(ctx, func() (int, error) {
		<-release
		return 1, nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRun_PassesResult(t *testing.T) {
	boom := errors.New("boom")
	v, err := run(context.Background(), func() (string, error) { return "ok", boom })
	assert.Equal(t, "ok", v)
	assert.Same(t, boom, err)
}

func TestEntryRoundTrip(t *testing.T) {
	dev := usbmux.Device{DeviceID: 4, SerialNumber: "00008101-X", ConnectionType: usbmux.ConnectionNetwork, ProductID: 4776, LocationID: 9}
	assert.Equal(t, dev, fromEntry(toEntry(dev)))

	entry := ios.DeviceEntry{DeviceID: 3, Properties: ios.DeviceProperties{SerialNumber: "Y"}}
	assert.Equal(t, 3, fromEntry(entry).DeviceID)
}
