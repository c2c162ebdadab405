package main

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/ioreg-explorer/internal/config"
	"github.com/muurk/ioreg-explorer/internal/dispatch"
	"github.com/muurk/ioreg-explorer/internal/usbmux"
)

func TestResolveDevice(t *testing.T) {
	ipad := usbmux.Device{DeviceID: 1, SerialNumber: "00008101-IPAD"}
	iphone := usbmux.Device{DeviceID: 2, SerialNumber: "00008110-IPHONE"}
	roster := dispatch.Roster{"iPad": ipad, "iPhone": iphone}

	tests := []struct {
		name     string
		roster   dispatch.Roster
		query    string
		wantName string
		wantErr  string
	}{
		{name: "by name", roster: roster, query: "iPhone", wantName: "iPhone"},
		{name: "by UDID", roster: roster, query: "00008101-ipad", wantName: "iPad"},
		{name: "only device", roster: dispatch.Roster{"iPad": ipad}, wantName: "iPad"},
		{name: "ambiguous", roster: roster, wantErr: "several devices attached"},
		{name: "unknown", roster: roster, query: "Watch", wantErr: `no device named "Watch"`},
		{name: "empty roster", roster: dispatch.Roster{}, query: "iPad", wantErr: "No devices connected!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, _, err := resolveDevice(tt.roster, tt.query)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, name)
		})
	}
}

func testCommand() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Flags().StringVar(&usbmuxdAddress, "usbmuxd", "", "")
	cmd.Flags().StringVar(&clientLabel, "label", "", "")
	cmd.Flags().IntVar(&opTimeout, "timeout", 0, "")
	return cmd
}

func TestResolveSettings_Defaults(t *testing.T) {
	t.Setenv(usbmux.SocketAddressEnvVar, "")

	s, err := resolveSettings(config.NewRegistry(), testCommand())
	require.NoError(t, err)

	assert.Equal(t, usbmux.DefaultAddr(), s.addr)
	assert.Equal(t, config.DefaultClientLabel, s.label)
	assert.Zero(t, s.timeout)
	assert.Equal(t, config.DefaultExportFilename, s.exportFilename)
	assert.Equal(t, 5*time.Second, s.discoverTimeout)
}

func TestResolveSettings_ConfigAndFlags(t *testing.T) {
	registry := config.NewRegistry()
	registry.Preferences.USBMuxdAddress = "unix:/tmp/usbmuxd"
	registry.Preferences.OperationTimeout = 30

	cmd := testCommand()
	s, err := resolveSettings(registry, cmd)
	require.NoError(t, err)
	assert.Equal(t, usbmux.Addr{Network: "unix", Address: "/tmp/usbmuxd"}, s.addr)
	assert.Equal(t, 30*time.Second, s.timeout)

	require.NoError(t, cmd.Flags().Set("usbmuxd", "127.0.0.1:27015"))
	require.NoError(t, cmd.Flags().Set("label", "bench"))
	require.NoError(t, cmd.Flags().Set("timeout", "0"))

	s, err = resolveSettings(registry, cmd)
	require.NoError(t, err)
	assert.Equal(t, usbmux.Addr{Network: "tcp", Address: "127.0.0.1:27015"}, s.addr)
	assert.Equal(t, "bench", s.label)
	assert.Zero(t, s.timeout)
}

func TestResolveSettings_Invalid(t *testing.T) {
	cmd := testCommand()
	require.NoError(t, cmd.Flags().Set("usbmuxd", "not-an-address"))
	_, err := resolveSettings(config.NewRegistry(), cmd)
	assert.Error(t, err)

	cmd = testCommand()
	require.NoError(t, cmd.Flags().Set("timeout", "-1"))
	_, err = resolveSettings(config.NewRegistry(), cmd)
	assert.Error(t, err)
}

func TestRosterOrError(t *testing.T) {
	roster, err := rosterOrError(dispatch.EnumerationOK{Roster: dispatch.Roster{}})
	require.NoError(t, err)
	assert.Empty(t, roster)

	_, err = rosterOrError(dispatch.ServiceUnavailable{Err: usbmux.ErrUnavailable})
	assert.ErrorIs(t, err, usbmux.ErrUnavailable)
	assert.Contains(t, err.Error(), "failed to connect to usbmuxd")
}
