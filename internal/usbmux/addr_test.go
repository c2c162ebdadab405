package usbmux

import (
	"context"
	"errors"
	"fmt"
	"net"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddr(t *testing.T) {
	tests := []struct {
		input   string
		want    Addr
		wantErr bool
	}{
		{"unix:/var/run/usbmuxd", Addr{Network: "unix", Address: "/var/run/usbmuxd"}, false},
		{"UNIX:/tmp/mux", Addr{Network: "unix", Address: "/tmp/mux"}, false},
		{"/tmp/mux", Addr{Network: "unix", Address: "/tmp/mux"}, false},
		{"127.0.0.1:27015", Addr{Network: "tcp", Address: "127.0.0.1:27015"}, false},
		{"localhost", Addr{}, true},
		{"", Addr{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAddr(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAddr(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseAddr(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDefaultAddr_EnvOverride(t *testing.T) {
	t.Setenv(SocketAddressEnvVar, "127.0.0.1:5000")
	assert.Equal(t, Addr{Network: "tcp", Address: "127.0.0.1:5000"}, DefaultAddr())
}

func TestAddr_Socket(t *testing.T) {
	assert.Equal(t, "/var/run/usbmuxd", Addr{Network: "unix", Address: "/var/run/usbmuxd"}.Socket())
	assert.Equal(t, "127.0.0.1:27015", Addr{Network: "tcp", Address: "127.0.0.1:27015"}.Socket())
}

func TestProbe_Unavailable(t *testing.T) {
	addr := Addr{Network: "unix", Address: filepath.Join(t.TempDir(), "missing.sock")}

	err := addr.Probe(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))

	var unavailable *UnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.Equal(t, addr, unavailable.Addr)
}

func TestProbe_Listening(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	addr := Addr{Network: "tcp", Address: ln.Addr().String()}
	assert.NoError(t, addr.Probe(context.Background()))
}

func TestClassify(t *testing.T) {
	addr := Addr{Network: "unix", Address: "/nope"}
	dialErr := &net.OpError{Op: "dial", Net: "unix", Err: errors.New("no such file or directory")}

	assert.NoError(t, Classify(addr, nil))
	assert.ErrorIs(t, Classify(addr, fmt.Errorf("list devices: %w", dialErr)), ErrUnavailable)

	other := errors.New("device locked")
	assert.Equal(t, other, Classify(addr, other))

	readErr := &net.OpError{Op: "read", Net: "unix", Err: errors.New("reset")}
	assert.False(t, errors.Is(Classify(addr, readErr), ErrUnavailable))
}

func TestDevice_String(t *testing.T) {
	d := Device{DeviceID: 2, SerialNumber: "abc"}
	if got, want := d.String(), "abc (id 2, USB)"; got != want {
		t.Errorf("Device.String() = %v, want %v", got, want)
	}
}
