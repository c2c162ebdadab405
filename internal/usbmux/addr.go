package usbmux

import (
	"context"
	"fmt"
	"net"
	"os"
	"runtime"
	"strings"
)

const (
	// DefaultSocketPath is the usbmuxd socket on Linux and macOS
	DefaultSocketPath = "/var/run/usbmuxd"

	// DefaultTCPAddress is where Apple Mobile Device Service listens on Windows
	DefaultTCPAddress = "127.0.0.1:27015"

	// SocketAddressEnvVar overrides the daemon address (libimobiledevice convention)
	SocketAddressEnvVar = "USBMUXD_SOCKET_ADDRESS"
)

// Addr locates the usbmuxd socket.
type Addr struct {
	Network string // "unix" or "tcp"
	Address string
}

// String returns the address in the form accepted by ParseAddr.
func (a Addr) String() string {
	if a.Network == "unix" {
		return "unix:" + a.Address
	}
	return a.Address
}

// Socket returns the address in the form go-ios reads from
// USBMUXD_SOCKET_ADDRESS: a bare path or host:port.
func (a Addr) Socket() string {
	return a.Address
}

// Probe dials the daemon once and hangs up. A failure is an
// *UnavailableError.
func (a Addr) Probe(ctx context.Context) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, a.Network, a.Address)
	if err != nil {
		return &UnavailableError{Addr: a, Err: err}
	}
	return conn.Close()
}

// DefaultAddr returns the platform default, honouring USBMUXD_SOCKET_ADDRESS.
func DefaultAddr() Addr {
	if env := os.Getenv(SocketAddressEnvVar); env != "" {
		if addr, err := ParseAddr(env); err == nil {
			return addr
		}
	}
	if runtime.GOOS == "windows" {
		return Addr{Network: "tcp", Address: DefaultTCPAddress}
	}
	return Addr{Network: "unix", Address: DefaultSocketPath}
}

// ParseAddr parses "unix:/path" (case-insensitive prefix), a bare absolute
// path, or "host:port".
func ParseAddr(s string) (Addr, error) {
	if s == "" {
		return Addr{}, fmt.Errorf("empty usbmuxd address")
	}
	if len(s) > 5 && strings.EqualFold(s[:5], "unix:") {
		return Addr{Network: "unix", Address: s[5:]}, nil
	}
	if strings.HasPrefix(s, "/") {
		return Addr{Network: "unix", Address: s}, nil
	}
	if _, _, err := net.SplitHostPort(s); err != nil {
		return Addr{}, fmt.Errorf("invalid usbmuxd address %q: %w", s, err)
	}
	return Addr{Network: "tcp", Address: s}, nil
}
