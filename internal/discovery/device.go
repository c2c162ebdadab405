package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Device is an iOS device seen on the network
type Device struct {
	// Instance is the raw mDNS instance name (e.g., "a0:b1:c2:d3:e4:f5@fe80::1")
	Instance string

	// MAC is the Wi-Fi MAC address parsed from the instance name
	MAC string

	// Hostname is the mDNS hostname (e.g., "Sams-iPhone.local.")
	Hostname string

	// IP is the preferred address, IPv4 when advertised
	IP string

	// Port is the advertised service port (typically 32498)
	Port int

	// Metadata contains the TXT record data
	Metadata map[string]string

	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the device
func (d *Device) String() string {
	name := d.Hostname
	if name == "" {
		name = d.Instance
	}
	if d.MAC != "" {
		return fmt.Sprintf("%s [%s] at %s", name, d.MAC, d.Address())
	}
	return fmt.Sprintf("%s at %s", name, d.Address())
}

// Address returns host:port, bracketing IPv6 addresses.
func (d *Device) Address() string {
	return net.JoinHostPort(d.IP, strconv.Itoa(d.Port))
}
