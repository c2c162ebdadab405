package discovery

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/ioreg-explorer/internal/logging"
)

const (
	// ServiceType is the Wi-Fi sync service advertised by paired iOS devices
	ServiceType = "_apple-mobdev2._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for device discovery
	DefaultScanTimeout = 5 * time.Second

	// DefaultPort is the port devices advertise for Wi-Fi sync
	DefaultPort = 32498
)

// Scanner handles mDNS device discovery
type Scanner struct {
	// Timeout is the maximum time to wait for device discovery
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// ScanForDevices discovers devices on the local network
func (s *Scanner) ScanForDevices() ([]*Device, error) {
	return s.ScanForDevicesWithContext(context.Background())
}

// ScanForDevicesWithContext discovers devices until the timeout expires or
// ctx is done. Devices advertising on several interfaces are reported once.
func (s *Scanner) ScanForDevicesWithContext(ctx context.Context) ([]*Device, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	var (
		mu      sync.Mutex
		devices []*Device
		seen    = make(map[string]bool)
	)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			select {
			case entry, ok := <-entries:
				if !ok {
					return
				}
				device := s.parseServiceEntry(entry)
				if device == nil {
					continue
				}
				mu.Lock()
				if !seen[device.Instance] {
					seen[device.Instance] = true
					devices = append(devices, device)
					logging.Debug("Discovered device",
						zap.String("instance", device.Instance),
						zap.String("address", device.Address()),
					)
				}
				mu.Unlock()
			case <-ctx.Done():
				return
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()
	<-done

	mu.Lock()
	defer mu.Unlock()
	return devices, nil
}

// parseServiceEntry converts a zeroconf service entry to a Device.
// Returns nil if the entry carries no usable address.
func (s *Scanner) parseServiceEntry(entry *zeroconf.ServiceEntry) *Device {
	if entry == nil || entry.Instance == "" {
		return nil
	}

	ip := preferredIP(entry.AddrIPv4, entry.AddrIPv6)
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	return &Device{
		Instance:     entry.Instance,
		MAC:          macFromInstance(entry.Instance),
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Metadata:     parseTXT(entry.Text),
		DiscoveredAt: time.Now(),
	}
}

// preferredIP returns the first IPv4 address, falling back to IPv6.
func preferredIP(v4, v6 []net.IP) string {
	for _, addr := range v4 {
		if addr != nil {
			return addr.String()
		}
	}
	for _, addr := range v6 {
		if addr != nil {
			return addr.String()
		}
	}
	return ""
}

// macFromInstance extracts the MAC from "<mac>@<ipv6>". It returns "" when
// the prefix is not a hardware address.
func macFromInstance(instance string) string {
	prefix, _, found := strings.Cut(instance, "@")
	if !found {
		return ""
	}
	hw, err := net.ParseMAC(prefix)
	if err != nil {
		return ""
	}
	return hw.String()
}

// parseTXT splits "key=value" TXT records. Keys without a value map to "".
func parseTXT(records []string) map[string]string {
	metadata := make(map[string]string, len(records))
	for _, txt := range records {
		k, v, _ := strings.Cut(txt, "=")
		metadata[k] = v
	}
	return metadata
}

// ScanForDevices is a convenience function to scan for devices with a custom timeout
func ScanForDevices(ctx context.Context, timeout time.Duration) ([]*Device, error) {
	scanner := NewScanner()
	if timeout > 0 {
		scanner.Timeout = timeout
	}
	return scanner.ScanForDevicesWithContext(ctx)
}
