package usbmux

import "fmt"

// Connection types reported by usbmuxd
const (
	ConnectionUSB     = "USB"
	ConnectionNetwork = "Network"
)

// Device is a usbmuxd device handle. It holds no connection; it only
// identifies the device so new connections can be opened later.
type Device struct {
	// DeviceID is the daemon-assigned id, valid until the device detaches
	DeviceID int

	// SerialNumber is the device UDID
	SerialNumber string

	// ConnectionType is "USB" or "Network"
	ConnectionType string

	ProductID  int
	LocationID int
}

// UDID returns the unique device identifier.
func (d Device) UDID() string {
	return d.SerialNumber
}

// String returns a human-readable representation of the device
func (d Device) String() string {
	conn := d.ConnectionType
	if conn == "" {
		conn = ConnectionUSB
	}
	return fmt.Sprintf("%s (id %d, %s)", d.SerialNumber, d.DeviceID, conn)
}
