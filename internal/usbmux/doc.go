// Package usbmux holds the values that identify usbmuxd, the platform daemon
// that multiplexes connections to USB (and Wi-Fi sync) attached iOS devices,
// and the devices it reports.
//
// The protocol itself is spoken by github.com/danielpaulus/go-ios; this
// package only decides where the daemon lives and whether it can be reached.
//
// # Socket Location
//
//   - Linux/macOS: unix socket /var/run/usbmuxd
//   - Windows: TCP 127.0.0.1:27015 (Apple Mobile Device Service)
//   - Override: USBMUXD_SOCKET_ADDRESS ("UNIX:/path" or "host:port")
package usbmux
