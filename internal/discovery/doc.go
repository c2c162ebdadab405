// Package discovery finds iOS devices that advertise Wi-Fi sync over mDNS.
//
// Paired devices with Wi-Fi sync enabled announce the "_apple-mobdev2._tcp"
// service. The instance name has the form "<wifi-mac>@<link-local-ipv6>",
// so the Wi-Fi MAC address can be read straight from the advertisement.
//
// Discovery is a diagnostic aid: the explorer itself talks to devices only
// through usbmuxd. When usbmuxd lists nothing, a scan tells the operator
// whether the device is reachable on the network at all.
//
// # Usage Example
//
//	scanner := discovery.NewScanner()
//	scanner.Timeout = 5 * time.Second
//	devices, err := scanner.ScanForDevicesWithContext(ctx)
//	if err != nil {
//	    return err
//	}
//	for _, device := range devices {
//	    fmt.Println(device)
//	}
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Devices must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
