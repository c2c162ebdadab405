package explorer

import "runtime"

// Placeholder texts shown in place of the device selector.
const (
	LoadingPlaceholder   = "Loading..."
	NoDevicesPlaceholder = "No devices connected! Plug one in via USB."
)

// UnavailableHint explains how to get usbmuxd running on goos.
func UnavailableHint(goos string) string {
	switch goos {
	case "windows":
		return "Make sure you have iTunes installed and running. " +
			"Apple Mobile Device Support provides usbmuxd on Windows."
	case "darwin":
		return "usbmuxd should be running by default on macOS. " +
			"Please report an issue if you see this."
	default:
		return "Make sure usbmuxd is installed and running, " +
			"for example with 'sudo systemctl start usbmuxd'."
	}
}

// unavailablePlaceholder builds the placeholder for a missing daemon.
func unavailablePlaceholder(err error) string {
	return "Failed to connect to usbmuxd! " + UnavailableHint(runtime.GOOS) + "\n\n" + errText(err)
}

func enumerationFailedPlaceholder(err error) string {
	return "Failed to get list of connected devices from usbmuxd! " + errText(err)
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
