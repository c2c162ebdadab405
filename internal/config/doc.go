// Package config provides user configuration management for IORegistry Explorer.
//
// The configuration is a YAML file holding connection preferences (client
// label, usbmuxd address override, per-operation timeout) and the table of
// known client applications with the pairing file name each one expects.
// The application table is consumed by setup commands only; the device
// worker never reads it.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/ioreg-explorer/config.yaml or $HOME/.config/ioreg-explorer/config.yaml
//   - macOS: $HOME/.config/ioreg-explorer/config.yaml
//   - Windows: %LOCALAPPDATA%\ioreg-explorer\config.yaml
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	name, ok := registry.PairingFile("SideStore")
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across goroutines.
// File operations are protected by a mutex to ensure atomic writes.
package config
