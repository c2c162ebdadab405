package config

import (
	"sort"
	"time"
)

// Default preference values.
const (
	DefaultClientLabel     = "ioreg-explorer"
	DefaultExportFilename  = "ioreg.plist"
	DefaultDiscoverTimeout = 5
)

// Registry represents the entire user configuration file.
type Registry struct {
	Version     int               `yaml:"version"`
	Preferences *Preferences      `yaml:"preferences,omitempty"`
	Apps        map[string]string `yaml:"apps,omitempty"` // Application name -> expected pairing file name
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	ClientLabel      string `yaml:"client_label"`              // Tags log entries of device operations
	USBMuxdAddress   string `yaml:"usbmuxd_address,omitempty"` // Override for the usbmuxd socket ("unix:/path" or "host:port")
	OperationTimeout int    `yaml:"operation_timeout"`         // Per-operation watchdog in seconds, 0 disables
	ExportFilename   string `yaml:"export_filename"`           // Default file name offered when exporting
	DiscoverTimeout  int    `yaml:"discover_timeout"`          // mDNS scan timeout in seconds
	LogToFile        bool   `yaml:"log_to_file"`               // Write logs to the config dir while the TUI runs
}

// DefaultApps returns the built-in application -> pairing file mapping.
func DefaultApps() map[string]string {
	return map[string]string{
		"SideStore":  "ALTPairingFile.mobiledevicepairing",
		"Feather":    "pairingFile.plist",
		"StikDebug":  "pairingFile.plist",
		"Protokolle": "pairingFile.plist",
		"Antrag":     "pairingFile.plist",
	}
}

// DefaultPreferences returns preferences with every field at its default.
func DefaultPreferences() *Preferences {
	return &Preferences{
		ClientLabel:     DefaultClientLabel,
		ExportFilename:  DefaultExportFilename,
		DiscoverTimeout: DefaultDiscoverTimeout,
	}
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     1,
		Preferences: DefaultPreferences(),
		Apps:        DefaultApps(),
	}
}

// applyDefaults fills zero-valued fields left empty by a hand-edited file.
func (r *Registry) applyDefaults() {
	if r.Preferences == nil {
		r.Preferences = DefaultPreferences()
	}
	p := r.Preferences
	if p.ClientLabel == "" {
		p.ClientLabel = DefaultClientLabel
	}
	if p.ExportFilename == "" {
		p.ExportFilename = DefaultExportFilename
	}
	if p.DiscoverTimeout <= 0 {
		p.DiscoverTimeout = DefaultDiscoverTimeout
	}
	if p.OperationTimeout < 0 {
		p.OperationTimeout = 0
	}
	if r.Apps == nil {
		r.Apps = DefaultApps()
	}
}

// PairingFile returns the pairing file name expected by app.
func (r *Registry) PairingFile(app string) (string, bool) {
	name, ok := r.Apps[app]
	return name, ok
}

// AppNames returns the configured application names in sorted order.
func (r *Registry) AppNames() []string {
	names := make([]string, 0, len(r.Apps))
	for name := range r.Apps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// OperationTimeoutDuration converts OperationTimeout to a duration.
func (p *Preferences) OperationTimeoutDuration() time.Duration {
	return time.Duration(p.OperationTimeout) * time.Second
}

// DiscoverTimeoutDuration converts DiscoverTimeout to a duration.
func (p *Preferences) DiscoverTimeoutDuration() time.Duration {
	return time.Duration(p.DiscoverTimeout) * time.Second
}
