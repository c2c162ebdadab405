package dispatch

import (
	"fmt"
	"sort"

	"github.com/muurk/ioreg-explorer/internal/ioreg"
	"github.com/muurk/ioreg-explorer/internal/usbmux"
)

// DeviceNameKey is the lockdown property used as the roster display name
const DeviceNameKey = "DeviceName"

// InfoProperties lists the properties shown as device info, in display order.
var InfoProperties = []struct {
	Label string
	Key   string
}{
	{"Device Name", DeviceNameKey},
	{"Model", "ProductType"},
	{"iOS Version", "ProductVersion"},
	{"Build Number", "BuildVersion"},
	{"UDID", "UniqueDeviceID"},
}

// Command is a request for the worker. Commands are immutable once submitted.
type Command interface {
	Kind() string
	command()
}

// Enumerate lists attached devices and resolves their display names.
type Enumerate struct{}

// FetchInfo reads the info properties of one device.
type FetchInfo struct {
	Device usbmux.Device
}

// FetchRegistry queries the registry of one device.
type FetchRegistry struct {
	Device usbmux.Device
	Filter Filter
}

func (Enumerate) Kind() string     { return "enumerate" }
func (FetchInfo) Kind() string     { return "fetch_info" }
func (FetchRegistry) Kind() string { return "fetch_registry" }

func (Enumerate) command()     {}
func (FetchInfo) command()     {}
func (FetchRegistry) command() {}

// Result is the outcome of a command. Results are immutable once sent.
type Result interface {
	Kind() string
	result()
}

// ServiceUnavailable means usbmuxd could not be reached at all.
type ServiceUnavailable struct {
	Err error
}

// EnumerationFailed means usbmuxd answered but listing devices failed.
type EnumerationFailed struct {
	Err error
}

// EnumerationOK carries a freshly built roster.
type EnumerationOK struct {
	Roster Roster
}

// InfoOK carries the info of the device named in the FetchInfo command.
type InfoOK struct {
	Info DeviceInfo
}

// RegistryOK carries a registry query result. Snapshot is nil when the
// device returned no registry.
type RegistryOK struct {
	Snapshot *ioreg.Snapshot
}

func (ServiceUnavailable) Kind() string { return "service_unavailable" }
func (EnumerationFailed) Kind() string  { return "enumeration_failed" }
func (EnumerationOK) Kind() string      { return "enumeration_ok" }
func (InfoOK) Kind() string             { return "info_ok" }
func (RegistryOK) Kind() string         { return "registry_ok" }

func (ServiceUnavailable) result() {}
func (EnumerationFailed) result()  {}
func (EnumerationOK) result()      {}
func (InfoOK) result()             {}
func (RegistryOK) result()         {}

// Roster maps display names to devices.
type Roster map[string]usbmux.Device

// Names returns the display names in sorted order.
func (r Roster) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// InfoField is one labelled device property.
type InfoField struct {
	Label string
	Value string
}

// DeviceInfo is an ordered list of device properties.
type DeviceInfo []InfoField

// Get returns the value shown under label.
func (d DeviceInfo) Get(label string) (string, bool) {
	for _, f := range d {
		if f.Label == label {
			return f.Value, true
		}
	}
	return "", false
}

// BuildDeviceInfo extracts InfoProperties from a lockdown property set,
// skipping properties that are missing or not strings.
func BuildDeviceInfo(values map[string]interface{}) DeviceInfo {
	info := make(DeviceInfo, 0, len(InfoProperties))
	for _, p := range InfoProperties {
		if v, ok := values[p.Key].(string); ok {
			info = append(info, InfoField{Label: p.Label, Value: v})
		}
	}
	return info
}

// Filter narrows a registry query. A nil field means no filter on that axis.
type Filter struct {
	Plane *string
	Name  *string
	Class *string
}

// NewFilter builds a Filter, treating empty strings as absent.
func NewFilter(plane, name, class string) Filter {
	return Filter{
		Plane: optional(plane),
		Name:  optional(name),
		Class: optional(class),
	}
}

// Equal reports whether both filters select the same entries.
func (f Filter) Equal(other Filter) bool {
	return sameOptional(f.Plane, other.Plane) &&
		sameOptional(f.Name, other.Name) &&
		sameOptional(f.Class, other.Class)
}

func (f Filter) String() string {
	return fmt.Sprintf("plane=%s name=%s class=%s", show(f.Plane), show(f.Name), show(f.Class))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func sameOptional(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func show(s *string) string {
	if s == nil {
		return "*"
	}
	return *s
}
