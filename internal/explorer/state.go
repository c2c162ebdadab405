package explorer

import (
	"github.com/muurk/ioreg-explorer/internal/dispatch"
	"github.com/muurk/ioreg-explorer/internal/ioreg"
	"github.com/muurk/ioreg-explorer/internal/usbmux"
)

// FilterField identifies one of the registry filter inputs.
type FilterField int

const (
	FieldPlane FilterField = iota
	FieldName
	FieldClass
)

func (f FilterField) String() string {
	switch f {
	case FieldPlane:
		return "Plane"
	case FieldName:
		return "Name"
	case FieldClass:
		return "Class"
	default:
		return "Unknown"
	}
}

// State is everything the explorer shows. The zero value is not usable;
// call NewState.
type State struct {
	roster      dispatch.Roster
	placeholder string

	selected string

	info     dispatch.DeviceInfo
	snapshot *ioreg.Snapshot

	plane string
	name  string
	class string

	exportErr error
}

// NewState returns the initial state, showing the loading placeholder.
func NewState() *State {
	return &State{placeholder: LoadingPlaceholder}
}

// Start returns the command to submit at startup.
func (s *State) Start() dispatch.Command {
	return dispatch.Enumerate{}
}

// Apply folds a worker result into the state. Results of the same kind
// overwrite each other.
func (s *State) Apply(res dispatch.Result) {
	switch r := res.(type) {
	case dispatch.ServiceUnavailable:
		s.roster = nil
		s.placeholder = unavailablePlaceholder(r.Err)
	case dispatch.EnumerationFailed:
		s.roster = nil
		s.placeholder = enumerationFailedPlaceholder(r.Err)
	case dispatch.EnumerationOK:
		s.roster = r.Roster
		s.placeholder = ""
		if len(r.Roster) == 0 {
			s.placeholder = NoDevicesPlaceholder
		}
	case dispatch.InfoOK:
		s.info = r.Info
	case dispatch.RegistryOK:
		s.snapshot = r.Snapshot
	}
}

// Refresh asks for a new roster.
func (s *State) Refresh() dispatch.Command {
	return dispatch.Enumerate{}
}

// SelectDevice selects the roster entry called name, clears the displayed
// info and returns the FetchInfo command for it. It returns nil when name is
// not in the roster.
func (s *State) SelectDevice(name string) dispatch.Command {
	dev, ok := s.roster[name]
	if !ok {
		return nil
	}

	s.selected = name
	s.info = nil
	return dispatch.FetchInfo{Device: dev}
}

// SetFilter updates one filter input. A registry query is returned only when
// the selected device is in the roster and the value actually changed.
func (s *State) SetFilter(field FilterField, value string) dispatch.Command {
	target := s.filterRef(field)
	if target == nil || *target == value {
		return nil
	}
	*target = value
	return s.registryCommand()
}

// Requery repeats the registry query with the current filters.
func (s *State) Requery() dispatch.Command {
	return s.registryCommand()
}

func (s *State) registryCommand() dispatch.Command {
	dev, ok := s.SelectedDevice()
	if !ok {
		return nil
	}
	return dispatch.FetchRegistry{Device: dev, Filter: s.Filter()}
}

func (s *State) filterRef(field FilterField) *string {
	switch field {
	case FieldPlane:
		return &s.plane
	case FieldName:
		return &s.name
	case FieldClass:
		return &s.class
	default:
		return nil
	}
}

// FilterValue returns the raw text of one filter input.
func (s *State) FilterValue(field FilterField) string {
	if ref := s.filterRef(field); ref != nil {
		return *ref
	}
	return ""
}

// Filter returns the current filter, with empty inputs treated as absent.
func (s *State) Filter() dispatch.Filter {
	return dispatch.NewFilter(s.plane, s.name, s.class)
}

// Roster returns the latest roster, nil before the first successful
// enumeration.
func (s *State) Roster() dispatch.Roster {
	return s.roster
}

// DeviceNames returns the roster names in display order.
func (s *State) DeviceNames() []string {
	return s.roster.Names()
}

// Placeholder returns the text shown instead of the device selector, or ""
// when there are devices to show.
func (s *State) Placeholder() string {
	return s.placeholder
}

// Selected returns the selected device name, "" when none was chosen.
func (s *State) Selected() string {
	return s.selected
}

// SelectedDevice resolves the selected name against the current roster. A
// selection that dropped out of the roster on refresh resolves to false.
func (s *State) SelectedDevice() (usbmux.Device, bool) {
	if s.selected == "" {
		return usbmux.Device{}, false
	}
	dev, ok := s.roster[s.selected]
	return dev, ok
}

// Info returns the info of the selected device, nil until it arrives.
func (s *State) Info() dispatch.DeviceInfo {
	return s.info
}

// Snapshot returns the latest registry snapshot, nil when absent.
func (s *State) Snapshot() *ioreg.Snapshot {
	return s.snapshot
}

// Export writes the snapshot to path and records the outcome for display.
func (s *State) Export(path string) error {
	s.exportErr = ioreg.Export(path, s.snapshot)
	return s.exportErr
}

// SetExportError records an error to show beside the export prompt.
func (s *State) SetExportError(err error) {
	s.exportErr = err
}

// ExportError returns the last export error, nil after a successful export.
func (s *State) ExportError() error {
	return s.exportErr
}
