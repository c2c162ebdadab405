package tui

import (
	"errors"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/muurk/ioreg-explorer/internal/config"
	"github.com/muurk/ioreg-explorer/internal/dispatch"
	"github.com/muurk/ioreg-explorer/internal/explorer"
	"github.com/muurk/ioreg-explorer/internal/logging"
)

// DefaultPollInterval is how often the model checks for worker results.
const DefaultPollInterval = 50 * time.Millisecond

// Dispatcher is the part of dispatch.Dispatcher the UI needs.
type Dispatcher interface {
	Submit(cmd dispatch.Command)
	TryReceive() (dispatch.Result, bool, error)
}

// Options configure the explorer model.
type Options struct {
	// ExportFilename prefills the export prompt
	ExportFilename string

	// Logs, when set, backs the logs pane
	Logs *logging.Buffer

	// Clipboard copies text; defaults to the system clipboard
	Clipboard func(string) error

	// PollInterval overrides DefaultPollInterval
	PollInterval time.Duration
}

// pane identifies the focused section of the screen
type pane int

const (
	paneDevices pane = iota
	panePlane
	paneName
	paneClass
	paneRegistry
	paneCount
)

// pollMsg triggers one non-blocking receive from the result queue
type pollMsg struct{}

// flash is a one-line notice shown under the filter row
type flash struct {
	text  string
	isErr bool
}

// Model is the bubbletea model of the explorer screen.
type Model struct {
	dispatcher Dispatcher
	state      *explorer.State
	opts       Options

	focus  pane
	cursor int

	inputs   [3]textinput.Model
	registry viewport.Model
	spinner  spinner.Model

	exporting   bool
	exportInput textinput.Model
	notice      *flash

	showLogs bool

	help       help.Model
	keys       keyMap
	promptKeys promptKeyMap
	inputKeys  inputKeyMap

	Width  int
	Height int

	err error
}

// New creates the explorer model and submits the initial enumeration.
func New(d Dispatcher, opts Options) Model {
	if opts.ExportFilename == "" {
		opts.ExportFilename = config.DefaultExportFilename
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	var inputs [3]textinput.Model
	for i, field := range []explorer.FilterField{explorer.FieldPlane, explorer.FieldName, explorer.FieldClass} {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = "Entry " + field.String()
		in.CharLimit = 128
		in.Width = 20
		inputs[i] = in
	}

	exportInput := textinput.New()
	exportInput.Prompt = "File: "
	exportInput.CharLimit = 512
	exportInput.Width = 40

	m := Model{
		dispatcher:  d,
		state:       explorer.NewState(),
		opts:        opts,
		inputs:      inputs,
		registry:    viewport.New(MinTerminalWidth-8, 10),
		spinner:     s,
		exportInput: exportInput,
		help:        help.New(),
		keys:        newKeyMap(),
		promptKeys:  newPromptKeyMap(),
		inputKeys:   newInputKeyMap(),
		Width:       MinTerminalWidth,
		Height:      24,
	}
	m.resize()
	m.submit(m.state.Start())
	return m
}

// State exposes the explorer state, mainly for tests.
func (m Model) State() *explorer.State {
	return m.state
}

// Err returns the error that ended the session, if any.
func (m Model) Err() error {
	return m.err
}

// Init starts polling and the spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.poll(), m.spinner.Tick)
}

func (m Model) poll() tea.Cmd {
	return tea.Tick(m.opts.PollInterval, func(time.Time) tea.Msg {
		return pollMsg{}
	})
}

func (m *Model) submit(cmd dispatch.Command) {
	if cmd == nil {
		return
	}
	logging.Debug("Submitting command", zap.String("command", cmd.Kind()))
	m.dispatcher.Submit(cmd)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.resize()
		return m, nil

	case pollMsg:
		res, ok, err := m.dispatcher.TryReceive()
		if err != nil {
			if errors.Is(err, dispatch.ErrClosed) {
				err = fmt.Errorf("device worker terminated: %w", err)
			}
			m.err = err
			logging.Error("Result channel failed", zap.Error(err))
			return m, tea.Quit
		}
		if ok {
			m.apply(res)
		}
		return m, m.poll()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.exporting {
			return m.updateExportPrompt(msg)
		}
		if m.focus >= panePlane && m.focus <= paneClass {
			return m.updateFilterInput(msg)
		}
		return m.updateNavigation(msg)
	}

	return m, nil
}

func (m *Model) apply(res dispatch.Result) {
	logging.Debug("Applying result", zap.String("result", res.Kind()))
	m.state.Apply(res)

	switch res.(type) {
	case dispatch.EnumerationOK, dispatch.EnumerationFailed, dispatch.ServiceUnavailable:
		if n := len(m.state.DeviceNames()); m.cursor >= n {
			m.cursor = max(n-1, 0)
		}
		if _, ok := m.state.SelectedDevice(); !ok && m.focus != paneDevices {
			m.setFocus(paneDevices)
		}
	case dispatch.RegistryOK:
		m.registry.SetContent(m.state.Snapshot().Render())
		m.registry.GotoTop()
	}
}

func (m Model) updateNavigation(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.NextPane):
		return m, m.cycleFocus(1)

	case key.Matches(msg, m.keys.PrevPane):
		return m, m.cycleFocus(-1)

	case key.Matches(msg, m.keys.Refresh):
		m.submit(m.state.Refresh())
		return m, nil

	case key.Matches(msg, m.keys.Export):
		m.exporting = true
		m.notice = nil
		m.state.SetExportError(nil)
		m.exportInput.SetValue(m.opts.ExportFilename)
		m.exportInput.CursorEnd()
		return m, m.exportInput.Focus()

	case key.Matches(msg, m.keys.Copy):
		m.copySnapshot()
		return m, nil

	case key.Matches(msg, m.keys.Logs):
		m.showLogs = !m.showLogs
		m.resize()
		return m, nil
	}

	if m.focus == paneRegistry {
		var cmd tea.Cmd
		m.registry, cmd = m.registry.Update(msg)
		return m, cmd
	}

	names := m.state.DeviceNames()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(names)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Select):
		if m.cursor < len(names) {
			m.submit(m.state.SelectDevice(names[m.cursor]))
		}
	}
	return m, nil
}

func (m Model) updateFilterInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.inputKeys.NextPane):
		return m, m.cycleFocus(1)
	case key.Matches(msg, m.inputKeys.PrevPane):
		return m, m.cycleFocus(-1)
	case key.Matches(msg, m.inputKeys.Leave):
		return m, m.setFocus(paneDevices)
	case msg.Type == tea.KeyEnter:
		m.submit(m.state.Requery())
		return m, nil
	}

	idx := int(m.focus - panePlane)
	var cmd tea.Cmd
	m.inputs[idx], cmd = m.inputs[idx].Update(msg)

	// Unchanged values (cursor movement and the like) produce no query.
	field := explorer.FilterField(idx)
	m.submit(m.state.SetFilter(field, m.inputs[idx].Value()))
	return m, cmd
}

func (m Model) updateExportPrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.promptKeys.Cancel):
		m.exporting = false
		m.exportInput.Blur()
		m.state.SetExportError(nil)
		return m, nil

	case key.Matches(msg, m.promptKeys.Confirm):
		path := m.exportInput.Value()
		if err := m.state.Export(path); err != nil {
			logging.Warn("Export failed", zap.String("path", path), zap.Error(err))
			return m, nil
		}
		logging.Info("Exported registry snapshot", zap.String("path", path))
		m.exporting = false
		m.exportInput.Blur()
		m.notice = &flash{text: "Saved to " + path}
		return m, nil
	}

	var cmd tea.Cmd
	m.exportInput, cmd = m.exportInput.Update(msg)
	return m, cmd
}

func (m *Model) copySnapshot() {
	snapshot := m.state.Snapshot()
	if snapshot == nil {
		m.notice = &flash{text: "Nothing to copy: no registry snapshot", isErr: true}
		return
	}
	if err := m.opts.Clipboard(snapshot.Render()); err != nil {
		logging.Warn("Clipboard copy failed", zap.Error(err))
		m.notice = &flash{text: "Copy failed: " + err.Error(), isErr: true}
		return
	}
	m.notice = &flash{text: "Copied registry snapshot to clipboard"}
}

// filtersVisible reports whether the filter row and registry pane are shown.
func (m Model) filtersVisible() bool {
	_, ok := m.state.SelectedDevice()
	return ok
}

func (m *Model) cycleFocus(step int) tea.Cmd {
	if !m.filtersVisible() {
		return m.setFocus(paneDevices)
	}
	next := (int(m.focus) + step + int(paneCount)) % int(paneCount)
	return m.setFocus(pane(next))
}

func (m *Model) setFocus(p pane) tea.Cmd {
	m.focus = p
	var cmd tea.Cmd
	for i := range m.inputs {
		if pane(i)+panePlane == p {
			cmd = m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return cmd
}

// resize fits the registry viewport into the space left by the fixed rows.
func (m *Model) resize() {
	width := max(m.Width, MinTerminalWidth) - 8
	reserved := 22
	if m.showLogs {
		reserved += logLines + 2
	}

	m.registry.Width = width
	m.registry.Height = max(m.Height-reserved, 3)
	for i := range m.inputs {
		m.inputs[i].Width = max(width/3-6, 8)
	}
	m.help.Width = width
}
