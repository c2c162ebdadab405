package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/ioreg-explorer/internal/explorer"
)

// logLines is the height of the logs pane
const logLines = 8

// View renders the explorer screen
func (m Model) View() string {
	sections := []string{m.renderDevices()}

	if m.filtersVisible() {
		sections = append(sections, m.renderFilters())
		if m.notice != nil {
			style := InlineSuccessStyle
			if m.notice.isErr {
				style = InlineErrorStyle
			}
			sections = append(sections, style.Render(m.notice.text))
		}
		sections = append(sections, m.renderRegistry())
	}

	if m.showLogs {
		sections = append(sections, m.renderLogs())
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return RenderApplicationContainer(content, m.footer(), m.Width, m.Height)
}

func (m Model) footer() string {
	var keys help.KeyMap = m.keys
	switch {
	case m.exporting:
		keys = m.promptKeys
	case m.focus >= panePlane && m.focus <= paneClass:
		keys = m.inputKeys
	}
	return m.help.View(keys)
}

func (m Model) renderDevices() string {
	if placeholder := m.state.Placeholder(); placeholder != "" {
		text := placeholder
		if placeholder == explorer.LoadingPlaceholder {
			text = m.spinner.View() + " " + placeholder
		}
		return PlaceholderStyle.Width(max(m.Width, MinTerminalWidth) - 8).Render(text)
	}

	selected := m.state.Selected()
	var lines []string
	lines = append(lines, HeadingStyle.Render("Choose a device"))
	for i, name := range m.state.DeviceNames() {
		lines = append(lines, RenderMenuItem(name, m.focus == paneDevices && i == m.cursor, name == selected))
	}
	devices := PanelStyle(m.focus == paneDevices).Render(strings.Join(lines, "\n"))

	info := m.state.Info()
	if len(info) == 0 {
		return devices
	}

	infoLines := []string{HeadingStyle.Render("Device info")}
	for _, f := range info {
		infoLines = append(infoLines, InfoLabelStyle.Render(f.Label+":")+InfoValueStyle.Render(f.Value))
	}
	panel := PanelStyle(false).Render(strings.Join(infoLines, "\n"))

	return lipgloss.JoinHorizontal(lipgloss.Top, devices, " ", panel)
}

func (m Model) renderFilters() string {
	var boxes []string
	for i, field := range []explorer.FilterField{explorer.FieldPlane, explorer.FieldName, explorer.FieldClass} {
		body := lipgloss.JoinVertical(lipgloss.Left,
			HeadingStyle.Render(field.String()),
			SubtitleStyle.Render("Entry "+field.String()),
			m.inputs[i].View(),
		)
		boxes = append(boxes, PanelStyle(m.focus == panePlane+pane(i)).Render(body))
	}
	filters := lipgloss.JoinHorizontal(lipgloss.Top, boxes...)

	export := []string{HeadingStyle.Render("Save to File")}
	if m.exporting {
		export = append(export, m.exportInput.View())
	} else {
		export = append(export, SubtitleStyle.Render("press s to save the snapshot as a plist"))
	}
	if err := m.state.ExportError(); err != nil {
		export = append(export, InlineErrorStyle.Render(err.Error()))
	}

	return lipgloss.JoinVertical(lipgloss.Left, filters, PanelStyle(m.exporting).Render(strings.Join(export, "\n")))
}

func (m Model) renderRegistry() string {
	title := "Registry"
	if snapshot := m.state.Snapshot(); snapshot != nil {
		if name := snapshot.Name(); name != "" {
			title += ": " + name
		}
	} else {
		m.registry.SetContent(SubtitleStyle.Render("No registry loaded. Type a filter or press enter in a filter field."))
	}

	body := lipgloss.JoinVertical(lipgloss.Left, HeadingStyle.Render(title), m.registry.View())
	return PanelStyle(m.focus == paneRegistry).Render(body)
}

func (m Model) renderLogs() string {
	var lines []string
	if m.opts.Logs != nil {
		entries := m.opts.Logs.Entries()
		if len(entries) > logLines {
			entries = entries[len(entries)-logLines:]
		}
		for _, e := range entries {
			lines = append(lines, LogLineStyle.Render(e.String()))
		}
	}
	if len(lines) == 0 {
		lines = append(lines, SubtitleStyle.Render("No log output"))
	}

	body := lipgloss.JoinVertical(lipgloss.Left, HeadingStyle.Render("Logs"), strings.Join(lines, "\n"))
	return PanelStyle(false).Width(max(m.Width, MinTerminalWidth) - 6).Render(body)
}
