package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/ioreg-explorer/internal/version"
)

// Application branding constants
const (
	AppName = "IOREGISTRY EXPLORER"
	RepoURL = "github.com/muurk/ioreg-explorer"
)

// Layout constants for responsive terminal width
const (
	MinTerminalWidth = 72 // Minimum supported terminal width
	infoLabelWidth   = 14
)

// Color palette
var (
	PrimaryColor   = lipgloss.Color("#7D56F4") // Purple
	SecondaryColor = lipgloss.Color("#43BF6D") // Green
	WarningColor   = lipgloss.Color("#FFA500") // Orange
	ErrorColor     = lipgloss.Color("#FF0000") // Red

	TextColor      = lipgloss.Color("#FFFFFF") // White
	SubtleColor    = lipgloss.Color("#626262") // Gray
	BorderColor    = lipgloss.Color("#7D56F4") // Purple (same as primary)
	HighlightColor = lipgloss.Color("#43BF6D") // Green (same as secondary)
)

var (
	// Section heading, e.g. "Plane"
	HeadingStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)

	MenuItemStyle = lipgloss.NewStyle().
			PaddingLeft(2).
			Foreground(TextColor)

	SelectedMenuItemStyle = lipgloss.NewStyle().
				Foreground(HighlightColor).
				Bold(true)

	// Inline error, e.g. a failed export
	InlineErrorStyle = lipgloss.NewStyle().
				Foreground(ErrorColor).
				Bold(true)

	InlineSuccessStyle = lipgloss.NewStyle().
				Foreground(SecondaryColor)

	PlaceholderStyle = lipgloss.NewStyle().
				Foreground(WarningColor).
				Padding(1, 2)

	InfoLabelStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Width(infoLabelWidth)

	InfoValueStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	LogLineStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)
)

// PanelStyle frames one section of the screen. Focused panels get the
// primary border color.
func PanelStyle(focused bool) lipgloss.Style {
	border := SubtleColor
	if focused {
		border = BorderColor
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)
}

// RenderMenuItem renders a menu item with selection indicator
func RenderMenuItem(text string, cursor, chosen bool) string {
	marker := "  "
	if chosen {
		marker = "● "
	}
	if cursor {
		return SelectedMenuItemStyle.Render("→ " + marker + text)
	}
	return MenuItemStyle.Render(marker + text)
}

// BuildHeaderContent creates header content with app name and repository URL
func BuildHeaderContent() string {
	left := lipgloss.NewStyle().
		Foreground(TextColor).
		Bold(true).
		Render(AppName + " v" + version.Version)

	right := lipgloss.NewStyle().
		Foreground(SubtleColor).
		Render(RepoURL)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}

// RenderApplicationContainer wraps a screen in the bordered full-terminal
// frame with the application header on top and footerText at the bottom.
func RenderApplicationContainer(content string, footerText string, terminalWidth int, terminalHeight int) string {
	if terminalWidth < MinTerminalWidth {
		terminalWidth = MinTerminalWidth
	}

	headerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth-4).
		Padding(0, 1)

	footerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth-4).
		Padding(0, 1)

	contentStyle := lipgloss.NewStyle().
		Width(terminalWidth - 4)

	inner := lipgloss.JoinVertical(
		lipgloss.Left,
		headerStyle.Render(BuildHeaderContent()),
		contentStyle.Render(content),
		footerStyle.Render(lipgloss.NewStyle().Foreground(SubtleColor).Render(footerText)),
	)

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(BorderColor).
		Width(terminalWidth - 2).
		AlignVertical(lipgloss.Top)
	if terminalHeight > 2 {
		borderStyle = borderStyle.Height(terminalHeight - 2)
	}

	return lipgloss.Place(
		terminalWidth,
		terminalHeight,
		lipgloss.Left,
		lipgloss.Top,
		borderStyle.Render(inner),
	)
}
