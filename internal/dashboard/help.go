package dashboard

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HelpBinding is one row of the help overlay.
type HelpBinding struct {
	Key  string
	Desc string
}

var helpBindings = []HelpBinding{
	{Key: "q / Ctrl+C", Desc: "Quit"},
	{Key: "c", Desc: "Clear alert feed"},
	{Key: "l", Desc: "Open log viewer"},
	{Key: "r", Desc: "Reload log (viewer open)"},
	{Key: "up / down", Desc: "Scroll log"},
	{Key: "Esc", Desc: "Close log viewer / help"},
	{Key: "?", Desc: "Toggle this help"},
}

var (
	helpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Background(ColorSurfaceBg).
			Padding(1, 2)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true).
			Width(14)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)
)

// renderHelpOverlay centres the key list over the screen.
func (m Model) renderHelpOverlay() string {
	lines := []string{TitleStyle.MarginBottom(1).Render("Keyboard Shortcuts"), ""}
	for _, b := range helpBindings {
		lines = append(lines, helpKeyStyle.Render(b.Key)+helpDescStyle.Render(b.Desc))
	}
	lines = append(lines, "", LabelStyle.Render("Press ? to close"))

	box := helpBoxStyle.Render(strings.Join(lines, "\n"))
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(ColorDarkBg))
}
