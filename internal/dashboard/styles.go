package dashboard

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

// Palette
const (
	ColorDarkBg    = lipgloss.Color("#0A0A0F")
	ColorSurfaceBg = lipgloss.Color("#12121A")
	ColorBorder    = lipgloss.Color("#2A2A4A")

	ColorHealthy  = lipgloss.Color("#39FF14")
	ColorWarning  = lipgloss.Color("#FFAA00")
	ColorCritical = lipgloss.Color("#FF0055")

	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#B4B4D0")
	ColorTextMuted     = lipgloss.Color("#6B6B8D")

	ColorAccent = lipgloss.Color("#FF2E97")
	ColorGraph  = lipgloss.Color("#00FFFF")
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorSurfaceBg).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1).
			MarginRight(1)

	CardDangerStyle = CardStyle.
			BorderForeground(ColorCritical)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	OnlineStyle = lipgloss.NewStyle().
			Foreground(ColorHealthy)

	OfflineStyle = lipgloss.NewStyle().
			Foreground(ColorCritical)

	NormalStyle = lipgloss.NewStyle().
			Foreground(ColorHealthy).
			Bold(true)

	DangerStyle = lipgloss.NewStyle().
			Foreground(ColorDarkBg).
			Background(ColorCritical).
			Bold(true).
			Padding(0, 1)

	AlertTimeStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	AlertLocalStyle = lipgloss.NewStyle().
			Foreground(ColorCritical).
			Bold(true)

	ChartStyle = lipgloss.NewStyle().
			Foreground(ColorGraph)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)
)

// Connection indicator glyphs
const (
	SymbolOnline  = "●"
	SymbolOffline = "◌"
)

var connectingSpinner = spinner.Spinner{
	Frames: []string{"◐", "◓", "◑", "◒"},
	FPS:    time.Second / 6,
}

// severityStyle colours an alert by its severity tag.
func severityStyle(severity string) lipgloss.Style {
	switch severity {
	case "danger", "critical", "fire":
		return lipgloss.NewStyle().Foreground(ColorCritical)
	case "warning", "warn", "gas":
		return lipgloss.NewStyle().Foreground(ColorWarning)
	default:
		return lipgloss.NewStyle().Foreground(ColorTextPrimary)
	}
}
