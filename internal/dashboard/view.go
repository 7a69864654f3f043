package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/hazmon/internal/errors"
	"github.com/rileyhilliard/hazmon/internal/link"
)

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderSensorCards())
	b.WriteString("\n\n")

	if m.logOpen {
		b.WriteString(m.renderLogViewer())
	} else {
		half := m.panelWidth()
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			m.renderNodes(half), " ", m.renderAlerts(half)))
		b.WriteString("\n")
		b.WriteString(m.renderChart())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderHeader shows the title, connection indicator, endpoint and danger
// status.
func (m Model) renderHeader() string {
	title := TitleStyle.Render("hazmon")
	sep := MutedStyle.Render(" | ")

	parts := []string{title, m.renderConnection()}
	if m.endpoint != "" {
		parts = append(parts, LabelStyle.Render(m.endpoint))
	}
	if m.danger {
		parts = append(parts, DangerStyle.Render("DANGER"))
	} else {
		parts = append(parts, NormalStyle.Render("Normal"))
	}

	return HeaderStyle.Render(strings.Join(parts, sep))
}

func (m Model) renderConnection() string {
	switch {
	case m.Online():
		return OnlineStyle.Render(SymbolOnline + " online")
	case m.linkState == link.Connected:
		return OfflineStyle.Render(SymbolOffline + " source offline")
	case m.linkState == link.Connecting:
		return m.spinner.View() + LabelStyle.Render(" connecting")
	case m.linkClosed:
		return OfflineStyle.Render(SymbolOffline + " stopped")
	default:
		text := SymbolOffline + " offline"
		if m.retryIn > 0 {
			text += fmt.Sprintf(", retrying in %s", m.retryIn.Round(time.Second/10))
		}
		return OfflineStyle.Render(text)
	}
}

func (m Model) renderChart() string {
	title := TitleStyle.Render(fmt.Sprintf("Chart (%s)", m.source))
	body := ChartStyle.Render(m.surface.String())
	return PanelStyle.Render(title + "\n" + body)
}

func (m Model) renderLogViewer() string {
	title := TitleStyle.Render("Log")
	if m.fetcher != nil {
		if u, ok := m.fetcher.(interface{ URL() string }); ok {
			title += MutedStyle.Render("  " + u.URL())
		}
	}
	return PanelStyle.Render(title + "\n" + m.logView.View())
}

func (m Model) renderFooter() string {
	hints := []string{"q quit", "c clear alerts", "l log", "? help"}
	if m.logOpen {
		hints = []string{"esc close", "r reload", "↑↓ scroll", "q quit"}
	}

	footer := strings.Join(hints, " | ")
	if m.lastErr != nil && m.linkState != link.Connected {
		footer += "  " + OfflineStyle.Render(errors.Summary(m.lastErr))
	}
	return FooterStyle.Render(footer)
}

// panelWidth splits the terminal between the node and alert panels.
func (m Model) panelWidth() int {
	if m.width == 0 {
		return 40
	}
	w := (m.width - 6) / 2
	if w < 24 {
		w = 24
	}
	return w
}
