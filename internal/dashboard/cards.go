package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/hazmon/internal/telemetry"
)

// NoNodesText is shown when the node list is empty.
const NoNodesText = "No nodes detected."

// maxFeedRows limits how many alerts are drawn; the feed keeps more.
const maxFeedRows = 8

type sensorCard struct {
	title string
	value string
	trend string
	hot   bool
}

// SensorValues returns the four card strings: gas, temp, gas distance and
// temp distance.
func (m Model) SensorValues() [4]string {
	s := m.sensors
	return [4]string{
		FormatReading(s.MQ3),
		FormatReading(s.Temp),
		FormatDistance(s.DistMQ3),
		FormatDistance(s.DistTemp),
	}
}

func (m Model) renderSensorCards() string {
	v := m.SensorValues()
	s := m.sensors
	cards := []sensorCard{
		{"Gas (MQ3)", v[0], renderSparkline(m.GasTrend(), trendWidth, m.thresholds.Gas), s.MQ3 != nil && *s.MQ3 >= m.thresholds.Gas},
		{"Temp", v[1], renderSparkline(m.TempTrend(), trendWidth, m.thresholds.Fire), s.Temp != nil && *s.Temp >= m.thresholds.Fire},
		{"Gas dist", v[2], "", false},
		{"Temp dist", v[3], "", false},
	}

	rendered := make([]string, len(cards))
	for i, c := range cards {
		style := CardStyle
		if c.hot {
			style = CardDangerStyle
		}
		body := LabelStyle.Render(c.title) + "\n" + ValueStyle.Render(c.value) + "\n" + c.trend
		rendered[i] = style.Width(14).Render(body)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// nodeDetail is the reading and distance shown after a node's label, e.g.
// "12.0 ppm  1.50 m".
func nodeDetail(n telemetry.Node) string {
	value, dist := n.Value, n.Distance
	return fmt.Sprintf("%s %s  %s %s",
		FormatReading(&value), n.Unit, FormatDistance(&dist), n.DistUnit)
}

func (m Model) renderNodes(width int) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Nodes"))
	b.WriteString("\n")

	if len(m.nodes) == 0 {
		b.WriteString(MutedStyle.Italic(true).Render(NoNodesText))
	}
	for i, n := range m.nodes {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(ValueStyle.Render(n.Label))
		b.WriteString("  ")
		b.WriteString(LabelStyle.Render(nodeDetail(n)))
	}
	return PanelStyle.Width(width).Render(b.String())
}

func (m Model) renderAlerts(width int) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Alerts"))
	if n := m.feed.Len(); n > maxFeedRows {
		b.WriteString(MutedStyle.Render(fmt.Sprintf("  (%d, showing newest %d)", n, maxFeedRows)))
	}
	b.WriteString("\n")

	entries := m.feed.Entries()
	if len(entries) == 0 {
		b.WriteString(MutedStyle.Italic(true).Render("No alerts."))
	}
	for i, e := range entries {
		if i == maxFeedRows {
			break
		}
		if i > 0 {
			b.WriteString("\n")
		}
		msgStyle := severityStyle(e.Severity)
		if e.Origin == OriginLocal {
			msgStyle = AlertLocalStyle
		}
		b.WriteString(AlertTimeStyle.Render(e.Timestamp()))
		b.WriteString("  ")
		b.WriteString(msgStyle.Render(e.Message))
	}
	return PanelStyle.Width(width).Render(b.String())
}
