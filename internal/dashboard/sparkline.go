package dashboard

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// trendWidth is how many recent readings a card sparkline shows.
const trendWidth = 12

// Eight levels, lowest to highest.
var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// renderSparkline draws the newest width values scaled to their own min and
// max. The colour follows how close the newest value is to threshold.
func renderSparkline(data []float64, width int, threshold float64) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}
	if len(data) > width {
		data = data[len(data)-width:]
	}

	lo, hi := data[0], data[0]
	for _, v := range data {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	levels := len(sparkRunes)
	var sb strings.Builder
	for _, v := range data {
		level := levels / 2
		if hi > lo {
			level = int((v - lo) / (hi - lo) * float64(levels-1))
			level = min(max(level, 0), levels-1)
		}
		sb.WriteRune(sparkRunes[level])
	}

	return lipgloss.NewStyle().
		Foreground(trendColor(data[len(data)-1], threshold)).
		Render(sb.String())
}

// trendColor is green below 60% of the threshold, amber below 80% and red
// above.
func trendColor(v, threshold float64) lipgloss.Color {
	if threshold <= 0 {
		return ColorGraph
	}
	switch ratio := v / threshold; {
	case ratio >= 0.8:
		return ColorCritical
	case ratio >= 0.6:
		return ColorWarning
	default:
		return ColorHealthy
	}
}
