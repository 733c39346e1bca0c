package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func badge(color string) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(color))
}

// Status badges of the live view.
var (
	StatusRunning   = badge("#00ff88")
	StatusPaused    = badge("#ffaa00")
	StatusRecording = badge("#ff4444").Blink(true)
	StatusFailed    = badge("#ff0000")
)

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// SparklineChart draws the most recent width values as bars scaled to their
// own range, in the accent colour of the current theme.
func SparklineChart(values []float64, width int) string {
	muted := lipgloss.NewStyle().Foreground(CurrentTheme.Muted)
	if len(values) == 0 || width <= 0 {
		return muted.Render(strings.Repeat("─", max(width, 0)))
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	bars := make([]rune, len(values))
	for i, v := range values {
		level := int((v - lo) / span * float64(len(sparkLevels)-1))
		bars[i] = sparkLevels[max(0, min(level, len(sparkLevels)-1))]
	}
	return lipgloss.NewStyle().Foreground(CurrentTheme.Accent).Render(string(bars))
}

// Separator draws a muted rule with a centered diamond.
func Separator(width int) string {
	mid := width / 2
	left := strings.Repeat("─", max(mid-3, 0))
	right := strings.Repeat("─", max(width-mid-3, 0))
	return lipgloss.NewStyle().Foreground(CurrentTheme.Muted).Render(left + " ◆ " + right)
}
