package report

import (
	"math"
	"strings"

	"github.com/stridelab/stridex/internal/view"
)

const sparkChars = " .:-=+*#%@"

// gaugeCell renders one metric gauge as a fixed-width track with L/R
// markers. Hidden markers are simply not drawn; overlapping markers
// collapse to a single combined mark.
func gaugeCell(row view.GaugeRow, width int) string {
	if width < 3 {
		width = 3
	}
	track := make([]rune, width)
	for i := range track {
		track[i] = '-'
	}
	place := func(pos *float64, mark rune) {
		if pos == nil {
			return
		}
		idx := int(math.Round(*pos / 100 * float64(width-1)))
		if idx < 0 {
			idx = 0
		}
		if idx > width-1 {
			idx = width - 1
		}
		if track[idx] != '-' {
			track[idx] = '*'
			return
		}
		track[idx] = mark
	}
	place(row.PosL, 'L')
	place(row.PosR, 'R')
	return "|" + string(track) + "|"
}

// phaseLine renders one stance/swing bar. An unavailable phase renders
// as an empty track, not a zero split.
func phaseLine(bar view.PhaseBar, width int) string {
	if width < 4 {
		width = 4
	}
	if !bar.Available {
		return bar.Side + " |" + strings.Repeat(" ", width) + "| " + view.Unavailable
	}
	stanceWidth := int(math.Round(bar.StancePct / 100 * float64(width)))
	if stanceWidth > width {
		stanceWidth = width
	}
	track := strings.Repeat("#", stanceWidth) + strings.Repeat(".", width-stanceWidth)
	return bar.Side + " |" + track + "| " + bar.StanceText + " / " + bar.SwingText
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx > len(sparkChars)-1 {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}
