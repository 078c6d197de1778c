package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/stridelab/stridex/internal/view"
)

const (
	terminalWidthBackup = 80
	minGaugeWidth       = 16
)

// TerminalWidth returns the current terminal width, falling back to a
// fixed width when stdout is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// Render writes the full text report for one RenderPlan.
func Render(w io.Writer, plan view.RenderPlan, width int) error {
	if width <= 0 {
		width = terminalWidthBackup
	}
	var b strings.Builder

	if !plan.Available {
		b.WriteString("No subject selected.\n")
		return write(w, b.String())
	}

	fmt.Fprintf(&b, "Subject %s", plan.SubjectID)
	if len(plan.Sensors) > 0 {
		fmt.Fprintf(&b, "  [%s]", strings.Join(plan.Sensors, ", "))
	}
	b.WriteString("\n\n")

	gaugeWidth := gaugeWidthFor(width)
	writeSensors(&b, plan, gaugeWidth)
	writeInsole(&b, plan.Insole, gaugeWidth)
	writePairs(&b, "Meta", plan.Meta)
	writePairs(&b, "Labels", plan.Labels)

	return write(w, b.String())
}

// RenderSensors writes the IMU, gait-pad and stride-phase sections only.
func RenderSensors(w io.Writer, plan view.RenderPlan, width int) error {
	var b strings.Builder
	writeSensors(&b, plan, gaugeWidthFor(width))
	return write(w, b.String())
}

// RenderInsole writes the insole section with its day trends only.
func RenderInsole(w io.Writer, insole view.InsolePlan, width int) error {
	var b strings.Builder
	writeInsole(&b, insole, gaugeWidthFor(width))
	return write(w, b.String())
}

func gaugeWidthFor(width int) int {
	gaugeWidth := width / 3
	if gaugeWidth < minGaugeWidth {
		gaugeWidth = minGaugeWidth
	}
	return gaugeWidth
}

func writeSensors(b *strings.Builder, plan view.RenderPlan, gaugeWidth int) {
	writeSection(b, "IMU", plan.IMU, gaugeWidth)
	writeSection(b, "Gait Pad", plan.GaitPad, gaugeWidth)

	b.WriteString("Stride phase\n")
	b.WriteString("  " + phaseLine(plan.PhaseL, gaugeWidth) + "\n")
	b.WriteString("  " + phaseLine(plan.PhaseR, gaugeWidth) + "\n\n")
}

func writeSection(b *strings.Builder, title string, rows []view.GaugeRow, gaugeWidth int) {
	b.WriteString(title + "\n")
	headers := []string{"Metric", "Unit", "L", "R", ""}
	table := make([][]string, 0, len(rows))
	for _, row := range rows {
		table = append(table, []string{
			row.Label, row.Unit, row.FormattedL, row.FormattedR, gaugeCell(row, gaugeWidth),
		})
	}
	for _, line := range formatTable(headers, table, map[int]bool{2: true, 3: true}) {
		b.WriteString("  " + line + "\n")
	}
	b.WriteString("\n")
}

func writeInsole(b *strings.Builder, insole view.InsolePlan, gaugeWidth int) {
	title := "Smart Insole"
	if insole.ActiveDay >= 0 && insole.ActiveDay < len(insole.Days) {
		title += " — " + insole.Days[insole.ActiveDay]
	}
	writeSection(b, title, insole.Rows, gaugeWidth)

	if len(insole.Days) < 2 {
		return
	}
	b.WriteString("Day trends\n")
	rows := make([][]string, 0, len(insole.Trends))
	for _, trend := range insole.Trends {
		if len(trend.Values) < 2 {
			continue
		}
		minVal, maxVal := trend.Values[0], trend.Values[0]
		for _, v := range trend.Values[1:] {
			if v < minVal {
				minVal = v
			}
			if v > maxVal {
				maxVal = v
			}
		}
		rows = append(rows, []string{
			trend.Label,
			Sparkline(trend.Values),
			fmt.Sprintf("%.1f", minVal),
			fmt.Sprintf("%.1f", maxVal),
		})
	}
	if len(rows) == 0 {
		b.WriteString("  (not enough readings)\n\n")
		return
	}
	for _, line := range formatTable([]string{"Metric", "Trend", "Min", "Max"}, rows, map[int]bool{2: true, 3: true}) {
		b.WriteString("  " + line + "\n")
	}
	b.WriteString("\n")
}

func writePairs(b *strings.Builder, title string, pairs []view.KV) {
	if len(pairs) == 0 {
		return
	}
	b.WriteString(title + "\n")
	rows := make([][]string, 0, len(pairs))
	for _, kv := range pairs {
		rows = append(rows, []string{kv.Key, kv.Value})
	}
	for _, line := range formatTable([]string{"Key", "Value"}, rows, nil) {
		b.WriteString("  " + line + "\n")
	}
	b.WriteString("\n")
}

func write(w io.Writer, s string) error {
	if _, err := io.WriteString(w, s); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
