package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/flo/internal/graph"
	"github.com/san-kum/flo/internal/view"
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(40)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)

	StatusRunning = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88"))

	StatusPaused = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffaa00"))

	StatusSettled = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))
)

// CategoryStyle is the text style for a node category.
func CategoryStyle(t Theme, c graph.Category) lipgloss.Style {
	if c == graph.Synced {
		return lipgloss.NewStyle().Foreground(t.Synced)
	}
	return lipgloss.NewStyle().Foreground(t.NotSynced)
}

// LegendView renders the two legend entries as colored swatches.
func LegendView(t Theme) string {
	var b strings.Builder
	for _, e := range view.Legend() {
		cat := graph.NotSynced
		if e.Label == graph.Synced.String() {
			cat = graph.Synced
		}
		b.WriteString(CategoryStyle(t, cat).Render("■") + " " + e.Label + "\n")
	}
	return b.String()
}

// ProgressBar renders percent in [0,1] as a bar of the given width.
func ProgressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func statLine(label string, value any) string {
	return labelStyle.Render(label) + valueStyle.Render(fmt.Sprint(value)) + "\n"
}
