package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/julianstephens/dailylog/internal/weight"
)

// Plot draws a chart as text rows. Readings are dots, the target is a
// horizontal rule, and the left gutter carries the range labels.
func Plot(c weight.Chart, width, height int) []string {
	if width < 2 {
		width = 2
	}
	if height < 2 {
		height = 2
	}

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	targetRow := scaleTo(c.TargetY, height)
	for x := range grid[targetRow] {
		grid[targetRow][x] = '─'
	}
	for _, p := range c.Points {
		grid[scaleTo(p.Y, height)][scaleTo(p.X, width)] = '●'
	}

	top := fmt.Sprintf("%.1f", c.Max)
	bottom := fmt.Sprintf("%.1f", c.Min)
	gutter := max(len(top), len(bottom))

	lines := make([]string, height)
	for i, row := range grid {
		label := ""
		switch i {
		case 0:
			label = top
		case height - 1:
			label = bottom
		case targetRow:
			label = fmt.Sprintf("%.1f", c.Target)
		}
		lines[i] = fmt.Sprintf("%*s │%s", gutter, label, string(row))
	}
	return lines
}

// scaleTo maps a 0-100 percentage onto n cells.
func scaleTo(pct float64, n int) int {
	i := int(math.Round(pct / 100 * float64(n-1)))
	return min(max(i, 0), n-1)
}
