package render

import (
	"fmt"
	"strings"

	"github.com/lixenwraith/racecar/constants"
	"github.com/lixenwraith/racecar/engine"
)

// HelpText lists the default key bindings shown in the HUD
const HelpText = "space pause  ↑/+ faster  ↓/- slower  r restart  q quit"

const progressWidth = constants.ProgressBarWidth

// TooSmallText replaces the scene when the terminal cannot fit the car
const TooSmallText = "terminal too small"

// DrawHUD writes the status line on canvas row y
func DrawHUD(c *Canvas, y int, st engine.Status, help string, pal Palette) {
	for x := 0; x < c.Width(); x++ {
		c.Set(x, y, ' ', pal.HUD)
	}

	stateStyle := pal.HUD
	icon := "▶"
	if st.State == engine.StatePaused {
		stateStyle = pal.Paused
		icon = "⏸"
	}

	x := c.Text(0, y, fmt.Sprintf(" %s %-7s ", icon, st.State), stateStyle)
	x = c.Text(x, y, fmt.Sprintf(" rate x%-4s cycle %-4d %s ", formatRate(st.Rate), st.Cycles, progressBar(st.Progress())), pal.HUD)

	if help != "" {
		start := c.Width() - len([]rune(help)) - 1
		if start > x {
			c.Text(start, y, help, pal.HUD.Dim(true))
		}
	}
}

func formatRate(r float64) string {
	if r == float64(int64(r)) {
		return fmt.Sprintf("%d", int64(r))
	}
	return fmt.Sprintf("%.2g", r)
}

func progressBar(p float64) string {
	p = min(max(p, 0), 1)
	filled := int(p * progressWidth)
	return "[" + strings.Repeat("█", filled) + strings.Repeat("·", progressWidth-filled) + "]"
}
