package render

import "github.com/gdamore/tcell/v2"

// Cell is one terminal character with its style
type Cell struct {
	Rune  rune
	Style tcell.Style
}

var blankCell = Cell{Rune: ' ', Style: tcell.StyleDefault}

// Canvas is a row-major grid of cells composed off-screen, then blitted in one pass
type Canvas struct {
	cells  []Cell
	width  int
	height int
}

// NewCanvas creates a blank canvas
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{}
	c.Resize(width, height)
	return c
}

// Width returns the canvas width in cells
func (c *Canvas) Width() int {
	return c.width
}

// Height returns the canvas height in cells
func (c *Canvas) Height() int {
	return c.height
}

// Resize changes dimensions and clears; reallocates only when capacity is insufficient
func (c *Canvas) Resize(width, height int) {
	width = max(width, 0)
	height = max(height, 0)
	size := width * height
	if cap(c.cells) < size {
		c.cells = make([]Cell, size)
	} else {
		c.cells = c.cells[:size]
	}
	c.width = width
	c.height = height
	c.Clear(tcell.StyleDefault)
}

// Clear fills every cell with a space in style
func (c *Canvas) Clear(style tcell.Style) {
	for i := range c.cells {
		c.cells[i] = Cell{Rune: ' ', Style: style}
	}
}

// Set writes a cell; out-of-bounds writes are dropped and return false
func (c *Canvas) Set(x, y int, r rune, style tcell.Style) bool {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return false
	}
	c.cells[y*c.width+x] = Cell{Rune: r, Style: style}
	return true
}

// Get returns the cell at (x, y)
func (c *Canvas) Get(x, y int) (Cell, bool) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return blankCell, false
	}
	return c.cells[y*c.width+x], true
}

// Text writes s starting at (x, y) and returns the column after the last rune written
func (c *Canvas) Text(x, y int, s string, style tcell.Style) int {
	for _, r := range s {
		if !c.Set(x, y, r, style) && x >= c.width {
			break
		}
		x++
	}
	return x
}

// Line returns the runes of row y as a string, for tests and debug dumps
func (c *Canvas) Line(y int) string {
	if y < 0 || y >= c.height {
		return ""
	}
	row := make([]rune, c.width)
	for x := 0; x < c.width; x++ {
		row[x] = c.cells[y*c.width+x].Rune
	}
	return string(row)
}
