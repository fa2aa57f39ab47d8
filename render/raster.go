package render

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/racecar/vehicle"
)

// Upper half block: foreground paints the top pixel, background the bottom one
const halfBlock = '▀'

// Raster is a pixel grid two pixels tall per terminal cell
// Shapes are given in viewport coordinates and scaled to fit the grid
type Raster struct {
	cols, rows int // pixels
	px         []tcell.Color
	scaleX     float64
	scaleY     float64
}

// NewRaster maps viewport vp onto cols x cellRows terminal cells
func NewRaster(cols, cellRows int, vp vehicle.Viewport) *Raster {
	r := &Raster{}
	r.Resize(cols, cellRows, vp)
	return r
}

// Resize remaps the raster after a terminal resize
func (r *Raster) Resize(cols, cellRows int, vp vehicle.Viewport) {
	r.cols = max(cols, 0)
	r.rows = max(cellRows, 0) * 2
	size := r.cols * r.rows
	if cap(r.px) < size {
		r.px = make([]tcell.Color, size)
	} else {
		r.px = r.px[:size]
	}
	r.scaleX = float64(r.cols) / vp.W
	r.scaleY = float64(r.rows) / vp.H
}

// Size returns pixel dimensions
func (r *Raster) Size() (int, int) {
	return r.cols, r.rows
}

// Clear fills every pixel with bg
func (r *Raster) Clear(bg tcell.Color) {
	for i := range r.px {
		r.px[i] = bg
	}
}

// At returns the pixel color, or ColorDefault out of range
func (r *Raster) At(x, y int) tcell.Color {
	if x < 0 || x >= r.cols || y < 0 || y >= r.rows {
		return tcell.ColorDefault
	}
	return r.px[y*r.cols+x]
}

// center returns pixel (x, y)'s center in viewport coordinates
func (r *Raster) center(x, y int) (float64, float64) {
	return (float64(x) + 0.5) / r.scaleX, (float64(y) + 0.5) / r.scaleY
}

// span returns the pixel range [lo, hi) whose centers may fall inside [a, b] in viewport units
func span(a, b, scale float64, limit int) (int, int) {
	lo := int(math.Floor(a*scale - 0.5))
	hi := int(math.Ceil(b*scale + 0.5))
	return max(lo, 0), min(hi, limit)
}

// fill paints every pixel in the box whose center satisfies inside
func (r *Raster) fill(minX, minY, maxX, maxY float64, col tcell.Color, inside func(x, y float64) bool) {
	if r.cols == 0 || r.rows == 0 {
		return
	}
	x0, x1 := span(minX, maxX, r.scaleX, r.cols)
	y0, y1 := span(minY, maxY, r.scaleY, r.rows)
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			if inside(r.center(px, py)) {
				r.px[py*r.cols+px] = col
			}
		}
	}
}

// FillCircle paints a disc
func (r *Raster) FillCircle(c vehicle.Circle, col tcell.Color) {
	rr := c.R * c.R
	r.fill(c.X-c.R, c.Y-c.R, c.X+c.R, c.Y+c.R, col, func(x, y float64) bool {
		dx, dy := x-c.X, y-c.Y
		return dx*dx+dy*dy <= rr
	})
}

// FillRect paints an axis-aligned rectangle
func (r *Raster) FillRect(rc vehicle.Rect, col tcell.Color) {
	r.fill(rc.X, rc.Y, rc.Right(), rc.Bottom(), col, func(x, y float64) bool {
		return x >= rc.X && x < rc.Right() && y >= rc.Y && y < rc.Bottom()
	})
}

// FillPolygon paints a closed polygon with the even-odd rule
// A repeated closing vertex is harmless
func (r *Raster) FillPolygon(pts []vehicle.Point, col tcell.Color) {
	if len(pts) < 3 {
		return
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	r.fill(minX, minY, maxX, maxY, col, func(x, y float64) bool {
		return pointInPolygon(pts, x, y)
	})
}

func pointInPolygon(pts []vehicle.Point, x, y float64) bool {
	in := false
	j := len(pts) - 1
	for i := range pts {
		pi, pj := pts[i], pts[j]
		if (pi.Y > y) != (pj.Y > y) && x < (pj.X-pi.X)*(y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			in = !in
		}
		j = i
	}
	return in
}

// Blit composes pixel pairs into half-block cells starting at canvas row top
func (r *Raster) Blit(c *Canvas, top int) {
	for cy := 0; cy*2 < r.rows; cy++ {
		for x := 0; x < r.cols; x++ {
			upper := r.px[(cy*2)*r.cols+x]
			lower := r.px[(cy*2+1)*r.cols+x]
			c.Set(x, top+cy, halfBlock, tcell.StyleDefault.Foreground(upper).Background(lower))
		}
	}
}
