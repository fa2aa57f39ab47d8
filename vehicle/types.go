package vehicle

import "math"

// Point is a 2D coordinate in viewport space
type Point struct {
	X, Y float64
}

// Circle is a filled disc
type Circle struct {
	X, Y float64 // Center
	R    float64
}

// Rect is an axis-aligned rectangle anchored at its top-left corner
type Rect struct {
	X, Y float64
	W, H float64
}

// Right returns the x-coordinate of the right edge
func (r Rect) Right() float64 {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge
func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// Viewport is the fixed drawing area the vehicle crosses
type Viewport struct {
	W, H float64
}

func (v Viewport) valid() bool {
	return validDimension(v.W) && validDimension(v.H)
}

func validDimension(d float64) bool {
	return d > 0 && !math.IsInf(d, 0) && !math.IsNaN(d)
}

// Bounds is an axis-aligned bounding box
type Bounds struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Width returns the horizontal extent
func (b Bounds) Width() float64 {
	return b.MaxX - b.MinX
}

func (b *Bounds) include(x, y float64) {
	b.MinX = math.Min(b.MinX, x)
	b.MinY = math.Min(b.MinY, y)
	b.MaxX = math.Max(b.MaxX, x)
	b.MaxY = math.Max(b.MaxY, y)
}

// Snapshot is a detached copy of every primitive's coordinates
// Safe to hand to another goroutine; mutating it never affects the geometry
type Snapshot struct {
	Viewport   Viewport
	LeftWheel  Circle
	RightWheel Circle
	Body       Rect
	Roof       []Point
}

// Wheels returns both wheels, left first
func (s Snapshot) Wheels() [2]Circle {
	return [2]Circle{s.LeftWheel, s.RightWheel}
}

// Bounds returns the box enclosing wheels (by disc extent), body and roof
func (s Snapshot) Bounds() Bounds {
	b := Bounds{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
	for _, w := range s.Wheels() {
		b.include(w.X-w.R, w.Y-w.R)
		b.include(w.X+w.R, w.Y+w.R)
	}
	b.include(s.Body.X, s.Body.Y)
	b.include(s.Body.Right(), s.Body.Bottom())
	for _, p := range s.Roof {
		b.include(p.X, p.Y)
	}
	return b
}
