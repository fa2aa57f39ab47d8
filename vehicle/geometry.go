// Package vehicle holds the shape primitives of the car and moves them as one rigid unit
package vehicle

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidDimension is returned when a viewport width or height is not a positive finite number
	ErrInvalidDimension = errors.New("invalid viewport dimension")

	// ErrUnknownEntryPolicy is returned by ParseEntryPolicy for unrecognized names
	ErrUnknownEntryPolicy = errors.New("unknown entry policy")
)

// Shape proportions relative to the viewport and the tire radius
const (
	tireRadiusRatio = 0.1
	leftTireXRatio  = 0.2
	leftTireYRatio  = 0.9

	wheelSpacing   = 4  // right wheel offset from left wheel, in radii
	bodyOffset     = 3  // body anchor offset up-left of the left wheel, in radii
	bodyWidth      = 10 // in radii
	bodyHeight     = 2  // in radii
	roofInset      = 2  // roof start offset from body anchor, in radii
	roofStep       = 2  // roof segment length, in radii
	fixedEntryGap  = 13 // pre-entry shift, in radii
	roofVertexSize = 5
)

// EntryPolicy selects how far left the vehicle is moved on reset
type EntryPolicy uint8

const (
	// EntryFixed shifts by 13 tire radii
	EntryFixed EntryPolicy = iota
	// EntryBounds shifts by the shape's right-most extent so no part stays at x > 0
	EntryBounds
)

func (p EntryPolicy) String() string {
	switch p {
	case EntryFixed:
		return "fixed"
	case EntryBounds:
		return "bounds"
	default:
		return fmt.Sprintf("EntryPolicy(%d)", uint8(p))
	}
}

// ParseEntryPolicy converts a config name into an EntryPolicy
func ParseEntryPolicy(name string) (EntryPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "fixed":
		return EntryFixed, nil
	case "bounds", "bbox":
		return EntryBounds, nil
	default:
		return EntryFixed, fmt.Errorf("%w: %q", ErrUnknownEntryPolicy, name)
	}
}

// Option configures a Geometry at construction
type Option func(*Geometry)

// WithEntryPolicy sets the reset offset policy
func WithEntryPolicy(p EntryPolicy) Option {
	return func(g *Geometry) {
		g.entry = p
	}
}

// Geometry is the mutable car: two wheels, a body and a roof polyline
// Not safe for concurrent use; readers on other goroutines take a Snapshot
type Geometry struct {
	viewport   Viewport
	tireRadius float64
	entry      EntryPolicy

	wheels [2]Circle // 0 = left, 1 = right
	body   Rect
	roof   []Point
}

// New builds the car for a viewport at its initial (on-screen) position
func New(width, height float64, opts ...Option) (*Geometry, error) {
	g := &Geometry{
		roof: make([]Point, 0, roofVertexSize),
	}
	for _, opt := range opts {
		opt(g)
	}
	if err := g.Initialize(width, height); err != nil {
		return nil, err
	}
	return g, nil
}

// Initialize recomputes every primitive from the viewport, discarding prior state
func (g *Geometry) Initialize(width, height float64) error {
	vp := Viewport{W: width, H: height}
	if !vp.valid() {
		return fmt.Errorf("%w: %vx%v", ErrInvalidDimension, width, height)
	}

	g.viewport = vp
	g.tireRadius = height * tireRadiusRatio
	r := g.tireRadius

	leftX := width * leftTireXRatio
	leftY := height * leftTireYRatio
	for i := range g.wheels {
		g.wheels[i] = Circle{X: leftX + float64(i*wheelSpacing)*r, Y: leftY, R: r}
	}

	g.body = Rect{
		X: leftX - bodyOffset*r,
		Y: leftY - bodyOffset*r,
		W: bodyWidth * r,
		H: bodyHeight * r,
	}

	// Roof: start, rise right, flat top, descend right, close back to start
	g.roof = g.roof[:0]
	start := Point{X: g.body.X + roofInset*r, Y: g.body.Y}
	d := roofStep * r
	cur := start
	g.roof = append(g.roof, cur)
	cur.X += d
	cur.Y -= d
	g.roof = append(g.roof, cur)
	cur.X += d
	g.roof = append(g.roof, cur)
	cur.X += d
	cur.Y += d
	g.roof = append(g.roof, cur, start)

	return nil
}

// Translate shifts every primitive horizontally by delta
func (g *Geometry) Translate(delta float64) {
	for i := range g.wheels {
		g.wheels[i].X += delta
	}
	g.body.X += delta
	for i := range g.roof {
		g.roof[i].X += delta
	}
}

// EntryOffset returns the distance ResetToEntry moves the car left of its initial position
func (g *Geometry) EntryOffset() float64 {
	if g.entry == EntryBounds {
		vp := g.viewport
		initial, _ := New(vp.W, vp.H)
		return initial.Snapshot().Bounds().MaxX
	}
	return fixedEntryGap * g.tireRadius
}

// ResetToEntry re-initializes the car and parks it left of the viewport
func (g *Geometry) ResetToEntry() {
	// Viewport was validated on the first Initialize
	_ = g.Initialize(g.viewport.W, g.viewport.H)
	g.Translate(-g.EntryOffset())
}

// Snapshot copies the current coordinates
func (g *Geometry) Snapshot() Snapshot {
	roof := make([]Point, len(g.roof))
	copy(roof, g.roof)
	return Snapshot{
		Viewport:   g.viewport,
		LeftWheel:  g.wheels[0],
		RightWheel: g.wheels[1],
		Body:       g.body,
		Roof:       roof,
	}
}

// TireRadius returns the shared wheel radius
func (g *Geometry) TireRadius() float64 {
	return g.tireRadius
}

// Viewport returns the dimensions the geometry was built for
func (g *Geometry) Viewport() Viewport {
	return g.viewport
}

// EntryPolicy returns the configured reset policy
func (g *Geometry) EntryPolicy() EntryPolicy {
	return g.entry
}
