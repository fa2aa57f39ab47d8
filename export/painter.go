// Package export renders vehicle snapshots to PNG frames without a terminal
package export

import (
	"fmt"
	"image"

	"github.com/gogpu/gg"

	"github.com/lixenwraith/racecar/vehicle"
)

// Painter draws a snapshot with vector fills
type Painter struct {
	Background gg.RGBA
	Wheel      gg.RGBA
	Body       gg.RGBA
	Roof       gg.RGBA
	Outline    gg.RGBA
	LineWidth  float64
}

// DefaultPainter draws black tires and a gray body and roof with a black outline on white
var DefaultPainter = Painter{
	Background: gg.White,
	Wheel:      gg.RGB(0, 0, 0),
	Body:       gg.Hex("#808080"),
	Roof:       gg.Hex("#808080"),
	Outline:    gg.RGB(0, 0, 0),
	LineWidth:  1,
}

// Paint draws snap onto dc, scaling viewport units by sx, sy
func (p Painter) Paint(dc *gg.Context, snap vehicle.Snapshot, sx, sy float64) error {
	dc.ClearWithColor(p.Background)

	dc.SetColor(p.Wheel.Color())
	for _, w := range snap.Wheels() {
		dc.DrawCircle(w.X*sx, w.Y*sy, w.R*sx)
		if err := dc.Fill(); err != nil {
			return fmt.Errorf("wheel: %w", err)
		}
	}

	b := snap.Body
	dc.DrawRectangle(b.X*sx, b.Y*sy, b.W*sx, b.H*sy)
	dc.SetColor(p.Body.Color())
	if err := dc.FillPreserve(); err != nil {
		return fmt.Errorf("body: %w", err)
	}
	dc.SetColor(p.Outline.Color())
	dc.SetLineWidth(p.LineWidth)
	if err := dc.Stroke(); err != nil {
		return fmt.Errorf("body outline: %w", err)
	}

	if len(snap.Roof) > 0 {
		dc.MoveTo(snap.Roof[0].X*sx, snap.Roof[0].Y*sy)
		for _, pt := range snap.Roof[1:] {
			dc.LineTo(pt.X*sx, pt.Y*sy)
		}
		dc.ClosePath()
		dc.SetColor(p.Roof.Color())
		if err := dc.Fill(); err != nil {
			return fmt.Errorf("roof: %w", err)
		}
	}
	return nil
}

// Render draws snap into a new width x height image
// Zero dimensions select the viewport size
func (p Painter) Render(snap vehicle.Snapshot, width, height int) (image.Image, error) {
	dc, sx, sy := newContext(snap.Viewport, width, height)
	defer dc.Close()

	if err := p.Paint(dc, snap, sx, sy); err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

func newContext(vp vehicle.Viewport, width, height int) (*gg.Context, float64, float64) {
	if width <= 0 {
		width = max(int(vp.W), 1)
	}
	if height <= 0 {
		height = max(int(vp.H), 1)
	}
	return gg.NewContext(width, height), float64(width) / vp.W, float64(height) / vp.H
}
