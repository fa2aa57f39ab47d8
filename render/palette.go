package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/racecar/vehicle"
)

// Palette holds the colors of the scene
type Palette struct {
	Sky    tcell.Color
	Wheel  tcell.Color
	Body   tcell.Color
	Roof   tcell.Color
	HUD    tcell.Style
	Paused tcell.Style
}

// DefaultPalette mirrors the classic look: black tires, gray body and roof
var DefaultPalette = Palette{
	Sky:    tcell.NewRGBColor(235, 240, 245),
	Wheel:  tcell.ColorBlack,
	Body:   tcell.ColorGray,
	Roof:   tcell.NewRGBColor(160, 160, 160),
	HUD:    tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.NewRGBColor(40, 42, 54)),
	Paused: tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow),
}

// DrawVehicle paints the vehicle over a sky-filled raster
// Paint order matches stacking: wheels, then body, then roof on top
func DrawVehicle(r *Raster, snap vehicle.Snapshot, pal Palette) {
	r.Clear(pal.Sky)
	for _, w := range snap.Wheels() {
		r.FillCircle(w, pal.Wheel)
	}
	r.FillRect(snap.Body, pal.Body)
	r.FillPolygon(snap.Roof, pal.Roof)
}
