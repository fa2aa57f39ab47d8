package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/racecar/constants"
	"github.com/lixenwraith/racecar/engine"
	"github.com/lixenwraith/racecar/vehicle"
)

const hudRows = constants.HUDRows

// Screen presents vehicle snapshots on a tcell screen
// Frame composition happens on an off-screen canvas and is flushed with a single Show
type Screen struct {
	scr      tcell.Screen
	viewport vehicle.Viewport
	canvas   *Canvas
	raster   *Raster
	palette  Palette
	help     string
}

// NewScreen initializes the real terminal
func NewScreen(vp vehicle.Viewport) (*Screen, error) {
	scr, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := scr.Init(); err != nil {
		return nil, err
	}
	return NewScreenFrom(scr, vp), nil
}

// NewScreenFrom wraps an already initialized tcell screen
func NewScreenFrom(scr tcell.Screen, vp vehicle.Viewport) *Screen {
	scr.HideCursor()
	scr.SetStyle(tcell.StyleDefault)
	s := &Screen{
		scr:      scr,
		viewport: vp,
		canvas:   NewCanvas(0, 0),
		raster:   NewRaster(0, 0, vp),
		palette:  DefaultPalette,
		help:     HelpText,
	}
	s.Resize()
	return s
}

// SetPalette replaces the scene colors
func (s *Screen) SetPalette(p Palette) {
	s.palette = p
}

// SetHelp replaces the key help shown in the HUD; empty hides it
func (s *Screen) SetHelp(help string) {
	s.help = help
}

// Resize re-reads the terminal size and reallocates composition buffers
func (s *Screen) Resize() {
	w, h := s.scr.Size()
	s.canvas.Resize(w, h)
	s.raster.Resize(w, max(h-hudRows, 0), s.viewport)
	s.scr.Sync()
}

// Size returns the terminal size in cells
func (s *Screen) Size() (int, int) {
	return s.scr.Size()
}

// PollEvent blocks for the next terminal event; nil after Fini
func (s *Screen) PollEvent() tcell.Event {
	return s.scr.PollEvent()
}

// Canvas exposes the last composed frame
func (s *Screen) Canvas() *Canvas {
	return s.canvas
}

// Render composes snap and st and shows them
func (s *Screen) Render(snap vehicle.Snapshot, st engine.Status) {
	w, h := s.scr.Size()
	if w != s.canvas.Width() || h != s.canvas.Height() {
		s.Resize()
	}
	if h == 0 || w == 0 {
		return
	}

	if w < constants.MinScreenWidth || h < constants.MinScreenHeight {
		s.canvas.Clear(s.palette.HUD)
		s.canvas.Text(0, 0, TooSmallText, s.palette.Paused)
	} else {
		DrawVehicle(s.raster, snap, s.palette)
		s.raster.Blit(s.canvas, 0)
		DrawHUD(s.canvas, h-hudRows, st, s.help, s.palette)
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cell, _ := s.canvas.Get(x, y)
			s.scr.SetContent(x, y, cell.Rune, nil, cell.Style)
		}
	}
	s.scr.Show()
}

// Fini restores the terminal
func (s *Screen) Fini() {
	s.scr.Fini()
}
