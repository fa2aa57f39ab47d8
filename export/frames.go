package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/racecar/constants"
	"github.com/lixenwraith/racecar/engine"
)

// DefaultPrefix names exported frame files
const DefaultPrefix = constants.ExportPrefix

// Options configures a frame export
type Options struct {
	Dir    string
	Frames int // 0 exports one full cycle
	Every  int // Ticks between frames; <= 0 means 1
	Prefix string
	Width  int // Output size in pixels; 0 uses the viewport size
	Height int

	Painter *Painter // nil uses DefaultPainter
}

func (o Options) withDefaults(cycleLength int) Options {
	if o.Every <= 0 {
		o.Every = 1
	}
	if o.Frames <= 0 {
		o.Frames = cycleLength/o.Every + 1
	}
	if o.Prefix == "" {
		o.Prefix = DefaultPrefix
	}
	if o.Painter == nil {
		p := DefaultPainter
		o.Painter = &p
	}
	return o
}

// Frames writes PNG frames while ticking ctrl, frame i showing the state after i*Every ticks
// Returns the written paths in order
func Frames(ctx context.Context, ctrl *engine.Controller, opts Options, log zerolog.Logger) ([]string, error) {
	if opts.Dir == "" {
		return nil, fmt.Errorf("export directory not set")
	}
	opts = opts.withDefaults(ctrl.CycleLength())

	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}

	vp := ctrl.Snapshot().Viewport
	dc, sx, sy := newContext(vp, opts.Width, opts.Height)
	defer dc.Close()

	log.Info().
		Str("dir", opts.Dir).
		Int("frames", opts.Frames).
		Int("every", opts.Every).
		Msg("exporting frames")

	paths := make([]string, 0, opts.Frames)
	for i := 0; i < opts.Frames; i++ {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		if i > 0 {
			for t := 0; t < opts.Every; t++ {
				ctrl.Tick()
			}
		}

		if err := opts.Painter.Paint(dc, ctrl.Snapshot(), sx, sy); err != nil {
			return paths, fmt.Errorf("frame %d: %w", i, err)
		}
		path := filepath.Join(opts.Dir, fmt.Sprintf("%s_%05d.png", opts.Prefix, i))
		if err := dc.SavePNG(path); err != nil {
			return paths, fmt.Errorf("frame %d: %w", i, err)
		}
		paths = append(paths, path)

		log.Debug().Int("frame", i).Str("path", path).Int("elapsed", ctrl.Elapsed()).Msg("frame written")
	}

	log.Info().Int("written", len(paths)).Uint64("cycles", ctrl.Cycles()).Msg("export complete")
	return paths, nil
}
