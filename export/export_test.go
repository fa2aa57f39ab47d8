package export

import (
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/racecar/engine"
	"github.com/lixenwraith/racecar/vehicle"
)

func luminance(t *testing.T, r, g, b uint32) uint32 {
	t.Helper()
	return (r + g + b) / 3 >> 8
}

func TestRenderSnapshot(t *testing.T) {
	geom, err := vehicle.New(650, 200)
	if err != nil {
		t.Fatalf("vehicle.New failed: %v", err)
	}

	img, err := DefaultPainter.Render(geom.Snapshot(), 0, 0)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 650 || b.Dy() != 200 {
		t.Fatalf("Expected 650x200 image, got %v", b)
	}

	r, g, b, _ := img.At(130, 180).RGBA()
	if l := luminance(t, r, g, b); l > 40 {
		t.Errorf("Expected dark wheel at (130,180), luminance %d", l)
	}
	r, g, b, _ = img.At(600, 40).RGBA()
	if l := luminance(t, r, g, b); l < 240 {
		t.Errorf("Expected white background at (600,40), luminance %d", l)
	}
	r, g, b, _ = img.At(170, 140).RGBA()
	if l := luminance(t, r, g, b); l < 100 || l > 160 {
		t.Errorf("Expected gray body at (170,140), luminance %d", l)
	}
}

func TestRenderScaled(t *testing.T) {
	geom, err := vehicle.New(650, 200)
	if err != nil {
		t.Fatalf("vehicle.New failed: %v", err)
	}

	img, err := DefaultPainter.Render(geom.Snapshot(), 325, 100)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	// Left wheel center halves to (65, 90)
	r, g, b, _ := img.At(65, 90).RGBA()
	if l := luminance(t, r, g, b); l > 40 {
		t.Errorf("Expected dark wheel at scaled center, luminance %d", l)
	}
}

func TestFrames(t *testing.T) {
	ctrl, err := engine.NewController(engine.ControllerConfig{Width: 650, Height: 200})
	if err != nil {
		t.Fatalf("NewController failed: %v", err)
	}
	dir := filepath.Join(t.TempDir(), "out")

	paths, err := Frames(context.Background(), ctrl, Options{Dir: dir, Frames: 3, Every: 10, Width: 130, Height: 40}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Frames failed: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("Expected 3 frames, got %d", len(paths))
	}
	if filepath.Base(paths[2]) != "frame_00002.png" {
		t.Errorf("Unexpected frame name %s", paths[2])
	}
	if ctrl.Elapsed() != 20 {
		t.Errorf("Expected 20 ticks between first and last frame, got %d", ctrl.Elapsed())
	}

	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			t.Fatalf("Open %s failed: %v", p, err)
		}
		img, err := png.Decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("Decode %s failed: %v", p, err)
		}
		if b := img.Bounds(); b.Dx() != 130 || b.Dy() != 40 {
			t.Errorf("Expected 130x40 frame, got %v", b)
		}
	}
}

func TestFramesDefaults(t *testing.T) {
	opts := Options{}.withDefaults(650)
	if opts.Every != 1 || opts.Frames != 651 || opts.Prefix != DefaultPrefix || opts.Painter == nil {
		t.Errorf("Unexpected defaults %+v", opts)
	}
	opts = Options{Every: 10}.withDefaults(650)
	if opts.Frames != 66 {
		t.Errorf("Expected 66 frames for one cycle at every=10, got %d", opts.Frames)
	}
}

func TestFramesRequiresDir(t *testing.T) {
	ctrl, err := engine.NewController(engine.ControllerConfig{Width: 80, Height: 24})
	if err != nil {
		t.Fatalf("NewController failed: %v", err)
	}
	if _, err := Frames(context.Background(), ctrl, Options{}, zerolog.Nop()); err == nil {
		t.Error("Expected error without export directory")
	}
}

func TestFramesCancelled(t *testing.T) {
	ctrl, err := engine.NewController(engine.ControllerConfig{Width: 80, Height: 24})
	if err != nil {
		t.Fatalf("NewController failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	paths, err := Frames(ctx, ctrl, Options{Dir: t.TempDir(), Frames: 5}, zerolog.Nop())
	if err != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if len(paths) != 0 {
		t.Errorf("Expected no frames written, got %d", len(paths))
	}
}
