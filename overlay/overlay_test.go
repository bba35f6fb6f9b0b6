package overlay

import (
	"context"
	"log/slog"
	"math/rand"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/swellmap/windlayer/config"
	"github.com/swellmap/windlayer/field"
	"github.com/swellmap/windlayer/geo"
	"github.com/swellmap/windlayer/store"
)

type noopFetcher struct{}

func (noopFetcher) Fetch(_ context.Context, _ geo.Bounds) ([]field.GridSample, error) {
	return nil, nil
}

func testOverlay(t *testing.T) (*Overlay, *geo.MapCamera) {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cam := geo.NewMapCamera(36.95, -122.02, 7, 1280, 720, 15)
	st := store.New(noopFetcher{}, clockwork.NewFakeClock(), slog.Default(), store.Options{
		Debounce:       550 * time.Millisecond,
		MaxAttempts:    3,
		InitialBackoff: 200 * time.Millisecond,
		MaxBackoff:     time.Second,
		FetchTimeout:   5 * time.Second,
		BBoxKeyDigits:  2,
	})
	o := New(cam, st, cfg, rand.New(rand.NewSource(1)), slog.Default(), nil)
	o.Headless = true
	t.Cleanup(func() {
		o.Close()
		st.Close()
	})
	return o, cam
}

func TestUpdateTracksPanDeltaForGPUPass(t *testing.T) {
	o, cam := testOverlay(t)

	o.Update(1.0 / 60)
	if o.panDX != 0 || o.panDY != 0 {
		t.Fatalf("first frame pan delta = (%v, %v), want zero", o.panDX, o.panDY)
	}

	prev := cam.Viewport()
	cam.Pan(-24, 10)
	o.Update(1.0 / 60)

	wantDX, wantDY := cam.Viewport().PixelDelta(prev)
	if wantDX == 0 && wantDY == 0 {
		t.Fatal("pan produced no pixel delta")
	}
	if o.panDX != wantDX || o.panDY != wantDY {
		t.Errorf("pan delta = (%v, %v), want (%v, %v)", o.panDX, o.panDY, wantDX, wantDY)
	}

	// Zoom rescales everything; the stored shift must not survive into
	// the next frame's advection.
	cam.ZoomBy(2)
	o.Update(1.0 / 60)
	if o.panDX != 0 || o.panDY != 0 {
		t.Errorf("post-zoom pan delta = (%v, %v), want zero", o.panDX, o.panDY)
	}
}
