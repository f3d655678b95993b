package app

import (
	"errors"
	"strings"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/RoboRadar/internal/pose"
	"github.com/Garsondee/RoboRadar/internal/radar"
	"github.com/Garsondee/RoboRadar/internal/render"
	"github.com/Garsondee/RoboRadar/internal/robots"
)

func newTestGame(t *testing.T) (*Game, *[]string) {
	t.Helper()
	surface := render.NewImmediateSurface(func(w, h int) render.Canvas { return render.NewRasterCanvas(w, h) }, render.Options{})
	r := radar.New(120, 240, surface)
	if err := r.LoadField("FRC_2020"); err != nil {
		t.Fatalf("LoadField: %v", err)
	}
	if _, err := r.Add(robots.NewBoxBot(pose.Static{PosX: 10, PosY: 20})); err != nil {
		t.Fatalf("Add: %v", err)
	}
	g := New(r)
	var copied []string
	g.copy = func(s string) error {
		copied = append(copied, s)
		return nil
	}
	return g, &copied
}

func keys(down ...ebiten.Key) func(ebiten.Key) bool {
	return func(k ebiten.Key) bool {
		for _, d := range down {
			if d == k {
				return true
			}
		}
		return false
	}
}

func TestStep_RendersFrame(t *testing.T) {
	g, _ := newTestGame(t)
	for i := 0; i < 3; i++ {
		if err := g.step(keys()); err != nil {
			t.Fatalf("step: %v", err)
		}
	}
	if g.radar.Frames() != 3 {
		t.Fatalf("expected 3 frames, got %d", g.radar.Frames())
	}
}

func TestStep_CopyOnKeyEdge(t *testing.T) {
	g, copied := newTestGame(t)
	_ = g.step(keys(ebiten.KeyC))
	_ = g.step(keys(ebiten.KeyC))
	_ = g.step(keys())
	_ = g.step(keys(ebiten.KeyC))
	if len(*copied) != 2 {
		t.Fatalf("expected 2 copies for 2 presses, got %d", len(*copied))
	}
	if !strings.Contains((*copied)[0], "DS0 BoxBot x=10.00 y=20.00") {
		t.Fatalf("unexpected report:\n%s", (*copied)[0])
	}
	if g.status != "pose report copied" || g.statusTicks == 0 {
		t.Fatalf("expected status message, got %q (%d)", g.status, g.statusTicks)
	}
}

func TestStep_ClipboardFailure(t *testing.T) {
	g, _ := newTestGame(t)
	g.copy = func(string) error { return errors.New("no display") }
	if err := g.step(keys(ebiten.KeyC)); err != nil {
		t.Fatalf("clipboard failure must not stop the loop: %v", err)
	}
	if g.status != "clipboard unavailable" {
		t.Fatalf("expected failure status, got %q", g.status)
	}
}

func TestStep_ToggleHUD(t *testing.T) {
	g, _ := newTestGame(t)
	_ = g.step(keys(ebiten.KeyH))
	if g.showHUD {
		t.Fatalf("expected HUD hidden")
	}
	_ = g.step(keys())
	_ = g.step(keys(ebiten.KeyH))
	if !g.showHUD {
		t.Fatalf("expected HUD shown again")
	}
}

func TestLayout_DefersResize(t *testing.T) {
	g, _ := newTestGame(t)
	w, h := g.Layout(300, 200)
	if w != 120 || h != 240 {
		t.Fatalf("expected old size until the next frame, got %dx%d", w, h)
	}
	_ = g.step(keys())
	w, h = g.Layout(300, 200)
	if w != 300 || h != 200 {
		t.Fatalf("expected 300x200 after a frame, got %dx%d", w, h)
	}
}

func TestStep_StickyError(t *testing.T) {
	surface := render.NewImmediateSurface(func(w, h int) render.Canvas { return render.NewRasterCanvas(w, h) }, render.Options{})
	g := New(radar.New(10, 10, surface))
	if err := g.step(keys()); !errors.Is(err, radar.ErrNoField) {
		t.Fatalf("expected ErrNoField, got %v", err)
	}
	if err := g.step(keys()); !errors.Is(err, radar.ErrNoField) {
		t.Fatalf("expected error to persist, got %v", err)
	}
}
