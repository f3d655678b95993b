package radar

import (
	"context"
	"errors"
	"image"
	"math"
	"strings"
	"testing"

	"github.com/Garsondee/RoboRadar/internal/field"
	"github.com/Garsondee/RoboRadar/internal/render"
	"github.com/Garsondee/RoboRadar/internal/shape"
	"github.com/Garsondee/RoboRadar/internal/transform"
	"github.com/Garsondee/RoboRadar/internal/units"
)

type spySurface struct {
	loads, resizes, renders int
	view                    transform.View
	static                  []shape.Shape
	batches                 []render.Batch
}

func (s *spySurface) Engine() render.Engine { return render.EngineImmediate }

func (s *spySurface) LoadStatic(v transform.View, shapes []shape.Shape) error {
	s.loads++
	s.view = v
	s.static = shapes
	return nil
}

func (s *spySurface) Resize(v transform.View) error {
	s.resizes++
	s.view = v
	return nil
}

func (s *spySurface) Render(b []render.Batch) error {
	s.renders++
	s.batches = b
	return nil
}

type testBot struct {
	shape.Base
	pose   shape.Pose
	shapes []shape.Shape
}

func (b *testBot) Shapes() []shape.Shape {
	out := make([]shape.Shape, len(b.shapes))
	for i, s := range b.shapes {
		out[i] = s.Clone()
	}
	return out
}
func (b *testBot) Units() units.Unit { return units.Inches }
func (b *testBot) Pose() shape.Pose  { return b.pose }
func (b *testBot) Name() string      { return "testbot" }

func localLine(name string, x1, y1 float64) shape.Shape {
	return shape.Shape{
		Name:   name,
		Kind:   shape.Line,
		Style:  shape.Outlined,
		Space:  shape.Local,
		Points: []shape.Point{shape.Pt(0, 0), shape.Pt(x1, y1)},
	}
}

func testCatalog() *field.Catalog {
	return field.NewCatalog(
		&field.Model{Name: "Wide", File: "wide", Units: units.Inches, Width: 800, Height: 400, Center: shape.Pt(400, 200)},
		&field.Model{Name: "Turned", File: "turned", Units: units.Inches, Width: 100, Height: 100, Center: shape.Pt(50.25, 50.25), Orientation: math.Pi / 2},
	)
}

func newTestRadar(t *testing.T, w, h int, opts ...Option) (*Radar, *spySurface) {
	t.Helper()
	spy := &spySurface{}
	r := New(w, h, spy, append([]Option{WithCatalog(testCatalog())}, opts...)...)
	return r, spy
}

func TestNew_Uninitialized(t *testing.T) {
	r, _ := newTestRadar(t, 640, 480)
	if r.State() != Uninitialized {
		t.Fatalf("expected uninitialized, got %s", r.State())
	}
	if _, err := r.Add(&testBot{}); !errors.Is(err, ErrNoField) {
		t.Fatalf("expected ErrNoField from Add, got %v", err)
	}
	if err := r.RenderFrame(); !errors.Is(err, ErrNoField) {
		t.Fatalf("expected ErrNoField from RenderFrame, got %v", err)
	}
}

func TestLoadField_FailureClearsField(t *testing.T) {
	r, _ := newTestRadar(t, 640, 480)
	if err := r.LoadField("wide"); err != nil {
		t.Fatalf("LoadField: %v", err)
	}
	if r.State() != FieldLoaded {
		t.Fatalf("expected field-loaded, got %s", r.State())
	}
	if err := r.LoadField("missing"); !errors.Is(err, field.ErrFieldNotFound) {
		t.Fatalf("expected ErrFieldNotFound, got %v", err)
	}
	if r.Field() != nil || r.State() != Uninitialized {
		t.Fatalf("expected no active field after failed load, got %v in %s", r.Field(), r.State())
	}
}

func TestLoadField_WorkingUnits(t *testing.T) {
	r := New(640, 480, &spySurface{}, WithUnits(units.Feet))
	if err := r.LoadField("FRC_2020"); err != nil {
		t.Fatalf("LoadField: %v", err)
	}
	if got := r.Field().Width; math.Abs(got-30) > 1e-9 {
		t.Fatalf("expected width 30ft, got %v", got)
	}
	if r.Field().Units != units.Feet {
		t.Fatalf("expected feet, got %s", r.Field().Units)
	}
}

func TestAdd_SequentialNumbers(t *testing.T) {
	r, _ := newTestRadar(t, 640, 480)
	if err := r.LoadField("wide"); err != nil {
		t.Fatalf("LoadField: %v", err)
	}
	bots := []*testBot{{}, {}, {}}
	for i, b := range bots {
		n, err := r.Add(b)
		if err != nil {
			t.Fatalf("Add: %v", err)
		}
		if n != i || b.Number() != i {
			t.Fatalf("expected number %d, got %d (drawable says %d)", i, n, b.Number())
		}
	}
	// Numbers continue across field reloads.
	if err := r.LoadField("turned"); err != nil {
		t.Fatalf("LoadField: %v", err)
	}
	if n, _ := r.Add(&testBot{}); n != 3 {
		t.Fatalf("expected number 3 after reload, got %d", n)
	}
}

func TestResize_DeferredToFrame(t *testing.T) {
	r, spy := newTestRadar(t, 640, 480)
	if err := r.LoadField("wide"); err != nil {
		t.Fatalf("LoadField: %v", err)
	}
	r.Resize(400, 200)
	if spy.resizes != 0 {
		t.Fatalf("expected resize to wait for the frame, got %d", spy.resizes)
	}
	if r.State() != Resizing {
		t.Fatalf("expected resizing, got %s", r.State())
	}
	if _, err := r.Add(&testBot{}); err != nil {
		t.Fatalf("Add while resizing: %v", err)
	}
	if err := r.RenderFrame(); err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	if spy.resizes != 1 || r.State() != Rendering {
		t.Fatalf("expected one resize and rendering, got %d in %s", spy.resizes, r.State())
	}
	if spy.view.Viewport != (transform.Viewport{W: 400, H: 200}) || spy.view.Rendered != image.Pt(400, 200) {
		t.Fatalf("unexpected view %+v", spy.view)
	}
	if err := r.RenderFrame(); err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	if spy.resizes != 1 {
		t.Fatalf("expected resize to apply once, got %d", spy.resizes)
	}
}

func TestResize_SameSizeIsNoop(t *testing.T) {
	r, spy := newTestRadar(t, 640, 480)
	_ = r.LoadField("wide")
	r.Resize(640, 480)
	if r.State() != FieldLoaded {
		t.Fatalf("expected field-loaded, got %s", r.State())
	}
	_ = r.RenderFrame()
	if spy.resizes != 0 {
		t.Fatalf("expected no resize, got %d", spy.resizes)
	}
}

func TestRenderFrame_EndToEnd(t *testing.T) {
	r, spy := newTestRadar(t, 640, 480)
	if err := r.LoadField("wide"); err != nil {
		t.Fatalf("LoadField: %v", err)
	}
	bot := &testBot{pose: shape.Pose{X: 400, Y: 200}, shapes: []shape.Shape{localLine("pointer", 0, -400)}}
	if _, err := r.Add(bot); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := r.RenderFrame(); err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	if len(spy.batches) != 1 || spy.batches[0].Family != "DS0" {
		t.Fatalf("expected one DS0 batch, got %+v", spy.batches)
	}
	pts := spy.batches[0].Items[0].Points
	if pts[0] != image.Pt(640, 80) {
		t.Fatalf("expected (640,80), got %v", pts[0])
	}
	if pts[1] != image.Pt(640, 400) {
		t.Fatalf("expected (640,400), got %v", pts[1])
	}
}

func TestRenderFrame_WorldShapeMatchesDirectProjection(t *testing.T) {
	r, spy := newTestRadar(t, 640, 480)
	_ = r.LoadField("wide")
	world := shape.Shape{
		Name:   "zone",
		Kind:   shape.Polygon,
		Style:  shape.Filled,
		Space:  shape.World,
		Points: []shape.Point{shape.Pt(-100, 50), shape.Pt(30, 70), shape.Pt(10, -90)},
	}
	_, _ = r.Add(&testBot{shapes: []shape.Shape{world}})
	if err := r.RenderFrame(); err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	want := r.View().ToScreenAll(world.Points)
	got := spy.batches[0].Items[0].Points
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("point %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestRenderFrame_FieldOrientation(t *testing.T) {
	r, spy := newTestRadar(t, 100, 100)
	if err := r.LoadField("turned"); err != nil {
		t.Fatalf("LoadField: %v", err)
	}
	_, _ = r.Add(&testBot{pose: shape.Pose{Trig: &shape.Trig{Sin: 0, Cos: 1}}, shapes: []shape.Shape{localLine("pointer", 0, 10)}})
	if err := r.RenderFrame(); err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	// A quarter turn maps local +Y onto field -X.
	want := r.View().ToScreen(shape.Pt(-10, 0))
	if got := spy.batches[0].Items[0].Points[1]; got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestRenderFrame_StrictFailsOnContract(t *testing.T) {
	bad := shape.Shape{Name: "stub", Kind: shape.Line, Style: shape.Outlined, Space: shape.Local, Points: []shape.Point{shape.Pt(0, 0)}}

	lenient, spy := newTestRadar(t, 640, 480)
	_ = lenient.LoadField("wide")
	_, _ = lenient.Add(&testBot{shapes: []shape.Shape{bad, localLine("ok", 1, 1)}})
	if err := lenient.RenderFrame(); err != nil {
		t.Fatalf("lenient RenderFrame: %v", err)
	}
	if n := len(spy.batches[0].Items); n != 1 {
		t.Fatalf("expected bad shape skipped, got %d items", n)
	}

	strict, _ := newTestRadar(t, 640, 480, WithStrict(true))
	_ = strict.LoadField("wide")
	_, _ = strict.Add(&testBot{shapes: []shape.Shape{bad}})
	if err := strict.RenderFrame(); err == nil {
		t.Fatalf("expected strict frame to fail")
	}
}

func TestRenderFrame_RetainedPrimitiveCount(t *testing.T) {
	scene := render.NewSceneGraph(640, 480)
	r := New(640, 480, render.NewRetainedCanvas(scene, render.Options{}), WithCatalog(testCatalog()))
	if err := r.LoadField("wide"); err != nil {
		t.Fatalf("LoadField: %v", err)
	}
	_, _ = r.Add(&testBot{shapes: []shape.Shape{localLine("a", 0, 5), localLine("b", 5, 0)}})
	_, _ = r.Add(&testBot{shapes: []shape.Shape{localLine("a", 0, 5)}})
	for i := 0; i < 30; i++ {
		if err := r.RenderFrame(); err != nil {
			t.Fatalf("RenderFrame: %v", err)
		}
	}
	if scene.Len() != 3 {
		t.Fatalf("expected 3 primitives after 30 frames, got %d", scene.Len())
	}
	if r.Frames() != 30 {
		t.Fatalf("expected 30 frames, got %d", r.Frames())
	}
}

func TestReport(t *testing.T) {
	r, _ := newTestRadar(t, 640, 480)
	_ = r.LoadField("wide")
	_, _ = r.Add(&testBot{pose: shape.Pose{X: 12, Y: -3.5, Degrees: 90, HasDegrees: true}})
	got := r.Report()
	for _, want := range []string{"field: Wide", "DS0 testbot", "x=12.00", "y=-3.50", "heading=90.0deg"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in report:\n%s", want, got)
		}
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	n := 0
	err := Run(ctx, 1000, func() error {
		n++
		if n == 3 {
			cancel()
		}
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 frames, got %d", n)
	}
}

func TestRun_FrameErrorStops(t *testing.T) {
	boom := errors.New("boom")
	n := 0
	err := Run(context.Background(), 1000, func() error {
		n++
		return boom
	})
	if !errors.Is(err, boom) || n != 1 {
		t.Fatalf("expected boom after one frame, got %v after %d", err, n)
	}
}
