// Package radar ties a field, the registered moving entities and one render
// surface into a frame loop.
package radar

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/golang/glog"

	"github.com/Garsondee/RoboRadar/internal/field"
	"github.com/Garsondee/RoboRadar/internal/metrics"
	"github.com/Garsondee/RoboRadar/internal/render"
	"github.com/Garsondee/RoboRadar/internal/shape"
	"github.com/Garsondee/RoboRadar/internal/transform"
	"github.com/Garsondee/RoboRadar/internal/units"
)

// State is the orchestrator's lifecycle stage.
type State int

const (
	Uninitialized State = iota
	FieldLoaded
	Rendering
	Resizing
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case FieldLoaded:
		return "field-loaded"
	case Rendering:
		return "rendering"
	case Resizing:
		return "resizing"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrNoField is returned by operations that need a loaded field.
var ErrNoField = errors.New("radar: no field loaded")

type entry struct {
	number int
	d      shape.Drawable
}

// Radar owns the active field, the registered drawables and the surface.
// It is not safe for concurrent use; the frame loop goroutine owns it.
type Radar struct {
	surface render.Surface
	catalog *field.Catalog
	working units.Unit
	strict  bool
	metrics *metrics.Collector

	state   State
	vp      transform.Viewport
	pending *transform.Viewport
	model   *field.Model
	view    transform.View

	entries []entry
	next    int
	frames  uint64
}

// New returns an Uninitialized radar drawing into surface.
func New(w, h int, surface render.Surface, opts ...Option) *Radar {
	r := &Radar{
		surface: surface,
		vp:      transform.Viewport{W: w, H: h},
	}
	for _, o := range opts {
		o(r)
	}
	if r.catalog == nil {
		r.catalog = field.NewCatalog(field.Builtin()...)
	}
	return r
}

func (r *Radar) State() State { return r.state }

// Field returns the active field in the working unit, or nil.
func (r *Radar) Field() *field.Model { return r.model }

// View is the transform used by the last frame or resize.
func (r *Radar) View() transform.View { return r.view }

func (r *Radar) Surface() render.Surface { return r.surface }

func (r *Radar) Catalog() *field.Catalog { return r.catalog }

// Frames is the number of frames rendered so far.
func (r *Radar) Frames() uint64 { return r.frames }

// LoadField resolves search in the catalog and makes it the active field.
// On failure no field stays active and the radar is Uninitialized.
func (r *Radar) LoadField(search string) error {
	m, err := r.loadField(search)
	if err != nil {
		r.model = nil
		r.state = Uninitialized
		return err
	}
	r.model = m
	if r.pending != nil {
		r.vp = *r.pending
		r.pending = nil
	}
	r.view = transform.Fit(r.vp, m.Extent())
	if err := r.surface.LoadStatic(r.view, m.Static); err != nil {
		r.model = nil
		r.state = Uninitialized
		return fmt.Errorf("radar: load field %q: %w", m.Name, err)
	}
	r.state = FieldLoaded
	r.recordPrimitives()
	glog.Infof("radar: loaded field %q (%gx%g %s) with %d static shapes", m.Name, m.Width, m.Height, m.Units, len(m.Static))
	return nil
}

func (r *Radar) loadField(search string) (*field.Model, error) {
	src, err := r.catalog.Find(search)
	if err != nil {
		return nil, err
	}
	to := r.working
	if to == "" {
		to = src.Units
	}
	return src.Normalize(to)
}

// Add registers d and returns its number. Numbers are assigned in call
// order starting at zero and are never reused.
func (r *Radar) Add(d shape.Drawable) (int, error) {
	if r.state == Uninitialized {
		return 0, ErrNoField
	}
	n := r.next
	r.next++
	if nb, ok := d.(shape.Numbered); ok {
		nb.SetNumber(n)
	}
	r.entries = append(r.entries, entry{number: n, d: d})
	glog.V(1).Infof("radar: registered %s as %s", describe(d), render.DynamicFamily(n))
	return n, nil
}

// Len is the number of registered drawables.
func (r *Radar) Len() int { return len(r.entries) }

// Resize records a new viewport. It takes effect at the start of the next
// frame so that no frame mixes two sizes.
func (r *Radar) Resize(w, h int) {
	vp := transform.Viewport{W: w, H: h}
	if r.state == Uninitialized {
		r.vp = vp
		return
	}
	if vp == r.vp && r.pending == nil {
		return
	}
	r.pending = &vp
	r.state = Resizing
}

// Viewport is the size currently in effect.
func (r *Radar) Viewport() transform.Viewport { return r.vp }

// RenderFrame draws one frame.
func (r *Radar) RenderFrame() error {
	if r.state == Uninitialized {
		return ErrNoField
	}
	start := time.Now()
	if err := r.applyResize(); err != nil {
		return err
	}

	opt := shape.DrawOptions{Adjust: r.model.Orientation, Working: r.model.Units, Strict: r.strict}
	batches := make([]render.Batch, 0, len(r.entries))
	drawn := 0
	for _, e := range r.entries {
		em, err := shape.Draw(e.d, opt)
		if err != nil {
			return fmt.Errorf("radar: %s: %w", render.DynamicFamily(e.number), err)
		}
		for _, d := range em.Dropped {
			reason := "contract"
			if errors.Is(d.Reason, shape.ErrUnsupportedKind) {
				reason = "unsupported"
			}
			r.metrics.Dropped(reason)
			glog.V(2).Infof("radar: %s dropped %s %q: %v", render.DynamicFamily(e.number), d.Kind, d.Name, d.Reason)
		}
		items := transform.Project(r.view, em.Shapes)
		drawn += len(items)
		batches = append(batches, render.Batch{Family: render.DynamicFamily(e.number), Items: items})
	}
	if err := r.surface.Render(batches); err != nil {
		return fmt.Errorf("radar: render: %w", err)
	}
	r.state = Rendering
	r.frames++
	r.metrics.ObserveFrame(time.Since(start), drawn)
	r.recordPrimitives()
	return nil
}

func (r *Radar) applyResize() error {
	if r.pending == nil {
		return nil
	}
	r.vp = *r.pending
	r.pending = nil
	r.view = transform.Fit(r.vp, r.model.Extent())
	if err := r.surface.Resize(r.view); err != nil {
		return fmt.Errorf("radar: resize: %w", err)
	}
	r.metrics.Resized()
	glog.V(1).Infof("radar: resized to %dx%d, field %dx%d at %v", r.vp.W, r.vp.H, r.view.Rendered.X, r.view.Rendered.Y, r.view.Offset)
	return nil
}

func (r *Radar) recordPrimitives() {
	if pc, ok := r.surface.(render.PrimitiveCounter); ok {
		r.metrics.SetPrimitives(pc.Primitives())
	}
}

// Report is a plain text line per registered drawable with its last pose.
func (r *Radar) Report() string {
	var b strings.Builder
	name := "none"
	if r.model != nil {
		name = r.model.Name
	}
	fmt.Fprintf(&b, "field: %s\n", name)
	for _, e := range r.entries {
		p := e.d.Pose()
		fmt.Fprintf(&b, "%s %s x=%.2f y=%.2f heading=%.1fdeg %s\n",
			render.DynamicFamily(e.number), describe(e.d), p.X, p.Y, p.Radians()*180/math.Pi, e.d.Units())
	}
	return b.String()
}

func describe(d shape.Drawable) string {
	if n, ok := d.(interface{ Name() string }); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", d)
}
