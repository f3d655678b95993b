// Package render draws device-space shapes onto a backend. Two surfaces
// share one shape contract: ImmediateSurface repaints a Canvas every frame,
// RetainedCanvas keeps one persistent primitive per shape in a Scene and
// only updates it.
package render

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/Garsondee/RoboRadar/internal/fault"
	"github.com/Garsondee/RoboRadar/internal/shape"
	"github.com/Garsondee/RoboRadar/internal/transform"
)

// Engine selects a Surface implementation.
type Engine int

const (
	EngineImmediate Engine = iota
	EngineRetained
)

func (e Engine) String() string {
	switch e {
	case EngineImmediate:
		return "immediate"
	case EngineRetained:
		return "retained"
	default:
		return fmt.Sprintf("engine(%d)", int(e))
	}
}

// ErrBackendUnavailable is returned for engines this binary cannot drive.
var ErrBackendUnavailable = fault.ErrBackendUnavailable

// ErrUnknownEngine is returned for engine names nobody has heard of.
var ErrUnknownEngine = fmt.Errorf("%w: unknown rendering engine", fault.ErrConfiguration)

// ParseEngine maps a configured engine name to an Engine. The legacy names
// pygame and tkinter select the equivalent surfaces; native, numpy and
// opencv are recognised but not available.
func ParseEngine(name string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "immediate", "pygame", "ebiten":
		return EngineImmediate, nil
	case "retained", "tkinter", "scene":
		return EngineRetained, nil
	case "native", "numpy", "opencv":
		return 0, fmt.Errorf("%w: %q", ErrBackendUnavailable, name)
	default:
		return 0, fmt.Errorf("%w %q", ErrUnknownEngine, name)
	}
}

// Background is the colour behind the field.
var Background = shape.RGB{}

// Canvas is an immediate-mode drawing target in device pixels.
type Canvas interface {
	Size() image.Point
	Fill(c shape.RGB)
	FillPolygon(pts []image.Point, c shape.RGB)
	StrokePolygon(pts []image.Point, c shape.RGB, antialias bool)
	StrokeLine(a, b image.Point, c shape.RGB, antialias bool)
	// NewLayer allocates an offscreen canvas of the same backend.
	NewLayer(w, h int) Canvas
	// DrawLayer copies a layer from NewLayer onto this canvas at at.
	DrawLayer(layer Canvas, at image.Point)
}

// Batch is one owner's items for a frame.
type Batch struct {
	Family string
	Items  []transform.Item
}

// Surface is the render sink the radar drives.
type Surface interface {
	Engine() Engine
	// LoadStatic replaces the static layer, for a newly loaded field.
	LoadStatic(view transform.View, shapes []shape.Shape) error
	// Resize recomputes the static layer for a new view.
	Resize(view transform.View) error
	// Render draws one frame of dynamic batches over the static layer.
	Render(batches []Batch) error
}

// PrimitiveCounter is implemented by surfaces that keep persistent
// primitives.
type PrimitiveCounter interface {
	Primitives() int
}

// Options adjusts how styles are honoured.
type Options struct {
	// NoAntialias replaces antialiased passes with plain outlines.
	NoAntialias bool
	// Wireframe replaces fills with outlines.
	Wireframe bool
}

// Effective applies the options to a style.
func (o Options) Effective(s shape.Style) shape.Style {
	if o.Wireframe && s.Has(shape.Filled) {
		s = s&^shape.Filled | shape.Outlined
	}
	if o.NoAntialias && s.Has(shape.Antialiased) {
		s = s&^shape.Antialiased | shape.Outlined
	}
	return s
}

// Backend carries what each engine needs from the host.
type Backend struct {
	// NewCanvas allocates the visible canvas for ImmediateSurface.
	NewCanvas func(w, h int) Canvas
	// Scene is the host-owned retained scene for RetainedCanvas.
	Scene Scene
}

// NewSurface builds the surface for e. It never substitutes another engine.
func NewSurface(e Engine, b Backend, opt Options) (Surface, error) {
	switch e {
	case EngineImmediate:
		if b.NewCanvas == nil {
			return nil, fmt.Errorf("%w: immediate engine needs a canvas", ErrBackendUnavailable)
		}
		return NewImmediateSurface(b.NewCanvas, opt), nil
	case EngineRetained:
		if b.Scene == nil {
			return nil, fmt.Errorf("%w: retained engine needs a scene", ErrBackendUnavailable)
		}
		return NewRetainedCanvas(b.Scene, opt), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrBackendUnavailable, e)
	}
}

var errNotPrepared = errors.New("render: static layer not prepared")

// drawItem runs the fill, outline and antialias passes for one item.
func drawItem(c Canvas, it transform.Item, opt Options) {
	style := opt.Effective(it.Style)
	switch it.Kind {
	case shape.Polygon:
		if len(it.Points) < 3 {
			return
		}
		if style.Has(shape.Filled) {
			c.FillPolygon(it.Points, it.Color)
		}
		if style.Has(shape.Outlined) {
			c.StrokePolygon(it.Points, it.Color, false)
		}
		if style.Has(shape.Antialiased) {
			c.StrokePolygon(it.Points, it.Color, true)
		}
	case shape.Line:
		if len(it.Points) != 2 {
			return
		}
		a, b := it.Points[0], it.Points[1]
		if style.Has(shape.Outlined) || (style.Has(shape.Filled) && !style.Has(shape.Antialiased)) {
			c.StrokeLine(a, b, it.Color, false)
		}
		if style.Has(shape.Antialiased) {
			c.StrokeLine(a, b, it.Color, true)
		}
	}
}

// DrawItems paints items in order.
func DrawItems(c Canvas, items []transform.Item, opt Options) {
	for _, it := range items {
		drawItem(c, it, opt)
	}
}
