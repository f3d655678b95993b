package render

import (
	"image"

	"github.com/Garsondee/RoboRadar/internal/shape"
	"github.com/Garsondee/RoboRadar/internal/transform"
)

// ImmediateSurface repaints every frame. The field is drawn once per resize
// into an offscreen layer the size of the rendered field, which is blitted
// at the letterbox offset before the dynamic items.
type ImmediateSurface struct {
	newCanvas func(w, h int) Canvas
	opt       Options

	shapes  []shape.Shape
	visible Canvas
	static  Canvas
	offset  image.Point
	ready   bool
}

func NewImmediateSurface(newCanvas func(w, h int) Canvas, opt Options) *ImmediateSurface {
	return &ImmediateSurface{newCanvas: newCanvas, opt: opt}
}

func (s *ImmediateSurface) Engine() Engine { return EngineImmediate }

func (s *ImmediateSurface) LoadStatic(view transform.View, shapes []shape.Shape) error {
	s.shapes = append([]shape.Shape(nil), shapes...)
	return s.Resize(view)
}

func (s *ImmediateSurface) Resize(view transform.View) error {
	if s.visible == nil || s.visible.Size() != image.Pt(view.Viewport.W, view.Viewport.H) {
		release(s.visible)
		s.visible = s.newCanvas(view.Viewport.W, view.Viewport.H)
	}
	release(s.static)
	// The layer's own origin is the field's top-left corner.
	s.static = s.visible.NewLayer(view.Rendered.X, view.Rendered.Y)
	s.static.Fill(Background)
	DrawItems(s.static, transform.Project(view.Origin(), s.shapes), s.opt)
	s.offset = view.Offset
	s.ready = true
	return nil
}

func (s *ImmediateSurface) Render(batches []Batch) error {
	if !s.ready {
		return errNotPrepared
	}
	s.visible.Fill(Background)
	s.visible.DrawLayer(s.static, s.offset)
	for _, b := range batches {
		DrawItems(s.visible, b.Items, s.opt)
	}
	return nil
}

// Visible is the composited frame, or nil before the first LoadStatic.
func (s *ImmediateSurface) Visible() Canvas { return s.visible }

func release(c Canvas) {
	if d, ok := c.(interface{ Dispose() }); ok {
		d.Dispose()
	}
}
