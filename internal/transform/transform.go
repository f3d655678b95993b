// Package transform maps field coordinates onto device pixels.
//
// Field space is Y-up with its origin offset by the field centre; device
// space is Y-down with the origin at the top-left of the viewport. The field
// is scaled uniformly to fit inside the viewport and centred.
package transform

import (
	"image"
	"math"

	"github.com/Garsondee/RoboRadar/internal/shape"
)

// Viewport is the size of the render target in pixels.
type Viewport struct {
	W, H int
}

// Empty reports whether nothing can be drawn into the viewport.
func (v Viewport) Empty() bool { return v.W <= 0 || v.H <= 0 }

// Extent is the logical size and centre of a field, in the working unit.
type Extent struct {
	Width, Height float64
	Center        shape.Point
}

// View is the fitted transform for one viewport and one field extent. It
// is a value; recompute it with Fit whenever either input changes.
type View struct {
	Viewport Viewport
	Extent   Extent
	// Rendered is the field's size on screen after the uniform fit.
	Rendered image.Point
	// Offset centres the rendered field inside the viewport.
	Offset image.Point
}

// Fit scales the extent uniformly into the viewport. When the field is
// relatively taller than the viewport (fw/fh <= W/H) the height binds,
// otherwise the width binds.
func Fit(vp Viewport, ext Extent) View {
	v := View{Viewport: vp, Extent: ext}
	if vp.Empty() || ext.Width <= 0 || ext.Height <= 0 {
		return v
	}
	W, H := float64(vp.W), float64(vp.H)
	var rw, rh float64
	// fw/fh <= W/H without dividing by the viewport height.
	if ext.Width*H <= W*ext.Height {
		rh = H
		rw = ext.Width / ext.Height * rh
	} else {
		rw = W
		rh = ext.Height / ext.Width * rw
	}
	v.Offset = image.Pt(int(math.Floor((W-rw)/2)), int(math.Floor((H-rh)/2)))
	v.Rendered = image.Pt(int(math.Floor(rw)), int(math.Floor(rh)))
	return v
}

// Empty reports whether the view has no drawable area.
func (v View) Empty() bool { return v.Rendered.X <= 0 || v.Rendered.Y <= 0 }

// Origin returns the same view with no centring offset, as used when
// drawing into a buffer the size of the rendered field.
func (v View) Origin() View {
	v.Offset = image.Point{}
	return v
}

// ToScreen maps a field point to a device pixel.
func (v View) ToScreen(p shape.Point) image.Point {
	if v.Extent.Width <= 0 || v.Extent.Height <= 0 {
		return v.Offset
	}
	x := (p.X+v.Extent.Center.X)/v.Extent.Width*float64(v.Rendered.X) + float64(v.Offset.X)
	y := (-p.Y+v.Extent.Center.Y)/v.Extent.Height*float64(v.Rendered.Y) + float64(v.Offset.Y)
	return image.Pt(int(math.Floor(x)), int(math.Floor(y)))
}

// ToScreenAll maps every point.
func (v View) ToScreenAll(pts []shape.Point) []image.Point {
	out := make([]image.Point, len(pts))
	for i, p := range pts {
		out[i] = v.ToScreen(p)
	}
	return out
}

// Item is a shape already in device coordinates.
type Item struct {
	Name   string
	Kind   shape.Kind
	Style  shape.Style
	Color  shape.RGB
	Points []image.Point
}

// Project maps world-space shapes through v. Local-space shapes must be
// placed with shape.Draw first; they are skipped here.
func Project(v View, shapes []shape.Shape) []Item {
	items := make([]Item, 0, len(shapes))
	for _, s := range shapes {
		if s.Space != shape.World {
			continue
		}
		items = append(items, Item{
			Name:   s.Name,
			Kind:   s.Kind,
			Style:  s.Style,
			Color:  s.Color,
			Points: v.ToScreenAll(s.Points),
		})
	}
	return items
}
