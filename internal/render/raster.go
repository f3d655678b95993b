package render

import (
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"github.com/Garsondee/RoboRadar/internal/shape"
)

// aliasThreshold is the coverage at or above which an aliased pass sets a
// pixel.
const aliasThreshold = 0x80

// RasterCanvas is a CPU Canvas over an *image.RGBA. It backs headless
// snapshots and tests.
type RasterCanvas struct {
	img  *image.RGBA
	mask *image.Alpha
	r    *vector.Rasterizer
}

// NewRasterCanvas allocates a w x h canvas. Sizes below one pixel are
// clamped so an empty viewport still has a valid target.
func NewRasterCanvas(w, h int) *RasterCanvas {
	w, h = max(w, 1), max(h, 1)
	return &RasterCanvas{
		img:  image.NewRGBA(image.Rect(0, 0, w, h)),
		mask: image.NewAlpha(image.Rect(0, 0, w, h)),
		r:    vector.NewRasterizer(w, h),
	}
}

// Image exposes the backing pixels.
func (c *RasterCanvas) Image() *image.RGBA { return c.img }

func (c *RasterCanvas) Size() image.Point { return c.img.Bounds().Size() }

func (c *RasterCanvas) Fill(clr shape.RGB) {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(clr.Color()), image.Point{}, draw.Src)
}

func (c *RasterCanvas) FillPolygon(pts []image.Point, clr shape.RGB) {
	if len(pts) < 3 {
		return
	}
	c.clearMask()
	c.r.Reset(c.img.Bounds().Dx(), c.img.Bounds().Dy())
	c.r.DrawOp = draw.Over
	c.r.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		c.r.LineTo(float32(p.X), float32(p.Y))
	}
	c.r.ClosePath()
	c.r.Draw(c.mask, c.mask.Bounds(), image.Opaque, image.Point{})
	c.paintMask(clr, false)
}

func (c *RasterCanvas) StrokePolygon(pts []image.Point, clr shape.RGB, antialias bool) {
	if len(pts) < 2 {
		return
	}
	c.clearMask()
	for i := range pts {
		c.segment(pts[i], pts[(i+1)%len(pts)])
	}
	c.paintMask(clr, antialias)
}

func (c *RasterCanvas) StrokeLine(a, b image.Point, clr shape.RGB, antialias bool) {
	c.clearMask()
	c.segment(a, b)
	c.paintMask(clr, antialias)
}

func (c *RasterCanvas) NewLayer(w, h int) Canvas { return NewRasterCanvas(w, h) }

func (c *RasterCanvas) DrawLayer(layer Canvas, at image.Point) {
	src, ok := layer.(*RasterCanvas)
	if !ok {
		return
	}
	r := src.img.Bounds().Add(at)
	draw.Draw(c.img, r, src.img, image.Point{}, draw.Src)
}

// segment accumulates a one pixel wide quad between the centres of a and b
// into the mask. Each segment is its own path so that overlapping corners
// union instead of cancelling.
func (c *RasterCanvas) segment(a, b image.Point) {
	ax, ay := float64(a.X)+0.5, float64(a.Y)+0.5
	bx, by := float64(b.X)+0.5, float64(b.Y)+0.5
	dx, dy := bx-ax, by-ay
	l := math.Hypot(dx, dy)
	if l == 0 {
		dx, dy = 1, 0
	} else {
		dx, dy = dx/l, dy/l
	}
	// Half-width normal and half-pixel end caps.
	nx, ny := -dy*0.5, dx*0.5
	ax, ay = ax-dx*0.5, ay-dy*0.5
	bx, by = bx+dx*0.5, by+dy*0.5

	c.r.Reset(c.img.Bounds().Dx(), c.img.Bounds().Dy())
	c.r.DrawOp = draw.Over
	c.r.MoveTo(float32(ax+nx), float32(ay+ny))
	c.r.LineTo(float32(bx+nx), float32(by+ny))
	c.r.LineTo(float32(bx-nx), float32(by-ny))
	c.r.LineTo(float32(ax-nx), float32(ay-ny))
	c.r.ClosePath()
	c.r.Draw(c.mask, c.mask.Bounds(), image.Opaque, image.Point{})
}

func (c *RasterCanvas) clearMask() {
	clear(c.mask.Pix)
}

func (c *RasterCanvas) paintMask(clr shape.RGB, antialias bool) {
	if !antialias {
		for i, a := range c.mask.Pix {
			if a >= aliasThreshold {
				c.mask.Pix[i] = 0xff
			} else {
				c.mask.Pix[i] = 0
			}
		}
	}
	draw.DrawMask(c.img, c.img.Bounds(), image.NewUniform(clr.Color()), image.Point{}, c.mask, image.Point{}, draw.Over)
}
