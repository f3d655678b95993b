package render

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/RoboRadar/internal/shape"
)

// EbitenCanvas draws onto an *ebiten.Image.
type EbitenCanvas struct {
	img *ebiten.Image
}

// NewEbitenCanvas allocates an offscreen ebiten image. ebiten refuses zero
// sized images, so sizes are clamped to one pixel.
func NewEbitenCanvas(w, h int) *EbitenCanvas {
	return &EbitenCanvas{img: ebiten.NewImage(max(w, 1), max(h, 1))}
}

// WrapEbiten adapts an existing image, typically the screen passed to Draw.
func WrapEbiten(img *ebiten.Image) *EbitenCanvas { return &EbitenCanvas{img: img} }

// Image returns the underlying image.
func (c *EbitenCanvas) Image() *ebiten.Image { return c.img }

func (c *EbitenCanvas) Size() image.Point { return c.img.Bounds().Size() }

func (c *EbitenCanvas) Fill(clr shape.RGB) { c.img.Fill(clr.Color()) }

func (c *EbitenCanvas) FillPolygon(pts []image.Point, clr shape.RGB) {
	if len(pts) < 3 {
		return
	}
	var path vector.Path
	path.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		path.LineTo(float32(p.X), float32(p.Y))
	}
	path.Close()

	op := &vector.DrawPathOptions{AntiAlias: false}
	op.ColorScale.ScaleWithColor(clr.Color())
	vector.FillPath(c.img, &path, &vector.FillOptions{}, op)
}

func (c *EbitenCanvas) StrokePolygon(pts []image.Point, clr shape.RGB, antialias bool) {
	for i := range pts {
		c.StrokeLine(pts[i], pts[(i+1)%len(pts)], clr, antialias)
	}
}

// StrokeLine draws a one pixel line through pixel centres.
func (c *EbitenCanvas) StrokeLine(a, b image.Point, clr shape.RGB, antialias bool) {
	vector.StrokeLine(c.img,
		float32(a.X)+0.5, float32(a.Y)+0.5,
		float32(b.X)+0.5, float32(b.Y)+0.5,
		1, clr.Color(), antialias)
}

func (c *EbitenCanvas) NewLayer(w, h int) Canvas { return NewEbitenCanvas(w, h) }

func (c *EbitenCanvas) DrawLayer(layer Canvas, at image.Point) {
	src, ok := layer.(*EbitenCanvas)
	if !ok {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(float64(at.X), float64(at.Y))
	c.img.DrawImage(src.img, &op)
}

// Dispose releases the GPU image. The canvas must not be used afterwards.
func (c *EbitenCanvas) Dispose() { c.img.Deallocate() }
