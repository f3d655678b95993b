package robots

import (
	"github.com/Garsondee/RoboRadar/internal/pose"
	"github.com/Garsondee/RoboRadar/internal/shape"
	"github.com/Garsondee/RoboRadar/internal/units"
)

// BoxBot defaults, in inches.
const (
	DefaultBoxWidth  = 27
	DefaultBoxHeight = 32
	BumperThickness  = 3.25
	ArrowOvershoot   = 8
)

var BoxBotInfo = Info{
	Name:        "BoxBot",
	Units:       units.Inches,
	Description: "rectangular frame inside team-coloured bumpers",
}

var (
	frameGrey    = shape.RGB{R: 128, G: 128, B: 128}
	pointerInk   = shape.RGB{}
	arrowGreen   = shape.RGB{G: 255}
	filledSmooth = shape.Filled | shape.Antialiased
)

// BoxBot is a rectangular robot. Its size comes from the source's table
// when it has one.
type BoxBot struct {
	shape.Base
	src pose.Source
}

func NewBoxBot(src pose.Source) *BoxBot { return &BoxBot{src: src} }

func (b *BoxBot) Name() string { return BoxBotInfo.Name }

func (b *BoxBot) Units() units.Unit { return units.Inches }

func (b *BoxBot) Pose() shape.Pose {
	var p shape.Pose
	if sm, ok := b.src.(pose.Sampler); ok {
		p.X, p.Y, p.R = sm.Sample()
	} else {
		p = shape.Pose{X: b.src.X(), Y: b.src.Y(), R: b.src.Heading()}
	}
	if ts, ok := b.src.(pose.TrigSource); ok {
		if tr, ok := ts.Trig(); ok {
			p.Trig = &tr
		}
	}
	return p
}

// Size is the frame's full width and height.
func (b *BoxBot) Size() (w, h float64) {
	w, h = DefaultBoxWidth, DefaultBoxHeight
	if t, ok := b.src.(pose.Table); ok {
		w = t.Number(pose.KeyBoxW, w)
		h = t.Number(pose.KeyBoxH, h)
	}
	return w, h
}

func (b *BoxBot) Shapes() []shape.Shape {
	fw, fh := b.Size()
	w, h := fw/2, fh/2
	bw, bh := w+BumperThickness, h+BumperThickness
	return []shape.Shape{
		{
			Name:   "bumpers",
			Kind:   shape.Polygon,
			Style:  filledSmooth,
			Color:  b.src.TeamColor(),
			Space:  shape.Local,
			Points: rect(bw, bh),
		},
		{
			Name:   "frame",
			Kind:   shape.Polygon,
			Style:  filledSmooth,
			Color:  frameGrey,
			Space:  shape.Local,
			Points: rect(w, h),
		},
		{
			Name:   "pointer",
			Kind:   shape.Line,
			Style:  shape.Outlined,
			Color:  pointerInk,
			Space:  shape.Local,
			Points: []shape.Point{shape.Pt(0, 0), shape.Pt(0, h)},
		},
		{
			Name:   "arrow",
			Kind:   shape.Line,
			Style:  shape.Outlined,
			Color:  arrowGreen,
			Space:  shape.Local,
			Points: []shape.Point{shape.Pt(0, 0), shape.Pt(0, h+ArrowOvershoot)},
		},
	}
}

func rect(w, h float64) []shape.Point {
	return []shape.Point{shape.Pt(-w, h), shape.Pt(w, h), shape.Pt(w, -h), shape.Pt(-w, -h)}
}
