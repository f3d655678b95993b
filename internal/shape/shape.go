// Package shape defines the drawable primitives shared by field models and
// moving entities, and the rigid-body transform that places a robot's local
// shapes on the field.
package shape

import (
	"encoding/json"
	"fmt"
	"image/color"
	"strings"

	"github.com/Garsondee/RoboRadar/internal/fault"
	"github.com/Garsondee/RoboRadar/internal/units"
)

// Point is a 2D point in some linear unit.
type Point struct {
	X, Y float64
}

// Pt returns the point (x, y).
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) String() string { return fmt.Sprintf("(%g, %g)", p.X, p.Y) }

// Scale multiplies both coordinates by f.
func (p Point) Scale(f float64) Point { return Point{X: p.X * f, Y: p.Y * f} }

// MarshalJSON encodes the point as [x, y].
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

// UnmarshalJSON decodes [x, y].
func (p *Point) UnmarshalJSON(b []byte) error {
	var xy [2]float64
	if err := json.Unmarshal(b, &xy); err != nil {
		return fmt.Errorf("point: %w", err)
	}
	p.X, p.Y = xy[0], xy[1]
	return nil
}

// Kind is the geometry of a shape.
type Kind int

const (
	KindUnknown Kind = iota
	Polygon
	Line
	// Circle is accepted in data files but never rendered.
	Circle
)

func (k Kind) String() string {
	switch k {
	case Polygon:
		return "polygon"
	case Line:
		return "line"
	case Circle:
		return "circle"
	default:
		return "unknown"
	}
}

// ParseKind maps a data-file kind name to a Kind. Unrecognised names map to
// KindUnknown so the shape can be dropped at emission time rather than
// failing the whole file.
func ParseKind(s string) Kind {
	switch strings.ToLower(s) {
	case "polygon":
		return Polygon
	case "line":
		return Line
	case "circle":
		return Circle
	default:
		return KindUnknown
	}
}

func (k Kind) MarshalJSON() ([]byte, error) { return json.Marshal(k.String()) }

func (k *Kind) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("kind: %w", err)
	}
	*k = ParseKind(s)
	return nil
}

// Style is a set of drawing passes.
type Style uint8

const (
	Filled Style = 1 << iota
	Outlined
	Antialiased
)

// Has reports whether every flag in f is set.
func (s Style) Has(f Style) bool { return s&f == f && f != 0 }

func (s Style) String() string {
	var parts []string
	if s.Has(Filled) {
		parts = append(parts, "filled")
	}
	if s.Has(Outlined) {
		parts = append(parts, "outline")
	}
	if s.Has(Antialiased) {
		parts = append(parts, "aa")
	}
	return strings.Join(parts, "|")
}

// ParseStyle accepts the flag names used by field files: filled, outline
// (or outlined), aa (or antialiased).
func ParseStyle(names ...string) (Style, error) {
	var s Style
	for _, n := range names {
		switch strings.ToLower(strings.TrimSpace(n)) {
		case "filled", "fill":
			s |= Filled
		case "outline", "outlined":
			s |= Outlined
		case "aa", "antialiased":
			s |= Antialiased
		default:
			return 0, fmt.Errorf("%w: unknown style %q", fault.ErrShapeContract, n)
		}
	}
	return s, nil
}

func (s Style) MarshalJSON() ([]byte, error) {
	names := []string{}
	if s.String() != "" {
		names = strings.Split(s.String(), "|")
	}
	return json.Marshal(names)
}

// UnmarshalJSON accepts either a list of names or a single name.
func (s *Style) UnmarshalJSON(b []byte) error {
	var names []string
	if err := json.Unmarshal(b, &names); err != nil {
		var one string
		if err2 := json.Unmarshal(b, &one); err2 != nil {
			return fmt.Errorf("style: %w", err)
		}
		names = []string{one}
	}
	st, err := ParseStyle(names...)
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// Space tells whether points are field coordinates or relative to the
// owning entity's pose.
type Space int

const (
	World Space = iota
	Local
)

func (sp Space) String() string {
	if sp == Local {
		return "local"
	}
	return "world"
}

func (sp Space) MarshalJSON() ([]byte, error) { return json.Marshal(sp.String()) }

func (sp *Space) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("space: %w", err)
	}
	switch strings.ToLower(s) {
	case "", "world", "field", "global":
		*sp = World
	case "local":
		*sp = Local
	default:
		return fmt.Errorf("%w: unknown coordinate space %q", fault.ErrShapeContract, s)
	}
	return nil
}

// RGB is an opaque 24-bit colour.
type RGB struct {
	R, G, B uint8
}

// Magenta is the fallback colour for an unset team colour.
var Magenta = RGB{R: 255, G: 0, B: 255}

// Hex formats the colour as #rrggbb.
func (c RGB) Hex() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

// Color returns the opaque image/color value.
func (c RGB) Color() color.RGBA { return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff} }

func (c RGB) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]uint8{c.R, c.G, c.B})
}

func (c *RGB) UnmarshalJSON(b []byte) error {
	var v [3]uint8
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("color: %w", err)
	}
	c.R, c.G, c.B = v[0], v[1], v[2]
	return nil
}

// Shape is a styled polygon or line segment.
type Shape struct {
	Name   string     `json:"name"`
	Kind   Kind       `json:"type"`
	Style  Style      `json:"style"`
	Color  RGB        `json:"color"`
	Layer  int        `json:"layer"`
	Space  Space      `json:"coordinate_space"`
	Points []Point    `json:"points"`
	Unit   units.Unit `json:"units,omitempty"` // empty: inherit from owner
}

// Clone returns a deep copy so callers may rewrite points freely.
func (s Shape) Clone() Shape {
	c := s
	c.Points = append([]Point(nil), s.Points...)
	return c
}

// Validate checks the point-count and style contract for the shape's kind.
// Kinds that are never rendered pass validation; Draw drops them.
func (s Shape) Validate() error {
	if s.Style == 0 {
		return fmt.Errorf("%w: %q has no style", fault.ErrShapeContract, s.Name)
	}
	switch s.Kind {
	case Line:
		if len(s.Points) != 2 {
			return fmt.Errorf("%w: line %q has %d points, want 2", fault.ErrShapeContract, s.Name, len(s.Points))
		}
	case Polygon:
		if len(s.Points) < 3 {
			return fmt.Errorf("%w: polygon %q has %d points, want at least 3", fault.ErrShapeContract, s.Name, len(s.Points))
		}
	}
	return nil
}

// Renderable reports whether the kind is one the render surfaces draw.
func (s Shape) Renderable() bool {
	return s.Kind == Polygon || s.Kind == Line
}

// Normalized returns a copy with every point converted from the shape's
// unit (or def when the shape has none) into to. The result carries to as
// its unit.
func (s Shape) Normalized(def, to units.Unit) (Shape, error) {
	from := s.Unit
	if from == "" {
		from = def
	} else if !from.Valid() {
		return Shape{}, fmt.Errorf("shape %q: %w %q", s.Name, units.ErrUnknownUnit, from)
	}
	c := s.Clone()
	if to == "" || from == to {
		c.Unit = from
		return c, nil
	}
	f, err := units.Factor(from, to)
	if err != nil {
		return Shape{}, fmt.Errorf("shape %q: %w", s.Name, err)
	}
	for i, p := range c.Points {
		c.Points[i] = p.Scale(f)
	}
	c.Unit = to
	return c, nil
}
