package shape

import (
	"errors"
	"fmt"
	"math"

	"github.com/Garsondee/RoboRadar/internal/fault"
	"github.com/Garsondee/RoboRadar/internal/units"
)

// ErrUnsupportedKind is reported for shapes whose kind is neither Polygon
// nor Line.
var ErrUnsupportedKind = errors.New("unsupported shape kind")

// Trig is a precomputed sine/cosine pair for a heading.
type Trig struct {
	Sin, Cos float64
}

// Pose is the position and heading of a moving entity, in the entity's own
// units.
type Pose struct {
	X, Y float64
	// R is the heading in radians, used unless HasDegrees is set.
	R float64
	// Degrees overrides R when HasDegrees is set.
	Degrees    float64
	HasDegrees bool
	// Trig, when non-nil, must hold sin/cos of the heading. It is only
	// consulted when no orientation adjustment applies.
	Trig *Trig
}

// Radians returns the effective heading.
func (p Pose) Radians() float64 {
	if p.HasDegrees {
		return p.Degrees * math.Pi / 180
	}
	return p.R
}

// Drawable is implemented by every moving entity the radar can display.
type Drawable interface {
	// Shapes is called once per frame and must return fresh shapes.
	Shapes() []Shape
	// Units is the default unit of the pose and of shapes with no override.
	Units() units.Unit
	// Pose is the last known pose.
	Pose() Pose
}

// Numbered is implemented by drawables that want to learn the registration
// number the radar assigned them.
type Numbered interface {
	SetNumber(n int)
	Number() int
}

// Base can be embedded to satisfy Numbered.
type Base struct {
	number int
}

func (b *Base) SetNumber(n int) { b.number = n }
func (b *Base) Number() int     { return b.number }

// Dropped records a shape Draw did not emit.
type Dropped struct {
	Name   string
	Kind   Kind
	Reason error
}

// Emission is one frame's output for a single drawable.
type Emission struct {
	Shapes  []Shape
	Dropped []Dropped
}

// DrawOptions controls Draw.
type DrawOptions struct {
	// Adjust is added to the heading, typically the field orientation.
	Adjust float64
	// Working is the unit every emitted point is converted to. Empty keeps
	// the drawable's units.
	Working units.Unit
	// Strict turns contract violations into errors instead of drops.
	Strict bool
}

// Draw places every shape of d in world space. The result is freshly
// allocated on every call.
func Draw(d Drawable, opt DrawOptions) (Emission, error) {
	pose := d.Pose()
	owner := d.Units()
	r := pose.Radians()

	var sin, cos float64
	if opt.Adjust == 0 && pose.Trig != nil {
		sin, cos = pose.Trig.Sin, pose.Trig.Cos
	} else {
		sin, cos = math.Sincos(r + opt.Adjust)
	}

	px, py := pose.X, pose.Y
	if opt.Working != "" && owner != opt.Working {
		f, err := units.Factor(owner, opt.Working)
		if err != nil {
			return Emission{}, err
		}
		px, py = px*f, py*f
	}

	src := d.Shapes()
	out := Emission{Shapes: make([]Shape, 0, len(src))}
	seen := make(map[string]bool, len(src))
	for _, s := range src {
		if !s.Renderable() {
			out.Dropped = append(out.Dropped, Dropped{Name: s.Name, Kind: s.Kind, Reason: ErrUnsupportedKind})
			continue
		}
		err := s.Validate()
		if err == nil && seen[s.Name] {
			err = fmt.Errorf("%w: duplicate shape name %q", fault.ErrShapeContract, s.Name)
		}
		if err != nil {
			if opt.Strict {
				return Emission{}, err
			}
			out.Dropped = append(out.Dropped, Dropped{Name: s.Name, Kind: s.Kind, Reason: err})
			continue
		}
		// An unknown unit is a configuration error in either mode.
		n, err := s.Normalized(owner, opt.Working)
		if err != nil {
			return Emission{}, err
		}
		seen[s.Name] = true
		if n.Space == Local {
			for i, p := range n.Points {
				n.Points[i] = Point{
					X: p.X*cos - p.Y*sin + px,
					Y: p.X*sin + p.Y*cos + py,
				}
			}
			n.Space = World
		}
		out.Shapes = append(out.Shapes, n)
	}
	return out, nil
}
