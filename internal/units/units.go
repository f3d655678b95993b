// Package units normalizes linear measurements to a single working unit.
package units

import (
	"fmt"
	"strings"

	"github.com/Garsondee/RoboRadar/internal/fault"
)

// Unit is a linear unit of length.
type Unit string

const (
	Inches      Unit = "inches"
	Feet        Unit = "feet"
	Yards       Unit = "yards"
	Meters      Unit = "meters"
	Centimeters Unit = "centimeters"
	Millimeters Unit = "millimeters"
)

// ErrUnknownUnit is returned for a unit name Parse does not recognise.
var ErrUnknownUnit = fmt.Errorf("%w: unknown unit", fault.ErrConfiguration)

// meters per unit
var factors = map[Unit]float64{
	Inches:      0.0254,
	Feet:        0.3048,
	Yards:       0.9144,
	Meters:      1,
	Centimeters: 0.01,
	Millimeters: 0.001,
}

var aliases = map[string]Unit{
	"in":          Inches,
	"inch":        Inches,
	"inches":      Inches,
	"ft":          Feet,
	"foot":        Feet,
	"feet":        Feet,
	"yd":          Yards,
	"yard":        Yards,
	"yards":       Yards,
	"m":           Meters,
	"meter":       Meters,
	"meters":      Meters,
	"metre":       Meters,
	"metres":      Meters,
	"cm":          Centimeters,
	"centimeter":  Centimeters,
	"centimeters": Centimeters,
	"mm":          Millimeters,
	"millimeter":  Millimeters,
	"millimeters": Millimeters,
}

// Parse maps a unit name or abbreviation to a Unit.
func Parse(name string) (Unit, error) {
	u, ok := aliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownUnit, name)
	}
	return u, nil
}

// MustParse is Parse for compile-time constants; it panics on error.
func MustParse(name string) Unit {
	u, err := Parse(name)
	if err != nil {
		panic(err)
	}
	return u
}

// Valid reports whether u is one of the known units.
func (u Unit) Valid() bool {
	_, ok := factors[u]
	return ok
}

func (u Unit) String() string { return string(u) }

// Factor returns how many units of to make one unit of from.
func Factor(from, to Unit) (float64, error) {
	f, ok := factors[from]
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrUnknownUnit, from)
	}
	t, ok := factors[to]
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrUnknownUnit, to)
	}
	if from == to {
		return 1, nil
	}
	return f / t, nil
}

// Convert converts v from one unit to another. Both units must be valid;
// use Factor when they come from untrusted input.
func Convert(v float64, from, to Unit) float64 {
	f, err := Factor(from, to)
	if err != nil {
		panic(err)
	}
	return v * f
}

// Normalize converts v to the working unit, reporting unknown units.
func Normalize(v float64, from, to Unit) (float64, error) {
	f, err := Factor(from, to)
	if err != nil {
		return 0, err
	}
	return v * f, nil
}
