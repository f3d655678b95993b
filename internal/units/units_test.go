package units

import (
	"errors"
	"math"
	"testing"

	"github.com/Garsondee/RoboRadar/internal/fault"
)

func TestParse_Aliases(t *testing.T) {
	cases := map[string]Unit{
		"in":     Inches,
		"Inches": Inches,
		"ft":     Feet,
		" m ":    Meters,
		"metres": Meters,
		"MM":     Millimeters,
		"cm":     Centimeters,
		"yd":     Yards,
	}
	for in, want := range cases {
		got, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q): unexpected error %v", in, err)
		}
		if got != want {
			t.Fatalf("Parse(%q): expected %s, got %s", in, want, got)
		}
	}
}

func TestParse_UnknownIsConfigurationError(t *testing.T) {
	_, err := Parse("furlongs")
	if !errors.Is(err, ErrUnknownUnit) {
		t.Fatalf("expected ErrUnknownUnit, got %v", err)
	}
	if !errors.Is(err, fault.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestConvert(t *testing.T) {
	cases := []struct {
		v        float64
		from, to Unit
		want     float64
	}{
		{12, Inches, Feet, 1},
		{1, Meters, Millimeters, 1000},
		{1, Feet, Inches, 12},
		{3, Yards, Feet, 9},
		{254, Millimeters, Inches, 10},
		{7.5, Inches, Inches, 7.5},
	}
	for _, c := range cases {
		got := Convert(c.v, c.from, c.to)
		if math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("Convert(%v, %s, %s): expected %v, got %v", c.v, c.from, c.to, c.want, got)
		}
	}
}

func TestNormalize_UnknownUnit(t *testing.T) {
	if _, err := Normalize(1, Unit("cubits"), Meters); !errors.Is(err, ErrUnknownUnit) {
		t.Fatalf("expected ErrUnknownUnit, got %v", err)
	}
	if _, err := Normalize(1, Meters, Unit("")); !errors.Is(err, ErrUnknownUnit) {
		t.Fatalf("expected ErrUnknownUnit for empty target, got %v", err)
	}
}

func TestConvert_RoundTrip(t *testing.T) {
	for u := range factors {
		for w := range factors {
			v := 123.456
			back := Convert(Convert(v, u, w), w, u)
			if math.Abs(back-v) > 1e-9 {
				t.Fatalf("%s->%s->%s: expected %v, got %v", u, w, u, v, back)
			}
		}
	}
}
