package field

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/Garsondee/RoboRadar/internal/fault"
	"github.com/Garsondee/RoboRadar/internal/shape"
	"github.com/Garsondee/RoboRadar/internal/units"
)

func testModel(name, file, theme string, aliases ...string) *Model {
	return &Model{
		Name: name, File: file, Theme: theme, Aliases: aliases,
		Units: units.Inches, Width: 10, Height: 10,
	}
}

func TestFRC2020_Valid(t *testing.T) {
	m := FRC2020()
	if err := m.Validate(); err != nil {
		t.Fatalf("built-in field invalid: %v", err)
	}
	if m.Width != 360 {
		t.Fatalf("expected width 360in, got %v", m.Width)
	}
	wantH := (52*12+5.25)+2*(10*12+9+1.0/8)
	if math.Abs(m.Height-wantH) > 1e-9 {
		t.Fatalf("expected height %v, got %v", wantH, m.Height)
	}
	if m.Center != shape.Pt(180, wantH/2) {
		t.Fatalf("expected centre at half size, got %s", m.Center)
	}
}

func TestResolve_PriorityOrder(t *testing.T) {
	// Field 1's file id is "0", which collides with index 0.
	c := NewCatalog(
		testModel("Alpha", "ALPHA", "Shared Theme"),
		testModel("Beta", "0", "Beta Theme", "Alpha"),
		testModel("Gamma", "GAMMA", "ALPHA"),
	)
	cases := []struct {
		search string
		want   int
	}{
		{"0", 0},            // index beats file id
		{"2", 2},            // plain index
		{"ALPHA", 0},        // file id beats theme
		{"Alpha", 0},        // name beats alias
		{"Beta Theme", 1},   // theme
		{"Shared Theme", 0}, // theme
	}
	for _, tc := range cases {
		got, err := c.Resolve(tc.search)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", tc.search, err)
		}
		if got != tc.want {
			t.Fatalf("Resolve(%q): expected %d, got %d", tc.search, tc.want, got)
		}
	}
}

func TestResolve_OutOfRangeIndexFallsThrough(t *testing.T) {
	c := NewCatalog(testModel("Alpha", "ALPHA", "T"), testModel("Nine", "9", "T9"))
	got, err := c.Resolve("9")
	if err != nil || got != 1 {
		t.Fatalf("expected out-of-range index to match file id (1), got %d err=%v", got, err)
	}
}

func TestResolve_NotFound(t *testing.T) {
	c := NewCatalog(FRC2020())
	_, err := c.Resolve("FRC_2099")
	if !errors.Is(err, ErrFieldNotFound) {
		t.Fatalf("expected ErrFieldNotFound, got %v", err)
	}
	if !errors.Is(err, fault.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if _, err := c.Resolve("-1"); !errors.Is(err, ErrFieldNotFound) {
		t.Fatalf("expected negative index to fail, got %v", err)
	}
}

func TestResolve_BuiltinKeys(t *testing.T) {
	c := NewCatalog(Builtin()...)
	for _, key := range []string{"0", "FRC_2020", "FRC 2020 Field", "Infinite Recharge", "FRC_2020V1"} {
		if i, err := c.Resolve(key); err != nil || i != 0 {
			t.Fatalf("Resolve(%q): expected 0, got %d err=%v", key, i, err)
		}
	}
}

func TestNormalize_DoesNotMutate(t *testing.T) {
	m := FRC2020()
	before := m.Static[0].Points[0]
	n, err := m.Normalize(units.Meters)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if m.Static[0].Points[0] != before || m.Units != units.Inches {
		t.Fatal("Normalize modified the source model")
	}
	if math.Abs(n.Width-360*0.0254) > 1e-9 {
		t.Fatalf("expected width %v m, got %v", 360*0.0254, n.Width)
	}
	if math.Abs(n.Static[0].Points[0].X-180*0.0254) > 1e-9 {
		t.Fatalf("expected carpet corner converted, got %s", n.Static[0].Points[0])
	}
	if n.Static[0].Unit != units.Meters {
		t.Fatalf("expected static shape unit meters, got %s", n.Static[0].Unit)
	}
}

func TestDiscover_LoadsDirectory(t *testing.T) {
	c, err := Discover("testdata/fields", "testdata/does-not-exist")
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("expected builtin + 1 file, got %d", c.Len())
	}
	m, err := c.Find("pad")
	if err != nil {
		t.Fatalf("Find(pad): %v", err)
	}
	if m.Units != units.Feet || m.Width != 20 {
		t.Fatalf("unexpected practice field %+v", m)
	}
	// The alias collides with the built-in name; the name table wins.
	if i, _ := c.Resolve("FRC 2020 Field"); i != 0 {
		t.Fatalf("expected built-in name to win over alias, got %d", i)
	}

	n, err := m.Normalize(units.Inches)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if math.Abs(n.Width-240) > 1e-9 || math.Abs(n.Center.X-120) > 1e-9 || math.Abs(n.Center.Y-60) > 1e-9 {
		t.Fatalf("expected 240in wide centred at (120,60), got %v %s", n.Width, n.Center)
	}
	line := n.Static[1]
	if line.Points[1] != shape.Pt(0, 60) {
		t.Fatalf("inch override should stay at 60in, got %s", line.Points[1])
	}
}

func TestDiscover_BadUnitIsFatal(t *testing.T) {
	_, err := Discover("testdata/broken")
	if !errors.Is(err, units.ErrUnknownUnit) {
		t.Fatalf("expected ErrUnknownUnit, got %v", err)
	}
}

func TestValidate_RejectsBadShapes(t *testing.T) {
	m := testModel("X", "X", "X")
	m.Static = []shape.Shape{{Name: "stub", Kind: shape.Line, Style: shape.Outlined, Points: []shape.Point{{X: 0, Y: 0}}}}
	if err := m.Validate(); !errors.Is(err, fault.ErrShapeContract) {
		t.Fatalf("expected shape contract violation, got %v", err)
	}
	m.Static = nil
	m.Width = 0
	if err := m.Validate(); !errors.Is(err, fault.ErrConfiguration) {
		t.Fatalf("expected configuration error for zero width, got %v", err)
	}
}

func TestValidate_RejectsDuplicateStaticNames(t *testing.T) {
	goal := func(x float64) shape.Shape {
		return shape.Shape{
			Name: "goal", Kind: shape.Polygon, Style: shape.Filled, Space: shape.World,
			Points: []shape.Point{{X: x, Y: 0}, {X: x + 1, Y: 0}, {X: x, Y: 1}},
		}
	}
	m := testModel("X", "X", "X")
	m.Static = []shape.Shape{goal(-2), goal(2)}
	if err := m.Validate(); !errors.Is(err, fault.ErrShapeContract) {
		t.Fatalf("expected shape contract violation for duplicate names, got %v", err)
	}
	m.Static[1].Name = "other goal"
	if err := m.Validate(); err != nil {
		t.Fatalf("expected distinct names to validate, got %v", err)
	}
}

func TestLoad_RejectsDuplicateStaticNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dup.json")
	data := `{
  "name": "Dup", "units": "in", "width": 10, "height": 10,
  "static_shapes": [
    {"name": "goal", "type": "polygon", "style": "filled", "color": [1, 2, 3], "points": [[0, 0], [1, 0], [0, 1]]},
    {"name": "goal", "type": "polygon", "style": "filled", "color": [1, 2, 3], "points": [[5, 0], [6, 0], [5, 1]]}
  ]
}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); !errors.Is(err, fault.ErrShapeContract) {
		t.Fatalf("expected shape contract violation, got %v", err)
	}
}
