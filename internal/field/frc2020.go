package field

import (
	"github.com/Garsondee/RoboRadar/internal/shape"
	"github.com/Garsondee/RoboRadar/internal/units"
)

// FRC 2020 "Infinite Recharge" dimensions, in inches, measured from the
// field centre.
const (
	frc2020FieldHalfH = (52*12 + 5.25) / 2
	frc2020EdgeHalfH  = frc2020FieldHalfH + (10*12 + 9 + 1.0/8)
	frc2020FieldHalfW = (26*12 + 11.25) / 2
	frc2020EdgeHalfW  = (30 * 12) / 2.0

	frc2020StationDepth = 12*12 + 10 + 7.0/8
	frc2020WallDepth    = 10*12 + 9 + 1.0/8
	frc2020Chamfer      = 94.66 - 24
)

// FRC2020 returns the 2020 FRC competition field.
func FRC2020() *Model {
	const (
		eh = frc2020EdgeHalfH
		ew = frc2020EdgeHalfW
		fh = frc2020FieldHalfH
		fw = frc2020FieldHalfW
		sd = frc2020StationDepth
		wd = frc2020WallDepth
		ch = frc2020Chamfer
	)
	pts := func(xy ...float64) []shape.Point {
		out := make([]shape.Point, 0, len(xy)/2)
		for i := 0; i+1 < len(xy); i += 2 {
			out = append(out, shape.Pt(xy[i], xy[i+1]))
		}
		return out
	}
	return &Model{
		Name:    "FRC 2020 Field",
		Theme:   "Infinite Recharge",
		File:    "FRC_2020",
		Version: "1.0.0",
		Author:  "David Johnston",
		Aliases: []string{
			"FRC 2020 FIELD 1.0.0", "FRC 2020 FIELD 1.0", "FRC 2020 FIELD 1",
			"FRC 2020 FIELD V1.0.0", "FRC 2020 FIELD V1.0", "FRC 2020 FIELD V1",
			"FRC_2020_1.0.0", "FRC_2020_1.0", "FRC_2020_1",
			"FRC_2020_V1.0.0", "FRC_2020_V1.0", "FRC_2020_V1",
			"FRC_2020V1.0.0", "FRC_2020V1.0", "FRC_2020V1",
		},
		Units:       units.Inches,
		Width:       ew * 2,
		Height:      eh * 2,
		Center:      shape.Pt(ew, eh),
		Orientation: 0,
		Static: []shape.Shape{
			{
				Name:   "carpet",
				Kind:   shape.Polygon,
				Style:  shape.Filled,
				Color:  shape.RGB{R: 43, G: 43, B: 43},
				Points: pts(ew, eh, ew, -eh, -ew, -eh, -ew, eh),
			},
			{
				Name:  "red alliance station",
				Kind:  shape.Polygon,
				Style: shape.Filled | shape.Antialiased,
				Color: shape.RGB{R: 96, G: 32, B: 32},
				Points: pts(
					ew, -eh,
					ew, -eh+sd,
					fw, -eh+sd,
					fw-ch, -eh+wd,
					-fw+ch, -eh+wd,
					-fw, -eh+sd,
					-ew, -eh+sd,
					-ew, -eh,
				),
			},
			{
				Name:  "blue alliance station",
				Kind:  shape.Polygon,
				Style: shape.Filled | shape.Antialiased,
				Color: shape.RGB{R: 32, G: 32, B: 96},
				Points: pts(
					ew, eh,
					ew, eh-sd,
					fw, eh-sd,
					fw-ch, eh-wd,
					-fw+ch, eh-wd,
					-fw, eh-sd,
					-ew, eh-sd,
					-ew, eh,
				),
			},
			{
				Name:  "field",
				Kind:  shape.Polygon,
				Style: shape.Outlined | shape.Antialiased,
				Color: shape.RGB{R: 128, G: 128, B: 128},
				Points: pts(
					fw, -eh+sd,
					fw-ch, -eh+wd,
					-fw+ch, -eh+wd,
					-fw, -eh+sd,
					-fw, eh-sd,
					-fw+ch, eh-wd,
					fw-ch, eh-wd,
					fw, eh-sd,
				),
			},
			{
				Name:   "red initiation line",
				Kind:   shape.Polygon,
				Style:  shape.Filled | shape.Antialiased,
				Color:  shape.RGB{R: 255, G: 255, B: 255},
				Points: pts(fw, fh-10*12, fw, fh-10*12-2, -fw, fh-10*12-2, -fw, fh-10*12),
			},
			{
				Name:   "blue initiation line",
				Kind:   shape.Polygon,
				Style:  shape.Filled | shape.Antialiased,
				Color:  shape.RGB{R: 255, G: 255, B: 255},
				Points: pts(fw, -194.625, fw, -194.625+2, -fw, -194.625+2, -fw, -194.625),
			},
		},
	}
}
