// Package field describes playing surfaces and resolves which one a radar
// displays.
package field

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Garsondee/RoboRadar/internal/fault"
	"github.com/Garsondee/RoboRadar/internal/shape"
	"github.com/Garsondee/RoboRadar/internal/transform"
	"github.com/Garsondee/RoboRadar/internal/units"
)

// Model is an immutable playing-surface description. Treat values returned
// by a Catalog as read-only; Normalize returns a copy.
type Model struct {
	Name        string        `json:"name"`
	Theme       string        `json:"theme"`
	File        string        `json:"file"`
	Version     string        `json:"version,omitempty"`
	Author      string        `json:"author,omitempty"`
	Aliases     []string      `json:"aliases,omitempty"`
	Units       units.Unit    `json:"units"`
	Width       float64       `json:"width"`
	Height      float64       `json:"height"`
	Center      shape.Point   `json:"center"`
	Orientation float64       `json:"orientation"` // radians added to every robot heading
	Static      []shape.Shape `json:"static_shapes"`
}

// Extent returns the logical size and centre used by the screen transform.
func (m *Model) Extent() transform.Extent {
	return transform.Extent{Width: m.Width, Height: m.Height, Center: m.Center}
}

// Validate checks dimensions, the declared unit and every static shape.
// Renderable static shapes need distinct names.
func (m *Model) Validate() error {
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("%w: field %q has non-positive size %gx%g", fault.ErrConfiguration, m.Name, m.Width, m.Height)
	}
	if !m.Units.Valid() {
		return fmt.Errorf("field %q: %w %q", m.Name, units.ErrUnknownUnit, m.Units)
	}
	names := make(map[string]bool, len(m.Static))
	for _, s := range m.Static {
		if s.Space != shape.World {
			return fmt.Errorf("%w: field %q static shape %q is not in world space", fault.ErrShapeContract, m.Name, s.Name)
		}
		if !s.Renderable() {
			continue
		}
		if err := s.Validate(); err != nil {
			return fmt.Errorf("field %q: %w", m.Name, err)
		}
		if s.Unit != "" && !s.Unit.Valid() {
			return fmt.Errorf("field %q shape %q: %w %q", m.Name, s.Name, units.ErrUnknownUnit, s.Unit)
		}
		if names[s.Name] {
			return fmt.Errorf("%w: field %q has more than one static shape named %q", fault.ErrShapeContract, m.Name, s.Name)
		}
		names[s.Name] = true
	}
	return nil
}

// Normalize returns a copy with size, centre and every static shape in the
// working unit. The receiver is not modified.
func (m *Model) Normalize(to units.Unit) (*Model, error) {
	f, err := units.Factor(m.Units, to)
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", m.Name, err)
	}
	n := *m
	n.Units = to
	n.Width = m.Width * f
	n.Height = m.Height * f
	n.Center = m.Center.Scale(f)
	n.Aliases = append([]string(nil), m.Aliases...)
	n.Static = make([]shape.Shape, len(m.Static))
	for i, s := range m.Static {
		ns, err := s.Normalized(m.Units, to)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", m.Name, err)
		}
		n.Static[i] = ns
	}
	return &n, nil
}

// Load reads a single field description from a JSON file.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("field: read %s: %w", path, err)
	}
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: field: parse %s: %v", fault.ErrConfiguration, path, err)
	}
	if m.Units == "" {
		m.Units = units.Inches
	} else {
		u, err := units.Parse(string(m.Units))
		if err != nil {
			return nil, fmt.Errorf("field: %s: %w", path, err)
		}
		m.Units = u
	}
	for i, s := range m.Static {
		if s.Unit == "" {
			continue
		}
		u, err := units.Parse(string(s.Unit))
		if err != nil {
			return nil, fmt.Errorf("field: %s shape %q: %w", path, s.Name, err)
		}
		m.Static[i].Unit = u
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("field: %s: %w", path, err)
	}
	return &m, nil
}
