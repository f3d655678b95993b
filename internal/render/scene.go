package render

import (
	"image"
	"slices"

	"github.com/Garsondee/RoboRadar/internal/shape"
)

// PrimitiveID identifies a primitive within a Scene.
type PrimitiveID int

// Paint holds the mutable colours and stroke mode of a primitive.
type Paint struct {
	Fill      shape.RGB
	Outline   shape.RGB
	HasFill   bool
	HasLine   bool
	Antialias bool
}

// Scene is a retained canvas owned by the host toolkit. Primitives are
// found by tag, created once with no geometry and then only updated.
type Scene interface {
	Find(tag string) (PrimitiveID, bool)
	Create(tag string, kind shape.Kind, groups ...string) PrimitiveID
	SetCoords(id PrimitiveID, pts []image.Point)
	SetPaint(id PrimitiveID, p Paint)
	// DeleteGroup removes every primitive carrying group and reports how
	// many went.
	DeleteGroup(group string) int
	Resize(w, h int)
}

// Primitive is one persistent node in a SceneGraph.
type Primitive struct {
	ID     PrimitiveID
	Tag    string
	Groups []string
	Kind   shape.Kind
	Points []image.Point
	Paint  Paint
}

// SceneGraph is the in-process Scene. Nodes paint in creation order.
type SceneGraph struct {
	Width, Height int
	Background    shape.RGB

	nodes  []*Primitive
	byTag  map[string]*Primitive
	byID   map[PrimitiveID]*Primitive
	nextID PrimitiveID
}

func NewSceneGraph(w, h int) *SceneGraph {
	return &SceneGraph{
		Width:      w,
		Height:     h,
		Background: Background,
		byTag:      make(map[string]*Primitive),
		byID:       make(map[PrimitiveID]*Primitive),
		nextID:     1,
	}
}

func (g *SceneGraph) Find(tag string) (PrimitiveID, bool) {
	p, ok := g.byTag[tag]
	if !ok {
		return 0, false
	}
	return p.ID, true
}

// Create adds a degenerate primitive. A second Create with the same tag
// returns the existing primitive.
func (g *SceneGraph) Create(tag string, kind shape.Kind, groups ...string) PrimitiveID {
	if p, ok := g.byTag[tag]; ok {
		return p.ID
	}
	p := &Primitive{ID: g.nextID, Tag: tag, Kind: kind, Groups: slices.Clone(groups)}
	g.nextID++
	g.nodes = append(g.nodes, p)
	g.byTag[tag] = p
	g.byID[p.ID] = p
	return p.ID
}

func (g *SceneGraph) SetCoords(id PrimitiveID, pts []image.Point) {
	if p, ok := g.byID[id]; ok {
		p.Points = append(p.Points[:0], pts...)
	}
}

func (g *SceneGraph) SetPaint(id PrimitiveID, paint Paint) {
	if p, ok := g.byID[id]; ok {
		p.Paint = paint
	}
}

func (g *SceneGraph) DeleteGroup(group string) int {
	n := 0
	g.nodes = slices.DeleteFunc(g.nodes, func(p *Primitive) bool {
		if !slices.Contains(p.Groups, group) {
			return false
		}
		delete(g.byTag, p.Tag)
		delete(g.byID, p.ID)
		n++
		return true
	})
	return n
}

func (g *SceneGraph) Resize(w, h int) { g.Width, g.Height = w, h }

// Len is the number of live primitives.
func (g *SceneGraph) Len() int { return len(g.nodes) }

// Primitive returns a copy of the node with the given tag.
func (g *SceneGraph) Primitive(tag string) (Primitive, bool) {
	p, ok := g.byTag[tag]
	if !ok {
		return Primitive{}, false
	}
	cp := *p
	cp.Points = slices.Clone(p.Points)
	return cp, true
}

// Tags lists live tags in paint order.
func (g *SceneGraph) Tags() []string {
	out := make([]string, len(g.nodes))
	for i, p := range g.nodes {
		out[i] = p.Tag
	}
	return out
}

// DrawTo paints the scene onto c.
func (g *SceneGraph) DrawTo(c Canvas) {
	c.Fill(g.Background)
	for _, p := range g.nodes {
		switch p.Kind {
		case shape.Polygon:
			if len(p.Points) < 3 {
				continue
			}
			if p.Paint.HasFill {
				c.FillPolygon(p.Points, p.Paint.Fill)
			}
			if p.Paint.HasLine {
				c.StrokePolygon(p.Points, p.Paint.Outline, p.Paint.Antialias)
			}
		case shape.Line:
			if len(p.Points) != 2 {
				continue
			}
			c.StrokeLine(p.Points[0], p.Points[1], p.Paint.Fill, p.Paint.Antialias)
		}
	}
}
