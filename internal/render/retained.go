package render

import (
	"fmt"
	"strings"

	"github.com/golang/glog"

	"github.com/Garsondee/RoboRadar/internal/shape"
	"github.com/Garsondee/RoboRadar/internal/transform"
)

const (
	// TagPrefix starts every tag the radar owns.
	TagPrefix = "RoboRadar"
	// FamilyBackground owns the field's static shapes.
	FamilyBackground = "Background"
)

// Tag is the persistent identity of a shape within its owning family.
func Tag(family, name string) string {
	return TagPrefix + "-" + family + "-" + name
}

// DynamicFamily names the family of the n-th registered drawable.
func DynamicFamily(n int) string { return fmt.Sprintf("DS%d", n) }

// Group is the tag shared by every primitive of family.
func Group(family string) string { return TagPrefix + "-" + family }

// RetainedCanvas drives a Scene. Each shape maps to exactly one primitive
// for the lifetime of its owner; frames only move and recolour them.
type RetainedCanvas struct {
	scene Scene
	opt   Options

	static []shape.Shape
	ids    map[string]PrimitiveID
	count  int
}

func NewRetainedCanvas(scene Scene, opt Options) *RetainedCanvas {
	return &RetainedCanvas{scene: scene, opt: opt, ids: make(map[string]PrimitiveID)}
}

func (r *RetainedCanvas) Engine() Engine { return EngineRetained }

// Scene is the scene this canvas drives.
func (r *RetainedCanvas) Scene() Scene { return r.scene }

// LoadStatic drops the previous field's primitives and creates one per
// static shape.
func (r *RetainedCanvas) LoadStatic(view transform.View, shapes []shape.Shape) error {
	if n := r.scene.DeleteGroup(Group(FamilyBackground)); n > 0 {
		glog.V(1).Infof("render: removed %d background primitives", n)
		r.count -= n
		for tag := range r.ids {
			if isFamily(tag, FamilyBackground) {
				delete(r.ids, tag)
			}
		}
	}
	r.static = r.static[:0]
	for _, s := range shapes {
		if s.Space == shape.World && s.Renderable() {
			r.static = append(r.static, s)
		}
	}
	for _, s := range r.static {
		r.lookup(FamilyBackground, s.Name, s.Kind)
	}
	return r.Resize(view)
}

func (r *RetainedCanvas) Resize(view transform.View) error {
	r.scene.Resize(view.Viewport.W, view.Viewport.H)
	r.apply(FamilyBackground, transform.Project(view, r.static))
	return nil
}

func (r *RetainedCanvas) Render(batches []Batch) error {
	for _, b := range batches {
		r.apply(b.Family, b.Items)
	}
	return nil
}

// Primitives is the number of primitives this canvas has created and not
// yet deleted.
func (r *RetainedCanvas) Primitives() int { return r.count }

func (r *RetainedCanvas) apply(family string, items []transform.Item) {
	for _, it := range items {
		id := r.lookup(family, it.Name, it.Kind)
		r.scene.SetCoords(id, it.Points)
		r.scene.SetPaint(id, r.paint(it))
	}
}

func (r *RetainedCanvas) lookup(family, name string, kind shape.Kind) PrimitiveID {
	tag := Tag(family, name)
	if id, ok := r.ids[tag]; ok {
		return id
	}
	id, ok := r.scene.Find(tag)
	if !ok {
		id = r.scene.Create(tag, kind, TagPrefix, Group(family))
		r.count++
	}
	r.ids[tag] = id
	return id
}

func (r *RetainedCanvas) paint(it transform.Item) Paint {
	style := r.opt.Effective(it.Style)
	p := Paint{Fill: it.Color, Outline: it.Color, Antialias: style.Has(shape.Antialiased)}
	switch it.Kind {
	case shape.Line:
		p.HasFill = true
	default:
		p.HasFill = style.Has(shape.Filled)
		p.HasLine = style.Has(shape.Outlined) || style.Has(shape.Antialiased)
	}
	return p
}

func isFamily(tag, family string) bool {
	return strings.HasPrefix(tag, Group(family)+"-")
}
