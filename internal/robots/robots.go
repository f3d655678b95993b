// Package robots is the registry of drawable robot types.
package robots

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Garsondee/RoboRadar/internal/fault"
	"github.com/Garsondee/RoboRadar/internal/pose"
	"github.com/Garsondee/RoboRadar/internal/shape"
	"github.com/Garsondee/RoboRadar/internal/units"
)

// ErrUnknownRobot is returned by New for unregistered type names.
var ErrUnknownRobot = fmt.Errorf("%w: unknown robot type", fault.ErrConfiguration)

// Info describes a robot type.
type Info struct {
	Name        string
	Units       units.Unit
	Description string
}

// Factory builds a robot reading its pose from src.
type Factory func(src pose.Source) shape.Drawable

type registration struct {
	info Info
	new  Factory
}

// Registry maps type names to factories. Lookups ignore case.
type Registry struct {
	types map[string]registration
	names []string
}

func NewRegistry() *Registry {
	return &Registry{types: make(map[string]registration)}
}

// Builtin returns a registry holding every robot type in this package.
func Builtin() *Registry {
	r := NewRegistry()
	if err := r.Register(BoxBotInfo, func(src pose.Source) shape.Drawable { return NewBoxBot(src) }); err != nil {
		panic(err)
	}
	return r
}

// Register adds a type. Names must be unique.
func (r *Registry) Register(info Info, f Factory) error {
	key := strings.ToLower(info.Name)
	if key == "" || f == nil {
		return fmt.Errorf("robots: invalid registration %q", info.Name)
	}
	if _, dup := r.types[key]; dup {
		return fmt.Errorf("robots: %q already registered", info.Name)
	}
	r.types[key] = registration{info: info, new: f}
	r.names = append(r.names, info.Name)
	return nil
}

func (r *Registry) New(name string, src pose.Source) (shape.Drawable, error) {
	reg, ok := r.types[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w %q (have %s)", ErrUnknownRobot, name, strings.Join(r.Names(), ", "))
	}
	return reg.new(src), nil
}

// Names lists registered types in registration order.
func (r *Registry) Names() []string { return slices.Clone(r.names) }

func (r *Registry) Info(name string) (Info, bool) {
	reg, ok := r.types[strings.ToLower(name)]
	return reg.info, ok
}
