// Package pose supplies robot positions to drawables. Every Source returns
// last-known values and never blocks.
package pose

import (
	"math"
	"sync"
	"time"

	"github.com/Garsondee/RoboRadar/internal/shape"
)

// Keys published by a robot.
const (
	KeyX     = "posX"
	KeyY     = "posY"
	KeyR     = "posR"
	KeyRSin  = "posRSin"
	KeyRCos  = "posRCos"
	KeyColor = "color"
	KeyBoxW  = "boxbotW"
	KeyBoxH  = "boxbotH"
)

// Source is the pose capability a robot reads each frame. Heading is in
// radians.
type Source interface {
	X() float64
	Y() float64
	Heading() float64
	TeamColor() shape.RGB
}

// Table is implemented by sources that carry extra named numbers.
type Table interface {
	Number(key string, def float64) float64
}

// Sampler is implemented by sources that can read position and heading as
// one consistent sample.
type Sampler interface {
	Sample() (x, y, heading float64)
}

// TrigSource is implemented by sources that publish the heading's sine and
// cosine alongside it.
type TrigSource interface {
	Trig() (shape.Trig, bool)
}

// Values is a concurrency-safe table of last-known numbers. Readers never
// block on writers for longer than a map write.
type Values struct {
	mu    sync.RWMutex
	nums  map[string]float64
	color *shape.RGB
}

func (v *Values) Set(key string, n float64) {
	v.mu.Lock()
	if v.nums == nil {
		v.nums = make(map[string]float64)
	}
	v.nums[key] = n
	v.mu.Unlock()
}

func (v *Values) SetColor(c shape.RGB) {
	v.mu.Lock()
	v.color = &c
	v.mu.Unlock()
}

func (v *Values) Number(key string, def float64) float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if n, ok := v.nums[key]; ok {
		return n
	}
	return def
}

// Sample reads posX, posY and posR under one lock.
func (v *Values) Sample() (x, y, heading float64) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.nums[KeyX], v.nums[KeyY], v.nums[KeyR]
}

func (v *Values) X() float64       { return v.Number(KeyX, 0) }
func (v *Values) Y() float64       { return v.Number(KeyY, 0) }
func (v *Values) Heading() float64 { return v.Number(KeyR, 0) }

func (v *Values) TeamColor() shape.RGB {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.color == nil {
		return shape.Magenta
	}
	return *v.color
}

// Trig reports the published sine and cosine when both are present.
func (v *Values) Trig() (shape.Trig, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	s, okS := v.nums[KeyRSin]
	c, okC := v.nums[KeyRCos]
	return shape.Trig{Sin: s, Cos: c}, okS && okC
}

// Static is a fixed pose.
type Static struct {
	PosX, PosY, R float64
	Color         *shape.RGB
	Extra         map[string]float64
}

func (s Static) X() float64       { return s.PosX }
func (s Static) Y() float64       { return s.PosY }
func (s Static) Heading() float64 { return s.R }

func (s Static) TeamColor() shape.RGB {
	if s.Color == nil {
		return shape.Magenta
	}
	return *s.Color
}

func (s Static) Number(key string, def float64) float64 {
	if n, ok := s.Extra[key]; ok {
		return n
	}
	return def
}

// OrbitRadius is the demo path radius in inches.
const OrbitRadius = 60

// Orbit drives a robot around the field centre at one radian per second,
// facing along its phase angle.
type Orbit struct {
	Radius float64
	Color  *shape.RGB
	// Now defaults to time.Now.
	Now   func() time.Time
	start time.Time
	once  sync.Once
}

func NewOrbit() *Orbit { return &Orbit{Radius: OrbitRadius} }

// At is the orbit pose at phase t.
func At(radius, t float64) (x, y, heading float64) {
	s, c := math.Sincos(t)
	return radius * c, radius * s, t
}

func (o *Orbit) phase() float64 {
	now := time.Now
	if o.Now != nil {
		now = o.Now
	}
	o.once.Do(func() { o.start = now() })
	return now().Sub(o.start).Seconds()
}

// Sample reads the clock once, so x, y and heading describe one instant.
// The single-value accessors each read the clock.
func (o *Orbit) Sample() (x, y, heading float64) { return At(o.Radius, o.phase()) }

func (o *Orbit) X() float64 {
	x, _, _ := o.Sample()
	return x
}

func (o *Orbit) Y() float64 {
	_, y, _ := o.Sample()
	return y
}

func (o *Orbit) Heading() float64 { return o.phase() }

func (o *Orbit) TeamColor() shape.RGB {
	if o.Color == nil {
		return shape.Magenta
	}
	return *o.Color
}
