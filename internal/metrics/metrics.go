// Package metrics exposes frame-loop instrumentation for the radar.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the radar's Prometheus metrics. A nil *Collector is
// valid and records nothing.
type Collector struct {
	gatherer prometheus.Gatherer

	Frames        prometheus.Counter
	FrameDuration prometheus.Histogram
	DynamicShapes prometheus.Gauge
	DroppedShapes *prometheus.CounterVec
	Resizes       prometheus.Counter
	Primitives    prometheus.Gauge
}

// NewCollector registers the radar metrics against reg, defaulting to the
// global registry when nil. Registering twice on the same registry returns
// the already registered collectors.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	frames, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "roboradar_frames_total",
		Help: "Frames rendered.",
	}), "roboradar_frames_total")
	if err != nil {
		return nil, err
	}
	duration, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "roboradar_frame_duration_seconds",
		Help:    "Time spent building and drawing one frame.",
		Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.02, 0.05, 0.1},
	}), "roboradar_frame_duration_seconds")
	if err != nil {
		return nil, err
	}
	shapes, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "roboradar_dynamic_shapes",
		Help: "Dynamic shapes drawn in the last frame.",
	}), "roboradar_dynamic_shapes")
	if err != nil {
		return nil, err
	}
	dropped, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "roboradar_dropped_shapes_total",
		Help: "Shapes skipped during emission, labeled by reason.",
	}, []string{"reason"}), "roboradar_dropped_shapes_total")
	if err != nil {
		return nil, err
	}
	resizes, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "roboradar_resizes_total",
		Help: "Viewport resizes applied at a frame boundary.",
	}), "roboradar_resizes_total")
	if err != nil {
		return nil, err
	}
	primitives, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "roboradar_retained_primitives",
		Help: "Live primitives held by the retained surface.",
	}), "roboradar_retained_primitives")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:      gatherer,
		Frames:        frames,
		FrameDuration: duration,
		DynamicShapes: shapes,
		DroppedShapes: dropped,
		Resizes:       resizes,
		Primitives:    primitives,
	}, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if c != nil && c.gatherer != nil {
		gatherer = c.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// ObserveFrame records one rendered frame.
func (c *Collector) ObserveFrame(d time.Duration, shapes int) {
	if c == nil {
		return
	}
	c.Frames.Inc()
	c.FrameDuration.Observe(d.Seconds())
	c.DynamicShapes.Set(float64(shapes))
}

// Dropped counts a skipped shape.
func (c *Collector) Dropped(reason string) {
	if c == nil {
		return
	}
	c.DroppedShapes.WithLabelValues(reason).Inc()
}

func (c *Collector) Resized() {
	if c == nil {
		return
	}
	c.Resizes.Inc()
}

func (c *Collector) SetPrimitives(n int) {
	if c == nil {
		return
	}
	c.Primitives.Set(float64(n))
}

func registerCounter(reg prometheus.Registerer, ctr prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(ctr); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return ctr, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
