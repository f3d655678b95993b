package radar

import (
	"github.com/Garsondee/RoboRadar/internal/field"
	"github.com/Garsondee/RoboRadar/internal/metrics"
	"github.com/Garsondee/RoboRadar/internal/units"
)

// Option configures a Radar at construction.
type Option func(*Radar)

// WithUnits sets the working unit fields and shapes are normalized to. The
// default keeps each field's own unit.
func WithUnits(u units.Unit) Option {
	return func(r *Radar) { r.working = u }
}

// WithStrict makes shape contract violations fail the frame.
func WithStrict(strict bool) Option {
	return func(r *Radar) { r.strict = strict }
}

func WithMetrics(c *metrics.Collector) Option {
	return func(r *Radar) { r.metrics = c }
}

// WithCatalog replaces the built-in field catalog.
func WithCatalog(c *field.Catalog) Option {
	return func(r *Radar) { r.catalog = c }
}
