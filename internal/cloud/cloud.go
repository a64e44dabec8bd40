// Package cloud holds the minimal point-cloud view the filter stages
// operate on: georeferenced points with a GPS timestamp and the handful
// of attributes the toolkit consumes. It is deliberately narrow; format
// readers and general attribute registries live with the callers.
package cloud

import (
	"fmt"
	"math"
)

// Point is one georeferenced point.
type Point struct {
	X, Y, Z        float64
	GpsTime        float64
	Intensity      uint16
	Classification uint8
}

// View is an ordered, exclusively-owned collection of points that filter
// stages transform in place.
type View struct {
	Points []Point
}

// Filter is one processing stage in a pipeline.
type Filter interface {
	// Name identifies the stage in logs and errors.
	Name() string
	// Filter transforms the view in place.
	Filter(v *View) error
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	MinX, MinY, MinZ float64
	MaxX, MaxY, MaxZ float64
}

// Bounds returns the bounding box of the view, or ok=false for an empty
// view.
func (v *View) Bounds() (b Bounds, ok bool) {
	if len(v.Points) == 0 {
		return Bounds{}, false
	}
	b = Bounds{
		MinX: math.Inf(1), MinY: math.Inf(1), MinZ: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1), MaxZ: math.Inf(-1),
	}
	for _, p := range v.Points {
		b.MinX = math.Min(b.MinX, p.X)
		b.MinY = math.Min(b.MinY, p.Y)
		b.MinZ = math.Min(b.MinZ, p.Z)
		b.MaxX = math.Max(b.MaxX, p.X)
		b.MaxY = math.Max(b.MaxY, p.Y)
		b.MaxZ = math.Max(b.MaxZ, p.Z)
	}
	return b, true
}

// Run applies filters to the view in order, stopping at the first error.
func Run(v *View, filters ...Filter) error {
	for _, f := range filters {
		if err := f.Filter(v); err != nil {
			return fmt.Errorf("%s: %w", f.Name(), err)
		}
	}
	return nil
}
