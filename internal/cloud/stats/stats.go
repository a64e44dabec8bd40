// Package stats aggregates descriptive statistics (count, min, max,
// mean, variance) per point dimension in a single pass, with optional
// enumeration counts for classification values.
package stats

import (
	"fmt"
	"math"
	"sort"

	"github.com/flaxengeo/lidartraj/internal/cloud"
)

// Summary holds the running statistics for one dimension. Mean and
// variance are accumulated with Welford's recurrence so a single pass is
// numerically stable.
type Summary struct {
	Dimension string
	Count     int
	Min       float64
	Max       float64
	mean      float64
	m2        float64
}

// Mean returns the running mean, or 0 for an empty summary.
func (s *Summary) Mean() float64 { return s.mean }

// Variance returns the sample variance, or 0 with fewer than two values.
func (s *Summary) Variance() float64 {
	if s.Count < 2 {
		return 0
	}
	return s.m2 / float64(s.Count-1)
}

// StdDev returns the sample standard deviation.
func (s *Summary) StdDev() float64 { return math.Sqrt(s.Variance()) }

func (s *Summary) insert(v float64) {
	s.Count++
	if s.Count == 1 {
		s.Min, s.Max = v, v
	} else {
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	delta := v - s.mean
	s.mean += delta / float64(s.Count)
	s.m2 += delta * (v - s.mean)
}

// accessor extracts one dimension's value from a point.
type accessor func(p cloud.Point) float64

var dimensions = map[string]accessor{
	"X":              func(p cloud.Point) float64 { return p.X },
	"Y":              func(p cloud.Point) float64 { return p.Y },
	"Z":              func(p cloud.Point) float64 { return p.Z },
	"GpsTime":        func(p cloud.Point) float64 { return p.GpsTime },
	"Intensity":      func(p cloud.Point) float64 { return float64(p.Intensity) },
	"Classification": func(p cloud.Point) float64 { return float64(p.Classification) },
}

// Config selects the dimensions to aggregate.
type Config struct {
	// Dimensions to summarise. Empty means all known dimensions.
	Dimensions []string
	// Enumerate lists dimensions whose distinct values are counted
	// (typically Classification).
	Enumerate []string
}

// Filter is the descriptive-statistics stage. It leaves the view
// untouched and exposes the aggregates afterwards.
type Filter struct {
	cfg       Config
	summaries map[string]*Summary
	enums     map[string]map[float64]int
}

// New returns a stats filter. Unknown dimension names are rejected at
// Filter time.
func New(cfg Config) *Filter {
	return &Filter{
		cfg:       cfg,
		summaries: make(map[string]*Summary),
		enums:     make(map[string]map[float64]int),
	}
}

// Name implements cloud.Filter.
func (f *Filter) Name() string { return "filters.stats" }

// Filter implements cloud.Filter.
func (f *Filter) Filter(v *cloud.View) error {
	dims := f.cfg.Dimensions
	if len(dims) == 0 {
		dims = make([]string, 0, len(dimensions))
		for name := range dimensions {
			dims = append(dims, name)
		}
		sort.Strings(dims)
	}
	for _, name := range dims {
		if _, ok := dimensions[name]; !ok {
			return fmt.Errorf("unknown dimension %q", name)
		}
		if _, ok := f.summaries[name]; !ok {
			f.summaries[name] = &Summary{Dimension: name}
		}
	}
	for _, name := range f.cfg.Enumerate {
		if _, ok := dimensions[name]; !ok {
			return fmt.Errorf("unknown enumerated dimension %q", name)
		}
		if _, ok := f.enums[name]; !ok {
			f.enums[name] = make(map[float64]int)
		}
	}

	for _, p := range v.Points {
		for _, name := range dims {
			f.summaries[name].insert(dimensions[name](p))
		}
		for _, name := range f.cfg.Enumerate {
			f.enums[name][dimensions[name](p)]++
		}
	}
	return nil
}

// Summary returns the aggregate for one dimension, or an error if the
// dimension was not aggregated.
func (f *Filter) Summary(dimension string) (*Summary, error) {
	s, ok := f.summaries[dimension]
	if !ok {
		return nil, fmt.Errorf("no statistics for dimension %q", dimension)
	}
	return s, nil
}

// Enumeration returns the value counts for an enumerated dimension.
func (f *Filter) Enumeration(dimension string) (map[float64]int, error) {
	e, ok := f.enums[dimension]
	if !ok {
		return nil, fmt.Errorf("dimension %q was not enumerated", dimension)
	}
	return e, nil
}
