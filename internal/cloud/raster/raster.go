// Package raster grids point elevations onto a uniform cell grid,
// producing an elevation raster with a NoData value for empty cells.
package raster

import (
	"errors"
	"fmt"
	"math"

	"github.com/flaxengeo/lidartraj/internal/cloud"
)

// ErrEdgeLength is returned for a non-positive cell edge length.
var ErrEdgeLength = errors.New("raster: edge length must be positive")

// Limits describes the grid: origin of the lower-left cell, uniform cell
// edge length, and cell counts.
type Limits struct {
	OriginX    float64
	OriginY    float64
	EdgeLength float64
	Width      int
	Height     int
}

// Config controls the rasterization stage.
type Config struct {
	// Limits fixes the grid explicitly. When nil the limits are computed
	// from the data using EdgeLength.
	Limits *Limits
	// EdgeLength is the cell size used when limits are computed from the
	// data.
	EdgeLength float64
	// NoData is the value written to cells no point falls in.
	NoData float64
}

// DefaultConfig returns a data-driven 1-unit grid with a conventional
// nodata marker.
func DefaultConfig() Config {
	return Config{EdgeLength: 1.0, NoData: -9999}
}

// Raster is the gridded elevation output.
type Raster struct {
	Limits Limits
	NoData float64
	cells  []float64
	counts []int
}

// Value returns the elevation of cell (col, row), or the NoData value
// for empty or out-of-range cells.
func (r *Raster) Value(col, row int) float64 {
	if col < 0 || col >= r.Limits.Width || row < 0 || row >= r.Limits.Height {
		return r.NoData
	}
	return r.cells[row*r.Limits.Width+col]
}

// Filter is the elevation-rasterization stage.
type Filter struct {
	cfg Config
	out *Raster
}

// New returns a raster filter.
func New(cfg Config) *Filter {
	return &Filter{cfg: cfg}
}

// Name implements cloud.Filter.
func (f *Filter) Name() string { return "filters.raster" }

// Filter implements cloud.Filter. Cell elevation is the mean Z of the
// points falling in the cell. With explicit limits, points outside the
// grid are skipped; with computed limits every point lands in a cell.
func (f *Filter) Filter(v *cloud.View) error {
	limits := f.cfg.Limits
	if limits == nil {
		if !(f.cfg.EdgeLength > 0) {
			return ErrEdgeLength
		}
		b, ok := v.Bounds()
		if !ok {
			return fmt.Errorf("cannot compute raster limits from an empty view")
		}
		limits = &Limits{
			OriginX:    b.MinX,
			OriginY:    b.MinY,
			EdgeLength: f.cfg.EdgeLength,
			Width:      int(math.Floor((b.MaxX-b.MinX)/f.cfg.EdgeLength)) + 1,
			Height:     int(math.Floor((b.MaxY-b.MinY)/f.cfg.EdgeLength)) + 1,
		}
	}
	if !(limits.EdgeLength > 0) {
		return ErrEdgeLength
	}
	if limits.Width <= 0 || limits.Height <= 0 {
		return fmt.Errorf("raster grid must have positive dimensions, got %dx%d", limits.Width, limits.Height)
	}

	out := &Raster{
		Limits: *limits,
		NoData: f.cfg.NoData,
		cells:  make([]float64, limits.Width*limits.Height),
		counts: make([]int, limits.Width*limits.Height),
	}
	for _, p := range v.Points {
		col := int(math.Floor((p.X - limits.OriginX) / limits.EdgeLength))
		row := int(math.Floor((p.Y - limits.OriginY) / limits.EdgeLength))
		if col < 0 || col >= limits.Width || row < 0 || row >= limits.Height {
			continue
		}
		i := row*limits.Width + col
		out.cells[i] += p.Z
		out.counts[i]++
	}
	for i := range out.cells {
		if out.counts[i] == 0 {
			out.cells[i] = out.NoData
		} else {
			out.cells[i] /= float64(out.counts[i])
		}
	}
	f.out = out
	return nil
}

// Raster returns the grid produced by the last Filter call.
func (f *Filter) Raster() *Raster { return f.out }
