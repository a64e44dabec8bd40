package raster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flaxengeo/lidartraj/internal/cloud"
)

func TestRasterExplicitLimits(t *testing.T) {
	t.Parallel()

	f := New(Config{
		Limits: &Limits{OriginX: 0, OriginY: 0, EdgeLength: 1, Width: 2, Height: 2},
		NoData: -9999,
	})
	v := &cloud.View{Points: []cloud.Point{
		{X: 0.5, Y: 0.5, Z: 10},
		{X: 0.6, Y: 0.4, Z: 20},
		{X: 1.5, Y: 1.5, Z: 7},
		{X: 5, Y: 5, Z: 99}, // outside explicit limits: skipped
	}}
	require.NoError(t, f.Filter(v))

	r := f.Raster()
	require.NotNil(t, r)
	assert.InDelta(t, 15.0, r.Value(0, 0), 1e-12, "mean of the two points in the cell")
	assert.InDelta(t, 7.0, r.Value(1, 1), 1e-12)
	assert.Equal(t, -9999.0, r.Value(1, 0), "empty cell holds nodata")
	assert.Equal(t, -9999.0, r.Value(9, 9), "out-of-range lookup holds nodata")
}

func TestRasterComputedLimits(t *testing.T) {
	t.Parallel()

	f := New(Config{EdgeLength: 2, NoData: -1})
	v := &cloud.View{Points: []cloud.Point{
		{X: 10, Y: 10, Z: 1},
		{X: 13.9, Y: 10, Z: 3},
	}}
	require.NoError(t, f.Filter(v))

	r := f.Raster()
	require.NotNil(t, r)
	assert.Equal(t, 10.0, r.Limits.OriginX)
	assert.Equal(t, 2, r.Limits.Width)
	assert.Equal(t, 1, r.Limits.Height)
	assert.InDelta(t, 1.0, r.Value(0, 0), 1e-12)
	assert.InDelta(t, 3.0, r.Value(1, 0), 1e-12)
}

func TestRasterRejectsBadConfig(t *testing.T) {
	t.Parallel()

	f := New(Config{EdgeLength: 0})
	err := f.Filter(&cloud.View{Points: []cloud.Point{{X: 1}}})
	require.ErrorIs(t, err, ErrEdgeLength)

	f = New(Config{Limits: &Limits{EdgeLength: 1, Width: 0, Height: 3}})
	require.Error(t, f.Filter(&cloud.View{}))

	f = New(Config{EdgeLength: 1})
	require.Error(t, f.Filter(&cloud.View{}), "no data to compute limits from")
}
