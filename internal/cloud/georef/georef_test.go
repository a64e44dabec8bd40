package georef

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flaxengeo/lidartraj/internal/cloud"
	"github.com/flaxengeo/lidartraj/internal/traj"
)

// straightLineTrajectory fits constant-velocity motion along +X.
func straightLineTrajectory(t *testing.T) *traj.Trajectory {
	t.Helper()
	tr, err := traj.New(4, 1, 0)
	require.NoError(t, err)
	for i := 0; i <= 4; i++ {
		ti := tr.NodeTime(i)
		require.NoError(t, tr.SetSample(i, traj.Sample{
			Position: traj.Vec{ti, 0, 0},
			Velocity: traj.Vec{1, 0, 0},
		}))
	}
	require.NoError(t, tr.FillMissing(false))
	_, err = tr.Solve(traj.DefaultFitConfig())
	require.NoError(t, err)
	return tr
}

func TestGeorefTranslatesByPlatformPosition(t *testing.T) {
	t.Parallel()

	tr := straightLineTrajectory(t)
	f := New(tr, Config{HeadingFromVelocity: false})

	v := &cloud.View{Points: []cloud.Point{
		{X: 0, Y: 2, Z: 1, GpsTime: 1.5},
		{X: 1, Y: 0, Z: 0, GpsTime: 3.0},
	}}
	require.NoError(t, f.Filter(v))

	assert.InDelta(t, 1.5, v.Points[0].X, 1e-6)
	assert.InDelta(t, 2.0, v.Points[0].Y, 1e-6)
	assert.InDelta(t, 1.0, v.Points[0].Z, 1e-6)
	assert.InDelta(t, 4.0, v.Points[1].X, 1e-6)
}

func TestGeorefAppliesHeading(t *testing.T) {
	t.Parallel()

	// Constant-velocity motion along +Y: heading is +90 degrees, so a
	// sensor-frame +X offset becomes a world +Y offset.
	tr, err := traj.New(2, 1, 0)
	require.NoError(t, err)
	for i := 0; i <= 2; i++ {
		ti := tr.NodeTime(i)
		require.NoError(t, tr.SetSample(i, traj.Sample{
			Position: traj.Vec{0, ti, 0},
			Velocity: traj.Vec{0, 1, 0},
		}))
	}
	require.NoError(t, tr.FillMissing(false))
	_, err = tr.Solve(traj.DefaultFitConfig())
	require.NoError(t, err)

	f := New(tr, DefaultConfig())
	v := &cloud.View{Points: []cloud.Point{{X: 1, Y: 0, Z: 0, GpsTime: 1.0}}}
	require.NoError(t, f.Filter(v))

	assert.InDelta(t, 0.0, v.Points[0].X, 1e-6)
	assert.InDelta(t, 2.0, v.Points[0].Y, 1e-6, "platform at y=1 plus rotated offset")
}

func TestGeorefRejectsNaNTimestamp(t *testing.T) {
	t.Parallel()

	tr := straightLineTrajectory(t)
	f := New(tr, DefaultConfig())
	v := &cloud.View{Points: []cloud.Point{{GpsTime: math.NaN()}}}
	require.Error(t, f.Filter(v))
}

func TestGeorefExtrapolatesOutOfRangeTimes(t *testing.T) {
	t.Parallel()

	tr := straightLineTrajectory(t)
	f := New(tr, Config{HeadingFromVelocity: false})
	v := &cloud.View{Points: []cloud.Point{{GpsTime: 10.0}}}
	require.NoError(t, f.Filter(v))
	assert.InDelta(t, 10.0, v.Points[0].X, 1e-6, "clamping policy extrapolates, never fails")
}
