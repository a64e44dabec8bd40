package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flaxengeo/lidartraj/internal/traj"
)

const sampleCSV = `node,x,y,z,vx,vy,vz,missing
0,0,0,0,1,0,0,false
1,1,0,0,1,0,0,false
2,,,,,,,true
3,3,0,0,1,0,0,false
`

func TestReadSamples(t *testing.T) {
	t.Parallel()

	samples, err := ReadSamples(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, samples, 4)

	assert.Equal(t, 0, samples[0].Node)
	assert.Equal(t, traj.Vec{1, 0, 0}, samples[1].Sample.Position)
	assert.True(t, samples[2].Sample.Missing)
	assert.False(t, samples[3].Sample.Missing)
}

func TestReadSamplesWithoutHeader(t *testing.T) {
	t.Parallel()

	samples, err := ReadSamples(strings.NewReader("0,1,2,3,0,0,0,false\n1,2,3,4,0,0,0,false\n"))
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, traj.Vec{1, 2, 3}, samples[0].Sample.Position)
}

func TestReadSamplesErrors(t *testing.T) {
	t.Parallel()

	_, err := ReadSamples(strings.NewReader(""))
	require.Error(t, err, "empty input")

	_, err = ReadSamples(strings.NewReader("node,x,y,z,vx,vy,vz,missing\nabc,0,0,0,0,0,0,false\n"))
	require.Error(t, err, "bad node index")

	_, err = ReadSamples(strings.NewReader("0,bogus,0,0,0,0,0,false\n"))
	require.Error(t, err, "bad value")
}

func TestBuildTrajectory(t *testing.T) {
	t.Parallel()

	samples, err := ReadSamples(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	tr, err := BuildTrajectory(samples, 0.5, 100)
	require.NoError(t, err)
	assert.Equal(t, 3, tr.NumBlocks())
	assert.Equal(t, 100.0, tr.StartTime())
	assert.True(t, tr.Missing(2))
	assert.False(t, tr.Missing(0))

	require.NoError(t, tr.FillMissing(false))
	rep, err := tr.Solve(traj.DefaultFitConfig())
	require.NoError(t, err)
	assert.True(t, rep.Converged, "status %s", rep.Status)
}

func TestBuildTrajectoryTooFewNodes(t *testing.T) {
	t.Parallel()

	samples := []NodeSample{{Node: 1}}
	_, err := BuildTrajectory(samples, 1, 0)
	require.ErrorIs(t, err, traj.ErrTooFewBlocks)
}
