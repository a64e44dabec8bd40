package cloud

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type renameFilter struct {
	name string
	err  error
}

func (f *renameFilter) Name() string { return f.name }

func (f *renameFilter) Filter(v *View) error {
	if f.err != nil {
		return f.err
	}
	for i := range v.Points {
		v.Points[i].Classification = 1
	}
	return nil
}

func TestViewBounds(t *testing.T) {
	t.Parallel()

	v := &View{}
	_, ok := v.Bounds()
	assert.False(t, ok, "empty view has no bounds")

	v.Points = []Point{
		{X: 1, Y: -2, Z: 5},
		{X: -3, Y: 4, Z: 0},
		{X: 2, Y: 0, Z: -1},
	}
	b, ok := v.Bounds()
	require.True(t, ok)
	assert.Equal(t, Bounds{MinX: -3, MinY: -2, MinZ: -1, MaxX: 2, MaxY: 4, MaxZ: 5}, b)
}

func TestRunAppliesFiltersInOrder(t *testing.T) {
	t.Parallel()

	v := &View{Points: []Point{{}, {}}}
	require.NoError(t, Run(v, &renameFilter{name: "a"}))
	assert.Equal(t, uint8(1), v.Points[0].Classification)
}

func TestRunStopsAtFirstError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	v := &View{Points: []Point{{}}}
	err := Run(v, &renameFilter{name: "bad", err: boom}, &renameFilter{name: "never"})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "bad")
	assert.Equal(t, uint8(0), v.Points[0].Classification, "later filters must not run")
}
