package traj

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlockIndex(t *testing.T) {
	t.Parallel()

	// tblock=1, tstart=0, num=5.
	tests := []struct {
		name   string
		t      float64
		wantI  int
		wantTf float64
	}{
		{"far before start clamps to first block", -10, 0, -10.5},
		{"interior midpoint", 2.5, 2, 0.0},
		{"start of range", 0, 0, -0.5},
		{"end of range clamps to last block", 5, 4, 0.5},
		{"far after end clamps to last block", 12, 4, 7.5},
		{"block boundary maps to following block", 3, 3, -0.5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			i, tf := blockIndex(tc.t, 1, 0, 5)
			assert.Equal(t, tc.wantI, i)
			assert.InDelta(t, tc.wantTf, tf, 1e-12)
		})
	}
}

func TestBlockIndexScaledGrid(t *testing.T) {
	t.Parallel()

	// tblock=0.5, tstart=10, num=4: blocks cover [10, 12).
	i, tf := blockIndex(10.75, 0.5, 10, 4)
	assert.Equal(t, 1, i)
	assert.InDelta(t, 0.0, tf, 1e-12)

	i, tf = blockIndex(9.0, 0.5, 10, 4)
	assert.Equal(t, 0, i)
	assert.InDelta(t, -2.5, tf, 1e-12)
}
