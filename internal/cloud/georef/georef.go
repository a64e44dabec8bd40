// Package georef rewrites sensor-relative point coordinates into the
// world frame using a fitted platform trajectory: each point's timestamp
// is looked up on the trajectory to recover the platform pose at the
// moment the point was captured.
package georef

import (
	"fmt"
	"math"

	"github.com/flaxengeo/lidartraj/internal/cloud"
	"github.com/flaxengeo/lidartraj/internal/traj"
)

// Config controls the georeferencing stage.
type Config struct {
	// HeadingFromVelocity rotates each point about Z by the platform's
	// course (atan2 of the horizontal velocity) before translating, so
	// sensor X stays aligned with the direction of travel. When false
	// points are only translated.
	HeadingFromVelocity bool
}

// DefaultConfig returns the configuration used by the CLI.
func DefaultConfig() Config {
	return Config{HeadingFromVelocity: true}
}

// Filter is the trajectory-correction stage.
type Filter struct {
	tr  *traj.Trajectory
	cfg Config
}

// New returns a georeferencing filter over the given fitted trajectory.
func New(tr *traj.Trajectory, cfg Config) *Filter {
	return &Filter{tr: tr, cfg: cfg}
}

// Name implements cloud.Filter.
func (f *Filter) Name() string { return "filters.georef" }

// Filter implements cloud.Filter. Timestamps outside the fitted range
// extrapolate along the trajectory's boundary blocks; NaN timestamps are
// an error.
func (f *Filter) Filter(v *cloud.View) error {
	for i := range v.Points {
		p := &v.Points[i]
		if math.IsNaN(p.GpsTime) {
			return fmt.Errorf("point %d has NaN timestamp", i)
		}
		pos, vel, err := f.tr.PositionVelocity(p.GpsTime)
		if err != nil {
			return fmt.Errorf("point %d at t=%g: %w", i, p.GpsTime, err)
		}

		x, y, z := p.X, p.Y, p.Z
		if f.cfg.HeadingFromVelocity {
			if heading := math.Atan2(vel[1], vel[0]); heading != 0 {
				s, c := math.Sincos(heading)
				x, y = c*x-s*y, s*x+c*y
			}
		}
		p.X = pos[0] + x
		p.Y = pos[1] + y
		p.Z = pos[2] + z
	}
	return nil
}
