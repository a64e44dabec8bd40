package traj

// FillMissing assigns position and velocity values to every node flagged
// missing so the solver has a complete initial state. The missing flags
// themselves are left untouched; the fit driver uses them to decide which
// continuity constraint to wire at each boundary.
//
// With linearFit false, interior gaps are interpolated between the nearest
// observed node on each side and end gaps are extrapolated from the
// nearest pair of observed nodes. With linearFit true a single
// least-squares line through all observed nodes is used instead, which is
// more robust when the observed nodes are themselves noisy.
//
// Returns ErrNoObservedNodes when every node is missing.
func (tr *Trajectory) FillMissing(linearFit bool) error {
	known := make([]int, 0, tr.num+1)
	for i, m := range tr.missing {
		if !m {
			known = append(known, i)
		}
	}
	if len(known) == 0 {
		return ErrNoObservedNodes
	}

	if linearFit || len(known) == 1 {
		tr.fillFromLine(known)
	} else {
		tr.fillLocal(known)
	}
	if tr.state == stateUnbuilt {
		tr.state = stateFilled
	}
	return nil
}

// fillFromLine fills missing nodes from a per-axis least-squares line
// through the observed node positions. With a single observed node the
// line degenerates to a constant with that node's velocity as slope.
func (tr *Trajectory) fillFromLine(known []int) {
	var slope, intercept Vec
	if len(known) == 1 {
		k := known[0]
		intercept = tr.r[k].Sub(tr.v[k].Scale(float64(k)))
		slope = tr.v[k]
	} else {
		// Regression of position against node index, one axis at a time.
		n := float64(len(known))
		var sumX, sumX2 float64
		var sumY, sumXY Vec
		for _, k := range known {
			x := float64(k)
			sumX += x
			sumX2 += x * x
			sumY = sumY.Add(tr.r[k])
			sumXY = sumXY.Add(tr.r[k].Scale(x))
		}
		denom := n*sumX2 - sumX*sumX
		slope = sumXY.Scale(n).Sub(sumY.Scale(sumX)).Scale(1 / denom)
		intercept = sumY.Sub(slope.Scale(sumX)).Scale(1 / n)
	}
	for i := range tr.missing {
		if !tr.missing[i] {
			continue
		}
		tr.r[i] = intercept.Add(slope.Scale(float64(i)))
		tr.v[i] = slope
	}
}

// fillLocal interpolates each missing node between its nearest observed
// neighbours, or extrapolates from the nearest observed pair at the ends.
func (tr *Trajectory) fillLocal(known []int) {
	first, last := known[0], known[len(known)-1]

	for i := range tr.missing {
		if !tr.missing[i] {
			continue
		}
		switch {
		case i < first:
			// Leading gap: extrapolate from the first two observed nodes.
			k0, k1 := known[0], known[1]
			tr.lerpNode(i, k0, k1)
		case i > last:
			// Trailing gap: extrapolate from the last two observed nodes.
			k0, k1 := known[len(known)-2], known[len(known)-1]
			tr.lerpNode(i, k0, k1)
		default:
			// Interior gap: nearest observed node on each side.
			lo, hi := first, last
			for _, k := range known {
				if k < i {
					lo = k
				} else {
					hi = k
					break
				}
			}
			tr.lerpNode(i, lo, hi)
		}
	}
}

// lerpNode sets node i on the line through observed nodes k0 and k1.
// The slope doubles as the filled per-block velocity.
func (tr *Trajectory) lerpNode(i, k0, k1 int) {
	slope := tr.r[k1].Sub(tr.r[k0]).Scale(1 / float64(k1-k0))
	tr.r[i] = tr.r[k0].Add(slope.Scale(float64(i - k0)))
	tr.v[i] = slope
}
