package stepdown

import (
	"math"

	"github.com/mastercactapus/zwrap/coord"
)

// Feeds are the machine feed limits, in units/min.
type Feeds struct {
	Horiz, Vert           float64
	HorizRapid, VertRapid float64
}

// InterpolateFeed computes the linear feed for a move from p0 to p1 such
// that the downward vertical component never exceeds vFeed, and subject
// to that, the horizontal component gets as close to hFeed as the descent
// limit allows. Upward moves are not limited by vFeed.
func InterpolateFeed(p0, p1 coord.Point, hFeed, vFeed float64) float64 {
	dx := p1.X - p0.X
	dy := p1.Y - p0.Y
	dz := p1.Z - p0.Z

	distXY := math.Hypot(dx, dy)
	dist := math.Sqrt(dx*dx + dy*dy + dz*dz)

	if coord.Roughly(dist, 0) {
		// zero-length move
		return vFeed
	}

	if coord.Roughly(distXY, 0) {
		if dz > 0 {
			return hFeed // upward: fast
		}
		return vFeed // downward: capped
	}
	if coord.Roughly(dz, 0) {
		return hFeed
	}

	fh := hFeed * dist / distXY
	if dz > 0 {
		// ascending diagonal, no vertical cap
		return fh
	}
	fv := vFeed * dist / math.Abs(dz)
	return math.Min(fh, fv)
}
