package toolpath

import (
	"math"

	"github.com/mastercactapus/zwrap/coord"
)

// SegmentKind classifies a discretized segment for projection.
type SegmentKind int

const (
	// OnPlane means the move is on the XY reference plane (z ~= 0) and is
	// subject to surface height lookup.
	OnPlane SegmentKind = iota
	// Elevated means the move is above the reference plane and is shifted
	// to the stock top instead of re-queried.
	Elevated
	// NonMotion means the command does not move the tool.
	NonMotion
)

func (k SegmentKind) String() string {
	switch k {
	case OnPlane:
		return "on-plane"
	case Elevated:
		return "elevated"
	case NonMotion:
		return "non-motion"
	}
	return "unknown"
}

// Segment pairs a source command with its sampled points. Points may be
// empty for non-motion or degenerate commands, in which case the raw
// command is passed through projection unchanged.
type Segment struct {
	Kind    SegmentKind
	Command Command
	Points  []coord.Point
}

// Discretize converts a motion program into classified, sampled segments.
// Lines are sampled every sampleDist, arcs by maximum deviation
// deflection from the true curve. The tracked position updates from each
// command's explicit axes only. Output order equals input order.
func Discretize(commands []Command, start coord.Point, sampleDist, deflection float64) []Segment {
	cur := start
	segments := make([]Segment, 0, len(commands))

	for _, c := range commands {
		var kind SegmentKind
		switch {
		case !c.IsMotion():
			kind = NonMotion
		case coord.Roughly(c.Z.Or(cur.Z), 0):
			kind = OnPlane
		default:
			kind = Elevated
		}

		if c.IsMotion() {
			target := coord.Point{
				X: c.X.Or(cur.X),
				Y: c.Y.Or(cur.Y),
				Z: c.Z.Or(cur.Z),
			}

			var points []coord.Point
			if c.Kind == Arc {
				points = sampleArc(cur, target, c, deflection)
			} else {
				points = sampleLine(cur, target, sampleDist)
			}
			segments = append(segments, Segment{Kind: kind, Command: c, Points: points})
		} else {
			segments = append(segments, Segment{Kind: NonMotion, Command: c})
		}

		cur.X = c.X.Or(cur.X)
		cur.Y = c.Y.Or(cur.Y)
		cur.Z = c.Z.Or(cur.Z)
	}

	return segments
}

func sampleLine(from, to coord.Point, sampleDist float64) []coord.Point {
	dist := from.Distance(to)
	if coord.Roughly(dist, 0) {
		// degenerate move, maybe only a feed change
		return nil
	}
	if sampleDist <= 0 {
		return []coord.Point{to}
	}

	n := int(math.Ceil(dist / sampleDist))
	if n < 1 {
		n = 1
	}
	return from.Split(to, n)
}

// sampleArc samples an XY-plane arc (with linear Z interpolation) so the
// chords never deviate more than deflection from the true curve.
func sampleArc(from, to coord.Point, c Command, deflection float64) []coord.Point {
	center := coord.Point{X: from.X + c.I, Y: from.Y + c.J}
	r := center.DistanceXY(from.X, from.Y)
	if coord.Roughly(r, 0) {
		return nil
	}

	a0 := math.Atan2(from.Y-center.Y, from.X-center.X)
	a1 := math.Atan2(to.Y-center.Y, to.X-center.X)

	sweep := a1 - a0
	if c.Clockwise {
		for sweep >= 0 {
			sweep -= 2 * math.Pi
		}
	} else {
		for sweep <= 0 {
			sweep += 2 * math.Pi
		}
	}
	// coincident endpoints mean a full circle
	if from.EqualXY(to) {
		if c.Clockwise {
			sweep = -2 * math.Pi
		} else {
			sweep = 2 * math.Pi
		}
	}

	// max chord angle for the deflection tolerance:
	// deflection = r * (1 - cos(step/2))
	var step float64
	if deflection <= 0 || deflection >= r {
		step = math.Pi / 4
	} else {
		step = 2 * math.Acos(1-deflection/r)
	}

	n := int(math.Ceil(math.Abs(sweep) / step))
	if n < 1 {
		n = 1
	}

	points := make([]coord.Point, n)
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		a := a0 + sweep*t
		points[i-1] = coord.Point{
			X: center.X + r*math.Cos(a),
			Y: center.Y + r*math.Sin(a),
			Z: from.Z + (to.Z-from.Z)*t,
		}
	}
	// land exactly on the commanded endpoint
	if !from.EqualXY(to) {
		points[n-1] = to
	}
	return points
}
