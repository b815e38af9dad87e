package toolpath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mastercactapus/zwrap/coord"
)

func TestDiscretize_Classify(t *testing.T) {
	cmds := []Command{
		{Kind: Other, Name: "M3"},
		Move(10, 0, 0),
		Move(10, 0, 5),
		{Kind: Straight, X: Set(0)}, // inherits z=5
		{Kind: Straight, Z: Set(0)},
	}

	segs := Discretize(cmds, coord.Point{}, 1, 0.1)
	assert.Len(t, segs, 5)

	assert.Equal(t, NonMotion, segs[0].Kind)
	assert.Equal(t, OnPlane, segs[1].Kind)
	assert.Equal(t, Elevated, segs[2].Kind)
	assert.Equal(t, Elevated, segs[3].Kind)
	assert.Equal(t, OnPlane, segs[4].Kind)
}

func TestDiscretize_LineSampling(t *testing.T) {
	segs := Discretize([]Command{Move(10, 0, 0)}, coord.Point{}, 1, 0.1)
	assert.Len(t, segs, 1)
	assert.Len(t, segs[0].Points, 10)

	assert.Equal(t, coord.Point{X: 1}, segs[0].Points[0])
	assert.Equal(t, coord.Point{X: 10}, segs[0].Points[9])

	// spacing shorter than the move still yields the endpoint
	segs = Discretize([]Command{Move(0.25, 0, 0)}, coord.Point{}, 1, 0.1)
	assert.Equal(t, []coord.Point{{X: 0.25}}, segs[0].Points)
}

func TestDiscretize_DegenerateMove(t *testing.T) {
	// feed-only command with no displacement
	segs := Discretize([]Command{{Kind: Straight, F: Set(200)}}, coord.Point{}, 1, 0.1)
	assert.Len(t, segs, 1)
	assert.Empty(t, segs[0].Points)
}

func TestDiscretize_CursorTracking(t *testing.T) {
	cmds := []Command{
		{Kind: Straight, X: Set(10)},          // y, z inherited
		{Kind: Straight, Y: Set(10)},          // x=10 inherited
		{Kind: Straight, X: Set(0), Y: Set(0)}, // diagonal back
	}
	segs := Discretize(cmds, coord.Point{Z: 2}, 100, 0.1)

	assert.Equal(t, coord.Point{X: 10, Z: 2}, segs[0].Points[0])
	assert.Equal(t, coord.Point{X: 10, Y: 10, Z: 2}, segs[1].Points[0])
	assert.Equal(t, coord.Point{Z: 2}, segs[2].Points[0])
}

func TestDiscretize_Arc(t *testing.T) {
	// quarter circle, radius 10, ccw from (10,0) to (0,10) around origin
	cmds := []Command{{
		Kind: Arc,
		X:    Set(0), Y: Set(10), Z: Set(0),
		I: -10, J: 0,
	}}
	segs := Discretize(cmds, coord.Point{X: 10}, 1, 0.05)
	assert.Len(t, segs, 1)

	pts := segs[0].Points
	assert.True(t, len(pts) > 4)

	// all samples stay on the circle
	for _, p := range pts {
		r := math.Hypot(p.X, p.Y)
		assert.InDelta(t, 10.0, r, 1e-9)
	}
	assert.Equal(t, coord.Point{Y: 10}, pts[len(pts)-1])

	// chord deviation stays within tolerance
	prev := coord.Point{X: 10}
	for _, p := range pts {
		mid := prev.Add(p).Div(2)
		dev := 10.0 - math.Hypot(mid.X, mid.Y)
		assert.Less(t, dev, 0.05+1e-9)
		prev = p
	}
}

func TestDiscretize_FullCircle(t *testing.T) {
	cmds := []Command{{
		Kind: Arc,
		X:    Set(10), Y: Set(0),
		I: -10, J: 0, Clockwise: true,
	}}
	segs := Discretize(cmds, coord.Point{X: 10}, 1, 0.1)

	pts := segs[0].Points
	assert.True(t, len(pts) >= 8)
	last := pts[len(pts)-1]
	assert.InDelta(t, 10.0, last.X, 1e-9)
	assert.InDelta(t, 0.0, last.Y, 1e-9)
}

func TestDiscretize_HelicalArc(t *testing.T) {
	cmds := []Command{{
		Kind: Arc,
		X:    Set(-10), Y: Set(0), Z: Set(4),
		I: -10, J: 0,
	}}
	segs := Discretize(cmds, coord.Point{X: 10}, 1, 0.1)

	pts := segs[0].Points
	assert.Equal(t, 4.0, pts[len(pts)-1].Z)

	// z rises monotonically along the helix
	prev := 0.0
	for _, p := range pts {
		assert.GreaterOrEqual(t, p.Z, prev)
		prev = p.Z
	}
}
