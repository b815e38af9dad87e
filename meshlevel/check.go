package meshlevel

import (
	"math"

	"github.com/mastercactapus/zwrap/coord"
	"github.com/mastercactapus/zwrap/toolpath"
)

// Estimator answers approximate surface heights.
type Estimator interface {
	HeightAt(x, y float64) (bool, float64)
}

// Check walks a projected command list and counts points whose Z deviates
// from the estimated surface by more than tolerance. It only inspects
// fully specified straight moves at or below the estimate region; points
// outside the sampled region are skipped. A non-zero count flags the path
// for review, it is not an error.
func Check(commands []toolpath.Command, est Estimator, tolerance float64) int {
	var deviations int
	var cur coord.Point

	for _, c := range commands {
		cur.X = c.X.Or(cur.X)
		cur.Y = c.Y.Or(cur.Y)
		cur.Z = c.Z.Or(cur.Z)

		if c.Kind != toolpath.Straight || !c.HasAxis() {
			continue
		}

		ok, want := est.HeightAt(cur.X, cur.Y)
		if !ok {
			continue
		}
		if cur.Z < want && math.Abs(cur.Z-want) > tolerance {
			deviations++
		}
	}

	return deviations
}
