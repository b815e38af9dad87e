package surface

import (
	"math"

	"github.com/aukilabs/go-tooling/pkg/logs"

	"github.com/mastercactapus/zwrap/cache"
	"github.com/mastercactapus/zwrap/coord"
	"github.com/mastercactapus/zwrap/kernel"
	"github.com/mastercactapus/zwrap/quadtree"
)

const (
	// toolHeight makes the synthetic tool volume tall enough to overlap
	// any reasonable stock.
	toolHeight = 1000

	polySegments = 32

	// boundSanity rejects sections with absurd extents, a known
	// intersection-backend defect.
	boundSanity = 1e6

	// fullLengthRatio is the fraction of the tool circumference a section
	// outline must reach to count as a full engagement.
	fullLengthRatio = 0.98
)

// attempt is one fallback strategy for the fragile section primitive.
// Rotation and polygon approximation perturb the problem out of
// degenerate configurations without changing the answer for a
// rotationally symmetric tool.
type attempt struct {
	rotateZ     float64
	approximate bool
	perFace     bool
	polyTool    bool
	lengthCheck bool
}

// attempts are tried in order until one validates: safe exact sections
// first, then approximation, then per-face and polygonal-tool hacks.
var attempts = []attempt{
	{lengthCheck: true},
	{rotateZ: 180, lengthCheck: true},
	{rotateZ: 45, lengthCheck: true},

	{approximate: true},
	{rotateZ: 180, approximate: true},

	{perFace: true},
	{polyTool: true},
	{perFace: true, polyTool: true},
}

// Oracle answers tool contact height queries, caching results in a
// spatial index backed by the persistent store. Not safe for concurrent
// use; the host serializes recomputation.
type Oracle struct {
	Kernel kernel.Kernel
	Model  *Model

	// ToolRadius is the flat-endmill radius.
	ToolRadius float64

	// GridTol is the cache-hit tolerance radius.
	GridTol float64

	Index *quadtree.Tree
	Store *cache.Store
}

// HeightAt returns the Z at which the tool contacts the surface at (x,y),
// or ok=false when no intersection is found after all fallback
// strategies. Successful results are appended to both the live index and
// the persistent store.
func (o *Oracle) HeightAt(x, y float64) (z float64, ok bool) {
	if p, dist, found := o.Index.Nearest(x, y); found && dist <= o.GridTol {
		return p.Z, true
	}

	z, ok = o.intersect(x, y)
	if !ok {
		return 0, false
	}

	p := coord.Point{X: x, Y: y, Z: z}
	o.Store.Append(p)
	if !o.Index.Insert(p) {
		// index was sized from geometry bounds; a query outside them
		// still yields a valid answer, it just won't be cached
		logs.WithTag("x", x).WithTag("y", y).
			Warn("height sample outside index bounds, not cached")
	}
	return z, true
}

// intersect runs the fallback chain. The max Z across all non-null
// results (validated or not) is kept as a best guess: if every strategy
// fails validation but some produced output, that guess is returned as a
// best-effort answer.
func (o *Oracle) intersect(x, y float64) (float64, bool) {
	bestGuess := math.Inf(-1)
	var haveGuess bool

	for i, a := range attempts {
		z, guessed, valid := o.tryAttempt(a, x, y)
		if guessed && z > bestGuess {
			bestGuess = z
			haveGuess = true
		}

		if valid {
			if i > 0 {
				logs.WithTag("x", x).WithTag("y", y).WithTag("attempt", i).
					Debug("section succeeded after retries")
			}
			return bestGuess, true
		}
	}

	if haveGuess {
		logs.WithTag("x", x).WithTag("y", y).WithTag("z", bestGuess).
			Warn("all section strategies failed validation, using best observed height")
		return bestGuess, true
	}
	return 0, false
}

// tryAttempt evaluates one strategy. guessed reports a usable Z bound
// even when validation failed; valid reports full success.
func (o *Oracle) tryAttempt(a attempt, x, y float64) (z float64, guessed, valid bool) {
	tool, err := o.buildTool(a, x, y)
	if err != nil {
		logs.Warn(err)
		return 0, false, false
	}

	if !a.perFace {
		sec, err := o.Kernel.Section(tool, o.Model.Merged, a.approximate)
		if err != nil || sec == nil {
			return 0, false, false
		}
		if !saneBounds(sec) {
			return 0, false, false
		}
		if a.lengthCheck && !o.fullLength(sec.Length) {
			return sec.Max[2], true, false
		}
		return sec.Max[2], true, true
	}

	// per-face: most faces won't collide, that is not a failure
	var total float64
	zmax := math.Inf(-1)
	var any bool
	for _, f := range o.Model.Faces {
		sec, err := o.Kernel.Section(tool, f.Solid, a.approximate)
		if err != nil || sec == nil {
			continue
		}
		if !saneBounds(sec) {
			continue
		}
		total += sec.Length
		zmax = math.Max(zmax, sec.Max[2])
		any = true
	}
	if !any {
		return 0, false, false
	}
	if a.lengthCheck && !o.fullLength(total) {
		return zmax, true, false
	}
	return zmax, true, true
}

func (o *Oracle) buildTool(a attempt, x, y float64) (kernel.Solid, error) {
	var tool kernel.Solid
	var err error
	if a.polyTool {
		tool, err = o.Kernel.PolyCylinder(o.ToolRadius, toolHeight, polySegments)
	} else {
		tool, err = o.Kernel.Cylinder(o.ToolRadius, toolHeight)
	}
	if err != nil {
		return nil, err
	}

	if a.rotateZ != 0 {
		tool = o.Kernel.RotateZ(tool, a.rotateZ)
	}
	return o.Kernel.Translate(tool, x, y, 0), nil
}

func (o *Oracle) fullLength(length float64) bool {
	return length >= 2*math.Pi*o.ToolRadius*fullLengthRatio
}

func saneBounds(sec *kernel.Section) bool {
	for i := 0; i < 3; i++ {
		if math.Abs(sec.Min[i]) > boundSanity || math.Abs(sec.Max[i]) > boundSanity {
			return false
		}
	}
	return true
}
