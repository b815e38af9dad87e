// Package kerneltest provides a deterministic in-memory kernel for tests:
// a rectangular slab with a flat top, plus failure injection to exercise
// the oracle's fallback chain.
package kerneltest

import (
	"math"

	"github.com/mastercactapus/zwrap/kernel"
)

type toolSolid struct {
	radius float64
	poly   bool
	x, y   float64
}

func (t *toolSolid) BoundingBox() (min, max [3]float64) {
	return [3]float64{t.x - t.radius, t.y - t.radius, -500},
		[3]float64{t.x + t.radius, t.y + t.radius, 500}
}

type slabSolid struct {
	minX, maxX, minY, maxY float64
	top, bottom            float64
}

func (s *slabSolid) BoundingBox() (min, max [3]float64) {
	return [3]float64{s.minX, s.minY, s.bottom},
		[3]float64{s.maxX, s.maxY, s.top}
}

// Kernel simulates sections against one flat-topped slab.
type Kernel struct {
	// FailFirst makes the first n Section calls of each query return no
	// result, forcing fallback retries.
	FailFirst int

	// ShortFirst makes the first n Section calls return a partial-length
	// outline (as if the backend found an incomplete section).
	ShortFirst int

	// HugeFirst makes the first n Section calls return absurd bounds.
	HugeFirst int

	// SectionCalls counts Section invocations.
	SectionCalls int
}

// Slab returns a solid with the given XY extent and top height.
func Slab(minX, maxX, minY, maxY, top float64) kernel.Solid {
	return &slabSolid{minX: minX, maxX: maxX, minY: minY, maxY: maxY, top: top, bottom: top - 10}
}

func (k *Kernel) Cylinder(radius, height float64) (kernel.Solid, error) {
	return &toolSolid{radius: radius}, nil
}

func (k *Kernel) PolyCylinder(radius, height float64, segments int) (kernel.Solid, error) {
	return &toolSolid{radius: radius, poly: true}, nil
}

func (k *Kernel) RotateZ(s kernel.Solid, degrees float64) kernel.Solid {
	return s
}

func (k *Kernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	t := *s.(*toolSolid)
	t.x += x
	t.y += y
	return &t
}

func (k *Kernel) Section(tool, target kernel.Solid, approximate bool) (*kernel.Section, error) {
	k.SectionCalls++

	t := tool.(*toolSolid)
	s := target.(*slabSolid)

	if k.FailFirst > 0 {
		k.FailFirst--
		return nil, nil
	}

	// circle/rect overlap: clamp center to the rect
	cx := math.Max(s.minX, math.Min(t.x, s.maxX))
	cy := math.Max(s.minY, math.Min(t.y, s.maxY))
	d := math.Hypot(t.x-cx, t.y-cy)
	if d >= t.radius {
		return nil, nil
	}

	sec := &kernel.Section{
		Min: [3]float64{t.x - t.radius, t.y - t.radius, s.top},
		Max: [3]float64{t.x + t.radius, t.y + t.radius, s.top},
	}

	sec.Length = 2 * math.Pi * t.radius
	inside := t.x-t.radius >= s.minX && t.x+t.radius <= s.maxX &&
		t.y-t.radius >= s.minY && t.y+t.radius <= s.maxY
	if !inside {
		// overhanging an edge yields a partial outline
		sec.Length /= 2
	}

	if k.ShortFirst > 0 {
		k.ShortFirst--
		sec.Length = sec.Length / 4
	}
	if k.HugeFirst > 0 {
		k.HugeFirst--
		sec.Max[2] = 1e7
	}

	return sec, nil
}
