// Package sdfkernel implements the kernel interface on top of the
// github.com/deadsy/sdfx signed-distance-field CAD library. Sections are
// evaluated by meshing the intersection solid with marching cubes, so the
// results inherit the sampling resolution's failure modes: partial
// outlines near tangencies and axis-aligned degeneracies. Callers are
// expected to validate and retry.
package sdfkernel

import (
	"math"
	"sort"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/aukilabs/go-tooling/pkg/errors"

	"github.com/mastercactapus/zwrap/kernel"
)

// Compile-time interface check.
var _ kernel.Kernel = (*Kernel)(nil)

const (
	// exact and approximate marching-cubes resolutions
	defaultMeshCells = 120
	approxMeshCells  = 48
)

type sdfSolid struct {
	s sdf.SDF3
}

func (s *sdfSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfSolid).s
}

func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfSolid{s: s}
}

// Kernel implements kernel.Kernel using sdfx.
type Kernel struct {
	// MeshCells overrides the marching-cubes resolution when > 0.
	MeshCells int
}

// New returns a Kernel with default resolution.
func New() *Kernel {
	return &Kernel{}
}

// Wrap adapts an arbitrary sdf.SDF3 (a surface model assembled by the
// caller) into a kernel.Solid.
func Wrap(s sdf.SDF3) kernel.Solid {
	return wrap(s)
}

func (k *Kernel) Cylinder(radius, height float64) (kernel.Solid, error) {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, errors.New("building cylinder failed").Wrap(err)
	}
	return wrap(s), nil
}

func (k *Kernel) PolyCylinder(radius, height float64, segments int) (kernel.Solid, error) {
	pts := make([]v2.Vec, segments)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(segments)
		pts[i] = v2.Vec{X: radius * math.Cos(a), Y: radius * math.Sin(a)}
	}

	poly, err := sdf.Polygon2D(pts)
	if err != nil {
		return nil, errors.New("building polygon profile failed").Wrap(err)
	}
	return wrap(sdf.Extrude3D(poly, height)), nil
}

func (k *Kernel) RotateZ(s kernel.Solid, degrees float64) kernel.Solid {
	m := sdf.RotateZ(degrees * math.Pi / 180)
	return wrap(sdf.Transform3D(unwrap(s), m))
}

func (k *Kernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

func (k *Kernel) Section(tool, target kernel.Solid, approximate bool) (*kernel.Section, error) {
	inter := sdf.Intersect3D(unwrap(tool), unwrap(target))

	bb := inter.BoundingBox()
	if bb.Min.X > bb.Max.X || bb.Min.Y > bb.Max.Y || bb.Min.Z > bb.Max.Z {
		return nil, nil
	}

	cells := k.MeshCells
	if cells <= 0 {
		cells = defaultMeshCells
	}
	if approximate {
		cells = approxMeshCells
	}

	triangles := render.ToTriangles(inter, render.NewMarchingCubesUniform(cells))
	if len(triangles) == 0 {
		return nil, nil
	}

	sec := &kernel.Section{
		Min: [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)},
		Max: [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
	}

	hull := make([]v2.Vec, 0, len(triangles)*3)
	for _, tri := range triangles {
		for j := 0; j < 3; j++ {
			v := tri[j]
			sec.Min[0] = math.Min(sec.Min[0], v.X)
			sec.Min[1] = math.Min(sec.Min[1], v.Y)
			sec.Min[2] = math.Min(sec.Min[2], v.Z)
			sec.Max[0] = math.Max(sec.Max[0], v.X)
			sec.Max[1] = math.Max(sec.Max[1], v.Y)
			sec.Max[2] = math.Max(sec.Max[2], v.Z)
			hull = append(hull, v2.Vec{X: v.X, Y: v.Y})
		}
	}

	// the planar footprint perimeter stands in for the section outline
	// length: a fully engaged round tool projects to its full circle
	sec.Length = hullPerimeter(hull)

	return sec, nil
}

// hullPerimeter computes the perimeter of the 2D convex hull of pts
// (Andrew's monotone chain).
func hullPerimeter(pts []v2.Vec) float64 {
	if len(pts) < 2 {
		return 0
	}

	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})

	cross := func(o, a, b v2.Vec) float64 {
		return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
	}

	var lower, upper []v2.Vec
	for _, p := range pts {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}
	for i := len(pts) - 1; i >= 0; i-- {
		p := pts[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	hull := append(lower[:len(lower)-1], upper[:len(upper)-1]...)
	if len(hull) < 2 {
		return 0
	}

	var perim float64
	for i := range hull {
		next := hull[(i+1)%len(hull)]
		perim += math.Hypot(next.X-hull[i].X, next.Y-hull[i].Y)
	}
	return perim
}
