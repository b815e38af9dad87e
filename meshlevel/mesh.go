// Package meshlevel builds a fast approximate surface from accumulated
// height samples by Delaunay triangulation. It serves as a cheap estimate
// for sanity-checking projected paths; the authoritative heights always
// come from the section-based oracle.
package meshlevel

import (
	"math"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/fogleman/delaunay"

	"github.com/mastercactapus/zwrap/coord"
)

// Mesh is a triangulated estimate of the sampled surface.
type Mesh struct {
	minX, minY, maxX, maxY float64
	triangles              []coord.Triangle
}

// FromSamples triangulates the given height samples. At least three
// non-collinear samples are required.
func FromSamples(points []coord.Point) (*Mesh, error) {
	if len(points) < 3 {
		return nil, errors.New("need at least 3 samples to build a mesh").
			WithTag("samples", len(points))
	}

	points2d := make([]delaunay.Point, len(points))
	m := make(map[delaunay.Point]coord.Point, len(points))

	mesh := &Mesh{
		minX: points[0].X,
		minY: points[0].Y,
		maxX: points[0].X,
		maxY: points[0].Y,
	}
	var d delaunay.Point
	for i, p := range points {
		mesh.minX = math.Min(mesh.minX, p.X)
		mesh.minY = math.Min(mesh.minY, p.Y)
		mesh.maxX = math.Max(mesh.maxX, p.X)
		mesh.maxY = math.Max(mesh.maxY, p.Y)

		d.X = p.X
		d.Y = p.Y
		m[d] = p
		points2d[i] = d
	}
	mesh.minX -= coord.Epsilon
	mesh.minY -= coord.Epsilon
	mesh.maxX += coord.Epsilon
	mesh.maxY += coord.Epsilon

	tri, err := delaunay.Triangulate(points2d)
	if err != nil {
		return nil, errors.New("triangulating height samples failed").Wrap(err)
	}

	mesh.triangles = make([]coord.Triangle, 0, len(tri.Triangles)/3)

	for i := 0; i < len(tri.Triangles); i += 3 {
		mesh.triangles = append(mesh.triangles, coord.Triangle{
			A: m[tri.Points[tri.Triangles[i]]],
			B: m[tri.Points[tri.Triangles[i+1]]],
			C: m[tri.Points[tri.Triangles[i+2]]],
		})
	}

	return mesh, nil
}

// HeightAt returns the estimated surface height at (x,y), interpolated on
// the triangle containing the point. ok is false outside the sampled
// region.
func (m *Mesh) HeightAt(x, y float64) (bool, float64) {
	if x < m.minX || m.maxX < x || y < m.minY || m.maxY < y {
		return false, 0
	}
	for _, t := range m.triangles {
		if !t.ContainsXY(x, y) {
			continue
		}
		return true, t.Z(x, y)
	}

	return false, 0
}
