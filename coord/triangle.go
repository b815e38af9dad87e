package coord

import (
	"math"
)

const (
	// Epsilon is the max error when checking containment and
	// approximate equality.
	Epsilon   = 0.001
	epsilonSq = Epsilon * Epsilon
)

// Triangle is three points treated as a facet of a sampled surface.
type Triangle struct{ A, B, C Point }

// ContainsXY returns true if the triangle's 2D projection contains the
// point x,y. Points within Epsilon of an edge count as contained.
func (t Triangle) ContainsXY(x, y float64) bool {
	return accuratePointInTriangle(
		t.A.X, t.A.Y,
		t.B.X, t.B.Y,
		t.C.X, t.C.Y,
		x, y)
}

// Z gives the Z-coordinate of the plane defined by the triangle at x,y.
// Undefined for triangles whose projection is degenerate.
func (t Triangle) Z(x, y float64) float64 {
	ac := t.C.Sub(t.A)
	ab := t.B.Sub(t.A)

	cp := ac.Cross(ab)
	a, b, c := cp.X, cp.Y, cp.Z

	d := cp.Dot(t.C)

	return (d - a*x - b*y) / c
}

// adapted from https://totologic.blogspot.com/2014/01/accurate-point-in-triangle-test.html

func side(x1, y1, x2, y2, x, y float64) float64 {
	return (y2-y1)*(x-x1) + (-x2+x1)*(y-y1)
}

func naivePointInTriangle(x1, y1, x2, y2, x3, y3, x, y float64) bool {
	return side(x1, y1, x2, y2, x, y) >= 0 &&
		side(x2, y2, x3, y3, x, y) >= 0 &&
		side(x3, y3, x1, y1, x, y) >= 0
}

func pointInTriangleBoundingBox(x1, y1, x2, y2, x3, y3, x, y float64) bool {
	xMin := math.Min(x1, math.Min(x2, x3)) - Epsilon
	xMax := math.Max(x1, math.Max(x2, x3)) + Epsilon
	yMin := math.Min(y1, math.Min(y2, y3)) - Epsilon
	yMax := math.Max(y1, math.Max(y2, y3)) + Epsilon

	return x >= xMin && x <= xMax && y >= yMin && y <= yMax
}

func distanceSquarePointToSegment(x1, y1, x2, y2, x, y float64) float64 {
	p1p2squareLength := (x2-x1)*(x2-x1) + (y2-y1)*(y2-y1)
	if p1p2squareLength == 0 {
		// zero-length edge, triangulators emit these for duplicate input
		return (x-x1)*(x-x1) + (y-y1)*(y-y1)
	}
	dotProduct := ((x-x1)*(x2-x1) + (y-y1)*(y2-y1)) / p1p2squareLength
	if dotProduct < 0 {
		return (x-x1)*(x-x1) + (y-y1)*(y-y1)
	}
	if dotProduct <= 1 {
		p0p1squareLength := (x1-x)*(x1-x) + (y1-y)*(y1-y)
		return p0p1squareLength - dotProduct*dotProduct*p1p2squareLength
	}

	return (x-x2)*(x-x2) + (y-y2)*(y-y2)
}

func accuratePointInTriangle(x1, y1, x2, y2, x3, y3, x, y float64) bool {
	if !pointInTriangleBoundingBox(x1, y1, x2, y2, x3, y3, x, y) {
		return false
	}

	if naivePointInTriangle(x1, y1, x2, y2, x3, y3, x, y) {
		return true
	}
	if distanceSquarePointToSegment(x1, y1, x2, y2, x, y) <= epsilonSq {
		return true
	}
	if distanceSquarePointToSegment(x2, y2, x3, y3, x, y) <= epsilonSq {
		return true
	}
	return distanceSquarePointToSegment(x3, y3, x1, y1, x, y) <= epsilonSq
}
