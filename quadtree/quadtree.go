// Package quadtree implements an adaptive region quadtree over sampled
// (x, y, z) surface heights. It backs the nearest-neighbor cache used to
// avoid recomputing expensive surface intersections.
package quadtree

import (
	"math"

	"github.com/mastercactapus/zwrap/coord"
)

// DefaultCapacity is the per-node bucket size before subdivision.
const DefaultCapacity = 8

type node struct {
	xmin, xmax, ymin, ymax float64
	capacity               int

	points   []coord.Point
	children []*node // nil, or exactly 4: NW, NE, SW, SE
}

func (n *node) contains(x, y float64) bool {
	return n.xmin <= x && x <= n.xmax && n.ymin <= y && y <= n.ymax
}

func (n *node) subdivide() {
	mx := 0.5 * (n.xmin + n.xmax)
	my := 0.5 * (n.ymin + n.ymax)
	n.children = []*node{
		{xmin: n.xmin, xmax: mx, ymin: my, ymax: n.ymax, capacity: n.capacity},
		{xmin: mx, xmax: n.xmax, ymin: my, ymax: n.ymax, capacity: n.capacity},
		{xmin: n.xmin, xmax: mx, ymin: n.ymin, ymax: my, capacity: n.capacity},
		{xmin: mx, xmax: n.xmax, ymin: n.ymin, ymax: my, capacity: n.capacity},
	}
}

func (n *node) insert(p coord.Point) bool {
	if !n.contains(p.X, p.Y) {
		return false
	}

	if n.children == nil {
		if len(n.points) < n.capacity {
			n.points = append(n.points, p)
			return true
		}

		n.subdivide()

		// move existing points into children
		pts := n.points
		n.points = nil
		for _, old := range pts {
			var inserted bool
			for _, ch := range n.children {
				if ch.insert(old) {
					inserted = true
					break
				}
			}
			if !inserted {
				// point exactly on a boundary may miss every child;
				// keep it here
				n.points = append(n.points, old)
			}
		}
	}

	for _, ch := range n.children {
		if ch.insert(p) {
			return true
		}
	}

	// numerical boundary case, keep in this node
	n.points = append(n.points, p)
	return true
}

// minDistSq is the minimal possible squared distance from (x,y) to the
// node's region.
func (n *node) minDistSq(x, y float64) float64 {
	var dx, dy float64
	if x < n.xmin {
		dx = n.xmin - x
	} else if x > n.xmax {
		dx = x - n.xmax
	}
	if y < n.ymin {
		dy = n.ymin - y
	} else if y > n.ymax {
		dy = y - n.ymax
	}
	return dx*dx + dy*dy
}

type best struct {
	distSq float64
	point  coord.Point
	ok     bool
}

func (n *node) nearest(x, y float64, b best) best {
	if b.ok && n.minDistSq(x, y) >= b.distSq {
		// subtree cannot contain a closer point
		return b
	}

	for _, p := range n.points {
		dx := p.X - x
		dy := p.Y - y
		d2 := dx*dx + dy*dy
		if !b.ok || d2 < b.distSq {
			b = best{distSq: d2, point: p, ok: true}
		}
	}

	if n.children == nil {
		return b
	}

	// visit children closest-first to improve pruning
	order := [4]int{0, 1, 2, 3}
	var dist [4]float64
	for i, ch := range n.children {
		dist[i] = ch.minDistSq(x, y)
	}
	for i := 1; i < 4; i++ {
		for j := i; j > 0 && dist[order[j]] < dist[order[j-1]]; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}

	for _, i := range order {
		b = n.children[i].nearest(x, y, b)
	}
	return b
}

// Tree stores (x, y, z) height samples and answers planar
// nearest-neighbor queries. Append-only; it is rebuilt wholesale from the
// persisted cache at the start of each computation.
type Tree struct {
	root *node
}

// New creates a tree covering [xmin,xmax]x[ymin,ymax]. Degenerate bounds
// are expanded by 1 unit to keep the region well-formed.
func New(xmin, xmax, ymin, ymax float64) *Tree {
	return NewWithCapacity(xmin, xmax, ymin, ymax, DefaultCapacity)
}

func NewWithCapacity(xmin, xmax, ymin, ymax float64, capacity int) *Tree {
	if xmax <= xmin {
		xmax = xmin + 1
	}
	if ymax <= ymin {
		ymax = ymin + 1
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Tree{root: &node{
		xmin: xmin, xmax: xmax,
		ymin: ymin, ymax: ymax,
		capacity: capacity,
	}}
}

// FromPoints builds a tree sized to the bounding box of points, padded by
// padding on each side, or by 1% of the extent when padding <= 0. Returns
// nil for an empty point list.
func FromPoints(points []coord.Point, padding float64) *Tree {
	if len(points) == 0 {
		return nil
	}

	xmin, xmax := points[0].X, points[0].X
	ymin, ymax := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		xmin = math.Min(xmin, p.X)
		xmax = math.Max(xmax, p.X)
		ymin = math.Min(ymin, p.Y)
		ymax = math.Max(ymax, p.Y)
	}

	dx := xmax - xmin
	dy := ymax - ymin
	if dx == 0 {
		dx = 1
	}
	if dy == 0 {
		dy = 1
	}
	padx, pady := padding, padding
	if padding <= 0 {
		padx = 0.01 * dx
		pady = 0.01 * dy
	}

	t := New(xmin-padx, xmax+padx, ymin-pady, ymax+pady)
	for _, p := range points {
		t.Insert(p)
	}
	return t
}

// Insert adds a sample. It returns false only when the point lies outside
// the root region, which is a logic error on the caller's part: the root
// must be sized from input bounds first.
func (t *Tree) Insert(p coord.Point) bool {
	return t.root.insert(p)
}

// Nearest returns the stored sample closest to (x,y) by planar Euclidean
// distance. ok is false when the tree is empty.
func (t *Tree) Nearest(x, y float64) (p coord.Point, dist float64, ok bool) {
	b := t.root.nearest(x, y, best{})
	if !b.ok {
		return coord.Point{}, 0, false
	}
	return b.point, math.Sqrt(b.distSq), true
}
