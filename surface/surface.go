// Package surface models the target 3D faces and answers tool contact
// height queries against them.
package surface

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/mastercactapus/zwrap/coord"
	"github.com/mastercactapus/zwrap/kernel"
)

// Face is one oriented face of the target surface, with the metadata the
// host's geometry system reports for it.
type Face struct {
	// ID identifies the source element, e.g. "Clone.Face3".
	ID string

	Solid kernel.Solid

	// Topology counts, used for cache invalidation.
	Edges    int
	Vertices int

	Area     float64
	Centroid coord.Point
}

// Model is the full set of faces plus their merged solid.
type Model struct {
	Faces []Face

	// Merged is the union of all faces, the primary intersection target.
	Merged kernel.Solid
}

// Bounds returns the merged geometry's XY bounding rectangle as
// (xmin, xmax, ymin, ymax), used to size the spatial index.
func (m *Model) Bounds() [4]float64 {
	min, max := m.Merged.BoundingBox()
	return [4]float64{min[0], max[0], min[1], max[1]}
}

// Signature computes the content hash deciding whether a persisted height
// cache is still valid for this geometry. Any geometry-affecting change
// must change it with high probability. Sampling densities and the cache
// grid are deliberately excluded: changing them does not invalidate
// previously valid samples.
//
// Floats are printed at low precision because the upstream geometry
// system is not bit-deterministic for derived quantities like area.
func (m *Model) Signature() string {
	var parts []string

	ids := make([]string, len(m.Faces))
	for i, f := range m.Faces {
		ids[i] = f.ID
	}
	sort.Strings(ids)
	parts = append(parts, "Base="+strings.Join(ids, ","))

	if len(m.Faces) == 0 {
		parts = append(parts, "Geometry=None")
		return digest(parts)
	}

	var edges, vertices int
	var area float64
	var centroid coord.Point
	for _, f := range m.Faces {
		edges += f.Edges
		vertices += f.Vertices
		area += f.Area
		centroid = centroid.Add(f.Centroid.Mul(f.Area))
	}
	if area > 0 {
		centroid = centroid.Div(area)
	}

	parts = append(parts, fmt.Sprintf("NumFaces=%d", len(m.Faces)))
	parts = append(parts, fmt.Sprintf("NumEdges=%d", edges))
	parts = append(parts, fmt.Sprintf("NumVertexes=%d", vertices))

	min, max := m.Merged.BoundingBox()
	parts = append(parts, fmt.Sprintf("BoundBox=%.2f,%.2f,%.2f,%.2f,%.2f,%.2f",
		min[0], min[1], min[2], max[0], max[1], max[2]))
	parts = append(parts, fmt.Sprintf("Area=%.1f", area))
	parts = append(parts, fmt.Sprintf("CenterOfGravity=%.2f,%.2f,%.2f",
		centroid.X, centroid.Y, centroid.Z))

	return digest(parts)
}

func digest(parts []string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\n")))
	return hex.EncodeToString(sum[:])
}
