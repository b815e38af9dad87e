// Package cache holds the durable height-sample store persisted between
// computations. The store is a plain append-only sample list plus the
// geometry signature it was computed against; the derived spatial index is
// rebuilt from it on demand and never persisted.
package cache

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/segmentio/encoding/json"

	"github.com/mastercactapus/zwrap/coord"
	"github.com/mastercactapus/zwrap/quadtree"
)

// Store is the persistable height-sample cache.
type Store struct {
	// Points are observed (x, y, z) contact heights, append-only.
	Points []coord.Point `json:"points"`

	// Hash is the geometry signature the points were computed for.
	Hash string `json:"hash,omitempty"`
}

// blob is the wire form of the store.
type blob struct {
	Points [][3]float64 `json:"points"`
	Hash   string       `json:"hash,omitempty"`
}

// Append records a sample.
func (s *Store) Append(p coord.Point) {
	s.Points = append(s.Points, p)
}

// Reset discards all samples and the stored signature.
func (s *Store) Reset() {
	s.Points = nil
	s.Hash = ""
}

// Index rebuilds the runtime quadtree from the stored samples. With no
// samples the tree is sized from the given geometry bounds instead, or
// from a generous default region when bounds are absent.
func (s *Store) Index(bounds *[4]float64) *quadtree.Tree {
	if len(s.Points) > 0 {
		return quadtree.FromPoints(s.Points, 0)
	}

	if bounds != nil {
		return quadtree.New(bounds[0], bounds[1], bounds[2], bounds[3])
	}
	return quadtree.New(-1000, 1000, -1000, 1000)
}

// Marshal serializes the store.
func (s *Store) Marshal() ([]byte, error) {
	b := blob{
		Points: make([][3]float64, len(s.Points)),
		Hash:   s.Hash,
	}
	for i, p := range s.Points {
		b.Points[i] = [3]float64{p.X, p.Y, p.Z}
	}

	data, err := json.Marshal(b)
	if err != nil {
		return nil, errors.New("marshaling height cache failed").Wrap(err)
	}
	return data, nil
}

// Load deserializes a previously persisted blob. A corrupt or mismatched
// blob self-heals to an empty store rather than failing the computation.
func Load(data []byte) *Store {
	s := &Store{}
	if len(data) == 0 {
		return s
	}

	var b blob
	if err := json.Unmarshal(data, &b); err != nil {
		logs.WithTag("size", len(data)).
			Warn(errors.New("discarding corrupt height cache").Wrap(err))
		return s
	}

	s.Hash = b.Hash
	s.Points = make([]coord.Point, len(b.Points))
	for i, p := range b.Points {
		s.Points[i] = coord.Point{X: p[0], Y: p[1], Z: p[2]}
	}
	return s
}
