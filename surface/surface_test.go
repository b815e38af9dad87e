package surface

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mastercactapus/zwrap/coord"
	"github.com/mastercactapus/zwrap/kernel/kerneltest"
)

func flatModel(top float64) *Model {
	slab := kerneltest.Slab(-50, 50, -50, 50, top)
	return &Model{
		Merged: slab,
		Faces: []Face{{
			ID:       "Part.Face1",
			Solid:    slab,
			Edges:    4,
			Vertices: 4,
			Area:     10000,
			Centroid: coord.Point{Z: top},
		}},
	}
}

func TestModel_SignatureStable(t *testing.T) {
	m := flatModel(5)
	assert.Equal(t, m.Signature(), m.Signature())
	assert.Len(t, m.Signature(), 64)
}

func TestModel_SignatureChangesWithGeometry(t *testing.T) {
	a := flatModel(5)
	sig := a.Signature()

	// vertex count change
	b := flatModel(5)
	b.Faces[0].Vertices = 5
	assert.NotEqual(t, sig, b.Signature())

	// bbox change
	c := &Model{
		Merged: kerneltest.Slab(-50, 60, -50, 50, 5),
		Faces:  flatModel(5).Faces,
	}
	assert.NotEqual(t, sig, c.Signature())

	// source id change
	d := flatModel(5)
	d.Faces[0].ID = "Part.Face2"
	assert.NotEqual(t, sig, d.Signature())
}

func TestModel_SignatureOrderIndependent(t *testing.T) {
	a := flatModel(5)
	a.Faces = append(a.Faces, Face{ID: "Part.Face2", Solid: a.Merged, Edges: 3, Vertices: 3, Area: 50})

	b := flatModel(5)
	b.Faces = append([]Face{{ID: "Part.Face2", Solid: b.Merged, Edges: 3, Vertices: 3, Area: 50}}, b.Faces...)

	assert.Equal(t, a.Signature(), b.Signature())
}

func TestModel_SignatureEmpty(t *testing.T) {
	m := &Model{Merged: kerneltest.Slab(0, 1, 0, 1, 0)}
	assert.Equal(t, m.Signature(), m.Signature())
	assert.NotEqual(t, m.Signature(), flatModel(5).Signature())
}

func TestModel_Bounds(t *testing.T) {
	m := flatModel(5)
	assert.Equal(t, [4]float64{-50, 50, -50, 50}, m.Bounds())
}
