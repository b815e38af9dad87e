package surface

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mastercactapus/zwrap/cache"
	"github.com/mastercactapus/zwrap/coord"
	"github.com/mastercactapus/zwrap/kernel"
	"github.com/mastercactapus/zwrap/kernel/kerneltest"
	"github.com/mastercactapus/zwrap/quadtree"
)

func newOracle(k kernel.Kernel, m *Model) *Oracle {
	return &Oracle{
		Kernel:     k,
		Model:      m,
		ToolRadius: 2,
		GridTol:    0.5,
		Index:      quadtree.New(-100, 100, -100, 100),
		Store:      &cache.Store{},
	}
}

func TestOracle_Hit(t *testing.T) {
	k := &kerneltest.Kernel{}
	o := newOracle(k, flatModel(5))

	z, ok := o.HeightAt(0, 0)
	assert.True(t, ok)
	assert.Equal(t, 5.0, z)
	assert.Equal(t, 1, k.SectionCalls)

	// result cached in both stores
	assert.Equal(t, []coord.Point{{X: 0, Y: 0, Z: 5}}, o.Store.Points)

	// nearby query inside the grid tolerance is answered from cache
	z, ok = o.HeightAt(0.25, 0)
	assert.True(t, ok)
	assert.Equal(t, 5.0, z)
	assert.Equal(t, 1, k.SectionCalls)

	// outside tolerance triggers a new section
	z, ok = o.HeightAt(10, 10)
	assert.True(t, ok)
	assert.Equal(t, 5.0, z)
	assert.Equal(t, 2, k.SectionCalls)
}

func TestOracle_Miss(t *testing.T) {
	k := &kerneltest.Kernel{}
	o := newOracle(k, flatModel(5))

	// way off the slab: every strategy returns nothing
	_, ok := o.HeightAt(1000, 1000)
	assert.False(t, ok)
	assert.Empty(t, o.Store.Points)
}

func TestOracle_RetriesAfterFailures(t *testing.T) {
	k := &kerneltest.Kernel{FailFirst: 2}
	o := newOracle(k, flatModel(5))

	z, ok := o.HeightAt(0, 0)
	assert.True(t, ok)
	assert.Equal(t, 5.0, z)
	assert.Equal(t, 3, k.SectionCalls)
}

func TestOracle_ShortSectionsFallThroughToRelaxed(t *testing.T) {
	// the first three strategies enforce the outline length check; the
	// approximated fourth does not
	k := &kerneltest.Kernel{ShortFirst: 3}
	o := newOracle(k, flatModel(5))

	z, ok := o.HeightAt(0, 0)
	assert.True(t, ok)
	assert.Equal(t, 5.0, z)
	assert.Equal(t, 4, k.SectionCalls)
}

func TestOracle_RejectsAbsurdBounds(t *testing.T) {
	k := &kerneltest.Kernel{HugeFirst: 1}
	o := newOracle(k, flatModel(5))

	z, ok := o.HeightAt(0, 0)
	assert.True(t, ok)
	// the huge result contributes no guess; the retry wins
	assert.Equal(t, 5.0, z)
	assert.Equal(t, 2, k.SectionCalls)
}

func TestOracle_PerFaceFallback(t *testing.T) {
	m := flatModel(5)
	m.Faces = append(m.Faces, Face{ID: "Part.Face2", Solid: m.Merged})

	// merged-target strategies (a-e) all fail; per-face (f) runs one
	// section per face
	k := &kerneltest.Kernel{FailFirst: 5}
	o := newOracle(k, m)

	z, ok := o.HeightAt(0, 0)
	assert.True(t, ok)
	assert.Equal(t, 5.0, z)
	assert.Equal(t, 7, k.SectionCalls)
}

// scripted kernel for exercising the best-effort path precisely
type scriptKernel struct {
	sections []*kernel.Section
	calls    int
}

type scriptSolid struct{}

func (scriptSolid) BoundingBox() (min, max [3]float64) { return }

func (s *scriptKernel) Cylinder(radius, height float64) (kernel.Solid, error) {
	return scriptSolid{}, nil
}
func (s *scriptKernel) PolyCylinder(radius, height float64, segments int) (kernel.Solid, error) {
	return scriptSolid{}, nil
}
func (s *scriptKernel) RotateZ(sl kernel.Solid, degrees float64) kernel.Solid   { return sl }
func (s *scriptKernel) Translate(sl kernel.Solid, x, y, z float64) kernel.Solid { return sl }
func (s *scriptKernel) Section(tool, target kernel.Solid, approximate bool) (*kernel.Section, error) {
	defer func() { s.calls++ }()
	if s.calls < len(s.sections) {
		return s.sections[s.calls], nil
	}
	return nil, nil
}

func TestOracle_BestObservedHeight(t *testing.T) {
	// the length-checked strategies see partial outlines, everything
	// after returns nothing: the max observed Z is used as a best-effort
	// answer. This path is a known-approximate heuristic, so only the
	// choice of maximum is asserted, not geometric correctness.
	short := func(z float64) *kernel.Section {
		return &kernel.Section{Max: [3]float64{0, 0, z}, Length: 1}
	}
	k := &scriptKernel{sections: []*kernel.Section{short(3), short(7), short(5)}}

	o := newOracle(k, flatModel(5))
	o.Model.Faces = nil // keep per-face strategies from finding anything

	z, ok := o.HeightAt(0, 0)
	assert.True(t, ok)
	assert.Equal(t, 7.0, z)
	// per-face strategies issue no calls with no faces
	assert.Equal(t, 6, k.calls)
}
