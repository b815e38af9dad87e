// Package kernel defines the abstract geometry-intersection interface the
// surface height oracle depends on. Implementations (sdfkernel) provide
// solid construction and section evaluation behind this interface; they
// are treated as numerically fragile black boxes and every result is
// validated by the caller.
package kernel

// Solid is an opaque handle to a kernel solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Section is the evaluated intersection of a tool volume with a surface.
type Section struct {
	// Min and Max bound the intersection region.
	Min, Max [3]float64

	// Length is the total edge length of the section outline. A full
	// tool/surface engagement yields roughly the tool circumference;
	// a shorter outline signals a partial intersection.
	Length float64
}

// Kernel constructs tool volumes and evaluates sections. Section returns
// (nil, nil) when tool and target do not intersect; any error is a kernel
// failure the caller converts to "no result".
type Kernel interface {
	// Cylinder creates a z-axis cylinder of the given radius and height,
	// centered on the origin.
	Cylinder(radius, height float64) (Solid, error)

	// PolyCylinder creates a polygonal prism approximation of a cylinder
	// with the given number of segments. The approximation perturbs
	// degenerate configurations the exact cylinder can hit.
	PolyCylinder(radius, height float64, segments int) (Solid, error)

	// RotateZ rotates a solid about its own z axis by degrees.
	RotateZ(s Solid, degrees float64) Solid

	// Translate moves a solid by (x, y, z).
	Translate(s Solid, x, y, z float64) Solid

	// Section evaluates the intersection of tool and target. When
	// approximate is set the implementation may trade exactness for
	// robustness (curve fitting, coarser evaluation).
	Section(tool, target Solid, approximate bool) (*Section, error)
}
