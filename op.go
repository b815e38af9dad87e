// Package zwrap corrects a flat XY toolpath so it follows the Z profile of
// a curved target surface: the path is discretized, every sampled point is
// resolved to its tool contact height through a cached surface oracle, and
// the corrected path is re-cut in depth-limited passes.
package zwrap

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"

	"github.com/mastercactapus/zwrap/cache"
	"github.com/mastercactapus/zwrap/coord"
	"github.com/mastercactapus/zwrap/kernel"
	"github.com/mastercactapus/zwrap/meshlevel"
	"github.com/mastercactapus/zwrap/project"
	"github.com/mastercactapus/zwrap/stepdown"
	"github.com/mastercactapus/zwrap/surface"
	"github.com/mastercactapus/zwrap/toolpath"
)

// ToolShapeEndmill is the only supported tool shape. Ball and tapered
// cutters change the contact math entirely.
const ToolShapeEndmill = "endmill"

// Tool is the cutter the corrected path will run with.
type Tool struct {
	Shape  string
	Radius float64
}

// Config holds all computation parameters. All lengths are in the
// program's machine units.
type Config struct {
	// SampleDistance is the spacing of height samples along straight
	// moves.
	SampleDistance float64

	// CurveDeflection is the maximum chord deviation allowed when
	// sampling arcs.
	CurveDeflection float64

	// CacheGrid is the cache-hit tolerance radius for height lookups.
	CacheGrid float64

	StepDepth  float64
	StartDepth float64

	SafeHeight      float64
	ClearanceHeight float64

	// StockTopZ shifts elevated moves to the top of the uncut material.
	StockTopZ float64

	Feeds stepdown.Feeds

	// PinCache keeps stale height samples on a geometry signature
	// mismatch instead of discarding them. Useful when the host's
	// reported topology churns without the surface actually changing.
	PinCache bool

	RapidThroughCleared bool
	TrueRapids          bool

	LogProgress bool
	Yield       func()
}

// Op is one surface-wrapping computation. Zero value is not usable; fill
// in the kernel, model, tool and config, then call Run.
type Op struct {
	Kernel kernel.Kernel
	Model  *surface.Model
	Tool   Tool
	Config Config

	// Store persists height samples across runs. If nil a fresh
	// in-memory store is created on the first Run.
	Store *cache.Store

	// Warnings is the pass-through warning count of the last Run: motion
	// commands that carried explicit axes but produced no sampled
	// geometry and were therefore emitted uncorrected.
	Warnings int
}

// Run corrects program against the target surface. On a precondition
// failure it returns the input path unchanged along with the error, so
// callers can fall back to the uncorrected program; the store is never
// mutated before preconditions pass.
func (op *Op) Run(program []toolpath.Command) ([]toolpath.Command, error) {
	if err := op.check(program); err != nil {
		return program, err
	}
	if op.Store == nil {
		op.Store = &cache.Store{}
	}
	op.reconcileCache()

	bounds := op.Model.Bounds()
	oracle := &surface.Oracle{
		Kernel:     op.Kernel,
		Model:      op.Model,
		ToolRadius: op.Tool.Radius,
		GridTol:    op.Config.CacheGrid,
		Index:      op.Store.Index(&bounds),
		Store:      op.Store,
	}

	start := coord.Point{Z: op.Config.SafeHeight}
	segments := toolpath.Discretize(program, start,
		op.Config.SampleDistance, op.Config.CurveDeflection)

	corrected, warnings := project.Project(segments, oracle, project.Config{
		SafeHeight:  op.Config.SafeHeight,
		StockTopZ:   op.Config.StockTopZ,
		LogProgress: op.Config.LogProgress,
		Yield:       op.Config.Yield,
	})
	op.Warnings = warnings

	op.validate(corrected)

	return stepdown.Plan(corrected, stepdown.Config{
		StepDepth:           op.Config.StepDepth,
		StartDepth:          op.Config.StartDepth,
		ClearanceHeight:     op.Config.ClearanceHeight,
		SafeHeight:          op.Config.SafeHeight,
		Feeds:               op.Config.Feeds,
		RapidThroughCleared: op.Config.RapidThroughCleared,
		TrueRapids:          op.Config.TrueRapids,
	}), nil
}

func (op *Op) check(program []toolpath.Command) error {
	if op.Tool.Shape != ToolShapeEndmill {
		return errors.New("unsupported tool shape, only flat endmills can wrap a surface").
			WithTag("shape", op.Tool.Shape)
	}
	if op.Tool.Radius <= 0 {
		return errors.New("tool radius must be positive").
			WithTag("radius", op.Tool.Radius)
	}
	if len(program) == 0 {
		return errors.New("no base toolpath to correct")
	}
	if op.Model == nil || len(op.Model.Faces) == 0 {
		return errors.New("no target faces selected")
	}
	if op.Config.StepDepth <= 0 {
		return errors.New("step depth must be positive").
			WithTag("step_depth", op.Config.StepDepth)
	}
	return nil
}

// reconcileCache drops stored samples whose geometry signature no longer
// matches the current model, unless the cache is pinned.
func (op *Op) reconcileCache() {
	sig := op.Model.Signature()
	if op.Store.Hash == sig {
		return
	}

	if op.Store.Hash != "" {
		if op.Config.PinCache {
			logs.WithTag("stored", op.Store.Hash).WithTag("computed", sig).
				Warn("geometry changed but cache is pinned, keeping stale samples")
			return
		}
		logs.WithTag("samples", len(op.Store.Points)).
			Info("geometry changed, discarding height cache")
		op.Store.Reset()
	}
	op.Store.Hash = sig
}

// validate cross-checks the corrected path against a triangulated mesh of
// the accumulated samples. Failures only warn; the mesh is an
// approximation of the oracle, not an authority over it.
func (op *Op) validate(path []toolpath.Command) {
	mesh, err := meshlevel.FromSamples(op.Store.Points)
	if err != nil {
		logs.WithTag("reason", err.Error()).
			Debug("skipping surface mesh validation")
		return
	}
	if n := meshlevel.Check(path, mesh, op.Config.CacheGrid); n > 0 {
		logs.WithTag("count", n).
			Warn("corrected path dips below the sampled surface")
	}
}
