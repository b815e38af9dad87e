// Package project drives discretized path segments through the surface
// height oracle, producing a Z-corrected point-by-point path.
package project

import (
	"fmt"
	"math"
	"time"

	"github.com/aukilabs/go-tooling/pkg/logs"

	"github.com/mastercactapus/zwrap/toolpath"
)

// HeightOracle answers tool contact height queries.
type HeightOracle interface {
	HeightAt(x, y float64) (float64, bool)
}

// Config holds projection parameters.
type Config struct {
	// SafeHeight is the ceiling no output Z may exceed. It is also
	// substituted when the oracle finds no intersection, so unknown
	// territory is never plunged into.
	SafeHeight float64

	// StockTopZ shifts elevated (above-plane) moves to the top of the
	// uncut material instead of re-querying the surface.
	StockTopZ float64

	// LogProgress enables time-gated progress lines with an ETA.
	LogProgress bool

	// Yield, when set, is invoked periodically so a host UI can refresh.
	// It must not re-enter the oracle and has no effect on output.
	Yield func()
}

const (
	yieldEvery       = 100
	progressInterval = 5 * time.Second
)

// Project resolves every sampled point to its surface height and emits a
// uniform straight-move command per point. Non-motion and degenerate
// segments pass through unchanged. The returned count is the number of
// pass-through warnings (motion commands with explicit axes but no
// sampled points, a latent collision risk of the source program).
func Project(segments []toolpath.Segment, oracle HeightOracle, cfg Config) ([]toolpath.Command, int) {
	baseline := zBaseline(segments)

	var total int
	for _, seg := range segments {
		if len(seg.Points) > 0 {
			total += len(seg.Points)
		} else {
			total++
		}
	}

	out := make([]toolpath.Command, 0, total)
	var warnings, step int
	start := time.Now()
	lastReport := start

	for _, seg := range segments {
		if seg.Kind == toolpath.NonMotion {
			out = append(out, seg.Command)
			step++
			continue
		}

		if len(seg.Points) == 0 {
			if seg.Command.HasAxis() {
				// the Z of this command will not be remapped
				logs.WithTag("command", seg.Command.String()).
					Warn("motion command with axes but no sampled points passed through")
				warnings++
			}
			out = append(out, seg.Command)
			step++
			continue
		}

		for _, point := range seg.Points {
			var height float64
			if seg.Kind == toolpath.OnPlane {
				z, ok := oracle.HeightAt(point.X, point.Y)
				if !ok {
					// no mapping for this XY; retreat to the safe
					// height rather than cut blind
					height = cfg.SafeHeight
				} else {
					height = z
				}
			} else {
				height = point.Z + cfg.StockTopZ
			}

			final := height + (point.Z - baseline)
			if final > cfg.SafeHeight {
				final = cfg.SafeHeight
			}

			// a single uniform move kind: rapids may take a
			// non-deterministic dogleg path
			out = append(out, toolpath.Move(point.X, point.Y, final))
			step++

			if step%yieldEvery == 0 {
				if cfg.Yield != nil {
					cfg.Yield()
				}
				if cfg.LogProgress && time.Since(lastReport) > progressInterval {
					lastReport = time.Now()
					report(start, step, total)
				}
			}
		}
	}

	return out, warnings
}

// zBaseline finds the minimum Z among all sampled points, the reference
// depth of the original flat path.
func zBaseline(segments []toolpath.Segment) float64 {
	min := math.Inf(1)
	var any bool
	for _, seg := range segments {
		for _, p := range seg.Points {
			min = math.Min(min, p.Z)
			any = true
		}
	}
	if !any {
		logs.Warn("path has no movable points to establish a base Z-height")
		return 0
	}
	return min
}

func report(start time.Time, step, total int) {
	elapsed := time.Since(start)
	done := float64(step) / float64(total)

	var remaining time.Duration
	if done > 0 {
		remaining = time.Duration(float64(elapsed)/done) - elapsed
	}
	secs := int(remaining.Seconds())

	logs.WithTag("done", fmt.Sprintf("%.1f%%", done*100)).
		WithTag("remaining", fmt.Sprintf("%d:%02d", secs/60, secs%60)).
		Info("projecting surface heights")
}
