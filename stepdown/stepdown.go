// Package stepdown re-passes a corrected path through successive depth
// ceilings so material is removed in layers, converting travel through
// already-cleared stock to rapid-speed moves and interpolating feed rates
// per segment.
package stepdown

import (
	"math"

	"github.com/aukilabs/go-tooling/pkg/logs"

	"github.com/mastercactapus/zwrap/coord"
	"github.com/mastercactapus/zwrap/toolpath"
)

// rapidMargin is how far above the previous pass floor a cleared-stock
// traversal rides (and the re-cut depth of the surface pass).
const rapidMargin = 0.5

// Config holds stepdown parameters.
type Config struct {
	// StepDepth is the depth removed per pass. Must be positive.
	StepDepth float64

	// StartDepth is the first pass ceiling, usually the stock top.
	StartDepth float64

	ClearanceHeight float64
	SafeHeight      float64

	Feeds Feeds

	// RapidThroughCleared converts moves through already-cleared stock
	// to rapid-feed traversal above the surface.
	RapidThroughCleared bool

	// TrueRapids emits real rapid commands for cleared-stock traversal
	// instead of feed-limited straight moves. Rapids do not guarantee
	// the literal path taken, so this trades safety for speed.
	TrueRapids bool
}

// Plan synthesizes depth-limited passes over path until a full pass
// completes with no point clamped to the ceiling. Closed paths skip the
// redundant retract/plunge between passes.
func Plan(path []toolpath.Command, cfg Config) []toolpath.Command {
	start, ok := firstPoint(path)
	if !ok {
		logs.Warn("cannot determine path start point, skipping stepdown")
		return path
	}
	end, _ := lastPoint(path)

	closed := start.EqualXY(end)

	var out []toolpath.Command
	limit := cfg.StartDepth
	first := true

	for repeat := true; repeat; {
		repeat = false
		limit -= cfg.StepDepth

		skipRetract := !first && closed
		if !skipRetract {
			// safety moves to the start point before the next pass
			out = append(out, toolpath.Command{Kind: toolpath.Rapid, Z: toolpath.Set(start.Z)})
			out = append(out, toolpath.Command{Kind: toolpath.Rapid, X: toolpath.Set(start.X), Y: toolpath.Set(start.Y)})
		}

		cur := start
		prev := cur

		for _, cmd := range path {
			if skipRetract && !cmd.X.Valid && !cmd.Y.Valid && cmd.Z.Valid &&
				(coord.Roughly(cmd.Z.Value, cfg.ClearanceHeight) || coord.Roughly(cmd.Z.Value, cfg.SafeHeight)) {
				// skip the start retract for a closed profile
				continue
			}

			cur.X = cmd.X.Or(cur.X)
			cur.Y = cmd.Y.Or(cur.Y)
			if cmd.Z.Valid {
				if isLower(cmd.Z.Value, limit) {
					// did not reach final depth, another pass is needed
					repeat = true
					cur.Z = limit
				} else {
					cur.Z = cmd.Z.Value
				}
			}

			z := cur.Z
			var feed float64
			var rapid bool
			if cfg.RapidThroughCleared && !isLower(z, limit+cfg.StepDepth+rapidMargin) {
				// cleared on a previous pass: lift off the surface and
				// traverse fast
				z += rapidMargin
				feed = cfg.Feeds.HorizRapid
				rapid = cfg.TrueRapids
			} else {
				feed = InterpolateFeed(prev, coord.Point{X: cur.X, Y: cur.Y, Z: z}, cfg.Feeds.Horiz, cfg.Feeds.Vert)
			}

			next := toolpath.MoveFeed(cur.X, cur.Y, z, feed)
			if rapid {
				next = toolpath.Command{Kind: toolpath.Rapid, X: toolpath.Set(cur.X), Y: toolpath.Set(cur.Y), Z: toolpath.Set(z)}
			}
			out = append(out, next)

			prev = coord.Point{X: cur.X, Y: cur.Y, Z: z}
		}

		first = false
	}

	return out
}

func isLower(z, limit float64) bool {
	if coord.Roughly(z, limit) {
		return false
	}
	return z < limit
}

// firstPoint resolves the first fully specified position by accumulating
// the first-seen value of each axis.
func firstPoint(path []toolpath.Command) (coord.Point, bool) {
	return scanPoint(path, false)
}

func lastPoint(path []toolpath.Command) (coord.Point, bool) {
	return scanPoint(path, true)
}

func scanPoint(path []toolpath.Command, reverse bool) (coord.Point, bool) {
	var p coord.Point
	var hasX, hasY, hasZ bool

	for i := range path {
		cmd := path[i]
		if reverse {
			cmd = path[len(path)-1-i]
		}
		if !hasX && cmd.X.Valid {
			p.X = cmd.X.Value
			hasX = true
		}
		if !hasY && cmd.Y.Valid {
			p.Y = cmd.Y.Value
			hasY = true
		}
		if !hasZ && cmd.Z.Valid {
			p.Z = cmd.Z.Value
			hasZ = true
		}
		if hasX && hasY && hasZ {
			return p, true
		}
	}
	return p, false
}

// PassBound returns the maximum number of passes Plan can take for a
// path bottoming out at minZ.
func PassBound(cfg Config, minZ float64) int {
	if cfg.StepDepth <= 0 {
		return 0
	}
	return int(math.Ceil(math.Abs(cfg.StartDepth-minZ)/cfg.StepDepth)) + 1
}
