// Package toolpath models machine motion commands and converts them into
// classified, point-sampled segments ready for surface projection.
package toolpath

import (
	"strconv"
	"strings"
)

// Kind is the closed set of command variants.
type Kind int

const (
	// Straight is a controlled-feed linear move.
	Straight Kind = iota
	// Arc is a circular move in the XY plane, with optional Z helix.
	Arc
	// Rapid is an uncontrolled-path positioning move.
	Rapid
	// Other is any non-motion command (tool change, spindle, coolant).
	Other
)

func (k Kind) String() string {
	switch k {
	case Straight:
		return "straight"
	case Arc:
		return "arc"
	case Rapid:
		return "rapid"
	case Other:
		return "other"
	}
	return "unknown"
}

// Arg is an optional command parameter. Absent axes mean "unchanged from
// the current position".
type Arg struct {
	Valid bool
	Value float64
}

// Set returns a present Arg.
func Set(v float64) Arg {
	return Arg{Valid: true, Value: v}
}

// Or returns the Arg value, or def when absent.
func (a Arg) Or(def float64) float64 {
	if a.Valid {
		return a.Value
	}
	return def
}

// Command is a single entry of a motion program. Order within a program is
// significant.
type Command struct {
	Kind Kind

	// Name carries the original mnemonic for Other commands so they can
	// be passed through unchanged.
	Name string

	X, Y, Z Arg
	F       Arg

	// Arc parameters: center offset from the start point, and direction.
	I, J      float64
	Clockwise bool
}

// IsMotion reports whether the command moves the tool.
func (c Command) IsMotion() bool {
	return c.Kind != Other
}

// HasAxis reports whether any of X, Y or Z is explicitly set.
func (c Command) HasAxis() bool {
	return c.X.Valid || c.Y.Valid || c.Z.Valid
}

// Move returns a Straight command with all three axes set.
func Move(x, y, z float64) Command {
	return Command{Kind: Straight, X: Set(x), Y: Set(y), Z: Set(z)}
}

// MoveFeed returns a Straight command with all three axes and a feed.
func MoveFeed(x, y, z, f float64) Command {
	c := Move(x, y, z)
	c.F = Set(f)
	return c
}

func fmtArg(name string, a Arg, sb *strings.Builder) {
	if !a.Valid {
		return
	}
	s := strconv.FormatFloat(a.Value, 'f', 3, 64)
	if strings.ContainsRune(s, '.') {
		s = strings.TrimRight(s, "0")
		s = strings.TrimRight(s, ".")
	}
	sb.WriteString(name)
	sb.WriteString(s)
}

// String renders the command for diagnostics. It is not a wire format.
func (c Command) String() string {
	var sb strings.Builder
	switch c.Kind {
	case Straight:
		sb.WriteString("move")
	case Arc:
		if c.Clockwise {
			sb.WriteString("arc-cw")
		} else {
			sb.WriteString("arc-ccw")
		}
	case Rapid:
		sb.WriteString("rapid")
	case Other:
		sb.WriteString(c.Name)
	}
	fmtArg(" X", c.X, &sb)
	fmtArg(" Y", c.Y, &sb)
	fmtArg(" Z", c.Z, &sb)
	fmtArg(" F", c.F, &sb)
	return sb.String()
}
