package toolpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommand_String(t *testing.T) {
	c := MoveFeed(1.5, 2, -0.125, 300)
	assert.Equal(t, "move X1.5 Y2 Z-0.125 F300", c.String())

	c = Command{Kind: Rapid, Z: Set(25)}
	assert.Equal(t, "rapid Z25", c.String())

	c = Command{Kind: Arc, X: Set(10), Y: Set(0), I: 5, Clockwise: true}
	assert.Equal(t, "arc-cw X10 Y0", c.String())

	c = Command{Kind: Other, Name: "M6"}
	assert.Equal(t, "M6", c.String())
}

func TestArg_Or(t *testing.T) {
	assert.Equal(t, 5.0, Set(5).Or(9))
	assert.Equal(t, 9.0, Arg{}.Or(9))
}

func TestCommand_HasAxis(t *testing.T) {
	assert.True(t, Command{Kind: Straight, Z: Set(1)}.HasAxis())
	assert.False(t, Command{Kind: Straight, F: Set(100)}.HasAxis())
}
