package canvas

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkroute/core"
)

func newCanvas(t *testing.T, minX, minY, maxX, maxY int) *MatrixCanvas {
	t.Helper()
	c, err := NewMatrixCanvas(core.Bounds{Min: core.Point{X: minX, Y: minY}, Max: core.Point{X: maxX, Y: maxY}})
	require.NoError(t, err)
	return c
}

func TestNewMatrixCanvas(t *testing.T) {
	c := newCanvas(t, -2, -1, 1, 0)
	w, h := c.Size()
	assert.Equal(t, 4, w)
	assert.Equal(t, 2, h)
	assert.Equal(t, "    \n    ", c.String())

	_, err := NewMatrixCanvas(core.Bounds{Min: core.Point{X: 3}, Max: core.Point{X: 1}})
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestMatrixCanvas_GetSet(t *testing.T) {
	c := newCanvas(t, -2, -1, 1, 0)

	require.NoError(t, c.Set(core.Point{X: -2, Y: -1}, 'a', ClassLabel))
	assert.Equal(t, 'a', c.Get(core.Point{X: -2, Y: -1}))
	assert.Equal(t, ClassLabel, c.ClassAt(core.Point{X: -2, Y: -1}))

	assert.ErrorIs(t, c.Set(core.Point{X: 2, Y: 0}, 'x', ClassLabel), ErrOutOfBounds)
	assert.ErrorIs(t, c.Put(core.Point{X: 0, Y: 1}, 'x', ClassLabel), ErrOutOfBounds)
	assert.Equal(t, ' ', c.Get(core.Point{X: 5, Y: 5}))
	assert.Equal(t, ClassNone, c.ClassAt(core.Point{X: 5, Y: 5}))
}

func TestMatrixCanvas_ClassFollowsSurvivor(t *testing.T) {
	c := newCanvas(t, 0, 0, 2, 0)
	a, b := core.Point{X: 0}, core.Point{X: 1}

	require.NoError(t, c.Set(a, '─', ClassRoute))
	require.NoError(t, c.Set(a, '─', ClassDegraded))
	assert.Equal(t, ClassRoute, c.ClassAt(a), "unchanged character keeps its class")

	require.NoError(t, c.Set(a, '│', ClassDegraded))
	assert.Equal(t, '┼', c.Get(a))
	assert.Equal(t, ClassDegraded, c.ClassAt(a))

	require.NoError(t, c.Set(b, '─', ClassHighlight))
	require.NoError(t, c.Set(b, '│', ClassRoute))
	assert.Equal(t, '┼', c.Get(b))
	assert.Equal(t, ClassHighlight, c.ClassAt(b), "highlight sticks")
}

func TestMatrixCanvas_ColoredString(t *testing.T) {
	c := newCanvas(t, 0, 0, 3, 1)
	require.NoError(t, c.Put(core.Point{X: 0, Y: 0}, 'a', ClassLabel))
	require.NoError(t, c.Put(core.Point{X: 1, Y: 0}, 'b', ClassLabel))
	require.NoError(t, c.Put(core.Point{X: 2, Y: 0}, 'c', ClassRoute))
	require.NoError(t, c.Put(core.Point{X: 3, Y: 1}, 'd', ClassMarker))

	paint := func(class Class, s string) string {
		return fmt.Sprintf("<%s:%s>", class, s)
	}
	assert.Equal(t, "<label:ab><route:c> \n   <marker:d>", c.ColoredString(paint))
	assert.Equal(t, "abc \n   d", c.String())
}

func TestMatrixCanvas_Fill(t *testing.T) {
	c := newCanvas(t, 0, 0, 1, 0)
	require.NoError(t, c.Put(core.Point{X: 0}, 'x', ClassLabel))
	c.Fill(core.Point{X: 0}, '░', ClassObstacle)
	c.Fill(core.Point{X: 1}, '░', ClassObstacle)
	assert.Equal(t, "x░", c.String())

	// Lines replace background
	require.NoError(t, c.Set(core.Point{X: 1}, '─', ClassRoute))
	assert.Equal(t, "x─", c.String())
	assert.Equal(t, ClassRoute, c.ClassAt(core.Point{X: 1}))
}

func TestMatrixCanvas_DrawBox(t *testing.T) {
	c := newCanvas(t, 0, 0, 3, 2)
	box := core.Bounds{Max: core.Point{X: 3, Y: 2}}
	require.NoError(t, c.DrawBox(box, DefaultBoxStyle, ClassElement))
	assert.Equal(t, "┌──┐\n│  │\n└──┘", c.String())

	err := c.DrawBox(core.Bounds{Max: core.Point{X: 0, Y: 2}}, DefaultBoxStyle, ClassElement)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestMatrixCanvas_DrawText(t *testing.T) {
	tests := []struct {
		name string
		x    int
		text string
		want string
	}{
		{"plain", 0, "abc", "abc  "},
		{"clipped right", 3, "hello", "   he"},
		{"clipped left", -2, "hello", "llo  "},
		{"wide", 0, "日本", "日本 "},
		{"wide does not split", 3, "日本", "   日"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCanvas(t, 0, 0, 4, 0)
			require.NoError(t, c.DrawText(tt.x, 0, tt.text, ClassLabel))
			assert.Equal(t, tt.want, c.String())
		})
	}

	c := newCanvas(t, 0, 0, 4, 0)
	assert.ErrorIs(t, c.DrawText(0, 3, "x", ClassLabel), ErrOutOfBounds)
}
