package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkroute/core"
)

func pts(xy ...int) []core.Point {
	out := make([]core.Point, 0, len(xy)/2)
	for i := 0; i+1 < len(xy); i += 2 {
		out = append(out, core.Point{X: xy[i], Y: xy[i+1]})
	}
	return out
}

func TestDrawPath(t *testing.T) {
	tests := []struct {
		name   string
		bounds core.Bounds
		paths  [][]core.Point
		want   string
	}{
		{
			name:   "corner",
			bounds: core.BoundsOf(pts(0, 0, 3, 2)...),
			paths:  [][]core.Point{pts(0, 0, 3, 0, 3, 2)},
			want:   "───╮\n   │\n   │",
		},
		{
			name:   "negative cells",
			bounds: core.BoundsOf(pts(-2, -1, 0, 0)...),
			paths:  [][]core.Point{pts(-2, 0, -2, -1, 0, -1)},
			want:   "╭──\n│  ",
		},
		{
			name:   "crossing",
			bounds: core.BoundsOf(pts(0, 0, 2, 2)...),
			paths:  [][]core.Point{pts(0, 1, 2, 1), pts(1, 0, 1, 2)},
			want:   " │ \n─┼─\n │ ",
		},
		{
			name:   "tee",
			bounds: core.BoundsOf(pts(0, 0, 2, 1)...),
			paths:  [][]core.Point{pts(0, 0, 2, 0), pts(1, 0, 1, 1)},
			want:   "─┬─\n │ ",
		},
		{
			name:   "repeated points",
			bounds: core.BoundsOf(pts(0, 0, 2, 0)...),
			paths:  [][]core.Point{pts(0, 0, 0, 0, 2, 0, 2, 0)},
			want:   "───",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewMatrixCanvas(tt.bounds)
			require.NoError(t, err)
			for _, p := range tt.paths {
				require.NoError(t, c.DrawPath(p, ClassRoute))
			}
			assert.Equal(t, tt.want, c.String())
		})
	}
}

func TestDrawPath_ThroughBox(t *testing.T) {
	c, err := NewMatrixCanvas(core.BoundsOf(pts(0, 0, 3, 2)...))
	require.NoError(t, err)
	require.NoError(t, c.DrawBox(c.Bounds(), DefaultBoxStyle, ClassElement))
	require.NoError(t, c.DrawPath(pts(0, 1, 3, 1), ClassRoute))
	assert.Equal(t, "┌──┐\n├──┤\n└──┘", c.String())
}

func TestDrawPath_Diagonal(t *testing.T) {
	c, err := NewMatrixCanvas(core.BoundsOf(pts(0, 0, 2, 2)...))
	require.NoError(t, err)
	err = c.DrawPath(pts(0, 0, 1, 1), ClassRoute)
	assert.ErrorIs(t, err, ErrNotOrthogonal)
}

func TestDrawEndpoints(t *testing.T) {
	c, err := NewMatrixCanvas(core.BoundsOf(pts(0, 0, 3, 2)...))
	require.NoError(t, err)
	path := pts(0, 0, 3, 0, 3, 2)
	require.NoError(t, c.DrawPath(path, ClassRoute))
	c.DrawEndpoints(path, ClassMarker)
	assert.Equal(t, "●──╮\n   │\n   ▼", c.String())
	assert.Equal(t, ClassMarker, c.ClassAt(core.Point{X: 3, Y: 2}))

	// Later lines do not erase the arrow
	require.NoError(t, c.DrawPath(pts(2, 2, 3, 2), ClassRoute))
	assert.Equal(t, '▼', c.Get(core.Point{X: 3, Y: 2}))
}

func TestArrowhead(t *testing.T) {
	assert.Equal(t, '▲', Arrowhead(core.North))
	assert.Equal(t, '▶', Arrowhead(core.East))
	assert.Equal(t, '▼', Arrowhead(core.South))
	assert.Equal(t, '◀', Arrowhead(core.West))
	assert.Equal(t, '●', Arrowhead(core.NoDirection))
}

func TestOrthogonalRuns(t *testing.T) {
	tests := []struct {
		name  string
		cells []core.Point
		want  [][]core.Point
	}{
		{"empty", nil, nil},
		{"single", pts(1, 1), [][]core.Point{pts(1, 1)}},
		{"connected", pts(0, 0, 3, 0, 3, 2), [][]core.Point{pts(0, 0, 3, 0, 3, 2)}},
		{"gap", pts(0, 0, 3, 0, 5, 4, 5, 6), [][]core.Point{pts(0, 0, 3, 0), pts(5, 4, 5, 6)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OrthogonalRuns(tt.cells))
		})
	}
}
