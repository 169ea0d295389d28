package pathfinding

import (
	"math"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"

	"linkroute/core"
)

// parseObstacleMap builds a traversable predicate from an ASCII map. 'X' and
// '#' mark blocked cells; the first character of the first line is cell origin.
func parseObstacleMap(mapStr string, origin core.Point) TraversableFunc {
	lines := strings.Split(strings.TrimSpace(mapStr), "\n")
	blocked := make(map[core.Point]bool)

	for y, line := range lines {
		for x, char := range strings.TrimSpace(line) {
			if char == 'X' || char == '#' {
				blocked[core.Point{X: origin.X + x, Y: origin.Y + y}] = true
			}
		}
	}

	return func(x, y int, _ any) bool {
		return !blocked[core.Point{X: x, Y: y}]
	}
}

// blockCells returns a predicate blocking exactly the given cells.
func blockCells(cells ...core.Point) TraversableFunc {
	blocked := make(map[core.Point]bool, len(cells))
	for _, c := range cells {
		blocked[c] = true
	}
	return func(x, y int, _ any) bool {
		return !blocked[core.Point{X: x, Y: y}]
	}
}

func newTestRouter(t *testing.T, step float64, traversable TraversableFunc) *Router {
	t.Helper()
	grid, err := NewGrid(step, traversable)
	require.NoError(t, err)
	return NewRouter(grid)
}

// requireRouteClear walks every segment of the route cell by cell and fails
// if any cell it crosses is blocked.
func requireRouteClear(t *testing.T, grid *Grid, route Route) {
	t.Helper()
	for i := 1; i < len(route.Points); i++ {
		a, b := route.Points[i-1], route.Points[i]
		length := math.Abs(b.X-a.X) + math.Abs(b.Y-a.Y)
		steps := int(math.Ceil(length / grid.Step))
		for k := 0; k <= steps; k++ {
			f := 1.0
			if steps > 0 {
				f = math.Min(1, float64(k)/float64(steps))
			}
			p := core.Vec{X: a.X + (b.X-a.X)*f, Y: a.Y + (b.Y-a.Y)*f}
			cell := grid.ToGrid(p)
			require.True(t, grid.Traversable(cell.X, cell.Y, nil),
				"route crosses blocked cell %v between %v and %v\n%s", cell, a, b, spew.Sdump(route.Points))
		}
	}
}

// segmentIndexOf returns the first segment at or after from that contains p,
// or -1.
func segmentIndexOf(points []core.Vec, p core.Vec, from int) int {
	for i := from; i < len(points)-1; i++ {
		a, b := points[i], points[i+1]
		if a.X == b.X && p.X == a.X && p.Y >= math.Min(a.Y, b.Y) && p.Y <= math.Max(a.Y, b.Y) {
			return i
		}
		if a.Y == b.Y && p.Y == a.Y && p.X >= math.Min(a.X, b.X) && p.X <= math.Max(a.X, b.X) {
			return i
		}
	}
	return -1
}
