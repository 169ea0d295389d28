package canvas

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkroute/core"
	"linkroute/pathfinding"
	"linkroute/scene"
)

func routedScene(t *testing.T) (*scene.Scene, []scene.Result) {
	t.Helper()
	s, err := scene.Load("../scene/testdata/basic.yaml")
	require.NoError(t, err)
	results, err := s.RouteAll(context.Background(), 2)
	require.NoError(t, err)
	return s, results
}

func TestRouteCells(t *testing.T) {
	grid, err := pathfinding.NewGrid(10, nil)
	require.NoError(t, err)
	points := []core.Vec{{X: 35, Y: 50}, {X: 38, Y: 50}, {X: 60, Y: 50}, {X: 60, Y: -5}}
	assert.Equal(t, pts(3, 5, 6, 5, 6, -1), RouteCells(grid, points))
}

func TestRenderScene(t *testing.T) {
	s, results := routedScene(t)
	m, err := s.ObstacleMap()
	require.NoError(t, err)

	opts := DefaultRenderOptions()
	opts.ShowObstacles = true
	c, err := RenderScene(s, m, results, opts)
	require.NoError(t, err)

	// a-b starts inside a and arrives at b's left side travelling east
	assert.Equal(t, '●', c.Get(core.Point{X: 3, Y: 5}))
	assert.Equal(t, '▶', c.Get(core.Point{X: 16, Y: 5}))
	assert.Equal(t, ClassMarker, c.ClassAt(core.Point{X: 16, Y: 5}))

	// The wall is outlined, labelled and shaded
	assert.Equal(t, '┌', c.Get(core.Point{X: 9, Y: 3}))
	assert.Equal(t, 'w', c.Get(core.Point{X: 10, Y: 4}))
	assert.Equal(t, '░', c.Get(core.Point{X: 10, Y: 5}))
	assert.Equal(t, ClassObstacle, c.ClassAt(core.Point{X: 10, Y: 5}))

	grid, err := pathfinding.NewGrid(s.Step, nil)
	require.NoError(t, err)
	for _, r := range results {
		for _, cell := range RouteCells(grid, r.Route.Points) {
			assert.True(t, c.Bounds().Contains(cell), "%s leaves the canvas at %v", r.LinkID, cell)
		}
	}

	assert.Empty(t, c.Validate(), "\n%s", c)

	out := c.String()
	assert.True(t, strings.ContainsAny(out, "╭╮╰╯"), "routes bend with rounded corners")
	assert.NotContains(t, out, "\x00")
	assert.Equal(t, c.Bounds().Height(), strings.Count(out, "\n")+1)
}

func TestRenderScene_Highlight(t *testing.T) {
	s, results := routedScene(t)
	opts := DefaultRenderOptions()
	opts.Highlight = "a-b"
	c, err := RenderScene(s, nil, results, opts)
	require.NoError(t, err)

	// One cell right of the start marker is on the a-b route
	assert.Equal(t, ClassHighlight, c.ClassAt(core.Point{X: 4, Y: 5}))
	assert.NotContains(t, c.String(), "░")
}

func TestRenderSceneIn_Pan(t *testing.T) {
	s, results := routedScene(t)
	bounds := core.Bounds{Max: core.Point{X: 4, Y: 4}}

	opts := DefaultRenderOptions()
	opts.Pan = core.Point{X: 2, Y: 3}
	c, err := RenderSceneIn(s, nil, results, bounds, opts)
	require.NoError(t, err)
	assert.Equal(t, core.Point{X: 2, Y: 3}, c.Bounds().Min)
	assert.Equal(t, '┌', c.Get(core.Point{X: 2, Y: 4}))
}
