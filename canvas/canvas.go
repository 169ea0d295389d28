// Package canvas draws routed scenes onto a character grid, one character
// per routing cell.
package canvas

import (
	"linkroute/core"
	"linkroute/obstacles"
	"linkroute/pathfinding"
	"linkroute/scene"
)

// RenderOptions controls what RenderScene draws.
type RenderOptions struct {
	ShowObstacles bool   // Shade cells the router treats as blocked
	ShowLabels    bool   // Write element ids inside their boxes
	Markers       bool   // Dot at each link start, arrow at each end
	Highlight     string // Link id drawn with ClassHighlight
	Pan           core.Point
}

// DefaultRenderOptions returns the options used by the CLI.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{ShowLabels: true, Markers: true}
}

// RouteCells converts a routed polyline to the cells it passes through.
func RouteCells(grid *pathfinding.Grid, points []core.Vec) []core.Point {
	cells := make([]core.Point, 0, len(points))
	for _, p := range points {
		cell := grid.ToGrid(p)
		if len(cells) > 0 && cells[len(cells)-1] == cell {
			continue
		}
		cells = append(cells, cell)
	}
	return cells
}

// ElementCells returns the cell rectangle outlining r.
func ElementCells(grid *pathfinding.Grid, r core.Rect) core.Bounds {
	return grid.CellBounds(r)
}

// SceneBounds returns the cells needed to show the scene and its routes,
// with a one cell border.
func SceneBounds(s *scene.Scene, results []scene.Result) (core.Bounds, error) {
	grid, err := pathfinding.NewGrid(s.Step, nil)
	if err != nil {
		return core.Bounds{}, err
	}

	var bounds core.Bounds
	have := false
	include := func(b core.Bounds) {
		if !have {
			bounds, have = b, true
			return
		}
		bounds = bounds.Merge(b)
	}

	if extent := s.Extent(); !extent.IsEmpty() {
		include(grid.CellBounds(extent))
	}
	for _, r := range results {
		for _, cell := range RouteCells(grid, r.Route.Points) {
			include(core.BoundsOf(cell))
		}
	}
	return bounds.Inflate(1), nil
}

// RenderScene draws the scene's elements, the obstacle field and the routes
// in results onto a new canvas.
func RenderScene(s *scene.Scene, m *obstacles.ObstacleMap, results []scene.Result, opts RenderOptions) (*MatrixCanvas, error) {
	bounds, err := SceneBounds(s, results)
	if err != nil {
		return nil, err
	}
	return RenderSceneIn(s, m, results, bounds, opts)
}

// RenderSceneIn is RenderScene over a fixed cell rectangle, shifted by
// opts.Pan.
func RenderSceneIn(s *scene.Scene, m *obstacles.ObstacleMap, results []scene.Result, bounds core.Bounds, opts RenderOptions) (*MatrixCanvas, error) {
	grid, err := pathfinding.NewGrid(s.Step, nil)
	if err != nil {
		return nil, err
	}
	pan := core.Direction{DX: opts.Pan.X, DY: opts.Pan.Y}
	bounds = core.Bounds{Min: bounds.Min.Add(pan), Max: bounds.Max.Add(pan)}

	c, err := NewMatrixCanvas(bounds)
	if err != nil {
		return nil, err
	}

	if opts.ShowObstacles && m != nil {
		traversable := m.Traversable(s.Step)
		for y := bounds.Min.Y; y <= bounds.Max.Y; y++ {
			for x := bounds.Min.X; x <= bounds.Max.X; x++ {
				if !traversable(x, y, nil) {
					c.Fill(core.Point{X: x, Y: y}, '░', ClassObstacle)
				}
			}
		}
	}

	for _, e := range s.Elements {
		box := ElementCells(grid, e.Rect())
		if box.Width() < 2 || box.Height() < 2 {
			continue
		}
		_ = c.DrawBox(box, DefaultBoxStyle, ClassElement)
		if opts.ShowLabels && box.Height() > 2 {
			label := FitText(e.ID, box.Width()-2, "…")
			_ = c.DrawText(box.Min.X+1, box.Min.Y+1, label, ClassLabel)
		}
	}

	for _, r := range results {
		if len(r.Route.Points) == 0 {
			continue
		}
		class := ClassRoute
		switch {
		case r.LinkID == opts.Highlight && opts.Highlight != "":
			class = ClassHighlight
		case r.Route.IsDegraded():
			class = ClassDegraded
		}
		runs := OrthogonalRuns(RouteCells(grid, r.Route.Points))
		for _, run := range runs {
			if err := c.DrawPath(run, class); err != nil {
				return nil, err
			}
		}
		if opts.Markers {
			// A route resumed after an unrouted segment gets a second dot
			c.DrawEndpoints(runs[len(runs)-1], ClassMarker)
			_ = c.Put(runs[0][0], '●', ClassMarker)
		}
	}

	return c, nil
}
