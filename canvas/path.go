package canvas

import (
	"github.com/pkg/errors"

	"linkroute/core"
)

// ErrNotOrthogonal is returned for paths with diagonal segments.
var ErrNotOrthogonal = errors.New("path segment is not horizontal or vertical")

func armOf(d core.Direction) Arms {
	switch d {
	case core.North:
		return ArmNorth
	case core.East:
		return ArmEast
	case core.South:
		return ArmSouth
	case core.West:
		return ArmWest
	default:
		return 0
	}
}

// PathArms returns, for every cell an orthogonal polyline passes through,
// the directions the line leaves that cell in.
func PathArms(cells []core.Point) (map[core.Point]Arms, error) {
	arms := make(map[core.Point]Arms)
	for i := 0; i+1 < len(cells); i++ {
		a, b := cells[i], cells[i+1]
		if a == b {
			continue
		}
		if a.X != b.X && a.Y != b.Y {
			return nil, errors.Wrapf(ErrNotOrthogonal, "%v to %v", a, b)
		}
		dir := core.Bearing(a, b)
		out, in := armOf(dir), armOf(dir.Opposite())
		for p := a; p != b; p = p.Add(dir) {
			arms[p] |= out
			arms[p.Add(dir)] |= in
		}
	}
	return arms, nil
}

// OrthogonalRuns splits cells wherever consecutive cells are not aligned,
// which is where a route skips an unrouted segment.
func OrthogonalRuns(cells []core.Point) [][]core.Point {
	var runs [][]core.Point
	start := 0
	for i := 1; i <= len(cells); i++ {
		if i < len(cells) && (cells[i-1].X == cells[i].X || cells[i-1].Y == cells[i].Y) {
			continue
		}
		runs = append(runs, cells[start:i])
		start = i
	}
	return runs
}

// DrawPath draws an orthogonal polyline through cells with rounded corners,
// merging into whatever is already drawn.
func (c *MatrixCanvas) DrawPath(cells []core.Point, class Class) error {
	arms, err := PathArms(cells)
	if err != nil {
		return err
	}
	for p, a := range arms {
		if a == 0 {
			continue
		}
		c.setArms(p, a, class)
	}
	return nil
}

// setArms adds arms to the line already on a cell. A lone arm on a blank
// cell is drawn as a full line.
func (c *MatrixCanvas) setArms(p core.Point, arms Arms, class Class) {
	have := c.merger.ArmsOf(c.Get(p))
	_ = c.Set(p, c.merger.Glyph(have|arms), class)
}

// Arrowhead returns the arrow for travelling in d.
func Arrowhead(d core.Direction) rune {
	switch d {
	case core.North:
		return '▲'
	case core.East:
		return '▶'
	case core.South:
		return '▼'
	case core.West:
		return '◀'
	default:
		return '●'
	}
}

// DrawEndpoints marks the start of a path with a dot and its end with an
// arrow pointing along the last segment.
func (c *MatrixCanvas) DrawEndpoints(cells []core.Point, class Class) {
	if len(cells) == 0 {
		return
	}
	_ = c.Put(cells[0], '●', class)

	last := cells[len(cells)-1]
	dir := core.NoDirection
	for i := len(cells) - 2; i >= 0 && dir.IsZero(); i-- {
		dir = core.Bearing(cells[i], last)
	}
	if !dir.IsZero() {
		_ = c.Put(last, Arrowhead(dir), class)
	}
}
