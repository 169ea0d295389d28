package pathfinding

import (
	"strings"

	"github.com/pkg/errors"

	"linkroute/core"
	"linkroute/geometry"
)

// Candidate is one admissible grid node for a route endpoint.
//
// Direction is the outward normal of the side the anchor leaves from (or
// arrives at); the zero direction means the endpoint is unconstrained.
// Offset is the sub-cell distance between PaperPoint and the node, in cells.
type Candidate struct {
	GridCoord  core.Point
	PaperPoint core.Vec
	Direction  core.Direction
	Offset     float64
}

// ErrUnknownSide is returned by ParseSide.
var ErrUnknownSide = errors.New("unknown side")

// AllSides lists the four sides in the order candidates are generated.
var AllSides = []core.Direction{core.North, core.East, core.South, core.West}

// ParseSide converts a side name into its outward normal.
func ParseSide(name string) (core.Direction, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "top", "north", "up":
		return core.North, nil
	case "right", "east":
		return core.East, nil
	case "bottom", "south", "down":
		return core.South, nil
	case "left", "west":
		return core.West, nil
	default:
		return core.NoDirection, errors.Wrapf(ErrUnknownSide, "%q", name)
	}
}

// PointCandidate returns the single unconstrained candidate for a free point.
func PointCandidate(g *Grid, p core.Vec) Candidate {
	cell := g.ToGrid(p)
	origin := g.ToPaper(cell)
	return Candidate{
		GridCoord:  cell,
		PaperPoint: p,
		Offset:     geometry.ManhattanDistanceF(p.X, p.Y, origin.X, origin.Y) / g.Step,
	}
}

// RectCandidates returns one candidate per side of bbox. Each candidate sits
// on the first cell outside the padded box, on the line through the anchor
// perpendicular to that side. Empty sides means all four.
func RectCandidates(g *Grid, anchor core.Vec, bbox core.Rect, sides []core.Direction, padding float64) []Candidate {
	if len(sides) == 0 {
		sides = AllSides
	}

	candidates := make([]Candidate, 0, len(sides))
	for _, side := range sides {
		var cell core.Point
		switch side {
		case core.North:
			cell = core.Point{X: geometry.FloorDiv(anchor.X, g.Step), Y: geometry.FloorDiv(bbox.Y-padding, g.Step)}
		case core.East:
			cell = core.Point{X: geometry.CeilDiv(bbox.MaxX()+padding, g.Step), Y: geometry.FloorDiv(anchor.Y, g.Step)}
		case core.South:
			cell = core.Point{X: geometry.FloorDiv(anchor.X, g.Step), Y: geometry.CeilDiv(bbox.MaxY()+padding, g.Step)}
		case core.West:
			cell = core.Point{X: geometry.FloorDiv(bbox.X-padding, g.Step), Y: geometry.FloorDiv(anchor.Y, g.Step)}
		default:
			continue
		}

		origin := g.ToPaper(cell)
		candidates = append(candidates, Candidate{
			GridCoord:  cell,
			PaperPoint: anchor,
			Direction:  side,
			Offset:     geometry.ManhattanDistanceF(anchor.X, anchor.Y, origin.X, origin.Y) / g.Step,
		})
	}
	return candidates
}
