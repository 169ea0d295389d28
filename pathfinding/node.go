package pathfinding

import (
	"linkroute/core"
)

// GridNode is the per-query search record of one grid cell.
//
// Nodes are created lazily by a SearchContext and never outlive the segment
// attempt that created them. Parent is a back reference for path
// reconstruction only.
type GridNode struct {
	X, Y     int
	Walkable bool

	G float64 // Cost from the segment start
	H float64 // Heuristic cost to the goal
	F float64 // G + H

	Opened bool
	Closed bool
	Parent *GridNode

	InboundDir  core.Direction // Direction of travel when arriving here
	OutboundDir core.Direction // Required direction of departure (goal only)

	PaperPoint    core.Vec // Continuous anchor, set at segment boundaries
	HasPaperPoint bool
	Offset        float64 // Sub-cell distance between anchor and node, in cells

	index int // slot in the open list, -1 when not queued
	seq   int // insertion order, the last tie-breaker
}

// NewGridNode creates a node at (x, y).
func NewGridNode(x, y int, walkable bool) *GridNode {
	return &GridNode{X: x, Y: y, Walkable: walkable, index: -1}
}

// Point returns the node's cell.
func (n *GridNode) Point() core.Point {
	return core.Point{X: n.X, Y: n.Y}
}

// Reset clears the search scratch state. Walkability and position are kept.
func (n *GridNode) Reset() {
	n.G, n.H, n.F = 0, 0, 0
	n.Opened, n.Closed = false, false
	n.Parent = nil
	n.InboundDir = core.NoDirection
	n.OutboundDir = core.NoDirection
	n.PaperPoint = core.Vec{}
	n.HasPaperPoint = false
	n.Offset = 0
	n.index = -1
	n.seq = 0
}

// SetPaperPoint anchors the node to a continuous point.
func (n *GridNode) SetPaperPoint(v core.Vec) {
	n.PaperPoint = v
	n.HasPaperPoint = true
}

// backtrace walks parent links from n and returns the chain start first.
func backtrace(n *GridNode) []core.Point {
	var points []core.Point
	for current := n; current != nil; current = current.Parent {
		points = append(points, current.Point())
	}
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
	return points
}
