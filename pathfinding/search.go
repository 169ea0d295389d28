package pathfinding

import (
	"linkroute/core"
	"linkroute/geometry"
)

// SearchContext owns the mutable state of one candidate-pair attempt: the
// quadrant node caches, the open list and the retrace guards. A context is
// created per attempt and released afterwards, so no search state survives
// the attempt and independent routers never share one.
type SearchContext struct {
	grid *Grid
	link any
	area core.Bounds

	nodes  *nodeCache
	open   *PriorityQueue
	guards map[core.Point]bool

	bendCost      float64
	maxExpansions int
	expansions    int
}

// NewSearchContext creates the state for one attempt over area.
func NewSearchContext(grid *Grid, link any, area core.Bounds, opts Options) *SearchContext {
	return &SearchContext{
		grid:          grid,
		link:          link,
		area:          area,
		nodes:         newNodeCache(),
		open:          NewPriorityQueue(),
		guards:        make(map[core.Point]bool),
		bendCost:      opts.BendCost,
		maxExpansions: opts.MaxExpansions,
	}
}

// Expansions returns how many nodes were closed so far.
func (s *SearchContext) Expansions() int {
	return s.expansions
}

// CachedNodes returns how many nodes the attempt has created.
func (s *SearchContext) CachedNodes() int {
	return s.nodes.size()
}

// Release clears the node caches and the open list.
func (s *SearchContext) Release() {
	s.nodes.clear()
	s.open.Clear()
	s.guards = make(map[core.Point]bool)
}

// nodeAt returns the node for (x, y), creating it on first use.
func (s *SearchContext) nodeAt(x, y int) *GridNode {
	if n, ok := s.nodes.lookup(x, y); ok {
		return n
	}
	walkable := s.area.Contains(core.Point{X: x, Y: y}) && s.grid.Traversable(x, y, s.link)
	n := NewGridNode(x, y, walkable)
	s.nodes.store(n)
	return n
}

// passable reports whether a path may enter (x, y).
func (s *SearchContext) passable(x, y int) bool {
	if !s.area.Contains(core.Point{X: x, Y: y}) {
		return false
	}
	if s.guards[core.Point{X: x, Y: y}] {
		return false
	}
	return s.nodeAt(x, y).Walkable
}

// guard pre-closes p so the path cannot double back across an anchor.
func (s *SearchContext) guard(p core.Point, keep ...*GridNode) {
	for _, n := range keep {
		if n.X == p.X && n.Y == p.Y {
			return
		}
	}
	s.nodeAt(p.X, p.Y).Closed = true
	s.guards[p] = true
}

func heuristic(n, goal *GridNode) float64 {
	return float64(geometry.ManhattanDistance(n.X, n.Y, goal.X, goal.Y))
}

// SearchPair runs a best-first jump point search from one candidate to
// another and returns the grid chain and its cost. first and last tell
// whether the attempt starts the route (the start offset is charged) and
// ends it (the goal side is guarded). inbound is used as the start's arrival
// direction when the candidate has none.
func (s *SearchContext) SearchPair(from, to Candidate, first, last bool, inbound core.Direction) ([]core.Point, float64, bool) {
	start := s.nodeAt(from.GridCoord.X, from.GridCoord.Y)
	goal := s.nodeAt(to.GridCoord.X, to.GridCoord.Y)
	if !start.Walkable || !goal.Walkable {
		return nil, 0, false
	}

	goal.Offset = to.Offset
	goal.SetPaperPoint(to.PaperPoint)
	if last {
		goal.OutboundDir = to.Direction.Opposite()
	}

	if !from.Direction.IsZero() {
		inbound = from.Direction
	}
	start.InboundDir = inbound
	start.SetPaperPoint(from.PaperPoint)
	if first {
		start.Offset = from.Offset
		start.G = from.Offset
	}
	start.H = heuristic(start, goal)
	start.F = start.G + start.H
	start.Opened = true
	s.open.Push(start)

	if !inbound.IsZero() {
		s.guard(start.Point().Sub(inbound), start, goal)
	}
	if !goal.OutboundDir.IsZero() {
		s.guard(goal.Point().Add(goal.OutboundDir), start, goal)
	}

	for !s.open.Empty() {
		if s.maxExpansions > 0 && s.expansions >= s.maxExpansions {
			return nil, 0, false
		}

		node := s.open.Pop()
		node.Closed = true
		s.expansions++

		if node == goal {
			return backtrace(node), node.G, true
		}

		s.identifySuccessors(node, goal)
	}

	return nil, 0, false
}

// identifySuccessors opens or improves the jump points reachable from node.
func (s *SearchContext) identifySuccessors(node, goal *GridNode) {
	for _, next := range s.findNeighbors(node) {
		dir := core.Bearing(node.Point(), next)
		jp, ok := s.jump(next, dir, goal)
		if !ok {
			continue
		}

		jumpNode := s.nodeAt(jp.X, jp.Y)
		if jumpNode.Closed {
			continue
		}

		// include distance, as the jump point may not be adjacent
		ng := node.G + float64(geometry.ManhattanDistance(node.X, node.Y, jp.X, jp.Y))
		if !node.InboundDir.IsZero() && node.InboundDir != dir {
			ng += s.bendCost
		}
		if jumpNode == goal {
			ng += goal.Offset
			if !goal.OutboundDir.IsZero() && goal.OutboundDir != dir {
				ng += s.bendCost
			}
		}

		if !jumpNode.Opened || ng < jumpNode.G {
			jumpNode.G = ng
			jumpNode.H = heuristic(jumpNode, goal)
			jumpNode.F = jumpNode.G + jumpNode.H
			jumpNode.Parent = node
			jumpNode.InboundDir = dir

			if !jumpNode.Opened {
				jumpNode.Opened = true
				s.open.Push(jumpNode)
			} else {
				s.open.Update(jumpNode)
			}
		}
	}
}

// findNeighbors prunes the neighbours of node. Without a parent all four
// passable neighbours are returned; otherwise only the cell ahead and the
// two cells perpendicular to the travel axis.
func (s *SearchContext) findNeighbors(node *GridNode) []core.Point {
	x, y := node.X, node.Y
	var candidates []core.Point

	if node.Parent != nil {
		dx := geometry.Sign(x - node.Parent.X)
		dy := geometry.Sign(y - node.Parent.Y)
		switch {
		case dx != 0:
			candidates = []core.Point{{X: x, Y: y - 1}, {X: x, Y: y + 1}, {X: x + dx, Y: y}}
		case dy != 0:
			candidates = []core.Point{{X: x - 1, Y: y}, {X: x + 1, Y: y}, {X: x, Y: y + dy}}
		}
	} else {
		for _, d := range core.Cardinals {
			candidates = append(candidates, node.Point().Add(d))
		}
	}

	neighbors := candidates[:0]
	for _, p := range candidates {
		if s.passable(p.X, p.Y) {
			neighbors = append(neighbors, p)
		}
	}
	return neighbors
}

// jump scans from cell `from` in direction dir and returns the first jump
// point: the goal, a cell on the goal's column (horizontal scans) or row
// (vertical scans), a cell with a forced neighbour, or the last cell before
// an obstruction.
func (s *SearchContext) jump(from core.Point, dir core.Direction, goal *GridNode) (core.Point, bool) {
	if !dir.IsCardinal() {
		violatef(ErrNonOrthogonalJump, "jump from %v toward %v", from, dir)
	}

	dx, dy := dir.DX, dir.DY
	x, y := from.X, from.Y
	for {
		if !s.passable(x, y) {
			return core.Point{}, false
		}

		here := core.Point{X: x, Y: y}
		if x == goal.X && y == goal.Y {
			return here, true
		}

		if dx != 0 {
			if x == goal.X {
				return here, true
			}
			if s.passable(x, y-1) != s.passable(x-dx, y-1) ||
				s.passable(x, y+1) != s.passable(x-dx, y+1) {
				return here, true
			}
		} else {
			if y == goal.Y {
				return here, true
			}
			if s.passable(x-1, y) != s.passable(x-1, y-dy) ||
				s.passable(x+1, y) != s.passable(x+1, y-dy) {
				return here, true
			}
		}

		if !s.passable(x+dx, y+dy) {
			return here, true
		}
		x += dx
		y += dy
	}
}
