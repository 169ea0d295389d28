package pathfinding

import (
	"github.com/pkg/errors"

	"linkroute/core"
	"linkroute/geometry"
)

// TraversableFunc reports whether the grid cell (x, y) may be crossed by the
// link identified by ctx. The context is opaque to the router.
type TraversableFunc func(x, y int, ctx any) bool

// Grid maps continuous canvas coordinates onto an integer lattice.
//
// A Grid is owned by one Router: the obstacle override is toggled during the
// fallback retry and must not be observed by other routing calls.
type Grid struct {
	Step   float64   // Cell size in continuous units
	Bounds core.Rect // Optional canvas extent; empty means "around the endpoints"

	traversable     TraversableFunc
	ignoreObstacles bool
}

// NewGrid creates a grid with the given cell size and obstacle predicate.
// A nil predicate makes every cell traversable.
func NewGrid(step float64, traversable TraversableFunc) (*Grid, error) {
	if !(step > 0) {
		return nil, errors.Wrapf(ErrInvalidStep, "step %v", step)
	}
	return &Grid{Step: step, traversable: traversable}, nil
}

// Traversable reports whether (x, y) is free for the link ctx. Every cell is
// traversable while obstacles are ignored.
func (g *Grid) Traversable(x, y int, ctx any) bool {
	if g.ignoreObstacles || g.traversable == nil {
		return true
	}
	return g.traversable(x, y, ctx)
}

// SetIgnoreObstacles toggles the obstacle override.
func (g *Grid) SetIgnoreObstacles(ignore bool) {
	g.ignoreObstacles = ignore
}

// IgnoresObstacles reports whether the obstacle override is active.
func (g *Grid) IgnoresObstacles() bool {
	return g.ignoreObstacles
}

// ToGrid returns the cell containing v.
func (g *Grid) ToGrid(v core.Vec) core.Point {
	return core.Point{X: geometry.FloorDiv(v.X, g.Step), Y: geometry.FloorDiv(v.Y, g.Step)}
}

// ToPaper returns the continuous origin of cell p.
func (g *Grid) ToPaper(p core.Point) core.Vec {
	return core.Vec{X: float64(p.X) * g.Step, Y: float64(p.Y) * g.Step}
}

// CellBounds converts a continuous rectangle into the cells it touches.
func (g *Grid) CellBounds(r core.Rect) core.Bounds {
	return core.Bounds{
		Min: g.ToGrid(core.Vec{X: r.X, Y: r.Y}),
		Max: core.Point{X: geometry.CeilDiv(r.MaxX(), g.Step), Y: geometry.CeilDiv(r.MaxY(), g.Step)},
	}
}

// Quadrant partitions the lattice by coordinate sign:
// 0 for x >= 0, y >= 0; 1 for x < 0, y >= 0; 2 for x < 0, y < 0; 3 for x >= 0, y < 0.
func Quadrant(x, y int) int {
	switch {
	case x >= 0 && y >= 0:
		return 0
	case x < 0 && y >= 0:
		return 1
	case x < 0:
		return 2
	default:
		return 3
	}
}

// nodeKey identifies a cell inside its quadrant. Magnitudes are unique within
// a quadrant, so the key never collides.
type nodeKey struct {
	ax, ay int
}

// nodeCache holds the lazily created nodes of one segment attempt, split
// into four sparse quadrant maps.
type nodeCache struct {
	quadrants [4]map[nodeKey]*GridNode
}

func newNodeCache() *nodeCache {
	c := &nodeCache{}
	for i := range c.quadrants {
		c.quadrants[i] = make(map[nodeKey]*GridNode)
	}
	return c
}

// lookup returns the cached node at (x, y).
func (c *nodeCache) lookup(x, y int) (*GridNode, bool) {
	n, ok := c.quadrants[Quadrant(x, y)][nodeKey{ax: geometry.Abs(x), ay: geometry.Abs(y)}]
	return n, ok
}

// store caches n under its own coordinates.
func (c *nodeCache) store(n *GridNode) {
	c.quadrants[Quadrant(n.X, n.Y)][nodeKey{ax: geometry.Abs(n.X), ay: geometry.Abs(n.Y)}] = n
}

// size returns the number of cached nodes.
func (c *nodeCache) size() int {
	total := 0
	for _, q := range c.quadrants {
		total += len(q)
	}
	return total
}

// clear drops every cached node.
func (c *nodeCache) clear() {
	for i := range c.quadrants {
		c.quadrants[i] = make(map[nodeKey]*GridNode)
	}
}
