// Package pathfinding routes obstacle-avoiding orthogonal links over a grid
// with a jump point search.
package pathfinding

import (
	"io"
	"log/slog"
	"sync"

	"github.com/pkg/errors"

	"linkroute/core"
)

// Options tunes a single routing request.
type Options struct {
	BendCost      float64 // Penalty for each change of direction, in cells
	MaxExpansions int     // Node expansions per candidate pair (0 = unlimited)
	Margin        int     // Cells added around the endpoints to form the search area (<= 0 uses the default)
}

// DefaultOptions provides reasonable defaults for routing.
var DefaultOptions = Options{
	BendCost:      1,
	MaxExpansions: 50000,
	Margin:        8,
}

// Route is the outcome of FindPath.
type Route struct {
	Points []core.Vec // Orthogonal polyline from the source anchor to the target anchor
	Cost   float64

	// Degraded lists segments that were only routable with obstacles ignored.
	Degraded []int
	// Unrouted lists segments that produced no path even after the retry.
	// They contribute no points.
	Unrouted []int
}

// IsDegraded returns true if any segment ignored obstacles.
func (r Route) IsDegraded() bool {
	return len(r.Degraded) > 0
}

// IsComplete returns true if every segment was routed.
func (r Route) IsComplete() bool {
	return len(r.Unrouted) == 0 && len(r.Points) > 0
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithLogger sets the logger used for routing diagnostics.
func WithLogger(logger *slog.Logger) RouterOption {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Router computes routes on one Grid. Calls on the same Router are
// serialized; route independent links concurrently with independent routers.
type Router struct {
	mu     sync.Mutex
	grid   *Grid
	logger *slog.Logger
}

// NewRouter creates a router over grid.
func NewRouter(grid *Grid, opts ...RouterOption) *Router {
	r := &Router{
		grid:   grid,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Grid returns the grid the router searches.
func (r *Router) Grid() *Grid {
	return r.grid
}

// segment describes one leg of a route between two mandatory points.
type segment struct {
	index   int
	from    []Candidate
	to      []Candidate
	first   bool
	last    bool
	inbound core.Direction
}

// segmentResult is the cheapest chain found for a segment.
type segmentResult struct {
	chain []core.Point
	cost  float64
	from  Candidate
	to    Candidate
}

// FindPath routes a link from one of the source candidates to one of the
// target candidates through the waypoints, in order. link is passed through
// to the grid's traversable predicate.
//
// The only error raised by the search itself is a contract violation
// (ErrNonOrthogonalJump). Blocked segments are retried once with obstacles
// ignored and reported in Route.Degraded; segments that still fail are
// reported in Route.Unrouted.
func (r *Router) FindPath(source, target []Candidate, waypoints []core.Vec, link any, opts Options) (route Route, err error) {
	if len(source) == 0 {
		return Route{}, errors.Wrap(ErrNoCandidates, "source")
	}
	if len(target) == 0 {
		return Route{}, errors.Wrap(ErrNoCandidates, "target")
	}
	if opts.BendCost < 0 {
		return Route{}, errors.Wrapf(ErrNegativeBendCost, "bend cost %v", opts.BendCost)
	}
	if opts.Margin <= 0 {
		opts.Margin = DefaultOptions.Margin
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	defer func() {
		if rec := recover(); rec != nil {
			route = Route{}
			err = recoverViolation(rec)
		}
	}()

	area := r.searchArea(source, target, waypoints, opts.Margin)
	count := len(waypoints) + 1

	var (
		chain       []core.Point
		prevEndDir  = core.NoDirection
		startAnchor = source[0].PaperPoint
		endAnchor   = target[0].PaperPoint
		startRouted bool
		endRouted   bool
	)

	for i := 0; i < count; i++ {
		seg := segment{
			index:   i,
			from:    source,
			to:      target,
			first:   i == 0,
			last:    i == count-1,
			inbound: prevEndDir,
		}
		if !seg.first {
			seg.from = []Candidate{r.waypointCandidate(waypoints[i-1])}
		}
		if !seg.last {
			seg.to = []Candidate{r.waypointCandidate(waypoints[i])}
		}

		result, ok := r.routeSegment(seg, link, area, opts)
		if !ok {
			r.logger.Warn("segment blocked, retrying with obstacles ignored", "segment", i)
			result, ok = r.retrySegment(seg, link, area, opts)
			if ok {
				route.Degraded = append(route.Degraded, i)
			}
		}
		if !ok {
			r.logger.Warn("segment unrouted", "segment", i)
			route.Unrouted = append(route.Unrouted, i)
			prevEndDir = core.NoDirection
			continue
		}

		r.logger.Debug("segment routed", "segment", i, "cost", result.cost, "points", len(result.chain))
		route.Cost += result.cost

		if seg.first {
			startAnchor = result.from.PaperPoint
			startRouted = true
		}
		if seg.last {
			endAnchor = result.to.PaperPoint
			endRouted = true
		}

		points := result.chain
		if len(chain) > 0 && len(points) > 0 && chain[len(chain)-1] == points[0] {
			points = points[1:]
		}
		chain = append(chain, points...)

		if n := len(result.chain); n >= 2 {
			prevEndDir = core.Bearing(result.chain[n-2], result.chain[n-1])
		}
	}

	route.Points = r.finish(chain, startAnchor, endAnchor, startRouted, endRouted)
	return route, nil
}

// routeSegment tries every candidate pair with a fresh search context and
// keeps the cheapest chain.
func (r *Router) routeSegment(seg segment, link any, area core.Bounds, opts Options) (segmentResult, bool) {
	var (
		best  segmentResult
		found bool
	)

	for _, from := range seg.from {
		for _, to := range seg.to {
			ctx := NewSearchContext(r.grid, link, area, opts)
			chain, cost, ok := ctx.SearchPair(from, to, seg.first, seg.last, seg.inbound)
			expansions, nodes := ctx.Expansions(), ctx.CachedNodes()
			ctx.Release()

			if !ok {
				r.logger.Debug("candidate pair skipped",
					"segment", seg.index, "from", from.GridCoord, "to", to.GridCoord,
					"expansions", expansions, "nodes", nodes)
				continue
			}
			if !found || cost < best.cost {
				best = segmentResult{chain: chain, cost: cost, from: from, to: to}
				found = true
			}
		}
	}

	return best, found
}

// retrySegment routes the segment once more with obstacles ignored. The
// override is lifted again whatever the outcome.
func (r *Router) retrySegment(seg segment, link any, area core.Bounds, opts Options) (segmentResult, bool) {
	r.grid.SetIgnoreObstacles(true)
	defer r.grid.SetIgnoreObstacles(false)

	return r.routeSegment(seg, link, area, opts)
}

// waypointCandidate pins a segment boundary to the cell of a waypoint.
func (r *Router) waypointCandidate(p core.Vec) Candidate {
	return Candidate{GridCoord: r.grid.ToGrid(p), PaperPoint: p}
}

// searchArea bounds every jump scan: the endpoints, waypoints and the grid's
// canvas bounds, grown by margin cells.
func (r *Router) searchArea(source, target []Candidate, waypoints []core.Vec, margin int) core.Bounds {
	area := core.BoundsOf(source[0].GridCoord)
	for _, c := range source {
		area = area.Extend(c.GridCoord)
	}
	for _, c := range target {
		area = area.Extend(c.GridCoord)
	}
	for _, p := range waypoints {
		area = area.Extend(r.grid.ToGrid(p))
	}
	if !r.grid.Bounds.IsEmpty() {
		area = area.Merge(r.grid.CellBounds(r.grid.Bounds))
	}
	return area.Inflate(margin)
}

// finish scales the grid chain to canvas coordinates and pins its ends to
// the anchors.
func (r *Router) finish(chain []core.Point, start, end core.Vec, snapStart, snapEnd bool) []core.Vec {
	if len(chain) == 0 {
		return nil
	}

	points := make([]core.Vec, len(chain))
	for i, p := range chain {
		points[i] = r.grid.ToPaper(p)
	}
	points = SimplifyPath(points)

	if len(points) == 1 {
		switch {
		case snapStart && snapEnd:
			return JoinAnchors(start, end)
		case snapStart:
			return JoinAnchors(start, points[0])
		case snapEnd:
			return JoinAnchors(points[0], end)
		default:
			return points
		}
	}

	if snapStart {
		points = SimplifyPath(snapHead(points, start, r.grid.Step, false))
	}
	if snapEnd {
		if len(points) == 1 {
			return JoinAnchors(points[0], end)
		}
		reverse(points)
		points = snapHead(points, end, r.grid.Step, snapStart)
		reverse(points)
	}
	return SimplifyPath(points)
}
