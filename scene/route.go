package scene

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"linkroute/core"
	"linkroute/obstacles"
	"linkroute/pathfinding"
)

// Result is the outcome of routing one link.
type Result struct {
	LinkID string
	Route  pathfinding.Route
	Err    error
}

// Obstacle returns the element as an obstacle.
func (e Element) Obstacle() obstacles.Obstacle {
	return obstacles.Obstacle{ID: e.ID, Kind: e.Kind, Parent: e.Parent, Bounds: e.Rect()}
}

// ObstacleMap indexes the scene's elements, parents first.
func (s *Scene) ObstacleMap() (*obstacles.ObstacleMap, error) {
	cfg := obstacles.DefaultConfig()
	cfg.Padding = s.Padding
	cfg.ExcludeEnds = s.ExcludeEnds
	cfg.ExcludeKinds = s.ExcludeKinds
	m := obstacles.NewObstacleMap(cfg)

	parents := make(map[string]string, len(s.Elements))
	for _, e := range s.Elements {
		parents[e.ID] = e.Parent
	}
	depth := func(id string) int {
		d := 0
		for p := parents[id]; p != "" && d <= len(parents); p = parents[p] {
			d++
		}
		return d
	}

	ordered := append([]Element(nil), s.Elements...)
	sort.SliceStable(ordered, func(i, j int) bool { return depth(ordered[i].ID) < depth(ordered[j].ID) })

	for _, e := range ordered {
		if err := m.Add(e.Obstacle()); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// NewGrid creates a routing grid for the scene over the given obstacles.
// Every search covers at least RoutingBounds.
func (s *Scene) NewGrid(m *obstacles.ObstacleMap) (*pathfinding.Grid, error) {
	grid, err := pathfinding.NewGrid(s.Step, m.Traversable(s.Step))
	if err != nil {
		return nil, err
	}
	grid.Bounds = s.RoutingBounds(m)
	return grid, nil
}

// RoutingBounds is the scene extent merged with the padded obstacles, grown
// by the padding, so a detour around any element stays inside the search
// area.
func (s *Scene) RoutingBounds(m *obstacles.ObstacleMap) core.Rect {
	bounds := s.Extent()
	if m != nil {
		bounds = bounds.Union(m.Bounds())
	}
	if bounds.IsEmpty() {
		return bounds
	}
	return bounds.Inflate(s.Padding)
}

// Candidates returns the routing candidates of an endpoint on grid.
func (s *Scene) Candidates(grid *pathfinding.Grid, end Endpoint) ([]pathfinding.Candidate, error) {
	if end.Point != nil {
		return []pathfinding.Candidate{pathfinding.PointCandidate(grid, *end.Point)}, nil
	}

	element, ok := s.Element(end.Element)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownElement, "%q", end.Element)
	}
	bbox := element.Rect()
	anchor := bbox.Center()
	if end.Anchor != nil {
		anchor = *end.Anchor
	}

	sides := make([]core.Direction, 0, len(end.Sides))
	for _, name := range end.Sides {
		side, err := pathfinding.ParseSide(name)
		if err != nil {
			return nil, err
		}
		sides = append(sides, side)
	}
	return pathfinding.RectCandidates(grid, anchor, bbox, sides, s.Padding), nil
}

// LinkContext identifies a link to the obstacle map.
func (s *Scene) LinkContext(l Link) obstacles.LinkContext {
	return obstacles.LinkContext{LinkID: l.ID, SourceID: l.Source.Element, TargetID: l.Target.Element}
}

// Request is everything a router needs for one link.
type Request struct {
	Source    []pathfinding.Candidate
	Target    []pathfinding.Candidate
	Waypoints []core.Vec
	Context   obstacles.LinkContext
}

// Request builds the routing request of link l on grid.
func (s *Scene) Request(grid *pathfinding.Grid, l Link) (Request, error) {
	source, err := s.Candidates(grid, l.Source)
	if err != nil {
		return Request{}, errors.Wrapf(err, "link %q source", l.ID)
	}
	target, err := s.Candidates(grid, l.Target)
	if err != nil {
		return Request{}, errors.Wrapf(err, "link %q target", l.ID)
	}
	return Request{
		Source:    source,
		Target:    target,
		Waypoints: l.Waypoints,
		Context:   s.LinkContext(l),
	}, nil
}

// RouteLink routes a single link with its own grid and router.
func (s *Scene) RouteLink(m *obstacles.ObstacleMap, l Link, opts ...pathfinding.RouterOption) Result {
	result := Result{LinkID: l.ID}

	grid, err := s.NewGrid(m)
	if err != nil {
		result.Err = err
		return result
	}
	req, err := s.Request(grid, l)
	if err != nil {
		result.Err = err
		return result
	}

	router := pathfinding.NewRouter(grid, opts...)
	result.Route, result.Err = router.FindPath(req.Source, req.Target, req.Waypoints, req.Context, s.Options())
	return result
}

// RouteAll validates the scene and routes every link on a pool of workers.
// Each link gets its own grid and router; results come back in link order.
// Links not started before ctx is cancelled carry the context error.
func (s *Scene) RouteAll(ctx context.Context, workers int, opts ...pathfinding.RouterOption) ([]Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	m, err := s.ObstacleMap()
	if err != nil {
		return nil, err
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]Result, len(s.Links))
	for i, l := range s.Links {
		results[i] = Result{LinkID: l.ID}
	}

	tasks := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range tasks {
				results[idx] = s.RouteLink(m, s.Links[idx], opts...)
			}
		}()
	}

	next := 0
feed:
	for ; next < len(s.Links) && ctx.Err() == nil; next++ {
		select {
		case <-ctx.Done():
			break feed
		case tasks <- next:
		}
	}
	close(tasks)
	wg.Wait()

	if next < len(s.Links) {
		err := ctx.Err()
		for i := next; i < len(results); i++ {
			results[i].Err = err
		}
		return results, err
	}
	return results, nil
}
