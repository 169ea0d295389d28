package obstacles

import (
	"math"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"linkroute/core"
	"linkroute/pathfinding"
)

type bucketKey struct {
	x, y int
}

type entry struct {
	obstacle Obstacle
	padded   core.Rect
	buckets  []bucketKey
}

// ObstacleMap divides the canvas into square buckets, each holding the
// obstacles that overlap it, so a point query only tests nearby rectangles.
//
// Queries are safe for concurrent use; Add and Remove take the write lock
// and bump Revision.
type ObstacleMap struct {
	mu       sync.RWMutex
	config   Config
	entries  map[string]*entry
	index    map[bucketKey][]*entry
	kinds    map[string]bool
	revision uint64
}

// NewObstacleMap creates an empty map. A non-positive MapGridSize uses the
// default.
func NewObstacleMap(config Config) *ObstacleMap {
	if config.MapGridSize <= 0 {
		config.MapGridSize = DefaultConfig().MapGridSize
	}
	kinds := make(map[string]bool, len(config.ExcludeKinds))
	for _, k := range config.ExcludeKinds {
		kinds[k] = true
	}
	return &ObstacleMap{
		config:  config,
		entries: make(map[string]*entry),
		index:   make(map[bucketKey][]*entry),
		kinds:   kinds,
	}
}

// Config returns the map's configuration.
func (m *ObstacleMap) Config() Config {
	return m.config
}

// Add indexes an obstacle. Its parent, if named, must already be present.
func (m *ObstacleMap) Add(o Obstacle) error {
	if o.Bounds.IsEmpty() {
		return errors.Wrapf(ErrEmptyObstacle, "%q", o.ID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[o.ID]; exists {
		return errors.Wrapf(ErrDuplicateObstacle, "%q", o.ID)
	}
	if o.Parent != "" {
		if _, ok := m.entries[o.Parent]; !ok {
			return errors.Wrapf(ErrUnknownParent, "%q of %q", o.Parent, o.ID)
		}
	}

	e := &entry{obstacle: o, padded: o.Bounds.Inflate(m.config.Padding)}
	size := m.config.MapGridSize
	minX, minY := bucketOf(e.padded.X, size), bucketOf(e.padded.Y, size)
	maxX, maxY := bucketOf(e.padded.MaxX(), size), bucketOf(e.padded.MaxY(), size)
	for bx := minX; bx <= maxX; bx++ {
		for by := minY; by <= maxY; by++ {
			key := bucketKey{x: bx, y: by}
			m.index[key] = append(m.index[key], e)
			e.buckets = append(e.buckets, key)
		}
	}

	m.entries[o.ID] = e
	m.revision++
	return nil
}

// Remove drops an obstacle and reports whether it was present. Children keep
// their Parent reference, which then no longer resolves.
func (m *ObstacleMap) Remove(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[id]
	if !ok {
		return false
	}
	for _, key := range e.buckets {
		bucket := m.index[key]
		for i, other := range bucket {
			if other == e {
				bucket = append(bucket[:i], bucket[i+1:]...)
				break
			}
		}
		if len(bucket) == 0 {
			delete(m.index, key)
		} else {
			m.index[key] = bucket
		}
	}
	delete(m.entries, id)
	m.revision++
	return true
}

// Get returns the obstacle with the given id.
func (m *ObstacleMap) Get(id string) (Obstacle, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[id]
	if !ok {
		return Obstacle{}, false
	}
	return e.obstacle, true
}

// Obstacles returns every obstacle sorted by id.
func (m *ObstacleMap) Obstacles() []Obstacle {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]Obstacle, 0, len(m.entries))
	for _, e := range m.entries {
		result = append(result, e.obstacle)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// Len returns the number of obstacles.
func (m *ObstacleMap) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Revision changes whenever the set of obstacles changes.
func (m *ObstacleMap) Revision() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.revision
}

// Ancestors returns the chain of parents of id, nearest first.
func (m *ObstacleMap) Ancestors(id string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var chain []string
	for e, ok := m.entries[id]; ok && e.obstacle.Parent != ""; e, ok = m.entries[e.obstacle.Parent] {
		chain = append(chain, e.obstacle.Parent)
		if len(chain) > len(m.entries) {
			break
		}
	}
	return chain
}

// IsPointAccessible reports whether p lies strictly inside no padded
// obstacle that applies to the link in ctx.
func (m *ObstacleMap) IsPointAccessible(p core.Vec, ctx any) bool {
	link, hasLink := linkFrom(ctx)

	m.mu.RLock()
	defer m.mu.RUnlock()

	key := bucketKey{x: bucketOf(p.X, m.config.MapGridSize), y: bucketOf(p.Y, m.config.MapGridSize)}
	for _, e := range m.index[key] {
		if !e.padded.ContainsStrict(p) {
			continue
		}
		if m.kinds[e.obstacle.Kind] {
			continue
		}
		if hasLink && m.excludedFor(e.obstacle.ID, link) {
			continue
		}
		return false
	}
	return true
}

// excludedFor reports whether the obstacle is one the link may cross: its
// own ends when ExcludeEnds is set, and any element embedding them.
// Callers hold the read lock.
func (m *ObstacleMap) excludedFor(id string, link LinkContext) bool {
	for _, end := range []string{link.SourceID, link.TargetID} {
		if end == "" {
			continue
		}
		if m.config.ExcludeEnds && end == id {
			return true
		}
		hops := 0
		for e, ok := m.entries[end]; ok && e.obstacle.Parent != ""; e, ok = m.entries[e.obstacle.Parent] {
			if e.obstacle.Parent == id {
				return true
			}
			if hops++; hops > len(m.entries) {
				break
			}
		}
	}
	return false
}

// Traversable returns the router predicate for a grid with the given step:
// cell (x, y) is free when its origin is accessible.
func (m *ObstacleMap) Traversable(step float64) pathfinding.TraversableFunc {
	return func(x, y int, ctx any) bool {
		return m.IsPointAccessible(core.Vec{X: float64(x) * step, Y: float64(y) * step}, ctx)
	}
}

// Bounds returns the union of all padded obstacles, or an empty rectangle.
func (m *ObstacleMap) Bounds() core.Rect {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var union core.Rect
	for _, e := range m.entries {
		union = union.Union(e.padded)
	}
	return union
}

func bucketOf(v, size float64) int {
	return int(math.Floor(v / size))
}
