package pathfinding

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"linkroute/core"
)

// RouteCacheKey identifies a routing request against one obstacle revision.
type RouteCacheKey struct {
	Request  string // RequestKey of the grid, candidates, waypoints, link and options
	Revision uint64 // Caller's version of the obstacle field
}

// RouteCache stores previously computed routes for reuse.
type RouteCache struct {
	mu        sync.RWMutex
	cache     map[RouteCacheKey]Route
	maxSize   int
	hits      int64 // Use atomic operations
	misses    int64 // Use atomic operations
	evictions int64 // Use atomic operations
}

// NewRouteCache creates a new route cache with the specified maximum size.
func NewRouteCache(maxSize int) *RouteCache {
	return &RouteCache{
		cache:   make(map[RouteCacheKey]Route),
		maxSize: maxSize,
	}
}

// Get retrieves a route from the cache if it exists.
func (rc *RouteCache) Get(key RouteCacheKey) (Route, bool) {
	rc.mu.RLock()
	route, found := rc.cache[key]
	rc.mu.RUnlock()

	if found {
		atomic.AddInt64(&rc.hits, 1)
		return cloneRoute(route), true
	}
	atomic.AddInt64(&rc.misses, 1)
	return Route{}, false
}

// Put stores a route in the cache.
func (rc *RouteCache) Put(key RouteCacheKey, route Route) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if _, exists := rc.cache[key]; !exists && len(rc.cache) >= rc.maxSize && rc.maxSize > 0 {
		// Evict an arbitrary entry
		for k := range rc.cache {
			delete(rc.cache, k)
			atomic.AddInt64(&rc.evictions, 1)
			break
		}
	}

	rc.cache[key] = cloneRoute(route)
}

// Clear removes all entries from the cache.
func (rc *RouteCache) Clear() {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.cache = make(map[RouteCacheKey]Route)
	atomic.StoreInt64(&rc.hits, 0)
	atomic.StoreInt64(&rc.misses, 0)
	atomic.StoreInt64(&rc.evictions, 0)
}

// Stats returns cache statistics.
func (rc *RouteCache) Stats() (hits, misses, evictions, size int) {
	rc.mu.RLock()
	size = len(rc.cache)
	rc.mu.RUnlock()

	hits = int(atomic.LoadInt64(&rc.hits))
	misses = int(atomic.LoadInt64(&rc.misses))
	evictions = int(atomic.LoadInt64(&rc.evictions))

	return hits, misses, evictions, size
}

// String returns a string representation of cache statistics.
func (rc *RouteCache) String() string {
	hits, misses, evictions, size := rc.Stats()
	hitRate := 0.0
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}

	return fmt.Sprintf("RouteCache[size=%d/%d, hits=%d, misses=%d, hitRate=%.1f%%, evictions=%d]",
		size, rc.maxSize, hits, misses, hitRate, evictions)
}

func cloneRoute(r Route) Route {
	return Route{
		Points:   append([]core.Vec(nil), r.Points...),
		Cost:     r.Cost,
		Degraded: append([]int(nil), r.Degraded...),
		Unrouted: append([]int(nil), r.Unrouted...),
	}
}

// CachedRouter wraps a Router with caching functionality. The caller bumps
// the revision whenever the obstacle field changes.
type CachedRouter struct {
	router *Router
	cache  *RouteCache
}

// NewCachedRouter creates a new cached router.
func NewCachedRouter(router *Router, cacheSize int) *CachedRouter {
	return &CachedRouter{
		router: router,
		cache:  NewRouteCache(cacheSize),
	}
}

// FindPath returns the cached route for the request, routing on a miss.
func (cr *CachedRouter) FindPath(revision uint64, source, target []Candidate, waypoints []core.Vec, link any, opts Options) (Route, error) {
	key := RouteCacheKey{
		Request:  RequestKey(cr.router.grid, source, target, waypoints, link, opts),
		Revision: revision,
	}

	if route, found := cr.cache.Get(key); found {
		return route, nil
	}

	route, err := cr.router.FindPath(source, target, waypoints, link, opts)
	if err != nil {
		return route, err
	}

	cr.cache.Put(key, route)
	return route, nil
}

// ClearCache clears the route cache.
func (cr *CachedRouter) ClearCache() {
	cr.cache.Clear()
}

// CacheStats returns the cache statistics.
func (cr *CachedRouter) CacheStats() string {
	return cr.cache.String()
}

// RequestKey encodes every input of a routing request except the obstacle
// field. Equal keys mean equal requests; the link context is encoded through
// its %#v formatting.
func RequestKey(grid *Grid, source, target []Candidate, waypoints []core.Vec, link any, opts Options) string {
	var buf bytes.Buffer

	writeFloat(&buf, grid.Step)
	writeFloat(&buf, grid.Bounds.X)
	writeFloat(&buf, grid.Bounds.Y)
	writeFloat(&buf, grid.Bounds.Width)
	writeFloat(&buf, grid.Bounds.Height)
	writeCandidates(&buf, source)
	writeCandidates(&buf, target)
	writeInt(&buf, len(waypoints))
	for _, p := range waypoints {
		writeFloat(&buf, p.X)
		writeFloat(&buf, p.Y)
	}
	writeFloat(&buf, opts.BendCost)
	writeInt(&buf, opts.MaxExpansions)
	writeInt(&buf, opts.Margin)
	buf.WriteString(fmt.Sprintf("%#v", link))

	return buf.String()
}

func writeCandidates(buf *bytes.Buffer, candidates []Candidate) {
	writeInt(buf, len(candidates))
	for _, c := range candidates {
		writeInt(buf, c.GridCoord.X)
		writeInt(buf, c.GridCoord.Y)
		writeFloat(buf, c.PaperPoint.X)
		writeFloat(buf, c.PaperPoint.Y)
		writeInt(buf, c.Direction.DX)
		writeInt(buf, c.Direction.DY)
		writeFloat(buf, c.Offset)
	}
}

func writeInt(buf *bytes.Buffer, v int) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(int64(v)))
	buf.Write(b[:])
}

func writeFloat(buf *bytes.Buffer, v float64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
	buf.Write(b[:])
}
