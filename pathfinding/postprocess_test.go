package pathfinding

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"linkroute/core"
)

func vecs(coords ...float64) []core.Vec {
	points := make([]core.Vec, 0, len(coords)/2)
	for i := 0; i+1 < len(coords); i += 2 {
		points = append(points, core.Vec{X: coords[i], Y: coords[i+1]})
	}
	return points
}

func TestSimplifyPath(t *testing.T) {
	tests := []struct {
		name string
		in   []core.Vec
		want []core.Vec
	}{
		{name: "empty", in: nil, want: nil},
		{name: "single", in: vecs(1, 1), want: vecs(1, 1)},
		{name: "duplicates", in: vecs(0, 0, 0, 0, 10, 0, 10, 0), want: vecs(0, 0, 10, 0)},
		{name: "collinear run", in: vecs(0, 0, 10, 0, 20, 0, 30, 0), want: vecs(0, 0, 30, 0)},
		{name: "corner kept", in: vecs(0, 0, 10, 0, 10, 10, 10, 20), want: vecs(0, 0, 10, 0, 10, 20)},
		{name: "collapse to point", in: vecs(5, 5, 5, 5), want: vecs(5, 5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SimplifyPath(tt.in))
		})
	}
}

func TestSimplifyPath_Idempotent(t *testing.T) {
	in := vecs(0, 0, 10, 0, 10, 0, 10, 10, 10, 20, 30, 20)
	once := SimplifyPath(in)
	assert.Equal(t, once, SimplifyPath(once))
}

func TestJoinAnchors(t *testing.T) {
	assert.Equal(t, vecs(1, 1), JoinAnchors(core.Vec{X: 1, Y: 1}, core.Vec{X: 1, Y: 1}))
	assert.Equal(t, vecs(1, 1, 1, 9), JoinAnchors(core.Vec{X: 1, Y: 1}, core.Vec{X: 1, Y: 9}))
	assert.Equal(t, vecs(1, 1, 9, 1, 9, 4), JoinAnchors(core.Vec{X: 1, Y: 1}, core.Vec{X: 9, Y: 4}))
}

func TestSnapHead(t *testing.T) {
	tests := []struct {
		name       string
		in         []core.Vec
		anchor     core.Vec
		tailPinned bool
		want       []core.Vec
	}{
		{
			name:   "along the first segment",
			in:     vecs(0, 0, 50, 0),
			anchor: core.Vec{X: 5, Y: 0},
			want:   vecs(5, 0, 50, 0),
		},
		{
			name:   "small shift slides the run",
			in:     vecs(0, 0, 20, 0, 20, 30),
			anchor: core.Vec{X: 0, Y: 5},
			want:   vecs(0, 5, 20, 5, 20, 30),
		},
		{
			name:   "small vertical shift",
			in:     vecs(0, 0, 0, 40, 30, 40),
			anchor: core.Vec{X: 7, Y: -2},
			want:   vecs(7, -2, 7, 40, 30, 40),
		},
		{
			name:   "large shift adds an elbow",
			in:     vecs(0, 0, 20, 0),
			anchor: core.Vec{X: -10, Y: 25},
			want:   vecs(-10, 25, 0, 25, 0, 0, 20, 0),
		},
		{
			name:       "pinned tail adds an elbow",
			in:         vecs(50, 5, 0, 5),
			anchor:     core.Vec{X: 55, Y: 8},
			tailPinned: true,
			want:       vecs(55, 8, 50, 8, 50, 5, 0, 5),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := snapHead(append([]core.Vec(nil), tt.in...), tt.anchor, 10, tt.tailPinned)
			assert.Equal(t, tt.want, got)
			assert.True(t, IsOrthogonal(got))
		})
	}
}

func TestPathMetrics(t *testing.T) {
	path := vecs(0, 0, 10, 0, 10, 10, 30, 10)

	assert.True(t, IsOrthogonal(path))
	assert.False(t, IsOrthogonal(vecs(0, 0, 10, 10)))
	assert.False(t, IsOrthogonal(vecs(0, 0, 0, 0)))
	assert.Equal(t, 40.0, PathLength(path))
	assert.Equal(t, 2, Bends(path))
	assert.True(t, IsAligned(core.Vec{X: 0, Y: 3}, core.Vec{X: 5, Y: 3}, core.Vec{X: 9, Y: 3}))
}

func TestPathToString(t *testing.T) {
	assert.Equal(t, "empty route", PathToString(Route{}))

	s := PathToString(Route{Points: vecs(0, 0, 10, 0), Cost: 2, Degraded: []int{0}})
	assert.Contains(t, s, "cost=2")
	assert.Contains(t, s, "→")
	assert.Contains(t, s, "degraded [0]")
}
