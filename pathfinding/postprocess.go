package pathfinding

import (
	"fmt"
	"math"
	"strings"

	"linkroute/core"
)

// IsAligned checks if three points lie on one horizontal or vertical line.
func IsAligned(p1, p2, p3 core.Vec) bool {
	// Check horizontal alignment
	if p1.Y == p2.Y && p2.Y == p3.Y {
		return true
	}
	// Check vertical alignment
	return p1.X == p2.X && p2.X == p3.X
}

// SimplifyPath removes repeated points and points in the middle of straight
// runs. The first and last points are always kept.
func SimplifyPath(points []core.Vec) []core.Vec {
	if len(points) == 0 {
		return points
	}

	deduped := []core.Vec{points[0]}
	for _, p := range points[1:] {
		if p != deduped[len(deduped)-1] {
			deduped = append(deduped, p)
		}
	}
	if len(deduped) <= 2 {
		return deduped
	}

	simplified := []core.Vec{deduped[0]}
	for i := 1; i < len(deduped)-1; i++ {
		if !IsAligned(simplified[len(simplified)-1], deduped[i], deduped[i+1]) {
			simplified = append(simplified, deduped[i])
		}
	}

	// Always include the last point
	return append(simplified, deduped[len(deduped)-1])
}

// JoinAnchors connects two points orthogonally, with one elbow when they
// are not aligned.
func JoinAnchors(a, b core.Vec) []core.Vec {
	switch {
	case a == b:
		return []core.Vec{a}
	case a.X == b.X || a.Y == b.Y:
		return []core.Vec{a, b}
	default:
		return []core.Vec{a, {X: b.X, Y: a.Y}, b}
	}
}

// snapHead moves the first point of an orthogonal polyline onto anchor while
// keeping every segment axis aligned. Movement along the first segment is
// free. A perpendicular shift smaller than step slides the first run with
// it; a larger shift, or one that would move a pinned tail, adds an elbow.
func snapHead(points []core.Vec, anchor core.Vec, step float64, tailPinned bool) []core.Vec {
	head := points[0]
	if head == anchor {
		return points
	}

	horizontal := head.Y == points[1].Y

	var shift float64
	if horizontal {
		shift = anchor.Y - head.Y
	} else {
		shift = anchor.X - head.X
	}

	if shift == 0 {
		points[0] = anchor
		return points
	}

	// The run is the prefix sharing the head's line.
	run := 0
	for run+1 < len(points) && sameLine(points[run+1], head, horizontal) {
		run++
	}
	pinned := tailPinned && run == len(points)-1

	if math.Abs(shift) < step && !pinned {
		for i := 0; i <= run; i++ {
			if horizontal {
				points[i].Y = anchor.Y
			} else {
				points[i].X = anchor.X
			}
		}
		points[0] = anchor
		return points
	}

	var corner core.Vec
	if horizontal {
		corner = core.Vec{X: head.X, Y: anchor.Y}
	} else {
		corner = core.Vec{X: anchor.X, Y: head.Y}
	}
	return append([]core.Vec{anchor, corner}, points...)
}

func sameLine(p, head core.Vec, horizontal bool) bool {
	if horizontal {
		return p.Y == head.Y
	}
	return p.X == head.X
}

func reverse(points []core.Vec) {
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
}

// IsOrthogonal reports whether every pair of consecutive points differs in
// exactly one coordinate.
func IsOrthogonal(points []core.Vec) bool {
	for i := 1; i < len(points); i++ {
		dx := points[i].X != points[i-1].X
		dy := points[i].Y != points[i-1].Y
		if dx == dy {
			return false
		}
	}
	return true
}

// PathLength returns the Manhattan length of a polyline.
func PathLength(points []core.Vec) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += math.Abs(points[i].X-points[i-1].X) + math.Abs(points[i].Y-points[i-1].Y)
	}
	return total
}

// Bends counts the direction changes along a polyline.
func Bends(points []core.Vec) int {
	count := 0
	for i := 2; i < len(points); i++ {
		if !IsAligned(points[i-2], points[i-1], points[i]) {
			count++
		}
	}
	return count
}

// PathToString converts a route to a string representation for debugging.
func PathToString(route Route) string {
	if len(route.Points) == 0 {
		return "empty route"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Route (cost=%g): ", route.Cost)
	for i, p := range route.Points {
		if i > 0 {
			sb.WriteString(" → ")
		}
		sb.WriteString(p.String())
	}
	if route.IsDegraded() {
		fmt.Fprintf(&sb, " [degraded %v]", route.Degraded)
	}
	if len(route.Unrouted) > 0 {
		fmt.Fprintf(&sb, " [unrouted %v]", route.Unrouted)
	}
	return sb.String()
}
