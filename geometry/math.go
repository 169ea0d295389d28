package geometry

import "math"

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Sign returns -1, 0 or 1.
func Sign(x int) int {
	switch {
	case x < 0:
		return -1
	case x > 0:
		return 1
	default:
		return 0
	}
}

// ManhattanDistance calculates the Manhattan distance between two cells.
func ManhattanDistance(x1, y1, x2, y2 int) int {
	return Abs(x2-x1) + Abs(y2-y1)
}

// ManhattanDistanceF calculates the Manhattan distance between two continuous points.
func ManhattanDistanceF(x1, y1, x2, y2 float64) float64 {
	return math.Abs(x2-x1) + math.Abs(y2-y1)
}

// FloorDiv divides v by step and rounds toward negative infinity.
func FloorDiv(v, step float64) int {
	return int(math.Floor(v / step))
}

// CeilDiv divides v by step and rounds toward positive infinity.
func CeilDiv(v, step float64) int {
	return int(math.Ceil(v / step))
}
