// Package core contains the fundamental types used throughout the link router.
package core

import (
	"fmt"
	"math"
)

// Point represents a discrete cell on the routing grid.
type Point struct {
	X, Y int
}

// Add returns the point moved one step per unit of d.
func (p Point) Add(d Direction) Point {
	return Point{X: p.X + d.DX, Y: p.Y + d.DY}
}

// Sub returns the point moved one step against d.
func (p Point) Sub(d Direction) Point {
	return Point{X: p.X - d.DX, Y: p.Y - d.DY}
}

// String returns the point as "(x,y)".
func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Vec represents a point in continuous canvas coordinates.
type Vec struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// String returns the vector as "(x,y)".
func (v Vec) String() string {
	return fmt.Sprintf("(%g,%g)", v.X, v.Y)
}

// Direction is a cardinal unit vector. The zero value means "no direction".
type Direction struct {
	DX, DY int
}

var (
	NoDirection = Direction{}
	North       = Direction{DX: 0, DY: -1}
	East        = Direction{DX: 1, DY: 0}
	South       = Direction{DX: 0, DY: 1}
	West        = Direction{DX: -1, DY: 0}
)

// Cardinals lists the four directions in the order neighbours are visited.
var Cardinals = [4]Direction{North, East, South, West}

// IsZero reports whether d is NoDirection.
func (d Direction) IsZero() bool {
	return d.DX == 0 && d.DY == 0
}

// IsCardinal reports whether d is exactly one of North, East, South or West.
func (d Direction) IsCardinal() bool {
	return (d.DX == 0) != (d.DY == 0) &&
		d.DX >= -1 && d.DX <= 1 && d.DY >= -1 && d.DY <= 1
}

// IsHorizontal reports whether d moves along the x axis.
func (d Direction) IsHorizontal() bool {
	return d.DX != 0 && d.DY == 0
}

// Opposite returns the opposite direction.
func (d Direction) Opposite() Direction {
	return Direction{DX: -d.DX, DY: -d.DY}
}

// String returns the string representation of a Direction.
func (d Direction) String() string {
	switch d {
	case North:
		return "North"
	case East:
		return "East"
	case South:
		return "South"
	case West:
		return "West"
	case NoDirection:
		return "None"
	default:
		return fmt.Sprintf("Direction(%d,%d)", d.DX, d.DY)
	}
}

// Bearing returns the cardinal direction of travel from a to b. Points that
// are equal or not axis aligned have no bearing.
func Bearing(a, b Point) Direction {
	switch {
	case a.X == b.X && a.Y < b.Y:
		return South
	case a.X == b.X && a.Y > b.Y:
		return North
	case a.Y == b.Y && a.X < b.X:
		return East
	case a.Y == b.Y && a.X > b.X:
		return West
	default:
		return NoDirection
	}
}

// Rect represents an axis aligned rectangle in continuous coordinates.
type Rect struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// IsEmpty returns true if the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.X + r.Width }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// Center returns the center point of the rectangle.
func (r Rect) Center() Vec {
	return Vec{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Inflate grows the rectangle by d on every side.
func (r Rect) Inflate(d float64) Rect {
	return Rect{X: r.X - d, Y: r.Y - d, Width: r.Width + 2*d, Height: r.Height + 2*d}
}

// ContainsStrict checks if a point lies in the interior of the rectangle.
// Points on the border are outside.
func (r Rect) ContainsStrict(v Vec) bool {
	return v.X > r.X && v.X < r.MaxX() &&
		v.Y > r.Y && v.Y < r.MaxY()
}

// Union returns the smallest rectangle covering both. An empty rectangle is
// the identity.
func (r Rect) Union(o Rect) Rect {
	if r.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return r
	}
	minX := math.Min(r.X, o.X)
	minY := math.Min(r.Y, o.Y)
	maxX := math.Max(r.MaxX(), o.MaxX())
	maxY := math.Max(r.MaxY(), o.MaxY())
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Bounds represents an inclusive rectangle of grid cells.
type Bounds struct {
	Min, Max Point
}

// BoundsOf returns the smallest bounds covering all points.
func BoundsOf(points ...Point) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		b = b.Extend(p)
	}
	return b
}

// Extend grows the bounds to include p.
func (b Bounds) Extend(p Point) Bounds {
	if p.X < b.Min.X {
		b.Min.X = p.X
	}
	if p.Y < b.Min.Y {
		b.Min.Y = p.Y
	}
	if p.X > b.Max.X {
		b.Max.X = p.X
	}
	if p.Y > b.Max.Y {
		b.Max.Y = p.Y
	}
	return b
}

// Merge returns bounds covering both b and o.
func (b Bounds) Merge(o Bounds) Bounds {
	return b.Extend(o.Min).Extend(o.Max)
}

// Inflate grows the bounds by n cells on every side.
func (b Bounds) Inflate(n int) Bounds {
	return Bounds{
		Min: Point{X: b.Min.X - n, Y: b.Min.Y - n},
		Max: Point{X: b.Max.X + n, Y: b.Max.Y + n},
	}
}

// Width returns the number of columns covered.
func (b Bounds) Width() int {
	return b.Max.X - b.Min.X + 1
}

// Height returns the number of rows covered.
func (b Bounds) Height() int {
	return b.Max.Y - b.Min.Y + 1
}

// Contains checks if a cell is within the bounds.
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y
}
