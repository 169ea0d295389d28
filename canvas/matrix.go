package canvas

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/pkg/errors"

	"linkroute/core"
)

// Common errors
var (
	ErrOutOfBounds = errors.New("position out of bounds")
	ErrInvalidSize = errors.New("invalid canvas size")
)

// Class tags what drew a cell, so renderers can colour it.
type Class uint8

const (
	ClassNone Class = iota
	ClassObstacle
	ClassElement
	ClassLabel
	ClassRoute
	ClassDegraded
	ClassHighlight
	ClassMarker
)

// MatrixCanvas is a rune matrix over a rectangle of grid cells. Cell
// coordinates may be negative; Bounds().Min maps to the top-left character.
//
// MatrixCanvas is NOT thread-safe for writes.
type MatrixCanvas struct {
	bounds  core.Bounds
	width   int
	height  int
	matrix  [][]rune
	classes [][]Class
	merger  *CharacterMerger
}

// NewMatrixCanvas creates a blank canvas covering bounds.
func NewMatrixCanvas(bounds core.Bounds) (*MatrixCanvas, error) {
	width, height := bounds.Width(), bounds.Height()
	if width <= 0 || height <= 0 {
		return nil, errors.Wrapf(ErrInvalidSize, "%dx%d", width, height)
	}

	c := &MatrixCanvas{
		bounds:  bounds,
		width:   width,
		height:  height,
		matrix:  make([][]rune, height),
		classes: make([][]Class, height),
		merger:  NewCharacterMerger(),
	}
	for y := 0; y < height; y++ {
		c.matrix[y] = make([]rune, width)
		c.classes[y] = make([]Class, width)
	}
	c.Clear()
	return c, nil
}

// Bounds returns the cells covered by the canvas.
func (c *MatrixCanvas) Bounds() core.Bounds {
	return c.bounds
}

// Size returns the width and height of the canvas.
func (c *MatrixCanvas) Size() (width, height int) {
	return c.width, c.height
}

// Merger returns the junction rules used by Set.
func (c *MatrixCanvas) Merger() *CharacterMerger {
	return c.merger
}

func (c *MatrixCanvas) index(p core.Point) (int, int, bool) {
	x, y := p.X-c.bounds.Min.X, p.Y-c.bounds.Min.Y
	return x, y, x >= 0 && x < c.width && y >= 0 && y < c.height
}

// Get returns the character at the given cell, or ' ' outside the canvas.
func (c *MatrixCanvas) Get(p core.Point) rune {
	x, y, ok := c.index(p)
	if !ok {
		return ' '
	}
	return c.matrix[y][x]
}

// ClassAt returns the class of the given cell.
func (c *MatrixCanvas) ClassAt(p core.Point) Class {
	x, y, ok := c.index(p)
	if !ok {
		return ClassNone
	}
	return c.classes[y][x]
}

// Set merges a character into the given cell. The cell takes the class of
// whichever character survives; a highlight always sticks.
func (c *MatrixCanvas) Set(p core.Point, char rune, class Class) error {
	x, y, ok := c.index(p)
	if !ok {
		return ErrOutOfBounds
	}
	existing := c.matrix[y][x]
	merged := c.merger.Merge(existing, char)
	c.matrix[y][x] = merged
	if merged != existing && c.classes[y][x] != ClassHighlight || class == ClassHighlight {
		c.classes[y][x] = class
	}
	return nil
}

// Put overwrites a cell without merging.
func (c *MatrixCanvas) Put(p core.Point, char rune, class Class) error {
	x, y, ok := c.index(p)
	if !ok {
		return ErrOutOfBounds
	}
	c.matrix[y][x] = char
	c.classes[y][x] = class
	return nil
}

// Clear resets the canvas to all spaces.
func (c *MatrixCanvas) Clear() {
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			c.matrix[y][x] = ' '
			c.classes[y][x] = ClassNone
		}
	}
}

// String returns the canvas as a string with newlines.
func (c *MatrixCanvas) String() string {
	return c.ColoredString(nil)
}

// ColoredString renders the canvas, passing each run of same-class
// characters through paint. A nil paint renders plain text.
func (c *MatrixCanvas) ColoredString(paint func(Class, string) string) string {
	var sb strings.Builder
	sb.Grow(c.height * (c.width + 1))

	var run strings.Builder
	flush := func(class Class) {
		if run.Len() == 0 {
			return
		}
		if paint != nil && class != ClassNone {
			sb.WriteString(paint(class, run.String()))
		} else {
			sb.WriteString(run.String())
		}
		run.Reset()
	}

	for y := 0; y < c.height; y++ {
		current := ClassNone
		for x := 0; x < c.width; x++ {
			r := c.matrix[y][x]
			if r == '\x00' {
				// Wide character continuation
				continue
			}
			if class := c.classes[y][x]; class != current {
				flush(current)
				current = class
			}
			run.WriteRune(r)
		}
		flush(current)
		if y < c.height-1 {
			sb.WriteRune('\n')
		}
	}

	return sb.String()
}

// Fill places a background character on a cell that is still blank.
func (c *MatrixCanvas) Fill(p core.Point, char rune, class Class) {
	if c.Get(p) == ' ' {
		_ = c.Put(p, char, class)
	}
}

// BoxStyle defines the characters used for drawing boxes.
type BoxStyle struct {
	TopLeft, TopRight, BottomLeft, BottomRight rune
	Horizontal, Vertical                       rune
}

// DefaultBoxStyle uses square light box-drawing corners.
var DefaultBoxStyle = BoxStyle{
	TopLeft: '┌', TopRight: '┐', BottomLeft: '└', BottomRight: '┘',
	Horizontal: '─', Vertical: '│',
}

// DrawBox outlines the inclusive cell rectangle r. Parts outside the canvas
// are clipped.
func (c *MatrixCanvas) DrawBox(r core.Bounds, style BoxStyle, class Class) error {
	if r.Width() < 2 || r.Height() < 2 {
		return errors.Wrapf(ErrInvalidSize, "box %dx%d", r.Width(), r.Height())
	}

	for x := r.Min.X + 1; x < r.Max.X; x++ {
		_ = c.Set(core.Point{X: x, Y: r.Min.Y}, style.Horizontal, class)
		_ = c.Set(core.Point{X: x, Y: r.Max.Y}, style.Horizontal, class)
	}
	for y := r.Min.Y + 1; y < r.Max.Y; y++ {
		_ = c.Set(core.Point{X: r.Min.X, Y: y}, style.Vertical, class)
		_ = c.Set(core.Point{X: r.Max.X, Y: y}, style.Vertical, class)
	}
	_ = c.Set(r.Min, style.TopLeft, class)
	_ = c.Set(core.Point{X: r.Max.X, Y: r.Min.Y}, style.TopRight, class)
	_ = c.Set(core.Point{X: r.Min.X, Y: r.Max.Y}, style.BottomLeft, class)
	_ = c.Set(r.Max, style.BottomRight, class)
	return nil
}

// DrawText writes text starting at cell (x, y), clipped to the canvas.
// Wide characters take two cells.
func (c *MatrixCanvas) DrawText(x, y int, text string, class Class) error {
	if y < c.bounds.Min.Y || y > c.bounds.Max.Y {
		return ErrOutOfBounds
	}

	currentX := x
	for _, r := range text {
		width := runewidth.RuneWidth(r)
		if width == 0 {
			continue
		}
		if currentX > c.bounds.Max.X || width == 2 && currentX+1 > c.bounds.Max.X {
			break
		}
		if currentX >= c.bounds.Min.X {
			_ = c.Put(core.Point{X: currentX, Y: y}, r, class)
			if width == 2 {
				_ = c.Put(core.Point{X: currentX + 1, Y: y}, '\x00', class)
			}
		}
		currentX += width
	}
	return nil
}
