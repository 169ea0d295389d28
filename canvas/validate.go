package canvas

import (
	"fmt"

	"linkroute/core"
)

// Defect is a line character with an arm into a neighbouring line character
// that does not connect back.
type Defect struct {
	Cell      core.Point
	Char      rune
	Neighbour rune
	Direction core.Direction
}

func (d Defect) String() string {
	return fmt.Sprintf("%c at %v does not connect %s to %c", d.Char, d.Cell, d.Direction, d.Neighbour)
}

// Validate checks that adjacent line characters agree on the arms between
// them. Blanks, text, markers and background never count as defects.
func (c *MatrixCanvas) Validate() []Defect {
	var defects []Defect
	b := c.bounds
	for y := b.Min.Y; y <= b.Max.Y; y++ {
		for x := b.Min.X; x <= b.Max.X; x++ {
			p := core.Point{X: x, Y: y}
			char := c.Get(p)
			arms := c.merger.ArmsOf(char)
			if arms == 0 {
				continue
			}
			for _, d := range core.Cardinals {
				if arms&armOf(d) == 0 {
					continue
				}
				q := p.Add(d)
				if !b.Contains(q) {
					continue
				}
				neighbour := c.Get(q)
				theirs := c.merger.ArmsOf(neighbour)
				if theirs != 0 && theirs&armOf(d.Opposite()) == 0 {
					defects = append(defects, Defect{Cell: p, Char: char, Neighbour: neighbour, Direction: d})
				}
			}
		}
	}
	return defects
}
