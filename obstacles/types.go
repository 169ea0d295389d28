// Package obstacles indexes the rectangles links must route around and turns
// them into the per-cell traversable predicate the router consumes.
package obstacles

import (
	"github.com/pkg/errors"

	"linkroute/core"
)

// Errors returned when building an ObstacleMap.
var (
	ErrDuplicateObstacle = errors.New("duplicate obstacle id")
	ErrEmptyObstacle     = errors.New("obstacle has no area")
	ErrUnknownParent     = errors.New("unknown parent obstacle")
)

// Obstacle is a rectangular region links may not cross, usually a diagram
// element.
type Obstacle struct {
	ID     string    `yaml:"id" json:"id"`
	Kind   string    `yaml:"kind,omitempty" json:"kind,omitempty"`     // Free-form type, matched by Config.ExcludeKinds
	Parent string    `yaml:"parent,omitempty" json:"parent,omitempty"` // Embedding element, if any
	Bounds core.Rect `yaml:"bounds" json:"bounds"`
}

// Config controls how obstacles are inflated and indexed.
type Config struct {
	Padding      float64  // Clearance added on every side of each obstacle
	MapGridSize  float64  // Bucket size of the spatial index, in continuous units
	ExcludeEnds  bool     // Let a link cross its own source and target elements
	ExcludeKinds []string // Kinds that never block
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Padding:     0,
		MapGridSize: 100,
		ExcludeEnds: true,
	}
}

// LinkContext identifies the link a traversal query is made for. It is
// passed through the router as the opaque link context.
type LinkContext struct {
	LinkID   string
	SourceID string // Element the link leaves, empty for free points
	TargetID string // Element the link enters, empty for free points
}

// linkFrom extracts a LinkContext from the router's opaque context.
func linkFrom(ctx any) (LinkContext, bool) {
	switch l := ctx.(type) {
	case LinkContext:
		return l, true
	case *LinkContext:
		if l != nil {
			return *l, true
		}
	}
	return LinkContext{}, false
}
