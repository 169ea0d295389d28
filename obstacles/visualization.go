package obstacles

import (
	"fmt"
	"strings"

	"linkroute/core"
)

// DebugVisualizer renders the obstacle field as the router sees it.
type DebugVisualizer struct {
	Blocked rune
	Free    rune
	Marks   map[core.Point]rune // Optional overlay, e.g. candidate cells
}

// NewDebugVisualizer returns a visualizer using '#' for blocked and '.' for
// free cells.
func NewDebugVisualizer() *DebugVisualizer {
	return &DebugVisualizer{Blocked: '#', Free: '.'}
}

// VisualizeCells renders every cell in bounds, one row per line, by asking
// traversable about the cell for the link in ctx.
func (dv *DebugVisualizer) VisualizeCells(bounds core.Bounds, traversable func(x, y int, ctx any) bool, ctx any) string {
	var result strings.Builder
	for y := bounds.Min.Y; y <= bounds.Max.Y; y++ {
		for x := bounds.Min.X; x <= bounds.Max.X; x++ {
			if mark, ok := dv.Marks[core.Point{X: x, Y: y}]; ok {
				result.WriteRune(mark)
				continue
			}
			if traversable(x, y, ctx) {
				result.WriteRune(dv.Free)
			} else {
				result.WriteRune(dv.Blocked)
			}
		}
		result.WriteString("\n")
	}
	return result.String()
}

// GetLegend returns a legend explaining the visualization symbols.
func (dv *DebugVisualizer) GetLegend() string {
	legend := []string{
		"Obstacle Visualization Legend:",
		fmt.Sprintf("  %c - Blocked cell", dv.Blocked),
		fmt.Sprintf("  %c - Free cell", dv.Free),
	}
	return strings.Join(legend, "\n")
}

// ExportObstacleData lists the obstacles of m for external tooling.
func ExportObstacleData(m *ObstacleMap) string {
	var result strings.Builder

	cfg := m.Config()
	fmt.Fprintf(&result, "# Obstacles (padding=%g, mapGridSize=%g, excludeEnds=%t)\n",
		cfg.Padding, cfg.MapGridSize, cfg.ExcludeEnds)
	for _, o := range m.Obstacles() {
		fmt.Fprintf(&result, "%s: bounds=(%g,%g %gx%g)", o.ID, o.Bounds.X, o.Bounds.Y, o.Bounds.Width, o.Bounds.Height)
		if o.Kind != "" {
			fmt.Fprintf(&result, " kind=%s", o.Kind)
		}
		if o.Parent != "" {
			fmt.Fprintf(&result, " parent=%s", o.Parent)
		}
		result.WriteString("\n")
	}

	return result.String()
}
