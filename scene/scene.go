// Package scene loads routing scenes: a set of rectangular elements and the
// links to route between them.
package scene

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"linkroute/core"
	"linkroute/pathfinding"
)

// Element is a rectangle on the canvas. Elements are the obstacles links
// route around, and the things links attach to.
type Element struct {
	ID     string  `yaml:"id" json:"id"`
	Kind   string  `yaml:"kind,omitempty" json:"kind,omitempty"`
	Parent string  `yaml:"parent,omitempty" json:"parent,omitempty"`
	X      float64 `yaml:"x" json:"x"`
	Y      float64 `yaml:"y" json:"y"`
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// Rect returns the element's bounding box.
func (e Element) Rect() core.Rect {
	return core.Rect{X: e.X, Y: e.Y, Width: e.Width, Height: e.Height}
}

// Endpoint is one end of a link: either a side set of an element or a free
// point.
type Endpoint struct {
	Element string    `yaml:"element,omitempty" json:"element,omitempty"`
	Anchor  *core.Vec `yaml:"anchor,omitempty" json:"anchor,omitempty"` // Absolute; defaults to the element centre
	Sides   []string  `yaml:"sides,omitempty" json:"sides,omitempty"`   // Empty means all four
	Point   *core.Vec `yaml:"point,omitempty" json:"point,omitempty"`
}

// Link is a connection to route.
type Link struct {
	ID        string     `yaml:"id" json:"id"`
	Source    Endpoint   `yaml:"source" json:"source"`
	Target    Endpoint   `yaml:"target" json:"target"`
	Waypoints []core.Vec `yaml:"waypoints,omitempty" json:"waypoints,omitempty"`
}

// Scene is a complete routing problem.
type Scene struct {
	Step          float64   `yaml:"step" json:"step"`
	BendCost      float64   `yaml:"bendCost" json:"bendCost"`
	Padding       float64   `yaml:"padding" json:"padding"`
	Margin        int       `yaml:"margin" json:"margin"`
	MaxExpansions int       `yaml:"maxExpansions" json:"maxExpansions"`
	ExcludeEnds   bool      `yaml:"excludeEnds" json:"excludeEnds"`
	ExcludeKinds  []string  `yaml:"excludeKinds,omitempty" json:"excludeKinds,omitempty"`
	Bounds        core.Rect `yaml:"bounds,omitempty" json:"bounds,omitempty"`
	SVG           string    `yaml:"svg,omitempty" json:"svg,omitempty"`
	Elements      []Element `yaml:"elements" json:"elements"`
	Links         []Link    `yaml:"links" json:"links"`
}

// Default returns an empty scene with the default settings applied.
func Default() *Scene {
	return &Scene{
		Step:          10,
		BendCost:      pathfinding.DefaultOptions.BendCost,
		Margin:        pathfinding.DefaultOptions.Margin,
		MaxExpansions: pathfinding.DefaultOptions.MaxExpansions,
		ExcludeEnds:   true,
	}
}

// Load reads a scene file. A referenced SVG is resolved relative to it.
func Load(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open scene")
	}
	defer f.Close()

	return Parse(f, filepath.Dir(path))
}

// Parse decodes a YAML scene. Unknown keys are rejected. dir is used to
// resolve the svg reference.
func Parse(r io.Reader, dir string) (*Scene, error) {
	s := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "decode scene")
	}

	if s.SVG != "" {
		path := s.SVG
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		elements, err := ImportSVGFile(path)
		if err != nil {
			return nil, err
		}
		s.Elements = append(s.Elements, elements...)
	}

	s.assignIDs()
	return s, nil
}

// assignIDs names anonymous elements and links after their position, so the
// same file always yields the same ids.
func (s *Scene) assignIDs() {
	used := make(map[string]bool)
	for _, e := range s.Elements {
		used[e.ID] = true
	}
	for _, l := range s.Links {
		used[l.ID] = true
	}

	fresh := func(prefix string, n int) string {
		id := fmt.Sprintf("%s-%d", prefix, n)
		for k := 2; used[id]; k++ {
			id = fmt.Sprintf("%s-%d-%d", prefix, n, k)
		}
		used[id] = true
		return id
	}

	for i := range s.Elements {
		if s.Elements[i].ID == "" {
			s.Elements[i].ID = fresh("element", i+1)
		}
	}
	for i := range s.Links {
		if s.Links[i].ID == "" {
			s.Links[i].ID = fresh("link", i+1)
		}
	}
}

// Element returns the element with the given id.
func (s *Scene) Element(id string) (Element, bool) {
	for _, e := range s.Elements {
		if e.ID == id {
			return e, true
		}
	}
	return Element{}, false
}

// Link returns the link with the given id.
func (s *Scene) Link(id string) (Link, bool) {
	for _, l := range s.Links {
		if l.ID == id {
			return l, true
		}
	}
	return Link{}, false
}

// Options returns the router options the scene asks for.
func (s *Scene) Options() pathfinding.Options {
	return pathfinding.Options{
		BendCost:      s.BendCost,
		MaxExpansions: s.MaxExpansions,
		Margin:        s.Margin,
	}
}

// Extent returns the union of the declared bounds, every element and every
// free point of the scene.
func (s *Scene) Extent() core.Rect {
	extent := s.Bounds
	for _, e := range s.Elements {
		extent = extent.Union(e.Rect())
	}
	point := func(p core.Vec) {
		extent = extent.Union(core.Rect{X: p.X - s.Step/2, Y: p.Y - s.Step/2, Width: s.Step, Height: s.Step})
	}
	for _, l := range s.Links {
		for _, end := range []Endpoint{l.Source, l.Target} {
			if end.Point != nil {
				point(*end.Point)
			}
		}
		for _, wp := range l.Waypoints {
			point(wp)
		}
	}
	return extent
}
