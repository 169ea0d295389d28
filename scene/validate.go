package scene

import (
	"github.com/pkg/errors"

	"linkroute/pathfinding"
)

// Validation errors.
var (
	ErrDuplicateID     = errors.New("duplicate id")
	ErrUnknownElement  = errors.New("unknown element")
	ErrBadEndpoint     = errors.New("endpoint needs exactly one of element or point")
	ErrParentCycle     = errors.New("element parents form a cycle")
	ErrEmptyElement    = errors.New("element has no area")
	ErrNegativeSetting = errors.New("setting must not be negative")
)

// Validate checks the scene for problems that would make routing
// meaningless. It reports the first problem found.
func (s *Scene) Validate() error {
	if !(s.Step > 0) {
		return errors.Wrapf(pathfinding.ErrInvalidStep, "step %v", s.Step)
	}
	if s.BendCost < 0 {
		return errors.Wrapf(pathfinding.ErrNegativeBendCost, "bendCost %v", s.BendCost)
	}
	if s.Padding < 0 || s.MaxExpansions < 0 {
		return errors.Wrap(ErrNegativeSetting, "padding and maxExpansions")
	}

	elements := make(map[string]Element, len(s.Elements))
	for _, e := range s.Elements {
		if _, dup := elements[e.ID]; dup {
			return errors.Wrapf(ErrDuplicateID, "element %q", e.ID)
		}
		if e.Rect().IsEmpty() {
			return errors.Wrapf(ErrEmptyElement, "element %q", e.ID)
		}
		elements[e.ID] = e
	}
	for _, e := range s.Elements {
		if e.Parent == "" {
			continue
		}
		if _, ok := elements[e.Parent]; !ok {
			return errors.Wrapf(ErrUnknownElement, "parent %q of %q", e.Parent, e.ID)
		}
		seen := map[string]bool{e.ID: true}
		for p := e.Parent; p != ""; p = elements[p].Parent {
			if seen[p] {
				return errors.Wrapf(ErrParentCycle, "at %q", e.ID)
			}
			seen[p] = true
		}
	}

	links := make(map[string]bool, len(s.Links))
	for _, l := range s.Links {
		if links[l.ID] {
			return errors.Wrapf(ErrDuplicateID, "link %q", l.ID)
		}
		links[l.ID] = true

		if err := validateEndpoint(l.Source, elements); err != nil {
			return errors.Wrapf(err, "link %q source", l.ID)
		}
		if err := validateEndpoint(l.Target, elements); err != nil {
			return errors.Wrapf(err, "link %q target", l.ID)
		}
	}
	return nil
}

func validateEndpoint(end Endpoint, elements map[string]Element) error {
	hasElement := end.Element != ""
	hasPoint := end.Point != nil
	if hasElement == hasPoint {
		return ErrBadEndpoint
	}
	if hasPoint {
		if end.Anchor != nil || len(end.Sides) > 0 {
			return errors.Wrap(ErrBadEndpoint, "anchor and sides need an element")
		}
		return nil
	}
	if _, ok := elements[end.Element]; !ok {
		return errors.Wrapf(ErrUnknownElement, "%q", end.Element)
	}
	for _, side := range end.Sides {
		if _, err := pathfinding.ParseSide(side); err != nil {
			return err
		}
	}
	return nil
}
