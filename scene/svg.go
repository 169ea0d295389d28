package scene

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/JoshVarga/svgparser"
	"github.com/pkg/errors"
)

// ErrBadSVG is returned when an SVG rect cannot be converted to an element.
var ErrBadSVG = errors.New("invalid svg rect")

// ImportSVGFile reads obstacles from an SVG file. See ImportSVG.
func ImportSVGFile(path string) ([]Element, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open svg")
	}
	defer f.Close()

	return ImportSVG(f)
}

// ImportSVG turns every <rect> of an SVG document into an element. This is
// not a full SVG reader: transforms and units are ignored, and the element
// kind is taken from the class attribute.
func ImportSVG(r io.Reader) ([]Element, error) {
	root, err := svgparser.Parse(r, false)
	if err != nil {
		return nil, errors.Wrap(err, "parse svg")
	}

	rects := root.FindAll("rect")
	elements := make([]Element, 0, len(rects))
	for i, rect := range rects {
		e := Element{
			ID:   rect.Attributes["id"],
			Kind: strings.TrimSpace(rect.Attributes["class"]),
		}
		fields := []struct {
			name     string
			dst      *float64
			optional bool
		}{
			{"x", &e.X, true},
			{"y", &e.Y, true},
			{"width", &e.Width, false},
			{"height", &e.Height, false},
		}
		for _, f := range fields {
			raw, ok := rect.Attributes[f.name]
			if !ok {
				if f.optional {
					continue
				}
				return nil, errors.Wrapf(ErrBadSVG, "rect %d: missing %s", i, f.name)
			}
			v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(raw), "px"), 64)
			if err != nil {
				return nil, errors.Wrapf(ErrBadSVG, "rect %d: %s=%q", i, f.name, raw)
			}
			*f.dst = v
		}
		elements = append(elements, e)
	}
	return elements, nil
}
