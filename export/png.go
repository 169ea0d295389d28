package export

import (
	"io"
	"math"
	"os"

	"github.com/fogleman/gg"
	colorful "github.com/lucasb-eyer/go-colorful"
	imgcat "github.com/martinlindhe/imgcat/lib"
	"github.com/pkg/errors"

	"linkroute/core"
)

// ErrEmptyScene is returned when there is nothing to draw.
var ErrEmptyScene = errors.New("scene has no extent")

// PNGExporter rasterises the scene in continuous coordinates
type PNGExporter struct {
	Scale   float64 // Pixels per scene unit
	Padding int     // Margin around the scene in pixels
}

// NewPNGExporter creates a PNG exporter at scale 2.
func NewPNGExporter() *PNGExporter {
	return &PNGExporter{Scale: 2, Padding: 10}
}

var (
	pngBackground = colorful.Color{R: 1, G: 1, B: 1}
	pngObstacle   = colorful.Color{R: 0.9, G: 0.9, B: 0.9}
	pngElement    = colorful.Color{R: 0.2, G: 0.2, B: 0.25}
	pngDegraded   = colorful.Color{R: 0.95, G: 0.6, B: 0.1}
)

// LinkPalette returns n evenly spaced, equally bright colours.
func LinkPalette(n int) []colorful.Color {
	colors := make([]colorful.Color, n)
	for i := range colors {
		colors[i] = colorful.Hcl(float64(i)*360/float64(n)+20, 0.6, 0.55).Clamped()
	}
	return colors
}

// Extent returns the scene area covered by the document, routes included.
func Extent(doc *Document) core.Rect {
	extent := doc.Scene.Extent()
	for _, r := range doc.Results {
		for _, p := range r.Route.Points {
			extent = extent.Union(core.Rect{X: p.X, Y: p.Y}.Inflate(0.5))
		}
	}
	return extent
}

// ImageSize returns the pixel size the document will be drawn at.
func (e *PNGExporter) ImageSize(doc *Document) (width, height int) {
	extent := Extent(doc)
	width = int(math.Ceil(extent.Width*e.Scale)) + 2*e.Padding
	height = int(math.Ceil(extent.Height*e.Scale)) + 2*e.Padding
	return width, height
}

// Export draws the document and encodes it as PNG
func (e *PNGExporter) Export(w io.Writer, doc *Document) error {
	if err := checkDocument(doc); err != nil {
		return err
	}
	if !(e.Scale > 0) {
		return errors.Errorf("invalid png scale %v", e.Scale)
	}
	extent := Extent(doc)
	if extent.IsEmpty() {
		return ErrEmptyScene
	}

	width, height := e.ImageSize(doc)
	dc := gg.NewContext(width, height)
	dc.SetColor(pngBackground)
	dc.DrawRectangle(0, 0, float64(width), float64(height))
	dc.Fill()

	// Padding, then scale, then move the extent to the origin
	dc.Translate(float64(e.Padding), float64(e.Padding))
	dc.Scale(e.Scale, e.Scale)
	dc.Translate(-extent.X, -extent.Y)

	if doc.Render.ShowObstacles && doc.Obstacles != nil {
		pad := doc.Obstacles.Config().Padding
		dc.SetColor(pngObstacle)
		for _, o := range doc.Obstacles.Obstacles() {
			r := o.Bounds.Inflate(pad)
			dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
			dc.Fill()
		}
	}

	dc.SetLineWidth(1.5)
	dc.SetColor(pngElement)
	for _, el := range doc.Scene.Elements {
		r := el.Rect()
		dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
		dc.Stroke()
		if doc.Render.ShowLabels {
			dc.DrawStringAnchored(el.ID, r.X+r.Width/2, r.Y+r.Height/2, 0.5, 0.35)
		}
	}

	palette := LinkPalette(len(doc.Results))
	dc.SetLineCapRound()
	dc.SetLineJoinRound()
	for i, r := range doc.Results {
		points := r.Route.Points
		if len(points) == 0 {
			continue
		}

		dc.SetColor(palette[i])
		dc.SetLineWidth(2)
		switch {
		case r.LinkID == doc.Render.Highlight && r.LinkID != "":
			dc.SetLineWidth(4)
		case r.Route.IsDegraded():
			dc.SetColor(pngDegraded)
			dc.SetDash(6, 4)
		}

		dc.MoveTo(points[0].X, points[0].Y)
		for _, p := range points[1:] {
			dc.LineTo(p.X, p.Y)
		}
		dc.Stroke()
		dc.SetDash()

		if doc.Render.Markers {
			dc.DrawCircle(points[0].X, points[0].Y, 4/e.Scale)
			dc.Fill()
		}
	}

	return dc.EncodePNG(w)
}

// GetFileExtension returns the recommended file extension
func (e *PNGExporter) GetFileExtension() string {
	return ".png"
}

// GetFormatName returns the format name
func (e *PNGExporter) GetFormatName() string {
	return "PNG image"
}

// Preview writes a PNG file to an iTerm2-compatible terminal.
func Preview(path string, w io.Writer) error {
	if _, err := os.Stat(path); err != nil {
		return errors.Wrap(err, "preview")
	}
	return imgcat.CatFile(path, w)
}
