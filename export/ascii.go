package export

import (
	"io"

	"github.com/logrusorgru/aurora"

	"linkroute/canvas"
)

// ASCIIExporter draws the scene on a character grid
type ASCIIExporter struct {
	au aurora.Aurora
}

// NewASCIIExporter creates a new ASCII exporter, optionally emitting ANSI
// colours.
func NewASCIIExporter(color bool) *ASCIIExporter {
	return &ASCIIExporter{au: aurora.NewAurora(color)}
}

// Export renders the document and writes it followed by a newline
func (e *ASCIIExporter) Export(w io.Writer, doc *Document) error {
	if err := checkDocument(doc); err != nil {
		return err
	}

	c, err := canvas.RenderScene(doc.Scene, doc.Obstacles, doc.Results, doc.Render)
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, c.ColoredString(e.paint)+"\n")
	return err
}

func (e *ASCIIExporter) paint(class canvas.Class, s string) string {
	switch class {
	case canvas.ClassObstacle:
		return e.au.Blue(s).String()
	case canvas.ClassElement:
		return e.au.Cyan(s).String()
	case canvas.ClassLabel:
		return e.au.Bold(s).String()
	case canvas.ClassRoute:
		return e.au.Green(s).String()
	case canvas.ClassDegraded:
		return e.au.Yellow(s).String()
	case canvas.ClassHighlight:
		return e.au.Bold(e.au.Magenta(s)).String()
	case canvas.ClassMarker:
		return e.au.Red(s).String()
	default:
		return s
	}
}

// GetFileExtension returns the recommended file extension
func (e *ASCIIExporter) GetFileExtension() string {
	return ".txt"
}

// GetFormatName returns the format name
func (e *ASCIIExporter) GetFormatName() string {
	return "ASCII/Unicode Art"
}
