// Package export writes routed scenes in text, image and data formats.
package export

import (
	"io"

	"github.com/pkg/errors"

	"linkroute/canvas"
	"linkroute/obstacles"
	"linkroute/scene"
)

// Format represents an export format
type Format string

const (
	// FormatASCII draws the scene with box-drawing characters
	FormatASCII Format = "ascii"
	// FormatPNG rasterises the scene in continuous coordinates
	FormatPNG Format = "png"
	// FormatJSON dumps route polylines as JSON
	FormatJSON Format = "json"
	// FormatYAML dumps route polylines as YAML
	FormatYAML Format = "yaml"
)

// ErrUnknownFormat is returned for format names that have no exporter.
var ErrUnknownFormat = errors.New("unknown export format")

// Document is everything an exporter may draw.
type Document struct {
	Scene     *scene.Scene
	Obstacles *obstacles.ObstacleMap // Optional; needed for the obstacle overlay
	Results   []scene.Result
	Render    canvas.RenderOptions
}

// Exporter interface for different export formats
type Exporter interface {
	// Export writes the document in the target format
	Export(w io.Writer, doc *Document) error
	// GetFileExtension returns the recommended file extension for this format
	GetFileExtension() string
	// GetFormatName returns a human-readable name for this format
	GetFormatName() string
}

// NewExporter creates an exporter for the specified format
func NewExporter(format Format) (Exporter, error) {
	switch format {
	case FormatASCII:
		return NewASCIIExporter(false), nil
	case FormatPNG:
		return NewPNGExporter(), nil
	case FormatJSON:
		return NewJSONExporter(), nil
	case FormatYAML:
		return NewYAMLExporter(), nil
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "%q", format)
	}
}

// ParseFormat converts a string to a Format
func ParseFormat(s string) (Format, error) {
	switch s {
	case "ascii", "text", "txt":
		return FormatASCII, nil
	case "png":
		return FormatPNG, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", errors.Wrapf(ErrUnknownFormat, "%q", s)
	}
}

// GetAvailableFormats returns a list of all available export formats
func GetAvailableFormats() []Format {
	return []Format{
		FormatASCII,
		FormatPNG,
		FormatJSON,
		FormatYAML,
	}
}

// GetFormatDescriptions returns human-readable descriptions of all formats
func GetFormatDescriptions() map[Format]string {
	return map[Format]string{
		FormatASCII: "Box-drawing text, one character per grid cell",
		FormatPNG:   "PNG image in scene coordinates",
		FormatJSON:  "Route polylines as JSON",
		FormatYAML:  "Route polylines as YAML",
	}
}

func checkDocument(doc *Document) error {
	if doc == nil || doc.Scene == nil {
		return errors.New("document has no scene")
	}
	return nil
}
