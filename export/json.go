package export

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"linkroute/core"
)

// RouteDump is the serialised form of one routed link.
type RouteDump struct {
	Link     string     `json:"link" yaml:"link"`
	Points   []core.Vec `json:"points" yaml:"points"`
	Cost     float64    `json:"cost" yaml:"cost"`
	Degraded []int      `json:"degraded,omitempty" yaml:"degraded,omitempty"`
	Unrouted []int      `json:"unrouted,omitempty" yaml:"unrouted,omitempty"`
	Error    string     `json:"error,omitempty" yaml:"error,omitempty"`
}

// Dump is the serialised form of a routed scene.
type Dump struct {
	Step   float64     `json:"step" yaml:"step"`
	Routes []RouteDump `json:"routes" yaml:"routes"`
}

// NewDump collects the routes of a document.
func NewDump(doc *Document) (*Dump, error) {
	if err := checkDocument(doc); err != nil {
		return nil, err
	}
	d := &Dump{Step: doc.Scene.Step, Routes: make([]RouteDump, 0, len(doc.Results))}
	for _, r := range doc.Results {
		rd := RouteDump{
			Link:     r.LinkID,
			Points:   r.Route.Points,
			Cost:     r.Route.Cost,
			Degraded: r.Route.Degraded,
			Unrouted: r.Route.Unrouted,
		}
		if rd.Points == nil {
			rd.Points = []core.Vec{}
		}
		if r.Err != nil {
			rd.Error = r.Err.Error()
		}
		d.Routes = append(d.Routes, rd)
	}
	return d, nil
}

// JSONExporter exports routes to JSON format
type JSONExporter struct{}

// NewJSONExporter creates a new JSON exporter
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Export writes the route dump as indented JSON
func (e *JSONExporter) Export(w io.Writer, doc *Document) error {
	d, err := NewDump(doc)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// GetFileExtension returns the file extension for JSON
func (e *JSONExporter) GetFileExtension() string {
	return ".json"
}

// GetFormatName returns the format name
func (e *JSONExporter) GetFormatName() string {
	return "JSON"
}

// YAMLExporter exports routes to YAML format
type YAMLExporter struct{}

// NewYAMLExporter creates a new YAML exporter
func NewYAMLExporter() *YAMLExporter {
	return &YAMLExporter{}
}

// Export writes the route dump as YAML
func (e *YAMLExporter) Export(w io.Writer, doc *Document) error {
	d, err := NewDump(doc)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return err
	}
	return enc.Close()
}

// GetFileExtension returns the file extension for YAML
func (e *YAMLExporter) GetFileExtension() string {
	return ".yaml"
}

// GetFormatName returns the format name
func (e *YAMLExporter) GetFormatName() string {
	return "YAML"
}
