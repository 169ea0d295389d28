package canvas

// String returns the class name used in legends and exports.
func (c Class) String() string {
	switch c {
	case ClassNone:
		return "none"
	case ClassObstacle:
		return "obstacle"
	case ClassElement:
		return "element"
	case ClassLabel:
		return "label"
	case ClassRoute:
		return "route"
	case ClassDegraded:
		return "degraded"
	case ClassHighlight:
		return "highlight"
	case ClassMarker:
		return "marker"
	default:
		return "unknown"
	}
}

// Classes lists every class that can appear on a canvas, in drawing order.
var Classes = []Class{
	ClassObstacle,
	ClassElement,
	ClassLabel,
	ClassRoute,
	ClassDegraded,
	ClassHighlight,
	ClassMarker,
}
