package detection

// Detection is one recognized object. Box coordinates are pixels in the
// reference resolution the inference service analyzed, not the live
// display resolution.
type Detection struct {
	Label      string
	Confidence float64
	XMin       int
	YMin       int
	XMax       int
	YMax       int
}

// Set is the complete result of one inference request. RefWidth and
// RefHeight are always positive.
type Set struct {
	Detections []Detection
	RefWidth   int
	RefHeight  int
}

// EmptySet returns the result used before any upload has completed and
// after a failed or malformed one: no detections, reference resolution
// equal to the configured resize dimensions.
func EmptySet(refWidth, refHeight int) Set {
	return Set{RefWidth: refWidth, RefHeight: refHeight}
}
