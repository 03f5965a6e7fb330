package detection

import "encoding/json"

type wireObject struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
	XMin       int     `json:"x_min"`
	YMin       int     `json:"y_min"`
	XMax       int     `json:"x_max"`
	YMax       int     `json:"y_max"`
}

type wireResponse struct {
	ImageWidth      int             `json:"image_width"`
	ImageHeight     int             `json:"image_height"`
	DetectedObjects json.RawMessage `json:"detected_objects"`
}

// Parse converts a raw inference response body into a Set. It never fails:
// empty or malformed input degrades to the empty set with the given default
// reference resolution, so a bad response costs one cycle of detections
// rather than the display pipeline.
func Parse(raw []byte, defaultWidth, defaultHeight int) Set {
	set := EmptySet(defaultWidth, defaultHeight)

	var resp wireResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return set
	}
	if resp.ImageWidth > 0 {
		set.RefWidth = resp.ImageWidth
	}
	if resp.ImageHeight > 0 {
		set.RefHeight = resp.ImageHeight
	}

	if len(resp.DetectedObjects) == 0 {
		return set
	}
	var objects []wireObject
	if err := json.Unmarshal(resp.DetectedObjects, &objects); err != nil {
		// detected_objects present but not an array
		return set
	}

	for _, o := range objects {
		label := o.Name
		if label == "" {
			label = "unknown"
		}
		set.Detections = append(set.Detections, Detection{
			Label:      label,
			Confidence: o.Confidence,
			XMin:       o.XMin,
			YMin:       o.YMin,
			XMax:       o.XMax,
			YMax:       o.YMax,
		})
	}
	return set
}
