package detection

import (
	"math"
	"testing"
)

func TestParseFullResponse(t *testing.T) {
	raw := []byte(`{"image_width":640,"image_height":480,"detected_objects":[{"name":"car","confidence":0.9,"x_min":10,"y_min":20,"x_max":100,"y_max":200}]}`)

	set := Parse(raw, 320, 240)

	if set.RefWidth != 640 || set.RefHeight != 480 {
		t.Errorf("Expected reference 640x480, got %dx%d", set.RefWidth, set.RefHeight)
	}
	if len(set.Detections) != 1 {
		t.Fatalf("Expected 1 detection, got %d", len(set.Detections))
	}
	d := set.Detections[0]
	if d.Label != "car" {
		t.Errorf("Expected label car, got %q", d.Label)
	}
	if math.Abs(d.Confidence-0.9) > 1e-9 {
		t.Errorf("Expected confidence 0.9, got %f", d.Confidence)
	}
	if d.XMin != 10 || d.YMin != 20 || d.XMax != 100 || d.YMax != 200 {
		t.Errorf("Expected box (10,20,100,200), got (%d,%d,%d,%d)", d.XMin, d.YMin, d.XMax, d.YMax)
	}
}

func TestParseMalformedInput(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty body", ""},
		{"invalid json", "{not json"},
		{"wrong top-level type", `[1,2,3]`},
		{"non-array detected_objects", `{"detected_objects":"oops"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := Parse([]byte(tt.raw), 640, 480)
			if len(set.Detections) != 0 {
				t.Errorf("Expected no detections, got %d", len(set.Detections))
			}
			if set.RefWidth != 640 || set.RefHeight != 480 {
				t.Errorf("Expected default reference 640x480, got %dx%d", set.RefWidth, set.RefHeight)
			}
		})
	}
}

func TestParseMissingFieldsUseDefaults(t *testing.T) {
	raw := []byte(`{"detected_objects":[{}]}`)

	set := Parse(raw, 640, 480)

	if set.RefWidth != 640 || set.RefHeight != 480 {
		t.Errorf("Expected default reference 640x480, got %dx%d", set.RefWidth, set.RefHeight)
	}
	if len(set.Detections) != 1 {
		t.Fatalf("Expected 1 detection, got %d", len(set.Detections))
	}
	d := set.Detections[0]
	if d.Label != "unknown" {
		t.Errorf("Expected label unknown, got %q", d.Label)
	}
	if d.Confidence != 0 {
		t.Errorf("Expected confidence 0, got %f", d.Confidence)
	}
	if d.XMin != 0 || d.YMin != 0 || d.XMax != 0 || d.YMax != 0 {
		t.Errorf("Expected zero box, got (%d,%d,%d,%d)", d.XMin, d.YMin, d.XMax, d.YMax)
	}
}

func TestParseAbsentObjectsKeepsReportedResolution(t *testing.T) {
	raw := []byte(`{"image_width":1920,"image_height":1080}`)

	set := Parse(raw, 640, 480)

	if len(set.Detections) != 0 {
		t.Errorf("Expected no detections, got %d", len(set.Detections))
	}
	if set.RefWidth != 1920 || set.RefHeight != 1080 {
		t.Errorf("Expected reference 1920x1080, got %dx%d", set.RefWidth, set.RefHeight)
	}
}

func TestParseOrderPreserved(t *testing.T) {
	raw := []byte(`{"detected_objects":[{"name":"car"},{"name":"person"},{"name":"truck"}]}`)

	set := Parse(raw, 640, 480)

	want := []string{"car", "person", "truck"}
	if len(set.Detections) != len(want) {
		t.Fatalf("Expected %d detections, got %d", len(want), len(set.Detections))
	}
	for i, label := range want {
		if set.Detections[i].Label != label {
			t.Errorf("Detection %d: expected %q, got %q", i, label, set.Detections[i].Label)
		}
	}
}
