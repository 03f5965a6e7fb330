package overlay

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/Mafufuyu/DriveLens/internal/detection"
)

// Renderer draws detection boxes and labels onto display frames. It must
// only ever be handed a copy of the live frame: the frame sent for upload
// stays undrawn.
type Renderer struct {
	color     color.RGBA
	thickness int
}

func NewRenderer() *Renderer {
	return &Renderer{
		color:     color.RGBA{R: 255, G: 0, B: 0, A: 0},
		thickness: 2,
	}
}

// Draw scales each box from the set's reference resolution to the frame's
// resolution and draws a rectangle plus a "label (confidence)" caption.
// An empty set leaves the frame untouched.
func (r *Renderer) Draw(frame *gocv.Mat, set detection.Set) {
	if len(set.Detections) == 0 {
		return
	}

	width := frame.Cols()
	height := frame.Rows()

	for _, det := range set.Detections {
		rect := ScaleBox(det, set.RefWidth, set.RefHeight, width, height)
		gocv.Rectangle(frame, rect, r.color, r.thickness)

		label := fmt.Sprintf("%s (%.2f)", det.Label, det.Confidence)
		pt := image.Pt(rect.Min.X, rect.Min.Y-5)
		gocv.PutText(frame, label, pt, gocv.FontHersheySimplex, 0.5, r.color, 1)
	}
}
