package overlay

import (
	"image"
	"math"

	"github.com/Mafufuyu/DriveLens/internal/detection"
)

// ScaleBox maps a detection box from the reference resolution to the
// display resolution, rounding each coordinate to the nearest pixel.
// Reference dimensions are positive by the Set invariant; zero values are
// clamped here so a corrupt set cannot divide by zero.
func ScaleBox(det detection.Detection, refWidth, refHeight, dstWidth, dstHeight int) image.Rectangle {
	if refWidth <= 0 {
		refWidth = 1
	}
	if refHeight <= 0 {
		refHeight = 1
	}

	scaleX := float64(dstWidth) / float64(refWidth)
	scaleY := float64(dstHeight) / float64(refHeight)

	return image.Rect(
		int(math.Round(float64(det.XMin)*scaleX)),
		int(math.Round(float64(det.YMin)*scaleY)),
		int(math.Round(float64(det.XMax)*scaleX)),
		int(math.Round(float64(det.YMax)*scaleY)),
	)
}
