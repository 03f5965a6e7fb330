package codec

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// JPEGEncoder downsizes a raw frame to fixed dimensions and compresses it
// to JPEG. The returned buffer is a private copy, safe to hand to a
// background upload while the capture loop keeps reusing its frame.
type JPEGEncoder struct {
	width   int
	height  int
	quality int
}

func NewJPEGEncoder(width, height, quality int) *JPEGEncoder {
	return &JPEGEncoder{width: width, height: height, quality: quality}
}

// Encode resizes src into a scratch Mat and encodes it. src is never
// modified.
func (e *JPEGEncoder) Encode(src gocv.Mat) ([]byte, error) {
	if src.Empty() {
		return nil, fmt.Errorf("cannot encode an empty frame")
	}

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(src, &resized, image.Pt(e.width, e.height), 0, 0, gocv.InterpolationDefault)

	params := []int{gocv.IMWriteJpegQuality, e.quality}
	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, resized, params)
	if err != nil {
		return nil, fmt.Errorf("jpeg encode failed: %w", err)
	}
	defer buf.Close()

	encoded := make([]byte, len(buf.GetBytes()))
	copy(encoded, buf.GetBytes())
	return encoded, nil
}
