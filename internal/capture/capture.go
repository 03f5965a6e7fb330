package capture

import (
	"fmt"

	"gocv.io/x/gocv"
)

// FrameSource is the capture collaborator the pipeline reads from. Read
// returns false at end-of-stream or when the device stops delivering
// frames, which the pipeline treats as a clean stop.
type FrameSource interface {
	Read(dst *gocv.Mat) bool
	FrameRate() float64
	Close() error
}

// VideoSource wraps an OpenCV VideoCapture over a camera index or a video
// file path.
type VideoSource struct {
	cap    *gocv.VideoCapture
	source string
}

// Open opens the capture device or file. gocv treats a numeric string as a
// device index and anything else as a file or stream URL.
func Open(source string) (*VideoSource, error) {
	cap, err := gocv.OpenVideoCapture(source)
	if err != nil {
		return nil, fmt.Errorf("failed to open video source %q: %w", source, err)
	}
	if !cap.IsOpened() {
		cap.Close()
		return nil, fmt.Errorf("video source %q is not available", source)
	}
	return &VideoSource{cap: cap, source: source}, nil
}

// Read grabs the next frame into dst. An empty grab counts as
// end-of-stream.
func (s *VideoSource) Read(dst *gocv.Mat) bool {
	if ok := s.cap.Read(dst); !ok {
		return false
	}
	return !dst.Empty()
}

// FrameRate returns the source's reported frame rate. Cameras that do not
// report one return 0 or a negative value; the caller substitutes a
// fallback.
func (s *VideoSource) FrameRate() float64 {
	return s.cap.Get(gocv.VideoCaptureFPS)
}

func (s *VideoSource) Close() error {
	return s.cap.Close()
}
