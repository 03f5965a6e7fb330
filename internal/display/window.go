package display

import (
	"gocv.io/x/gocv"
)

// Window shows rendered frames in an on-screen OpenCV window.
type Window struct {
	win *gocv.Window
}

func NewWindow(title string) *Window {
	return &Window{win: gocv.NewWindow(title)}
}

// Publish shows the frame. WaitKey(1) pumps the GUI event loop without
// stalling the capture cadence.
func (w *Window) Publish(frame gocv.Mat) {
	w.win.IMShow(frame)
	w.win.WaitKey(1)
}

func (w *Window) Close() error {
	return w.win.Close()
}
