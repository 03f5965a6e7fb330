package pipeline

import (
	"context"
	"fmt"

	"gocv.io/x/gocv"

	"github.com/Mafufuyu/DriveLens/internal/capture"
	"github.com/Mafufuyu/DriveLens/internal/detection"
	"github.com/Mafufuyu/DriveLens/internal/logger"
	"github.com/Mafufuyu/DriveLens/internal/overlay"
	"github.com/Mafufuyu/DriveLens/internal/upload"
)

// Encoder produces the compressed payload sent to the inference service.
type Encoder interface {
	Encode(src gocv.Mat) ([]byte, error)
}

// Display receives the rendered frame each iteration. Sinks must not hold
// on to the Mat past the call; it is closed when the iteration ends.
type Display interface {
	Publish(frame gocv.Mat)
}

// Recorder persists a completed capture and its parsed detections.
type Recorder interface {
	RecordCapture(filename string, set detection.Set) error
}

// FrameDump receives a copy of each encoded upload payload when debug
// dumping is enabled.
type FrameDump interface {
	Add(payload []byte, captureIndex int)
}

// Options carries the controller knobs and optional collaborators.
type Options struct {
	IntervalFrames int // sample every Nth frame, >= 1
	ResizeWidth    int // default reference resolution for parse
	ResizeHeight   int
	Displays       []Display
	Recorder       Recorder
	Dump           FrameDump
}

// Stats summarizes a finished run.
type Stats struct {
	FramesRead int64
	Dispatched int // uploads launched
	Completed  int // uploads that returned 200
	Failed     int // transport errors, timeouts, non-200 responses
}

// Controller drives the capture loop: read a frame, check the in-flight
// upload, render the last known detections, and sample a frame for upload
// on cadence. At most one upload runs concurrently with capture; a sample
// that comes due while the slot is occupied is dropped, never queued.
type Controller struct {
	source   capture.FrameSource
	encoder  Encoder
	uploader upload.Uploader
	renderer *overlay.Renderer
	opts     Options
	log      *logger.Logger

	last       detection.Set
	task       *upload.Task // nil when the upload slot is free
	frameCount int64
	stats      Stats
}

func New(source capture.FrameSource, encoder Encoder, uploader upload.Uploader, opts Options, log *logger.Logger) *Controller {
	return &Controller{
		source:   source,
		encoder:  encoder,
		uploader: uploader,
		renderer: overlay.NewRenderer(),
		opts:     opts,
		log:      log,
		last:     detection.EmptySet(opts.ResizeWidth, opts.ResizeHeight),
	}
}

// Run captures until the source ends or ctx is cancelled, then drains any
// in-flight upload before releasing the source.
func (c *Controller) Run(ctx context.Context) Stats {
	frame := gocv.NewMat()
	defer frame.Close()

	for ctx.Err() == nil {
		if ok := c.source.Read(&frame); !ok {
			break
		}
		c.stats.FramesRead++

		c.pollUpload()
		c.present(frame)

		due := ShouldSample(c.frameCount, c.opts.IntervalFrames)
		c.frameCount++
		if !due || c.task != nil {
			continue
		}
		c.launchUpload(ctx, frame)
	}

	c.drain()
	if err := c.source.Close(); err != nil {
		c.log.Warning("Failed to release video source: %v", err)
	}
	c.log.Info("Capture finished: %d frames read, %d uploads dispatched, %d completed, %d failed",
		c.stats.FramesRead, c.stats.Dispatched, c.stats.Completed, c.stats.Failed)
	return c.stats
}

// Last returns the detection set currently rendered on outgoing frames.
func (c *Controller) Last() detection.Set {
	return c.last
}

// pollUpload checks the upload slot without blocking and applies the
// result when the background task has finished.
func (c *Controller) pollUpload() {
	if c.task == nil {
		return
	}
	res, done := c.task.Poll()
	if !done {
		return
	}
	filename := c.task.Filename()
	c.task = nil
	c.applyResult(filename, res)
}

// applyResult parses a completed upload's body and publishes it as the new
// last-known detection set when it contains detections. Failures keep the
// previous overlay in place.
func (c *Controller) applyResult(filename string, res upload.Result) {
	if res.Err != nil {
		c.stats.Failed++
		c.log.Warning("Upload %s failed: %v", filename, res.Err)
		return
	}
	c.stats.Completed++

	set := detection.Parse(res.Body, c.opts.ResizeWidth, c.opts.ResizeHeight)
	if len(set.Detections) == 0 {
		return
	}
	c.last = set
	c.log.Info("Upload %s: %d object(s) detected", filename, len(set.Detections))

	if c.opts.Recorder != nil {
		if err := c.opts.Recorder.RecordCapture(filename, set); err != nil {
			c.log.Warning("Failed to record capture %s: %v", filename, err)
		}
	}
}

// present renders the last-known detections onto a copy of the live frame
// and hands it to every display sink. The upload path never sees the drawn
// copy.
func (c *Controller) present(frame gocv.Mat) {
	if len(c.opts.Displays) == 0 {
		return
	}
	view := frame.Clone()
	defer view.Close()

	c.renderer.Draw(&view, c.last)
	for _, d := range c.opts.Displays {
		d.Publish(view)
	}
}

// launchUpload encodes the undrawn frame and occupies the upload slot.
// An encode failure skips this sample cycle and leaves the slot free.
func (c *Controller) launchUpload(ctx context.Context, frame gocv.Mat) {
	payload, err := c.encoder.Encode(frame)
	if err != nil {
		c.log.Warning("Frame %d: encode failed, skipping sample: %v", c.frameCount, err)
		return
	}

	filename := fmt.Sprintf("frame_%06d.jpg", c.stats.Dispatched)
	if c.opts.Dump != nil {
		c.opts.Dump.Add(payload, c.stats.Dispatched)
	}

	// Mid-flight cancellation is not supported: a run context cancelled at
	// shutdown must not abort the upload being drained. The client timeout
	// is the only bound on the request.
	c.task = upload.Launch(context.WithoutCancel(ctx), c.uploader, payload, filename)
	c.stats.Dispatched++
}

// drain blocks once for the in-flight upload at shutdown so the background
// task never outlives the capture source.
func (c *Controller) drain() {
	if c.task == nil {
		return
	}
	filename := c.task.Filename()
	res := c.task.Wait()
	c.task = nil
	c.applyResult(filename, res)
}
