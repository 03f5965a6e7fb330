package upload

import "context"

// Result is the outcome of one upload: a raw response body or an error
// (transport failure, timeout, or non-200 status).
type Result struct {
	Body []byte
	Err  error
}

// Task is a single in-flight upload. The launching goroutine hands the
// payload over at Launch and never touches it again; the result crosses
// back exactly once through a buffered channel, so Poll never blocks and
// the worker goroutine never blocks on send.
type Task struct {
	filename string
	done     chan Result
}

// Launch starts the upload in the background and returns immediately.
func Launch(ctx context.Context, uploader Uploader, payload []byte, filename string) *Task {
	t := &Task{
		filename: filename,
		done:     make(chan Result, 1),
	}
	go func() {
		body, err := uploader.Post(ctx, payload, filename)
		t.done <- Result{Body: body, Err: err}
	}()
	return t
}

// Filename returns the diagnostic tag the payload was uploaded under.
func (t *Task) Filename() string {
	return t.filename
}

// Poll reports whether the upload has finished, returning its result if so.
// It never blocks.
func (t *Task) Poll() (Result, bool) {
	select {
	case r := <-t.done:
		return r, true
	default:
		return Result{}, false
	}
}

// Wait blocks until the upload finishes. Used only to drain the slot at
// shutdown.
func (t *Task) Wait() Result {
	return <-t.done
}
