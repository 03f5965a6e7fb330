package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Mafufuyu/DriveLens/internal/capture"
	"github.com/Mafufuyu/DriveLens/internal/codec"
	"github.com/Mafufuyu/DriveLens/internal/config"
	"github.com/Mafufuyu/DriveLens/internal/display"
	"github.com/Mafufuyu/DriveLens/internal/liveview"
	"github.com/Mafufuyu/DriveLens/internal/logger"
	"github.com/Mafufuyu/DriveLens/internal/pipeline"
	"github.com/Mafufuyu/DriveLens/internal/storage"
	"github.com/Mafufuyu/DriveLens/internal/store"
	"github.com/Mafufuyu/DriveLens/internal/upload"
)

// App wires configuration, logging, and the capture pipeline together.
type App struct {
	cfg *config.Config
	log *logger.Logger
}

func New(cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.New(cfg.LogDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	return &App{cfg: cfg, log: log}, nil
}

// Run opens the video source and drives the capture pipeline until the
// source ends or ctx is cancelled. Failure to open the source is the only
// fatal startup error.
func (a *App) Run(ctx context.Context) error {
	cfg := a.cfg

	source, err := capture.Open(cfg.Source)
	if err != nil {
		return err
	}

	fps := source.FrameRate()
	intervalFrames := pipeline.IntervalFrames(fps, cfg.CaptureInterval, cfg.FallbackFPS)
	a.log.Info("Source %s: %.2f fps reported, sampling every %d frame(s)", cfg.Source, fps, intervalFrames)

	encoder := codec.NewJPEGEncoder(cfg.ResizeWidth, cfg.ResizeHeight, cfg.JpegQuality)
	uploader := upload.NewHTTPUploader(cfg.EndpointURL, time.Duration(cfg.UploadTimeoutMs)*time.Millisecond)

	opts := pipeline.Options{
		IntervalFrames: intervalFrames,
		ResizeWidth:    cfg.ResizeWidth,
		ResizeHeight:   cfg.ResizeHeight,
	}

	if cfg.ShowWindow {
		window := display.NewWindow("DriveLens")
		defer window.Close()
		opts.Displays = append(opts.Displays, window)
	}

	if cfg.LiveViewPort > 0 {
		view := liveview.NewServer(a.log)
		go func() {
			if err := view.Serve(cfg.LiveViewPort); err != nil {
				a.log.Error("Live view server stopped: %v", err)
			}
		}()
		opts.Displays = append(opts.Displays, view)
	}

	if cfg.DumpFrames {
		dump := storage.NewDumpService(cfg.DumpDirectory, cfg.DumpLimit, a.log)
		go dump.Run(cfg.DumpFlushInterval)
		defer dump.Flush()
		opts.Dump = dump
	}

	if cfg.HistoryDBPath != "" {
		st, err := store.Open(cfg.HistoryDBPath)
		if err != nil {
			// History is best-effort: the agent still captures and uploads.
			a.log.Warning("Capture history disabled: %v", err)
		} else {
			defer st.Close()
			sessionID := uuid.NewString()
			a.log.Info("Capture session %s", sessionID)
			opts.Recorder = store.NewSessionRecorder(st, sessionID)
		}
	}

	ctrl := pipeline.New(source, encoder, uploader, opts, a.log)
	ctrl.Run(ctx)
	return nil
}

// History prints the most recent capture rows to stdout.
func (a *App) History(limit int) error {
	if a.cfg.HistoryDBPath == "" {
		return fmt.Errorf("capture history is disabled (HISTORY_DB is empty)")
	}

	st, err := store.Open(a.cfg.HistoryDBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	captures, err := st.Recent(limit)
	if err != nil {
		return err
	}
	if len(captures) == 0 {
		fmt.Println("No captures recorded yet.")
		return nil
	}

	for _, c := range captures {
		fmt.Printf("%s  %s  session=%s\n", c.Timestamp.Format(time.DateTime), c.Filename, c.SessionID)
		for _, d := range c.Detections {
			fmt.Printf("    %-14s %.2f  (%d,%d)-(%d,%d)\n", d.Label, d.Confidence, d.XMin, d.YMin, d.XMax, d.YMax)
		}
	}
	return nil
}
