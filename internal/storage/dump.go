package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Mafufuyu/DriveLens/internal/logger"
)

type dumpFrame struct {
	timestamp    string
	captureIndex int
	data         []byte
}

// DumpService buffers encoded upload payloads and flushes them to disk on
// a ticker. It backs the runtime debug-dump flag; the write happens off
// the capture path so dumping never changes pipeline timing beyond the
// buffered copy.
type DumpService struct {
	dir    string
	frames []dumpFrame
	limit  int
	logger *logger.Logger
	mu     sync.Mutex
}

func NewDumpService(dir string, limit int, logger *logger.Logger) *DumpService {
	return &DumpService{
		dir:    dir,
		frames: make([]dumpFrame, 0),
		limit:  limit,
		logger: logger,
	}
}

// Run flushes the buffer every flushInterval seconds. Blocks; run in a
// goroutine.
func (s *DumpService) Run(flushInterval int) {
	ticker := time.NewTicker(time.Duration(flushInterval) * time.Second)
	defer ticker.Stop()
	for {
		<-ticker.C
		s.Flush()
	}
}

// Add buffers one encoded payload. Frames past the buffer limit are
// discarded until the next flush.
func (s *DumpService) Add(payload []byte, captureIndex int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.frames) >= s.limit {
		return
	}

	data := make([]byte, len(payload))
	copy(data, payload)

	s.frames = append(s.frames, dumpFrame{
		timestamp:    time.Now().Format("2006-01-02_15-04-05"),
		captureIndex: captureIndex,
		data:         data,
	})
}

// Flush writes all buffered frames to the dump directory and clears the
// buffer.
func (s *DumpService) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.frames) == 0 {
		return
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		s.logger.Error("Failed to create dump directory: %v", err)
		return
	}

	for _, frame := range s.frames {
		filename := fmt.Sprintf("%s_capture_%06d.jpg", frame.timestamp, frame.captureIndex)
		fullpath := filepath.Join(s.dir, filename)

		if err := os.WriteFile(fullpath, frame.data, 0644); err != nil {
			s.logger.Error("Failed to dump frame %s: %v", filename, err)
			continue
		}
	}

	s.logger.Info("Dumped %d frame(s) to disk", len(s.frames))
	s.frames = s.frames[:0]
}
