package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Source            string // camera index ("0") or video file path
	EndpointURL       string
	CaptureInterval   int // seconds between upload samples
	ResizeWidth       int
	ResizeHeight      int
	JpegQuality       int
	UploadTimeoutMs   int
	FallbackFPS       float64 // used when the source reports an unknown rate
	ShowWindow        bool
	LiveViewPort      int // 0 disables the browser live view
	DumpFrames        bool
	DumpDirectory     string
	DumpLimit         int
	DumpFlushInterval int    // seconds between dump flushes
	HistoryDBPath     string // empty disables the capture history store
	LogDirectory      string
}

func Load() *Config {
	// Optional .env next to the binary; a missing file is fine.
	_ = godotenv.Load()

	return &Config{
		Source:            getEnv("SOURCE", "0"),
		EndpointURL:       getEnv("ENDPOINT_URL", "http://localhost:8000/upload"),
		CaptureInterval:   getEnvAsInt("CAPTURE_INTERVAL", 2),
		ResizeWidth:       getEnvAsInt("RESIZE_WIDTH", 640),
		ResizeHeight:      getEnvAsInt("RESIZE_HEIGHT", 480),
		JpegQuality:       getEnvAsInt("JPEG_QUALITY", 80),
		UploadTimeoutMs:   getEnvAsInt("UPLOAD_TIMEOUT_MS", 10000),
		FallbackFPS:       getEnvAsFloat("FALLBACK_FPS", 30),
		ShowWindow:        getEnvAsBool("SHOW_WINDOW", false),
		LiveViewPort:      getEnvAsInt("LIVE_VIEW_PORT", 0),
		DumpFrames:        getEnvAsBool("DUMP_FRAMES", false),
		DumpDirectory:     getEnv("DUMP_DIR", filepath.Join(".", "frames")),
		DumpLimit:         getEnvAsInt("DUMP_LIMIT", 20),
		DumpFlushInterval: getEnvAsInt("DUMP_FLUSH_INTERVAL", 30),
		HistoryDBPath:     getEnv("HISTORY_DB", "drivelens.db"),
		LogDirectory:      getEnv("LOG_DIR", filepath.Join(".", "logs")),
	}
}

// Validate rejects option combinations the pipeline cannot run with.
// A capture interval below one second would make the sample clock degenerate.
func (c *Config) Validate() error {
	if c.EndpointURL == "" {
		return fmt.Errorf("endpoint URL must not be empty")
	}
	if c.CaptureInterval < 1 {
		return fmt.Errorf("capture interval must be at least 1 second, got %d", c.CaptureInterval)
	}
	if c.ResizeWidth <= 0 || c.ResizeHeight <= 0 {
		return fmt.Errorf("resize dimensions must be positive, got %dx%d", c.ResizeWidth, c.ResizeHeight)
	}
	if c.JpegQuality < 0 || c.JpegQuality > 100 {
		return fmt.Errorf("jpeg quality must be in 0..100, got %d", c.JpegQuality)
	}
	if c.UploadTimeoutMs <= 0 {
		return fmt.Errorf("upload timeout must be positive, got %dms", c.UploadTimeoutMs)
	}
	if c.FallbackFPS <= 0 {
		return fmt.Errorf("fallback FPS must be positive, got %v", c.FallbackFPS)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
