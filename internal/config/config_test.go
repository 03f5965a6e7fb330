package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Source != "0" {
		t.Errorf("Expected default source 0, got %q", cfg.Source)
	}
	if cfg.CaptureInterval != 2 {
		t.Errorf("Expected default capture interval 2, got %d", cfg.CaptureInterval)
	}
	if cfg.ResizeWidth != 640 || cfg.ResizeHeight != 480 {
		t.Errorf("Expected default resize 640x480, got %dx%d", cfg.ResizeWidth, cfg.ResizeHeight)
	}
	if cfg.JpegQuality != 80 {
		t.Errorf("Expected default quality 80, got %d", cfg.JpegQuality)
	}
	if cfg.UploadTimeoutMs != 10000 {
		t.Errorf("Expected default upload timeout 10000ms, got %d", cfg.UploadTimeoutMs)
	}
	if cfg.FallbackFPS != 30 {
		t.Errorf("Expected default fallback FPS 30, got %v", cfg.FallbackFPS)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate, got %v", err)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SOURCE", "traffic.mp4")
	t.Setenv("CAPTURE_INTERVAL", "5")
	t.Setenv("JPEG_QUALITY", "60")
	t.Setenv("SHOW_WINDOW", "true")
	t.Setenv("FALLBACK_FPS", "25")

	cfg := Load()

	if cfg.Source != "traffic.mp4" {
		t.Errorf("Expected source traffic.mp4, got %q", cfg.Source)
	}
	if cfg.CaptureInterval != 5 {
		t.Errorf("Expected capture interval 5, got %d", cfg.CaptureInterval)
	}
	if cfg.JpegQuality != 60 {
		t.Errorf("Expected quality 60, got %d", cfg.JpegQuality)
	}
	if !cfg.ShowWindow {
		t.Error("Expected show window true")
	}
	if cfg.FallbackFPS != 25 {
		t.Errorf("Expected fallback FPS 25, got %v", cfg.FallbackFPS)
	}
}

func TestLoadIgnoresUnparsableValues(t *testing.T) {
	t.Setenv("CAPTURE_INTERVAL", "soon")
	t.Setenv("SHOW_WINDOW", "maybe")

	cfg := Load()

	if cfg.CaptureInterval != 2 {
		t.Errorf("Expected fallback to default interval 2, got %d", cfg.CaptureInterval)
	}
	if cfg.ShowWindow {
		t.Error("Expected fallback to default show window false")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"empty endpoint", func(c *Config) { c.EndpointURL = "" }, true},
		{"zero interval", func(c *Config) { c.CaptureInterval = 0 }, true},
		{"negative width", func(c *Config) { c.ResizeWidth = -1 }, true},
		{"zero height", func(c *Config) { c.ResizeHeight = 0 }, true},
		{"quality above range", func(c *Config) { c.JpegQuality = 101 }, true},
		{"quality below range", func(c *Config) { c.JpegQuality = -1 }, true},
		{"zero timeout", func(c *Config) { c.UploadTimeoutMs = 0 }, true},
		{"zero fallback fps", func(c *Config) { c.FallbackFPS = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
