package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"pictowebp/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantLogs := filepath.Join(tempHome, ".local", "share", "pictowebp", "logs")
	if cfg.Paths.LogDir != wantLogs {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogs)
	}
	if cfg.Conversion.Format != "webp" {
		t.Fatalf("unexpected default format: %q", cfg.Conversion.Format)
	}
	if cfg.Conversion.Quality != 80 {
		t.Fatalf("unexpected default quality: %d", cfg.Conversion.Quality)
	}
	if cfg.Conversion.Workers != 16 {
		t.Fatalf("unexpected default workers: %d", cfg.Conversion.Workers)
	}
	if cfg.Conversion.ChunkFactor != 32 {
		t.Fatalf("unexpected default chunk factor: %d", cfg.Conversion.ChunkFactor)
	}
	if got := strings.Join(cfg.Conversion.Extensions, ","); got != "png,jpg,jpeg" {
		t.Fatalf("unexpected default extensions: %q", got)
	}
	if cfg.HistoryPath() != filepath.Join(tempHome, ".local", "share", "pictowebp", "history.db") {
		t.Fatalf("unexpected history path: %q", cfg.HistoryPath())
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.LogDir, cfg.Paths.StateDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "pictowebp.toml")

	type payload struct {
		Conversion struct {
			Format      string   `toml:"format"`
			Quality     int      `toml:"quality"`
			Workers     int      `toml:"workers"`
			ChunkFactor int      `toml:"chunk_factor"`
			Extensions  []string `toml:"extensions"`
		} `toml:"conversion"`
		Logging struct {
			Format string `toml:"format"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Conversion.Format = "JPG"
	custom.Conversion.Quality = 55
	custom.Conversion.Workers = 3
	custom.Conversion.ChunkFactor = 8
	custom.Conversion.Extensions = []string{".PNG", "png", " Tiff "}
	custom.Logging.Format = "JSON"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Conversion.Format != config.FormatJPEG {
		t.Fatalf("expected jpg to normalize to jpeg, got %q", cfg.Conversion.Format)
	}
	if cfg.TargetExtension() != ".jpg" {
		t.Fatalf("unexpected target extension: %q", cfg.TargetExtension())
	}
	if cfg.Conversion.Quality != 55 || cfg.Conversion.Workers != 3 || cfg.Conversion.ChunkFactor != 8 {
		t.Fatalf("unexpected conversion values: %+v", cfg.Conversion)
	}
	if got := strings.Join(cfg.Conversion.Extensions, ","); got != "png,tiff" {
		t.Fatalf("expected normalized extensions, got %q", got)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected json log format, got %q", cfg.Logging.Format)
	}
}

func TestEnvironmentOverridesConfigFile(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.toml")
	if err := os.WriteFile(configPath, []byte("[conversion]\nquality = 40\nworkers = 2\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	dotenv := "PICTOWEBP_QUALITY=70\nPICTOWEBP_FORMAT=png\n"
	if err := os.WriteFile(filepath.Join(tempDir, "pictowebp.env"), []byte(dotenv), 0o644); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}
	t.Setenv("PICTOWEBP_QUALITY", "90")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Conversion.Quality != 90 {
		t.Errorf("expected process env to win, got quality %d", cfg.Conversion.Quality)
	}
	if cfg.Conversion.Format != config.FormatPNG {
		t.Errorf("expected dotenv format png, got %q", cfg.Conversion.Format)
	}
	if cfg.Conversion.Workers != 2 {
		t.Errorf("expected workers from file, got %d", cfg.Conversion.Workers)
	}
}

func TestEnvironmentRejectsNonNumericQuality(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	t.Setenv("PICTOWEBP_QUALITY", "high")
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected error for non-numeric quality")
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Conversion.ChunkFactor != 32 {
		t.Fatalf("expected sample chunk_factor 32, got %d", cfg.Conversion.ChunkFactor)
	}
	if !strings.Contains(cfg.Paths.StateDir, "pictowebp") {
		t.Fatalf("expected state dir to contain pictowebp, got %q", cfg.Paths.StateDir)
	}
}

func TestOutputRootFor(t *testing.T) {
	cfg := config.Default()
	if got := cfg.OutputRootFor("/data/photos/"); got != filepath.Join("/data", "photos_webp") {
		t.Fatalf("unexpected output root: %q", got)
	}
	cfg.Conversion.OutputSuffix = "-small"
	if got := cfg.OutputRootFor("/data/photos"); got != filepath.Join("/data", "photos-small") {
		t.Fatalf("unexpected output root with suffix: %q", got)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"quality zero", func(c *config.Config) { c.Conversion.Quality = 0 }},
		{"quality above range", func(c *config.Config) { c.Conversion.Quality = 101 }},
		{"no workers", func(c *config.Config) { c.Conversion.Workers = 0 }},
		{"chunk factor zero", func(c *config.Config) { c.Conversion.ChunkFactor = 0 }},
		{"unknown format", func(c *config.Config) { c.Conversion.Format = "avif" }},
		{"unknown existing policy", func(c *config.Config) { c.Conversion.ExistingOutput = "merge" }},
		{"no extensions", func(c *config.Config) { c.Conversion.Extensions = nil }},
		{"bucket above 100", func(c *config.Config) { c.Progress.LogBucketPercent = 150 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}
