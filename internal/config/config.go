package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration for logs and persisted state.
type Paths struct {
	LogDir   string `toml:"log_dir"`
	StateDir string `toml:"state_dir"`
}

// Conversion contains the knobs that shape a batch run.
type Conversion struct {
	// Format is the target codec: webp, jpeg, or png.
	Format  string `toml:"format"`
	Quality int    `toml:"quality"`
	Workers int    `toml:"workers"`
	// ChunkFactor is the K in chunk = max(1, files / (workers*K)).
	ChunkFactor int `toml:"chunk_factor"`
	// Extensions lists source extensions (without the dot) that discovery picks up.
	Extensions []string `toml:"extensions"`
	// OutputSuffix is appended to the source folder name to build the default
	// output root. Empty means "_<format>".
	OutputSuffix string `toml:"output_suffix"`
	// ExistingOutput decides what happens to a pre-existing output root:
	// replace, backup, or abort.
	ExistingOutput string `toml:"existing_output"`
}

// Progress contains display throttling configuration.
type Progress struct {
	RedrawEvery      int     `toml:"redraw_every"`
	RedrawIntervalMS int     `toml:"redraw_interval_ms"`
	LogBucketPercent float64 `toml:"log_bucket_percent"`
}

// History contains configuration for the run history database.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for pictowebp.
//
// Configuration sections by subsystem:
//   - Paths: log and state directories
//   - Conversion: target format, quality, worker pool and batching
//   - Progress: display coalescing
//   - History: SQLite run history
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Conversion Conversion `toml:"conversion"`
	Progress   Progress   `toml:"progress"`
	History    History    `toml:"history"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/pictowebp/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	env, err := readEnvironment(filepath.Join(filepath.Dir(resolvedPath), envFileName))
	if err != nil {
		return nil, "", false, err
	}
	if err := cfg.applyEnvironment(env); err != nil {
		return nil, "", false, err
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/pictowebp/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("pictowebp.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the log and state directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.LogDir, c.Paths.StateDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// TargetExtension returns the canonical file extension (with leading dot) for
// the configured output format.
func (c *Config) TargetExtension() string {
	return FormatExtension(c.Conversion.Format)
}

// FormatExtension maps a format name to its canonical extension.
func FormatExtension(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatJPEG:
		return ".jpg"
	case FormatPNG:
		return ".png"
	default:
		return ".webp"
	}
}

// OutputRootFor derives the default output root for a source folder:
// a sibling directory named <source><suffix>.
func (c *Config) OutputRootFor(sourceRoot string) string {
	suffix := c.Conversion.OutputSuffix
	if suffix == "" {
		suffix = "_" + strings.ToLower(c.Conversion.Format)
	}
	clean := filepath.Clean(sourceRoot)
	return filepath.Join(filepath.Dir(clean), filepath.Base(clean)+suffix)
}

// HistoryPath returns the resolved location of the history database.
func (c *Config) HistoryPath() string {
	if strings.TrimSpace(c.History.Path) != "" {
		return c.History.Path
	}
	return filepath.Join(c.Paths.StateDir, "history.db")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
