package config

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeConversion()
	c.normalizeProgress()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.History.Path, err = expandPath(strings.TrimSpace(c.History.Path)); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeConversion() {
	c.Conversion.Format = strings.ToLower(strings.TrimSpace(c.Conversion.Format))
	switch c.Conversion.Format {
	case "":
		c.Conversion.Format = defaultFormat
	case "jpg":
		c.Conversion.Format = FormatJPEG
	}
	c.Conversion.Extensions = NormalizeExtensions(c.Conversion.Extensions)
	if len(c.Conversion.Extensions) == 0 {
		c.Conversion.Extensions = append([]string(nil), defaultExtensions...)
	}
	c.Conversion.OutputSuffix = strings.TrimSpace(c.Conversion.OutputSuffix)
	c.Conversion.ExistingOutput = strings.ToLower(strings.TrimSpace(c.Conversion.ExistingOutput))
	if c.Conversion.ExistingOutput == "" {
		c.Conversion.ExistingOutput = defaultExistingOutput
	}
}

// NormalizeExtensions case-folds, strips leading dots, and de-duplicates a
// list of file extensions while preserving order.
func NormalizeExtensions(values []string) []string {
	folder := cases.Fold()
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, ext := range values {
		normalized := folder.String(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out
}

func (c *Config) normalizeProgress() {
	if c.Progress.RedrawEvery <= 0 {
		c.Progress.RedrawEvery = defaultRedrawEvery
	}
	if c.Progress.RedrawIntervalMS < 0 {
		c.Progress.RedrawIntervalMS = 0
	}
	if c.Progress.LogBucketPercent <= 0 {
		c.Progress.LogBucketPercent = defaultLogBucketPercent
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
