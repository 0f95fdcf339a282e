package config

import (
	"errors"
	"fmt"
)

// Quality bounds accepted by every supported encoder.
const (
	MinQuality = 1
	MaxQuality = 100
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateConversion(); err != nil {
		return err
	}
	if err := c.validateProgress(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateConversion() error {
	switch c.Conversion.Format {
	case FormatWebP, FormatJPEG, FormatPNG:
	default:
		return fmt.Errorf("conversion.format must be one of webp, jpeg, png (got %q)", c.Conversion.Format)
	}
	if err := ValidateQuality(c.Conversion.Quality); err != nil {
		return err
	}
	if err := ValidateWorkers(c.Conversion.Workers); err != nil {
		return err
	}
	if c.Conversion.ChunkFactor < 1 {
		return errors.New("conversion.chunk_factor must be >= 1")
	}
	if len(c.Conversion.Extensions) == 0 {
		return errors.New("conversion.extensions must include at least one extension")
	}
	switch c.Conversion.ExistingOutput {
	case ExistingReplace, ExistingBackup, ExistingAbort:
	default:
		return fmt.Errorf("conversion.existing_output must be one of replace, backup, abort (got %q)", c.Conversion.ExistingOutput)
	}
	return nil
}

func (c *Config) validateProgress() error {
	if c.Progress.RedrawEvery < 1 {
		return errors.New("progress.redraw_every must be >= 1")
	}
	if c.Progress.LogBucketPercent > 100 {
		return errors.New("progress.log_bucket_percent must be <= 100")
	}
	return nil
}

// ValidateQuality reports whether q is inside the codec-valid range.
func ValidateQuality(q int) error {
	if q < MinQuality || q > MaxQuality {
		return fmt.Errorf("conversion.quality must be between %d and %d (got %d)", MinQuality, MaxQuality, q)
	}
	return nil
}

// ValidateWorkers reports whether n is a usable worker count.
func ValidateWorkers(n int) error {
	if n < 1 {
		return fmt.Errorf("conversion.workers must be >= 1 (got %d)", n)
	}
	return nil
}
