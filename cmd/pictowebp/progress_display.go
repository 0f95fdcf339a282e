package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/schollz/progressbar/v3"

	"pictowebp/internal/logging"
	"pictowebp/internal/progress"
)

type closableDisplay interface {
	progress.Display
	Close()
}

func newProgressDisplay(interactive bool, w io.Writer, logger *slog.Logger, total int64, bucketPercent float64) closableDisplay {
	if interactive {
		return newBarDisplay(w, total, logger)
	}
	return &logDisplay{logger: logger, sampler: logging.NewProgressSampler(bucketPercent)}
}

type barDisplay struct {
	w      io.Writer
	bar    *progressbar.ProgressBar
	logger *slog.Logger
}

func newBarDisplay(w io.Writer, total int64, logger *slog.Logger) *barDisplay {
	bar := progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Converting"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(0),
		progressbar.OptionSetRenderBlankState(true),
	)
	if logger == nil {
		logger = logging.NewNop()
	}
	return &barDisplay{w: w, bar: bar, logger: logger}
}

func (d *barDisplay) Update(done, _ int64) {
	if err := d.bar.Set64(done); err != nil {
		d.logger.Debug("progress bar render failed", logging.Int64("done", done), logging.Error(err))
	}
}

func (d *barDisplay) Close() {
	if err := d.bar.Finish(); err != nil {
		d.logger.Debug("progress bar finish failed", logging.Error(err))
	}
	fmt.Fprintln(d.w)
}

// logDisplay emits sampled progress lines for non-interactive output.
type logDisplay struct {
	logger  *slog.Logger
	sampler *logging.ProgressSampler
}

func (d *logDisplay) Update(done, total int64) {
	if !d.sampler.ShouldLog(done, total) {
		return
	}
	d.logger.Info("progress",
		logging.Int64("done", done),
		logging.Int64("total", total),
		logging.String("percent", fmt.Sprintf("%.0f%%", logging.Percent(done, total))),
	)
}

func (d *logDisplay) Close() {}
