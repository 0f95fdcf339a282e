package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"pictowebp/internal/batch"
	"pictowebp/internal/config"
	"pictowebp/internal/discover"
	"pictowebp/internal/history"
	"pictowebp/internal/logging"
	"pictowebp/internal/outroot"
	"pictowebp/internal/pathmap"
	"pictowebp/internal/preflight"
	"pictowebp/internal/progress"
	"pictowebp/internal/services"
	"pictowebp/internal/transcode"
)

// errConversionFailures makes the process exit non-zero after a run that
// finished with per-file failures.
var errConversionFailures = errors.New("some images failed to convert")

type convertFlags struct {
	quality     int
	workers     int
	chunkFactor int
	format      string
	output      string
	existing    string
	jsonOutput  bool
	noHistory   bool
	noProgress  bool
}

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var flags convertFlags

	cmd := &cobra.Command{
		Use:   "convert <source-dir>",
		Short: "Convert every image under a folder into a mirrored output folder",
		Long: `Convert discovers png/jpg/jpeg files under <source-dir>, converts them in
parallel, and writes the results to a sibling folder named <source-dir>_<format>
(or --output). Files that fail to convert are listed at the end; the command
exits with status 1 when any file failed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			effective, err := applyConvertFlags(cmd, *cfg, flags)
			if err != nil {
				return err
			}
			return runConvert(cmd, &effective, args[0], flags)
		},
	}

	cmd.Flags().IntVarP(&flags.quality, "quality", "q", 0, "Encoding quality 1-100 (default from config, 80)")
	cmd.Flags().IntVarP(&flags.workers, "workers", "w", 0, "Number of parallel workers (default from config, 16)")
	cmd.Flags().IntVar(&flags.chunkFactor, "chunk-factor", 0, "Chunks per worker used to size batches (default from config, 32)")
	cmd.Flags().StringVar(&flags.format, "format", "", "Target format: webp, jpeg, png")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output folder (default <source-dir>_<format>)")
	cmd.Flags().StringVar(&flags.existing, "existing", "", "Existing output folder policy: replace, backup, abort")
	cmd.Flags().BoolVar(&flags.jsonOutput, "json", false, "Print the run summary as JSON")
	cmd.Flags().BoolVar(&flags.noHistory, "no-history", false, "Do not record this run in the history database")
	cmd.Flags().BoolVar(&flags.noProgress, "no-progress", false, "Disable the interactive progress bar")
	return cmd
}

// applyConvertFlags overlays explicitly set flags on a copy of cfg and
// re-validates the result.
func applyConvertFlags(cmd *cobra.Command, cfg config.Config, flags convertFlags) (config.Config, error) {
	changed := cmd.Flags().Changed
	if changed("quality") {
		cfg.Conversion.Quality = flags.quality
	}
	if changed("workers") {
		cfg.Conversion.Workers = flags.workers
	}
	if changed("chunk-factor") {
		cfg.Conversion.ChunkFactor = flags.chunkFactor
	}
	if changed("format") {
		cfg.Conversion.Format = strings.ToLower(strings.TrimSpace(flags.format))
		if cfg.Conversion.Format == "jpg" {
			cfg.Conversion.Format = config.FormatJPEG
		}
	}
	if changed("existing") {
		cfg.Conversion.ExistingOutput = strings.ToLower(strings.TrimSpace(flags.existing))
	}
	if err := cfg.Validate(); err != nil {
		return cfg, services.Wrap(services.ErrConfiguration, "convert", "flags", "", err)
	}
	return cfg, nil
}

func runConvert(cmd *cobra.Command, cfg *config.Config, source string, flags convertFlags) error {
	runCtx := cmd.Context()
	if runCtx == nil {
		runCtx = context.Background()
	}
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	interactive := !flags.jsonOutput && !flags.noProgress && isInteractive(errOut)

	sourceRoot, err := filepath.Abs(source)
	if err != nil {
		return services.Wrap(services.ErrValidation, "convert", "source", source, err)
	}
	outputRoot := cfg.OutputRootFor(sourceRoot)
	if flags.output != "" {
		if outputRoot, err = config.ExpandPath(flags.output); err != nil {
			return services.Wrap(services.ErrValidation, "convert", "output", flags.output, err)
		}
	}
	if err := outroot.Guard(sourceRoot, outputRoot); err != nil {
		return err
	}

	var console io.Writer = errOut
	if interactive {
		console = nil
	}
	logger, err := logging.NewFromConfig(cfg, console)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "convert", "logging", "", err)
	}

	runID := uuid.NewString()
	runCtx = services.WithRunID(runCtx, runID)
	logger = logging.WithContext(runCtx, logging.NewComponentLogger(logger, "convert"))

	found, err := discover.Discover(sourceRoot, discover.Options{
		Extensions: cfg.Conversion.Extensions,
		Exclude:    []string{outputRoot},
		SkipDir: func(dir string) bool {
			return outroot.IsBackupOf(outputRoot, dir)
		},
	})
	if err != nil {
		return services.Wrap(services.ErrNotFound, "convert", "discover", sourceRoot, err)
	}
	logger.Info("discovered images",
		logging.String("source_root", sourceRoot),
		logging.Int("files", len(found.Files)),
		logging.Int64("bytes", found.TotalBytes),
	)
	if len(found.Files) == 0 {
		fmt.Fprintf(out, "No %s files found under %s\n", strings.Join(cfg.Conversion.Extensions, "/"), sourceRoot)
		return nil
	}

	checks := preflight.RunAll(preflight.Request{SourceRoot: sourceRoot, OutputRoot: outputRoot, SourceBytes: found.TotalBytes})
	for _, check := range checks {
		switch {
		case check.Passed:
			logger.Debug("preflight ok", logging.String("check", check.Name), logging.String("detail", check.Detail))
		case check.Advisory:
			logger.Warn("preflight warning", logging.String("check", check.Name), logging.String("detail", check.Detail))
		default:
			logger.Error("preflight failed", logging.String("check", check.Name), logging.String("detail", check.Detail))
		}
	}
	if err := preflight.Err(checks); err != nil {
		return err
	}

	lock, err := outroot.Acquire(outputRoot)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("release output lock", logging.Error(err))
		}
	}()

	prepared, err := outroot.Prepare(outputRoot, cfg.Conversion.ExistingOutput, time.Now())
	if err != nil {
		return err
	}
	switch {
	case prepared.BackupPath != "":
		logger.Info("existing output moved aside", logging.String("backup", prepared.BackupPath))
	case prepared.Replaced:
		logger.Info("existing output replaced", logging.String("output_root", outputRoot))
	}

	encoder, err := transcode.EncoderFor(cfg.Conversion.Format)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "convert", "encoder", "", err)
	}
	mapper, err := pathmap.New(sourceRoot, outputRoot, encoder.Extension())
	if err != nil {
		return services.Wrap(services.ErrValidation, "convert", "paths", "", err)
	}
	jobs := batch.Plan(found.Files, mapper, cfg.Conversion.Quality)

	display := newProgressDisplay(interactive, errOut, logger, int64(len(jobs)), cfg.Progress.LogBucketPercent)
	tracker := progress.New(int64(len(jobs)), display, progress.Options{
		Every:    int64(cfg.Progress.RedrawEvery),
		Interval: time.Duration(cfg.Progress.RedrawIntervalMS) * time.Millisecond,
	})

	logger.Info("conversion started",
		logging.String("output_root", outputRoot),
		logging.String("format", encoder.Name()),
		logging.Int("quality", cfg.Conversion.Quality),
		logging.Int("workers", cfg.Conversion.Workers),
	)
	summary := batch.Run(runCtx, jobs, batch.Options{
		Workers:     cfg.Conversion.Workers,
		ChunkFactor: cfg.Conversion.ChunkFactor,
		Converter:   transcode.New(encoder),
		Progress:    tracker,
		Logger:      logger,
		RunID:       runID,
		SourceRoot:  sourceRoot,
		OutputRoot:  outputRoot,
	})
	display.Close()

	logger.Info("conversion finished",
		logging.Int("succeeded", summary.Succeeded),
		logging.Int("failed", summary.Failed),
		logging.Duration("elapsed", summary.Elapsed),
	)

	var runErr error
	if summary.Canceled {
		runErr = context.Canceled
	}
	if cfg.History.Enabled && !flags.noHistory {
		recordHistory(context.WithoutCancel(runCtx), cfg, logger, summary, encoder.Name(), services.RunStatus(runErr, summary.Failed))
	}

	if flags.jsonOutput {
		if err := writeJSON(cmd, newSummaryJSON(summary, encoder.Name(), cfg.Conversion.Quality)); err != nil {
			return err
		}
	} else {
		renderSummary(out, summary)
	}

	if summary.HasFailures() {
		return errConversionFailures
	}
	return nil
}

func recordHistory(ctx context.Context, cfg *config.Config, logger *slog.Logger, summary batch.Summary, format, status string) {
	store, err := history.Open(ctx, cfg.HistoryPath())
	if err != nil {
		logger.Warn("history unavailable", logging.Error(err))
		return
	}
	defer store.Close()

	run := history.RunFromSummary(summary, format, cfg.Conversion.Quality, status)
	if err := store.Record(ctx, run, history.FailuresFromSummary(summary)); err != nil {
		logger.Warn("record run history", logging.Error(err))
	}
}
