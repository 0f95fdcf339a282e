package batch

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"pictowebp/internal/logging"
	"pictowebp/internal/pathmap"
	"pictowebp/internal/progress"
	"pictowebp/internal/services"
	"pictowebp/internal/transcode"
)

// Converter converts one file. *transcode.Transcoder satisfies it.
type Converter interface {
	Transcode(ctx context.Context, source, destination string, quality int) (transcode.Sizes, error)
}

// Options configures Run.
type Options struct {
	Workers     int
	ChunkFactor int
	Converter   Converter
	// Progress is advanced once per job. When nil Run uses a private tracker.
	Progress   *progress.Tracker
	Logger     *slog.Logger
	RunID      string
	SourceRoot string
	OutputRoot string
	Now        func() time.Time
}

type runner struct {
	opts      Options
	jobs      []Job
	queue     <-chan Chunk
	tracker   *progress.Tracker
	errs      *ErrorLog
	succeeded atomic.Int64
	original  atomic.Int64
	encoded   atomic.Int64
	canceled  atomic.Bool
}

// Run processes every job and returns once all workers have joined. It never
// returns early because of a failed job; a canceled ctx makes the remaining
// jobs fail with transcode.KindCanceled without being attempted.
func Run(ctx context.Context, jobs []Job, opts Options) Summary {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.ChunkFactor < 1 {
		opts.ChunkFactor = DefaultChunkFactor
	}
	workers := max(1, opts.Workers)
	tracker := opts.Progress
	if tracker == nil {
		tracker = progress.New(int64(len(jobs)), nil, progress.Options{})
	}

	started := opts.Now()
	size := ChunkSize(len(jobs), workers, opts.ChunkFactor)
	chunks := Partition(len(jobs), size)

	r := &runner{
		opts:    opts,
		jobs:    jobs,
		tracker: tracker,
		errs:    &ErrorLog{},
	}

	if len(chunks) > 0 {
		queue := make(chan Chunk, len(chunks))
		for _, c := range chunks {
			queue <- c
		}
		close(queue)
		r.queue = queue

		ctx = services.WithStage(services.WithRunID(ctx, opts.RunID), "transcode")
		var wg sync.WaitGroup
		for w := range min(workers, len(chunks)) {
			wg.Go(func() {
				r.work(services.WithWorker(ctx, w))
			})
		}
		wg.Wait()
	}

	tracker.Finish()
	finished := opts.Now()
	failures := r.errs.Drain()

	return Summary{
		RunID:         opts.RunID,
		SourceRoot:    opts.SourceRoot,
		OutputRoot:    opts.OutputRoot,
		Workers:       workers,
		ChunkSize:     size,
		TotalJobs:     len(jobs),
		Succeeded:     int(r.succeeded.Load()),
		Failed:        len(failures),
		Failures:      failures,
		OriginalBytes: r.original.Load(),
		EncodedBytes:  r.encoded.Load(),
		StartedAt:     started,
		FinishedAt:    finished,
		Elapsed:       finished.Sub(started),
		Canceled:      r.canceled.Load(),
	}
}

func (r *runner) work(ctx context.Context) {
	logger := logging.WithContext(ctx, logging.NewComponentLogger(r.opts.Logger, "batch"))
	for chunk := range r.queue {
		for i := chunk.Start; i < chunk.End; i++ {
			r.process(ctx, logger, r.jobs[i])
			r.tracker.Advance(1)
		}
	}
}

func (r *runner) process(ctx context.Context, logger *slog.Logger, job Job) {
	sizes, err := r.convert(ctx, job)
	if err == nil {
		r.succeeded.Add(1)
		r.original.Add(sizes.Original)
		r.encoded.Add(sizes.Encoded)
		logger.Debug("converted",
			logging.String(logging.FieldSource, job.Source),
			logging.String(logging.FieldDest, job.Dest),
			logging.Int64("original_bytes", sizes.Original),
			logging.Int64("encoded_bytes", sizes.Encoded),
		)
		return
	}

	kind := transcode.KindOf(err)
	if kind == transcode.KindCanceled {
		r.canceled.Store(true)
	}
	r.errs.Append(Failure{
		Path:   r.relative(job.Source),
		Source: job.Source,
		Kind:   kind,
		Cause:  err,
	})
	if kind != transcode.KindCanceled {
		logger.Warn("conversion failed",
			logging.String(logging.FieldSource, job.Source),
			logging.String(logging.FieldKind, kind.String()),
			logging.Error(err),
		)
	}
}

func (r *runner) convert(ctx context.Context, job Job) (transcode.Sizes, error) {
	if job.MapErr != nil {
		kind := transcode.KindPath
		if pathmap.IsCollision(job.MapErr) {
			kind = transcode.KindCollision
		}
		return transcode.Sizes{}, &transcode.Error{Kind: kind, Path: job.Source, Err: job.MapErr}
	}
	if err := ctx.Err(); err != nil {
		return transcode.Sizes{}, &transcode.Error{Kind: transcode.KindCanceled, Path: job.Source, Err: err}
	}
	if err := pathmap.EnsureDir(job.Dest); err != nil {
		return transcode.Sizes{}, &transcode.Error{Kind: transcode.KindWrite, Path: job.Dest, Err: err}
	}
	return r.opts.Converter.Transcode(ctx, job.Source, job.Dest, job.Quality)
}

func (r *runner) relative(source string) string {
	if r.opts.SourceRoot != "" {
		if rel, err := filepath.Rel(r.opts.SourceRoot, source); err == nil {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(source)
}
