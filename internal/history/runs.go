package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pictowebp/internal/batch"
)

// ErrRunNotFound is returned when a run id is unknown.
var ErrRunNotFound = errors.New("run not found")

// Run is one persisted conversion run.
type Run struct {
	ID            string    `json:"id"`
	SourceRoot    string    `json:"source_root"`
	OutputRoot    string    `json:"output_root"`
	Format        string    `json:"format"`
	Quality       int       `json:"quality"`
	Workers       int       `json:"workers"`
	ChunkSize     int       `json:"chunk_size"`
	TotalJobs     int       `json:"total"`
	Succeeded     int       `json:"succeeded"`
	Failed        int       `json:"failed"`
	OriginalBytes int64     `json:"original_bytes"`
	EncodedBytes  int64     `json:"encoded_bytes"`
	Status        string    `json:"status"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
}

// Elapsed returns the wall-clock duration of the run.
func (r Run) Elapsed() time.Duration { return r.FinishedAt.Sub(r.StartedAt) }

// Failure is one persisted per-file failure.
type Failure struct {
	Path    string
	Kind    string
	Message string
}

// RunFromSummary converts a batch summary into a history row.
func RunFromSummary(s batch.Summary, format string, quality int, status string) Run {
	return Run{
		ID:            s.RunID,
		SourceRoot:    s.SourceRoot,
		OutputRoot:    s.OutputRoot,
		Format:        format,
		Quality:       quality,
		Workers:       s.Workers,
		ChunkSize:     s.ChunkSize,
		TotalJobs:     s.TotalJobs,
		Succeeded:     s.Succeeded,
		Failed:        s.Failed,
		OriginalBytes: s.OriginalBytes,
		EncodedBytes:  s.EncodedBytes,
		Status:        status,
		StartedAt:     s.StartedAt,
		FinishedAt:    s.FinishedAt,
	}
}

// FailuresFromSummary converts summary failures into history rows.
func FailuresFromSummary(s batch.Summary) []Failure {
	out := make([]Failure, 0, len(s.Failures))
	for _, f := range s.Failures {
		msg := ""
		if f.Cause != nil {
			msg = f.Cause.Error()
		}
		out = append(out, Failure{Path: f.Path, Kind: f.Kind.String(), Message: msg})
	}
	return out
}

// Record stores a run and its failures in one transaction.
func (s *Store) Record(ctx context.Context, run Run, failures []Failure) error {
	if run.ID == "" {
		return errors.New("record run: empty id")
	}
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin record tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		_, err = tx.ExecContext(ctx, `INSERT INTO runs (
			id, source_root, output_root, format, quality, workers, chunk_size,
			total_jobs, succeeded, failed, original_bytes, encoded_bytes,
			status, started_at, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, run.SourceRoot, run.OutputRoot, run.Format, run.Quality, run.Workers, run.ChunkSize,
			run.TotalJobs, run.Succeeded, run.Failed, run.OriginalBytes, run.EncodedBytes,
			run.Status, formatTime(run.StartedAt), formatTime(run.FinishedAt),
		)
		if err != nil {
			return fmt.Errorf("insert run: %w", err)
		}

		if len(failures) > 0 {
			stmt, err := tx.PrepareContext(ctx, "INSERT INTO failures (run_id, path, kind, message) VALUES (?, ?, ?, ?)")
			if err != nil {
				return fmt.Errorf("prepare failure insert: %w", err)
			}
			defer stmt.Close()
			for _, f := range failures {
				if _, err := stmt.ExecContext(ctx, run.ID, f.Path, f.Kind, f.Message); err != nil {
					return fmt.Errorf("insert failure %s: %w", f.Path, err)
				}
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit run: %w", err)
		}
		return nil
	})
}

const runColumns = `id, source_root, output_root, format, quality, workers, chunk_size,
	total_jobs, succeeded, failed, original_bytes, encoded_bytes,
	status, started_at, finished_at`

// List returns the most recent runs, newest first. limit <= 0 means all.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := "SELECT " + runColumns + " FROM runs ORDER BY started_at DESC, id"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Get returns one run by id, or ErrRunNotFound.
func (s *Store) Get(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE id = ?", id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return run, err
}

// Failures returns the failures recorded for a run, ordered by path.
func (s *Store) Failures(ctx context.Context, runID string) ([]Failure, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT path, kind, message FROM failures WHERE run_id = ? ORDER BY path, id", runID)
	if err != nil {
		return nil, fmt.Errorf("list failures: %w", err)
	}
	defer rows.Close()

	var out []Failure
	for rows.Next() {
		var f Failure
		if err := rows.Scan(&f.Path, &f.Kind, &f.Message); err != nil {
			return nil, fmt.Errorf("scan failure: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		run               Run
		started, finished string
	)
	err := row.Scan(
		&run.ID, &run.SourceRoot, &run.OutputRoot, &run.Format, &run.Quality, &run.Workers, &run.ChunkSize,
		&run.TotalJobs, &run.Succeeded, &run.Failed, &run.OriginalBytes, &run.EncodedBytes,
		&run.Status, &started, &finished,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.StartedAt = parseTime(started)
	run.FinishedAt = parseTime(finished)
	return run, nil
}

// timeLayout is fixed-width so started_at sorts correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
