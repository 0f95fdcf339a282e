package main

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"pictowebp/internal/batch"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type failureJSON struct {
	Path  string `json:"path"`
	Kind  string `json:"kind"`
	Error string `json:"error"`
}

type summaryJSON struct {
	RunID            string        `json:"run_id"`
	SourceRoot       string        `json:"source_root"`
	OutputRoot       string        `json:"output_root"`
	Format           string        `json:"format"`
	Quality          int           `json:"quality"`
	Workers          int           `json:"workers"`
	ChunkSize        int           `json:"chunk_size"`
	Total            int           `json:"total"`
	Succeeded        int           `json:"succeeded"`
	Failed           int           `json:"failed"`
	Canceled         bool          `json:"canceled"`
	OriginalBytes    int64         `json:"original_bytes"`
	EncodedBytes     int64         `json:"encoded_bytes"`
	SavedBytes       int64         `json:"saved_bytes"`
	ReductionPercent float64       `json:"reduction_percent"`
	StartedAt        time.Time     `json:"started_at"`
	ElapsedSeconds   float64       `json:"elapsed_seconds"`
	Failures         []failureJSON `json:"failures"`
}

func newSummaryJSON(s batch.Summary, format string, quality int) summaryJSON {
	failures := make([]failureJSON, 0, len(s.Failures))
	for _, f := range s.Failures {
		entry := failureJSON{Path: f.Path, Kind: f.Kind.String()}
		if f.Cause != nil {
			entry.Error = f.Cause.Error()
		}
		failures = append(failures, entry)
	}
	return summaryJSON{
		RunID:            s.RunID,
		SourceRoot:       s.SourceRoot,
		OutputRoot:       s.OutputRoot,
		Format:           format,
		Quality:          quality,
		Workers:          s.Workers,
		ChunkSize:        s.ChunkSize,
		Total:            s.TotalJobs,
		Succeeded:        s.Succeeded,
		Failed:           s.Failed,
		Canceled:         s.Canceled,
		OriginalBytes:    s.OriginalBytes,
		EncodedBytes:     s.EncodedBytes,
		SavedBytes:       s.SpaceSaved(),
		ReductionPercent: s.ReductionPercent(),
		StartedAt:        s.StartedAt,
		ElapsedSeconds:   s.Elapsed.Seconds(),
		Failures:         failures,
	}
}
