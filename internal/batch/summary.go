package batch

import "time"

// Summary is the immutable result of a run.
type Summary struct {
	RunID         string
	SourceRoot    string
	OutputRoot    string
	Workers       int
	ChunkSize     int
	TotalJobs     int
	Succeeded     int
	Failed        int
	Failures      []Failure
	OriginalBytes int64
	EncodedBytes  int64
	StartedAt     time.Time
	FinishedAt    time.Time
	Elapsed       time.Duration
	// Canceled is set when the run context ended before every job ran.
	Canceled bool
}

// SpaceSaved returns the bytes saved across successful jobs. It is negative
// when the outputs are larger than their sources.
func (s Summary) SpaceSaved() int64 {
	return s.OriginalBytes - s.EncodedBytes
}

// ReductionPercent returns SpaceSaved as a percentage of OriginalBytes.
func (s Summary) ReductionPercent() float64 {
	if s.OriginalBytes <= 0 {
		return 0
	}
	return float64(s.SpaceSaved()) * 100 / float64(s.OriginalBytes)
}

// HasFailures reports whether any job failed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}
