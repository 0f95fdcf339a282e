package logging

// ProgressSampler suppresses repetitive progress logs while preserving signal
// when the completed share crosses a percentage bucket.
type ProgressSampler struct {
	bucketSize float64
	lastBucket int
	finished   bool
}

// NewProgressSampler constructs a sampler that emits when the percent crosses
// bucket boundaries (default 10%).
func NewProgressSampler(bucketSize float64) *ProgressSampler {
	if bucketSize <= 0 {
		bucketSize = 10
	}
	return &ProgressSampler{bucketSize: bucketSize, lastBucket: -1}
}

// ShouldLog reports whether a done/total progress event should be logged.
// The first call and the final (done == total) call always emit; a total of
// zero or less is treated as complete.
func (s *ProgressSampler) ShouldLog(done, total int64) bool {
	if s == nil {
		return true
	}
	if total <= 0 || done >= total {
		if s.finished {
			return false
		}
		s.finished = true
		s.lastBucket = int(100 / s.bucketSize)
		return true
	}
	percent := float64(done) * 100 / float64(total)
	bucket := int(percent / s.bucketSize)
	if bucket > s.lastBucket {
		s.lastBucket = bucket
		return true
	}
	return false
}

// Percent reports done/total as a percentage, or 100 for an empty total.
func Percent(done, total int64) float64 {
	if total <= 0 {
		return 100
	}
	return float64(done) * 100 / float64(total)
}

// Reset clears the sampler state (e.g. when a new run starts).
func (s *ProgressSampler) Reset() {
	if s == nil {
		return
	}
	s.lastBucket = -1
	s.finished = false
}
