package batch

import (
	"slices"
	"strings"
	"sync"

	"pictowebp/internal/transcode"
)

// Failure records one job that did not produce an output file.
type Failure struct {
	// Path is the source relative to the source root, slash separated.
	Path   string
	Source string
	Kind   transcode.Kind
	Cause  error
}

// ErrorLog is an append-only, concurrency-safe failure collection.
type ErrorLog struct {
	mu       sync.Mutex
	failures []Failure
	drained  bool
}

// Append adds f. It returns false once the log has been drained.
func (l *ErrorLog) Append(f Failure) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.drained {
		return false
	}
	l.failures = append(l.failures, f)
	return true
}

// Len returns the number of recorded failures.
func (l *ErrorLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.failures)
}

// Drain closes the log and returns its failures sorted by path. A second
// call returns nil.
func (l *ErrorLog) Drain() []Failure {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.drained {
		return nil
	}
	l.drained = true
	out := l.failures
	l.failures = nil
	slices.SortStableFunc(out, func(a, b Failure) int {
		return strings.Compare(a.Path, b.Path)
	})
	return out
}
