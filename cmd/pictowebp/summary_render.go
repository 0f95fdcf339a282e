package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"pictowebp/internal/batch"
)

const maxFailureRows = 20

func renderSummary(w io.Writer, s batch.Summary) {
	fmt.Fprintf(w, "Converted %d of %d images in %s", s.Succeeded, s.TotalJobs, formatElapsed(s.Elapsed))
	if s.Failed > 0 {
		fmt.Fprintf(w, " (%d failed)", s.Failed)
	}
	fmt.Fprintln(w)
	if s.Canceled {
		fmt.Fprintln(w, "Run interrupted; unstarted files are listed as Canceled")
	}
	fmt.Fprintf(w, "Output: %s\n", s.OutputRoot)
	if s.Succeeded > 0 {
		fmt.Fprintf(w, "Size: %s -> %s, %s\n",
			humanize.Bytes(uint64(s.OriginalBytes)),
			humanize.Bytes(uint64(s.EncodedBytes)),
			describeSavings(s))
	}

	if len(s.Failures) == 0 {
		return
	}
	rows := make([][]string, 0, min(len(s.Failures), maxFailureRows))
	for _, f := range s.Failures[:min(len(s.Failures), maxFailureRows)] {
		cause := ""
		if f.Cause != nil {
			cause = f.Cause.Error()
		}
		rows = append(rows, []string{f.Path, f.Kind.String(), cause})
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, renderTable([]string{"File", "Kind", "Error"}, rows, nil))
	if hidden := len(s.Failures) - len(rows); hidden > 0 {
		fmt.Fprintf(w, "... and %d more (pictowebp history show %s)\n", hidden, s.RunID)
	}
}

func describeSavings(s batch.Summary) string {
	saved := s.SpaceSaved()
	if saved >= 0 {
		return fmt.Sprintf("saved %s (%.1f%%)", humanize.Bytes(uint64(saved)), s.ReductionPercent())
	}
	return fmt.Sprintf("grew by %s (%.1f%%)", humanize.Bytes(uint64(-saved)), -s.ReductionPercent())
}

func formatElapsed(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(100 * time.Millisecond).String()
}
