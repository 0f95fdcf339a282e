package batch

import (
	"fmt"
	"sync"
	"testing"

	"pictowebp/internal/transcode"
)

func TestErrorLogConcurrentAppendAndDrain(t *testing.T) {
	var log ErrorLog
	var wg sync.WaitGroup
	for w := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 50 {
				log.Append(Failure{Path: fmt.Sprintf("w%d/%03d.png", w, i), Kind: transcode.KindDecode})
			}
		}()
	}
	wg.Wait()

	if log.Len() != 400 {
		t.Fatalf("Len = %d, want 400", log.Len())
	}
	failures := log.Drain()
	if len(failures) != 400 {
		t.Fatalf("Drain returned %d failures", len(failures))
	}
	for i := 1; i < len(failures); i++ {
		if failures[i-1].Path > failures[i].Path {
			t.Fatalf("failures not sorted at %d: %q > %q", i, failures[i-1].Path, failures[i].Path)
		}
	}
}

func TestErrorLogRejectsAfterDrain(t *testing.T) {
	var log ErrorLog
	if !log.Append(Failure{Path: "a"}) {
		t.Fatal("append before drain should succeed")
	}
	log.Drain()
	if log.Append(Failure{Path: "b"}) {
		t.Fatal("append after drain should be rejected")
	}
	if got := log.Drain(); got != nil {
		t.Fatalf("second drain = %v, want nil", got)
	}
}
