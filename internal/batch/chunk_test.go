package batch

import "testing"

func TestChunkSize(t *testing.T) {
	tests := []struct {
		name                   string
		total, workers, factor int
		want                   int
	}{
		{"empty", 0, 16, 32, 1},
		{"fewer than workers", 5, 16, 32, 1},
		{"just below workers*factor", 511, 16, 32, 1},
		{"exactly workers*factor", 512, 16, 32, 1},
		{"thousand files", 1000, 16, 32, 1},
		{"two rounds", 1024, 16, 32, 2},
		{"three rounds", 1536, 16, 32, 3},
		{"single worker", 100, 1, 32, 3},
		{"zero workers treated as one", 64, 0, 32, 2},
		{"zero factor treated as one", 64, 4, 0, 16},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ChunkSize(tc.total, tc.workers, tc.factor); got != tc.want {
				t.Fatalf("ChunkSize(%d,%d,%d) = %d, want %d", tc.total, tc.workers, tc.factor, got, tc.want)
			}
		})
	}
}

func TestPartitionCoversEveryIndexOnce(t *testing.T) {
	for _, n := range []int{0, 1, 2, 7, 31, 32, 33, 511, 512, 513, 1000, 1537} {
		for _, workers := range []int{1, 2, 3, 16} {
			for _, factor := range []int{1, 4, 32} {
				size := ChunkSize(n, workers, factor)
				chunks := Partition(n, size)

				covered := make([]int, n)
				next := 0
				for _, c := range chunks {
					if c.Len() < 1 {
						t.Fatalf("n=%d w=%d k=%d: empty chunk %+v", n, workers, factor, c)
					}
					if c.Len() > size {
						t.Fatalf("n=%d w=%d k=%d: chunk %+v larger than %d", n, workers, factor, c, size)
					}
					if c.Start != next {
						t.Fatalf("n=%d w=%d k=%d: chunk %+v not contiguous (want start %d)", n, workers, factor, c, next)
					}
					for i := c.Start; i < c.End; i++ {
						covered[i]++
					}
					next = c.End
				}
				for i, count := range covered {
					if count != 1 {
						t.Fatalf("n=%d w=%d k=%d: index %d covered %d times", n, workers, factor, i, count)
					}
				}
			}
		}
	}
}

func TestPartitionOneJobPerChunkBelowThreshold(t *testing.T) {
	n := 16*32 - 1
	chunks := Partition(n, ChunkSize(n, 16, 32))
	if len(chunks) != n {
		t.Fatalf("expected %d single-job chunks, got %d", n, len(chunks))
	}
}
