package batch

// DefaultChunkFactor is the K in max(1, total/(workers*K)).
const DefaultChunkFactor = 32

// Chunk is the half-open job index range [Start, End).
type Chunk struct {
	Start int
	End   int
}

// Len returns the number of jobs in the chunk.
func (c Chunk) Len() int { return c.End - c.Start }

// ChunkSize returns max(1, total/(workers*factor)). Non-positive workers or
// factor are treated as 1.
func ChunkSize(total, workers, factor int) int {
	if workers < 1 {
		workers = 1
	}
	if factor < 1 {
		factor = 1
	}
	size := total / (workers * factor)
	if size < 1 {
		return 1
	}
	return size
}

// Partition splits n jobs into contiguous chunks of size (the last may be
// shorter). The chunks cover [0, n) exactly once.
func Partition(n, size int) []Chunk {
	if n <= 0 {
		return nil
	}
	if size < 1 {
		size = 1
	}
	chunks := make([]Chunk, 0, (n+size-1)/size)
	for start := 0; start < n; start += size {
		chunks = append(chunks, Chunk{Start: start, End: min(start+size, n)})
	}
	return chunks
}
