package batch

import (
	"pictowebp/internal/pathmap"
)

// Job pairs one source file with its destination.
type Job struct {
	Source  string
	Dest    string
	Quality int
	// MapErr is set when no destination could be derived; the owning worker
	// reports it as a failure instead of transcoding.
	MapErr error
}

// Plan builds one Job per source. Mapping errors are kept on the job so that
// every source is accounted for in the run totals. No two jobs without a
// MapErr share a Dest: when sources collide, the first in input order keeps
// the destination and the rest carry a pathmap.CollisionError.
func Plan(sources []string, mapper *pathmap.Mapper, quality int) []Job {
	claims := pathmap.NewClaims(mapper)
	jobs := make([]Job, len(sources))
	for i, src := range sources {
		dest, err := claims.Claim(src)
		jobs[i] = Job{Source: src, Dest: dest, Quality: quality, MapErr: err}
	}
	return jobs
}
