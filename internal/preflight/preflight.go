package preflight

import (
	"path/filepath"
	"strings"

	"pictowebp/internal/services"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
	// Advisory failures are reported but never block a run.
	Advisory bool
}

// Request describes the run being checked.
type Request struct {
	SourceRoot string
	OutputRoot string
	// SourceBytes is the combined size of the discovered sources.
	SourceBytes int64
}

// RunAll executes the filesystem checks for a conversion run. The output
// root itself may not exist yet, so access is checked on its parent.
func RunAll(req Request) []Result {
	outputParent := filepath.Dir(filepath.Clean(req.OutputRoot))
	return []Result{
		CheckSourceReadable("Source directory", req.SourceRoot),
		CheckDirectoryAccess("Output location", outputParent),
		CheckFreeSpace("Free space", outputParent, req.SourceBytes),
	}
}

// Err folds blocking failures into a single services.ErrPreflight error, or
// returns nil when every non-advisory check passed.
func Err(results []Result) error {
	var failed []string
	for _, r := range results {
		if r.Passed || r.Advisory {
			continue
		}
		failed = append(failed, r.Name+": "+r.Detail)
	}
	if len(failed) == 0 {
		return nil
	}
	return services.Wrap(services.ErrPreflight, "preflight", "", strings.Join(failed, "; "), nil)
}
