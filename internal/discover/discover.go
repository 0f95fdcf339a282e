// Package discover collects the source images of a batch.
package discover

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"pictowebp/internal/config"
)

// Result lists matching files in lexical order plus their combined size.
type Result struct {
	Files      []string
	TotalBytes int64
}

// Options filters the walk.
type Options struct {
	// Extensions without the leading dot; matched case-insensitively.
	Extensions []string
	// Exclude lists directories that are never descended into, such as an
	// output root nested inside the source tree.
	Exclude []string
	// SkipDir, when set, is asked about every directory below the root; true
	// prunes it. Used for backup copies of a nested output root.
	SkipDir func(dir string) bool
}

// Discover walks root recursively and returns every regular file whose
// extension is in opts.Extensions. Symlinks are not followed.
func Discover(root string, opts Options) (Result, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return Result{}, fmt.Errorf("resolve %s: %w", root, err)
	}
	folder := cases.Fold()
	wanted := make(map[string]struct{}, len(opts.Extensions))
	for _, ext := range config.NormalizeExtensions(opts.Extensions) {
		wanted[ext] = struct{}{}
	}
	excluded := make(map[string]struct{}, len(opts.Exclude))
	for _, dir := range opts.Exclude {
		if abs, err := filepath.Abs(dir); err == nil {
			excluded[abs] = struct{}{}
		}
	}

	var result Result
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == absRoot {
				return nil
			}
			if _, skip := excluded[path]; skip {
				return filepath.SkipDir
			}
			if opts.SkipDir != nil && opts.SkipDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		ext := folder.String(strings.TrimPrefix(filepath.Ext(path), "."))
		if _, ok := wanted[ext]; !ok {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		result.Files = append(result.Files, path)
		result.TotalBytes += info.Size()
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Strings(result.Files)
	return result, nil
}
