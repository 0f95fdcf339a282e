// Package pathmap derives output locations for source files by re-rooting
// their path relative to the source root under the output root.
package pathmap

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EscapeError reports a source path that does not live under the source root.
type EscapeError struct {
	Source string
	Root   string
}

func (e *EscapeError) Error() string {
	return fmt.Sprintf("%s is not under source root %s", e.Source, e.Root)
}

// IsEscape reports whether err is (or wraps) an EscapeError.
func IsEscape(err error) bool {
	var target *EscapeError
	return errors.As(err, &target)
}

// CollisionError reports a source whose destination is already claimed by
// another source in the same batch, e.g. a/1.png and a/1.jpg both becoming
// a/1.webp.
type CollisionError struct {
	Source string
	Dest   string
	Owner  string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("%s maps to %s, already produced from %s", e.Source, e.Dest, e.Owner)
}

// IsCollision reports whether err is (or wraps) a CollisionError.
func IsCollision(err error) bool {
	var target *CollisionError
	return errors.As(err, &target)
}

// Mapper maps source files to destinations. The zero value is not usable;
// construct with New.
type Mapper struct {
	sourceRoot string
	outputRoot string
	ext        string
}

// New builds a Mapper. Roots are cleaned and made absolute; ext gains a
// leading dot if missing and is lowercased.
func New(sourceRoot, outputRoot, ext string) (*Mapper, error) {
	src, err := filepath.Abs(sourceRoot)
	if err != nil {
		return nil, fmt.Errorf("resolve source root: %w", err)
	}
	out, err := filepath.Abs(outputRoot)
	if err != nil {
		return nil, fmt.Errorf("resolve output root: %w", err)
	}
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return nil, errors.New("target extension is empty")
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return &Mapper{sourceRoot: src, outputRoot: out, ext: ext}, nil
}

// SourceRoot returns the absolute source root.
func (m *Mapper) SourceRoot() string { return m.sourceRoot }

// OutputRoot returns the absolute output root.
func (m *Mapper) OutputRoot() string { return m.outputRoot }

// Extension returns the target extension including the leading dot.
func (m *Mapper) Extension() string { return m.ext }

// Map returns the destination path for source. It touches no filesystem
// state, so the same input always yields the same output. Siblings that
// differ only by extension share a destination; use Claims to keep a batch
// collision-free.
func (m *Mapper) Map(source string) (string, error) {
	rel, err := m.Rel(source)
	if err != nil {
		return "", err
	}
	base := strings.TrimSuffix(rel, filepath.Ext(rel))
	return filepath.Join(m.outputRoot, base+m.ext), nil
}

// Claims hands out destinations for one batch. The first source to reach a
// destination owns it; later sources get a CollisionError. Not safe for
// concurrent use.
type Claims struct {
	mapper *Mapper
	owners map[string]string
}

// NewClaims returns an empty claim set backed by m.
func NewClaims(m *Mapper) *Claims {
	return &Claims{mapper: m, owners: make(map[string]string)}
}

// Claim maps source and records it as the owner of the destination. On a
// collision the destination is still returned alongside the error.
func (c *Claims) Claim(source string) (string, error) {
	dest, err := c.mapper.Map(source)
	if err != nil {
		return "", err
	}
	if owner, taken := c.owners[dest]; taken {
		return dest, &CollisionError{Source: source, Dest: dest, Owner: owner}
	}
	c.owners[dest] = source
	return dest, nil
}

// Rel returns source relative to the source root, or an EscapeError.
func (m *Mapper) Rel(source string) (string, error) {
	abs, err := filepath.Abs(source)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", source, err)
	}
	rel, err := filepath.Rel(m.sourceRoot, abs)
	if err != nil || rel == "." || filepath.IsAbs(rel) ||
		rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", &EscapeError{Source: source, Root: m.sourceRoot}
	}
	return rel, nil
}

// EnsureDir creates every missing parent directory of dest. Existing
// directories, including ones created concurrently by another worker, are
// not an error.
func EnsureDir(dest string) error {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return nil
}
