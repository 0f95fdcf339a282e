// Package outroot prepares and locks the output directory of a run.
package outroot

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"pictowebp/internal/config"
	"pictowebp/internal/services"
)

// ErrExists is returned by Prepare under the abort policy.
var ErrExists = errors.New("output root already exists")

// Result describes what Prepare did.
type Result struct {
	Root string
	// BackupPath is set when an existing root was moved aside.
	BackupPath string
	// Replaced is set when an existing root was deleted.
	Replaced bool
}

// Guard rejects output roots that overlap the source tree in a way that
// would let Prepare delete sources.
func Guard(sourceRoot, outputRoot string) error {
	src, err := filepath.Abs(sourceRoot)
	if err != nil {
		return err
	}
	out, err := filepath.Abs(outputRoot)
	if err != nil {
		return err
	}
	if src == out || isWithin(out, src) {
		return services.Wrap(services.ErrValidation, "output", "guard",
			fmt.Sprintf("output root %s would contain the source root %s", out, src), nil)
	}
	return nil
}

func isWithin(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

// Prepare makes root an empty, existing directory according to policy
// (config.ExistingReplace, ExistingBackup or ExistingAbort).
func Prepare(root, policy string, now time.Time) (Result, error) {
	result := Result{Root: root}
	info, err := os.Stat(root)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := os.MkdirAll(root, 0o755); err != nil {
			return result, services.Wrap(services.ErrPreflight, "output", "create", root, err)
		}
		return result, nil
	case err != nil:
		return result, services.Wrap(services.ErrPreflight, "output", "stat", root, err)
	case !info.IsDir():
		return result, services.Wrap(services.ErrValidation, "output", "prepare", root+" exists and is not a directory", nil)
	}

	switch policy {
	case config.ExistingAbort:
		return result, services.Wrap(services.ErrValidation, "output", "prepare", root, ErrExists)
	case config.ExistingBackup:
		backup, err := backupName(root, now)
		if err != nil {
			return result, err
		}
		if err := os.Rename(root, backup); err != nil {
			return result, services.Wrap(services.ErrPreflight, "output", "backup", root, err)
		}
		result.BackupPath = backup
	case config.ExistingReplace, "":
		if err := os.RemoveAll(root); err != nil {
			return result, services.Wrap(services.ErrPreflight, "output", "replace", root, err)
		}
		result.Replaced = true
	default:
		return result, services.Wrap(services.ErrConfiguration, "output", "prepare", "unknown existing_output policy "+strconv.Quote(policy), nil)
	}

	if err := os.MkdirAll(root, 0o755); err != nil {
		return result, services.Wrap(services.ErrPreflight, "output", "create", root, err)
	}
	return result, nil
}

// IsBackupOf reports whether dir is a backup that Prepare made of root:
// a sibling named <root>_backup_<unix>, possibly with a _N suffix.
func IsBackupOf(root, dir string) bool {
	prefix := filepath.Clean(root) + backupInfix
	rest, ok := strings.CutPrefix(filepath.Clean(dir), prefix)
	if !ok || rest == "" {
		return false
	}
	return strings.IndexFunc(rest, func(r rune) bool {
		return (r < '0' || r > '9') && r != '_'
	}) < 0
}

const backupInfix = "_backup_"

func backupName(root string, now time.Time) (string, error) {
	base := fmt.Sprintf("%s%s%d", filepath.Clean(root), backupInfix, now.Unix())
	candidate := base
	for i := 1; i < 100; i++ {
		if _, err := os.Lstat(candidate); errors.Is(err, fs.ErrNotExist) {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s_%d", base, i)
	}
	return "", services.Wrap(services.ErrPreflight, "output", "backup", "no free backup name for "+root, nil)
}

// Lock holds the exclusive run lock for an output root.
type Lock struct {
	path string
	lock *flock.Flock
}

// LockPath returns the sibling lock file for root: <parent>/.<name>.lock.
func LockPath(root string) string {
	clean := filepath.Clean(root)
	return filepath.Join(filepath.Dir(clean), "."+filepath.Base(clean)+".lock")
}

// Acquire takes the run lock for root without blocking. It fails with
// services.ErrLocked when another run holds it.
func Acquire(root string) (*Lock, error) {
	path := LockPath(root)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, services.Wrap(services.ErrPreflight, "output", "lock", path, err)
	}
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrPreflight, "output", "lock", path, err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrLocked, "output", "lock", "another run is writing "+root, nil)
	}
	return &Lock{path: path, lock: fl}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string { return l.path }

// Release unlocks and removes the lock file. It is safe to call on nil.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	err := l.lock.Unlock()
	_ = os.Remove(l.path)
	l.lock = nil
	return err
}
