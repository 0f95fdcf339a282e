package preflight

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"golang.org/x/sys/unix"
)

// CheckSourceReadable verifies that the directory exists and can be listed.
func CheckSourceReadable(name, path string) Result {
	if r, ok := checkIsDir(name, path); !ok {
		return r
	}
	if err := unix.Access(path, unix.R_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read ok)", path)}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	if r, ok := checkIsDir(name, path); !ok {
		return r
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

func checkIsDir(name, path string) (Result, bool) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}, false
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}, false
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}, false
	}
	return Result{}, true
}

// CheckFreeSpace compares the space available to unprivileged users on the
// filesystem holding path against need. A shortfall is advisory: encoded
// images are usually smaller than their sources.
func CheckFreeSpace(name, path string, need int64) Result {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return Result{Name: name, Advisory: true, Detail: fmt.Sprintf("%s (statfs: %v)", path, err)}
	}
	avail := uint64(st.Bavail) * uint64(st.Bsize)
	detail := fmt.Sprintf("%s free, sources total %s", humanize.Bytes(avail), humanize.Bytes(uint64(max(need, 0))))
	if need > 0 && avail < uint64(need) {
		return Result{Name: name, Advisory: true, Detail: detail}
	}
	return Result{Name: name, Passed: true, Detail: detail}
}
