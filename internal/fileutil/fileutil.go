package fileutil

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const writeBufferSize = 64 * 1024

// WriteFileAtomic writes data to path through a buffered writer. The bytes land
// in a temporary sibling first and are renamed into place once flushed, so a
// reader never observes a partially written file.
func WriteFileAtomic(path string, data []byte, mode os.FileMode) error {
	return WriteAtomic(path, mode, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// WriteAtomic streams the output of fill into path using the same temp+rename
// strategy as WriteFileAtomic.
func WriteAtomic(path string, mode os.FileMode, fill func(io.Writer) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	buffered := bufio.NewWriterSize(tmp, writeBufferSize)
	if err := fill(buffered); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := buffered.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	if err := tmp.Chmod(mode); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		committed = true
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	committed = true
	return nil
}
