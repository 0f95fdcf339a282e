package fileutil

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "out.webp")

	content := []byte("hello world")
	if err := WriteFileAtomic(dst, content, 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Fatalf("content mismatch: got %q, want %q", got, content)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the destination file, found %d entries", len(entries))
	}
}

func TestWriteFileAtomicReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "out.jpg")
	if err := os.WriteFile(dst, []byte("old contents that are longer"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := WriteFileAtomic(dst, []byte("new"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new" {
		t.Fatalf("content mismatch: got %q", got)
	}
}

func TestWriteAtomicFillErrorLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "out.png")
	boom := errors.New("encoder exploded")

	err := WriteAtomic(dst, 0o644, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped fill error, got %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no files after failed write, found %d", len(entries))
	}
}

func TestWriteFileAtomicMissingDirectory(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "missing", "out.webp")
	if err := WriteFileAtomic(dst, []byte("x"), 0o644); err == nil {
		t.Fatal("expected error when parent directory is missing")
	}
}
