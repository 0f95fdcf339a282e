package discover_test

import (
	"path/filepath"
	"strings"
	"testing"

	"pictowebp/internal/discover"
	"pictowebp/internal/testsupport"
)

func TestDiscoverFiltersAndSorts(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(root, "b", "2.JPG"), 10)
	testsupport.WriteFile(t, filepath.Join(root, "a", "1.png"), 5)
	testsupport.WriteFile(t, filepath.Join(root, "a", "notes.txt"), 100)
	testsupport.WriteFile(t, filepath.Join(root, "c.jpeg"), 1)
	testsupport.WriteFile(t, filepath.Join(root, "noext"), 1)

	res, err := discover.Discover(root, discover.Options{Extensions: []string{"png", ".jpg", "JPEG"}})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	want := []string{
		filepath.Join(root, "a", "1.png"),
		filepath.Join(root, "b", "2.JPG"),
		filepath.Join(root, "c.jpeg"),
	}
	if strings.Join(res.Files, "|") != strings.Join(want, "|") {
		t.Fatalf("files = %v, want %v", res.Files, want)
	}
	if res.TotalBytes != 16 {
		t.Fatalf("TotalBytes = %d, want 16", res.TotalBytes)
	}
}

func TestDiscoverSkipsExcludedDirectories(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(root, "in.png"), 1)
	testsupport.WriteFile(t, filepath.Join(root, "out", "in.png"), 1)

	res, err := discover.Discover(root, discover.Options{
		Extensions: []string{"png"},
		Exclude:    []string{filepath.Join(root, "out")},
	})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(res.Files) != 1 || res.Files[0] != filepath.Join(root, "in.png") {
		t.Fatalf("files = %v", res.Files)
	}
}

func TestDiscoverMissingRoot(t *testing.T) {
	if _, err := discover.Discover(filepath.Join(t.TempDir(), "missing"), discover.Options{Extensions: []string{"png"}}); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestDiscoverEmptyTree(t *testing.T) {
	res, err := discover.Discover(t.TempDir(), discover.Options{Extensions: []string{"png"}})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(res.Files) != 0 || res.TotalBytes != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestDiscoverSkipDirPrunesSubtrees(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(root, "in.png"), 1)
	testsupport.WriteFile(t, filepath.Join(root, "out", "in.png"), 1)
	testsupport.WriteFile(t, filepath.Join(root, "out_backup_1700000000", "in.png"), 1)
	testsupport.WriteFile(t, filepath.Join(root, "keep", "in.png"), 1)

	var asked []string
	res, err := discover.Discover(root, discover.Options{
		Extensions: []string{"png"},
		Exclude:    []string{filepath.Join(root, "out")},
		SkipDir: func(dir string) bool {
			asked = append(asked, dir)
			return strings.HasPrefix(filepath.Base(dir), "out_backup_")
		},
	})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	want := []string{filepath.Join(root, "in.png"), filepath.Join(root, "keep", "in.png")}
	if strings.Join(res.Files, "|") != strings.Join(want, "|") {
		t.Fatalf("files = %v, want %v", res.Files, want)
	}
	for _, dir := range asked {
		if dir == root {
			t.Fatal("SkipDir must not be asked about the root itself")
		}
	}
}
