package testsupport

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size of 0 creates an empty file.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	f := create(t, path)
	defer f.Close()

	const chunkSize = 32 * 1024
	buf := make([]byte, chunkSize)
	for i := range buf {
		buf[i] = 0x42
	}

	remaining := size
	for remaining > 0 {
		toWrite := min(int64(chunkSize), remaining)
		if _, err := f.Write(buf[:toWrite]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= toWrite
	}
}

// Gradient returns a w x h RGBA image with a deterministic color ramp.
func Gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: uint8(x * 20), G: uint8(y * 20), B: 128, A: 255})
		}
	}
	return img
}

// WritePNG writes a w x h gradient PNG, creating parent directories.
func WritePNG(t testing.TB, path string, w, h int) {
	t.Helper()

	f := create(t, path)
	defer f.Close()
	if err := png.Encode(f, Gradient(w, h)); err != nil {
		t.Fatalf("encode png %s: %v", path, err)
	}
}

// WriteJPEG writes a w x h gradient JPEG, creating parent directories.
func WriteJPEG(t testing.TB, path string, w, h int) {
	t.Helper()

	f := create(t, path)
	defer f.Close()
	if err := jpeg.Encode(f, Gradient(w, h), &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encode jpeg %s: %v", path, err)
	}
}

func create(t testing.TB, path string) *os.File {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	return f
}
