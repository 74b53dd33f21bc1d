package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"testing/fstest"
	"time"
)

// createTestImage writes a solid PNG into the test's temp dir and returns
// its path.
func createTestImage(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "capture.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, createInMemoryImage(width, height, c)); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

// encodePNG returns the PNG bytes of a solid image.
func encodePNG(t *testing.T, width, height int, c color.Color) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, createInMemoryImage(width, height, c)); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return buf.Bytes()
}

func TestImageCache_Load(t *testing.T) {
	path := createTestImage(t, 40, 30, color.RGBA{255, 0, 0, 255})
	cache := NewImageCache()

	img, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 40, 30) {
		t.Errorf("bounds: got %v", img.Bounds())
	}
	if cache.Len() != 1 {
		t.Errorf("Len: got %d, want 1", cache.Len())
	}

	again, err := cache.Load(path)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if again != img {
		t.Error("second Load should return the cached image")
	}
}

func TestImageCache_LoadMissing(t *testing.T) {
	cache := NewImageCache()
	if _, err := cache.Load(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestImageCache_EvictAndClear(t *testing.T) {
	path := createTestImage(t, 10, 10, color.White)
	cache := NewImageCache()

	if _, err := cache.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cache.Evict(path) {
		t.Error("Evict should report the cached path")
	}
	if cache.Evict(path) {
		t.Error("second Evict should report nothing cached")
	}
	if cache.Len() != 0 {
		t.Errorf("Len after Evict: got %d, want 0", cache.Len())
	}

	if _, err := cache.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if n := cache.Clear(); n != 1 {
		t.Errorf("Clear: got %d, want 1", n)
	}
	if cache.Len() != 0 {
		t.Errorf("Len after Clear: got %d, want 0", cache.Len())
	}
}

// rewriteTestImage replaces the file at path with a solid image and moves
// its modification time forward.
func rewriteTestImage(t *testing.T, path string, width, height int, c color.Color) {
	t.Helper()
	if err := os.WriteFile(path, encodePNG(t, width, height, c), 0o644); err != nil {
		t.Fatalf("failed to rewrite file: %v", err)
	}
	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatalf("failed to touch file: %v", err)
	}
}

func TestImageCache_ReloadsRewrittenFile(t *testing.T) {
	path := createTestImage(t, 40, 30, color.RGBA{255, 0, 0, 255})
	cache := NewImageCache()

	if _, err := cache.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	rewriteTestImage(t, path, 20, 10, color.RGBA{0, 0, 255, 255})

	img, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load after rewrite failed: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 20, 10) {
		t.Errorf("bounds after rewrite: got %v, want 20x10", img.Bounds())
	}
	if _, _, b, _ := img.At(0, 0).RGBA(); b>>8 != 255 {
		t.Errorf("pixel after rewrite: got %v", img.At(0, 0))
	}
	if cache.Len() != 1 {
		t.Errorf("Len: got %d, want 1", cache.Len())
	}
}

func TestImageCache_RemovedFileEvicted(t *testing.T) {
	path := createTestImage(t, 10, 10, color.White)
	cache := NewImageCache()

	if _, err := cache.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatalf("failed to remove file: %v", err)
	}
	if _, err := cache.Load(path); err == nil {
		t.Error("expected error for removed file")
	}
	if cache.Len() != 0 {
		t.Errorf("Len: got %d, want 0", cache.Len())
	}
}

func TestImageCache_LoadFrame(t *testing.T) {
	path := createTestImage(t, 16, 8, color.RGBA{10, 20, 30, 255})
	cache := NewImageCache()

	frame, err := cache.LoadFrame(path)
	if err != nil {
		t.Fatalf("LoadFrame failed: %v", err)
	}
	defer frame.Close()

	if frame.Width() != 16 || frame.Height() != 8 {
		t.Errorf("frame size: got %dx%d, want 16x8", frame.Width(), frame.Height())
	}
	mat := frame.Mat()
	px := mat.GetVecbAt(0, 0)
	if px[0] != 30 || px[1] != 20 || px[2] != 10 || px[3] != 255 {
		t.Errorf("BGRA pixel: got %v, want [30 20 10 255]", px)
	}
}

func TestTemplateCache_LoadOnce(t *testing.T) {
	fsys := fstest.MapFS{
		"templates/rune.png": &fstest.MapFile{Data: encodePNG(t, 12, 8, color.White)},
	}
	cache := NewTemplateCache(fsys)
	defer cache.Close()

	var wg sync.WaitGroup
	mats := make([]int, 8)
	for i := range mats {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			mat, err := cache.Load("templates/rune.png", Grayscale)
			if err != nil {
				t.Errorf("Load failed: %v", err)
				return
			}
			mats[i] = mat.Cols()
		}(i)
	}
	wg.Wait()

	for i, cols := range mats {
		if cols != 12 {
			t.Errorf("goroutine %d: cols %d, want 12", i, cols)
		}
	}
	if len(cache.entries) != 1 {
		t.Errorf("entries: got %d, want 1", len(cache.entries))
	}
}

func TestTemplateCache_Modes(t *testing.T) {
	fsys := fstest.MapFS{
		"portal.png": &fstest.MapFile{Data: encodePNG(t, 6, 6, color.RGBA{0, 0, 255, 255})},
	}
	cache := NewTemplateCache(fsys)
	defer cache.Close()

	gray := cache.MustLoad("portal.png", Grayscale)
	if gray.Channels() != 1 {
		t.Errorf("grayscale channels: got %d, want 1", gray.Channels())
	}
	bgr := cache.MustLoad("portal.png", Color)
	if bgr.Channels() != 3 {
		t.Errorf("color channels: got %d, want 3", bgr.Channels())
	}
}

func TestTemplateCache_Missing(t *testing.T) {
	cache := NewTemplateCache(fstest.MapFS{})
	defer cache.Close()

	if _, err := cache.Load("nope.png", Grayscale); err == nil {
		t.Error("expected error for missing template")
	}

	defer func() {
		if recover() == nil {
			t.Error("MustLoad should panic for a missing template")
		}
	}()
	cache.MustLoad("nope.png", Grayscale)
}

func TestTemplateCache_ReadAsset(t *testing.T) {
	fsys := fstest.MapFS{"models/minimap.onnx": &fstest.MapFile{Data: []byte("onnx")}}
	cache := NewTemplateCache(fsys)

	data, err := cache.ReadAsset("models/minimap.onnx")
	if err != nil {
		t.Fatalf("ReadAsset failed: %v", err)
	}
	if string(data) != "onnx" {
		t.Errorf("data: got %q", data)
	}
	if _, err := cache.ReadAsset("models/missing.onnx"); err == nil {
		t.Error("expected error for missing asset")
	}
}
