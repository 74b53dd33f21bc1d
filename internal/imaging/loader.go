package imaging

import (
	"fmt"
	"image"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"gocv.io/x/gocv"
)

// ImageCache provides thread-safe caching of decoded capture files.
//
// The cache stores decoded image.Image objects keyed by their file path,
// together with the file's size and modification time. A Load for the same
// path returns the cached copy only while both still match, so a capture
// rewritten in place is decoded again.
//
// # Memory Management
//
// Cached images remain in memory until explicitly removed via Evict() or Clear().
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]cachedImage
}

type cachedImage struct {
	img     image.Image
	size    int64
	modTime time.Time
}

func (e cachedImage) matches(info fs.FileInfo) bool {
	return e.size == info.Size() && e.modTime.Equal(info.ModTime())
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]cachedImage),
	}
}

// Load retrieves an image from the cache or loads it from disk if not cached.
//
// Parameters:
//   - path: Absolute or relative file path to the capture. Any format
//     understood by disintegration/imaging (PNG, JPEG, GIF, BMP, TIFF) works.
//
// Returns:
//   - image.Image: The decoded image.
//   - error: Non-nil if the file cannot be opened or decoded.
//
// The image is cached using the exact path string provided. A stale entry
// is replaced.
func (c *ImageCache) Load(path string) (image.Image, error) {
	info, err := os.Stat(path)
	if err != nil {
		c.Evict(path)
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	c.mu.RLock()
	if e, ok := c.images[path]; ok && e.matches(info) {
		c.mu.RUnlock()
		return e.img, nil
	}
	c.mu.RUnlock()

	img, err := imaging.Open(path)
	if err != nil {
		c.Evict(path)
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	c.mu.Lock()
	c.images[path] = cachedImage{img: img, size: info.Size(), modTime: info.ModTime()}
	c.mu.Unlock()

	return img, nil
}

// LoadFrame loads path through the cache and converts it to a BGRA frame.
// The caller owns the returned frame.
func (c *ImageCache) LoadFrame(path string) (*Frame, error) {
	img, err := c.Load(path)
	if err != nil {
		return nil, err
	}
	return FrameFromImage(img)
}

// Clear removes all images from the cache and reports how many were held.
func (c *ImageCache) Clear() int {
	c.mu.Lock()
	n := len(c.images)
	c.images = make(map[string]cachedImage)
	c.mu.Unlock()
	return n
}

// Evict removes a specific image from the cache by its path and reports
// whether it was cached.
func (c *ImageCache) Evict(path string) bool {
	c.mu.Lock()
	_, ok := c.images[path]
	delete(c.images, path)
	c.mu.Unlock()
	return ok
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// ColorMode selects how a template asset is decoded.
type ColorMode int

const (
	// Grayscale decodes to a single 8-bit channel.
	Grayscale ColorMode = iota
	// Color decodes to 3-channel BGR.
	Color
)

func (m ColorMode) readFlag() gocv.IMReadFlag {
	if m == Color {
		return gocv.IMReadColor
	}
	return gocv.IMReadGrayScale
}

type templateKey struct {
	name string
	mode ColorMode
}

type templateEntry struct {
	once   sync.Once
	mat    gocv.Mat
	loaded bool
	err    error
}

// TemplateCache decodes bundled template images on first use.
//
// Each (name, mode) pair is decoded at most once, even under concurrent
// callers; the resulting matrix is shared and must be treated as read-only.
type TemplateCache struct {
	fsys fs.FS

	mu      sync.Mutex
	entries map[templateKey]*templateEntry
}

// NewTemplateCache returns a cache reading assets from fsys.
func NewTemplateCache(fsys fs.FS) *TemplateCache {
	return &TemplateCache{
		fsys:    fsys,
		entries: make(map[templateKey]*templateEntry),
	}
}

// Load returns the decoded template stored under name.
func (c *TemplateCache) Load(name string, mode ColorMode) (gocv.Mat, error) {
	key := templateKey{name: name, mode: mode}

	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		e = &templateEntry{}
		c.entries[key] = e
	}
	c.mu.Unlock()

	e.once.Do(func() {
		data, err := fs.ReadFile(c.fsys, name)
		if err != nil {
			e.err = fmt.Errorf("failed to read template %s: %w", name, err)
			return
		}
		mat, err := gocv.IMDecode(data, mode.readFlag())
		if err != nil {
			e.err = fmt.Errorf("failed to decode template %s: %w", name, err)
			return
		}
		if mat.Empty() {
			mat.Close()
			e.err = fmt.Errorf("failed to decode template %s: empty image", name)
			return
		}
		e.mat = mat
		e.loaded = true
	})
	return e.mat, e.err
}

// MustLoad is Load for assets that ship with the binary. A missing or
// corrupt bundled asset panics.
func (c *TemplateCache) MustLoad(name string, mode ColorMode) gocv.Mat {
	mat, err := c.Load(name, mode)
	if err != nil {
		panic(err)
	}
	return mat
}

// ReadAsset returns the raw bytes of a non-image asset such as a model.
func (c *TemplateCache) ReadAsset(name string) ([]byte, error) {
	data, err := fs.ReadFile(c.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read asset %s: %w", name, err)
	}
	return data, nil
}

// Close releases every decoded template.
func (c *TemplateCache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		e.once.Do(func() {})
		if e.loaded {
			e.mat.Close()
		}
		delete(c.entries, key)
	}
}
