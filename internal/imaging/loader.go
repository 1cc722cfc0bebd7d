package imaging

import (
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"sync"

	"github.com/pkg/errors"

	"github.com/ironsheep/plot-digitizer/internal/raster" // Registers the P3 decoder
)

// scanEntry is one decoded file. The raster form is built on first use.
type scanEntry struct {
	img    image.Image
	format string
	scan   *raster.Raster
}

// ImageCache caches decoded plot scans by path so that repeated tool calls on
// the same scan (segment, detect, overlay) decode the file once.
//
// ImageCache is safe for concurrent use.
//
// # Memory Management
//
// Cached scans stay in memory until Evict or Clear is called.
type ImageCache struct {
	mu      sync.RWMutex
	entries map[string]*scanEntry
}

// NewImageCache creates an empty cache.
func NewImageCache() *ImageCache {
	return &ImageCache{entries: make(map[string]*scanEntry)}
}

// entry returns the cache entry for path, decoding the file on a miss. Two
// goroutines missing at once both decode; the first to store wins.
func (c *ImageCache) entry(path string) (*scanEntry, error) {
	c.mu.RLock()
	e, ok := c.entries[path]
	c.mu.RUnlock()
	if ok {
		return e, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open image")
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", path)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.entries[path]; ok {
		return prev, nil
	}
	e = &scanEntry{img: img, format: format}
	c.entries[path] = e
	return e, nil
}

// Load returns the cached image for path, decoding it on first use.
//
// Supported formats are PNG, JPEG, GIF and plain PPM (P3), recognised by
// content rather than extension. The cache key is the exact path string.
func (c *ImageCache) Load(path string) (image.Image, error) {
	e, err := c.entry(path)
	if err != nil {
		return nil, err
	}
	return e.img, nil
}

// LoadRaster returns a fresh raster copy of the scan at path. The caller owns
// the raster and may mutate it; the cached original is converted only once.
func (c *ImageCache) LoadRaster(path string) (*raster.Raster, error) {
	e, err := c.entry(path)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	scan := e.scan
	c.mu.RUnlock()
	if scan == nil {
		scan = raster.FromImage(e.img)
		c.mu.Lock()
		if e.scan == nil {
			e.scan = scan
		}
		c.mu.Unlock()
	}
	return scan.Clone(), nil
}

// Clear drops every cached scan.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*scanEntry)
	c.mu.Unlock()
}

// Evict drops one path. Unknown paths are ignored.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
}

// Len returns the number of cached scans.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// ImageInfo describes a loaded plot scan.
type ImageInfo struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	// Format is the decoder that read the file: "png", "jpeg", "gif" or
	// "ppm".
	Format string `json:"format"`

	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads a scan through the cache and describes it.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	e, err := cache.entry(path)
	if err != nil {
		return nil, err
	}

	st, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to stat file")
	}

	b := e.img.Bounds()
	return &ImageInfo{
		Width:         b.Dx(),
		Height:        b.Dy(),
		Format:        e.format,
		FileSizeBytes: st.Size(),
	}, nil
}

// DimensionsResult is the pixel size of a scan. Plot-space mapping divides by
// these values.
type DimensionsResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GetDimensions returns the size of a scan, loading it into the cache.
func GetDimensions(cache *ImageCache, path string) (*DimensionsResult, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	return &DimensionsResult{Width: b.Dx(), Height: b.Dy()}, nil
}
