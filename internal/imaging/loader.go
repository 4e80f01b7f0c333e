package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
)

// PhotoCache provides thread-safe caching of decoded card photos so that
// several tool calls against the same upload (locate, rectify, analyze) only
// decode the file once.
//
// Cached photos are normalized with Normalize, so every image handed out by
// the cache is an *image.NRGBA whose bounds start at (0,0). Callers must treat
// the returned image as read-only; pipeline stages always work on copies.
//
// # Memory Management
//
// Cached photos remain in memory until explicitly removed via Evict() or Clear().
// Phone photos of sampling cards are typically 12-48 MB once decoded, so
// long-running servers should evict after a card has been analyzed.
type PhotoCache struct {
	mu     sync.RWMutex
	photos map[string]*image.NRGBA
}

// NewPhotoCache creates and initializes a new empty photo cache.
func NewPhotoCache() *PhotoCache {
	return &PhotoCache{
		photos: make(map[string]*image.NRGBA),
	}
}

// Load retrieves a photo from the cache or decodes it from disk if not cached.
//
// Supported formats are PNG, JPEG, and GIF. The photo is cached using the
// exact path string provided.
func (c *PhotoCache) Load(path string) (*image.NRGBA, error) {
	c.mu.RLock()
	if img, ok := c.photos[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open photo: %w", err)
	}
	defer f.Close()

	img, err := Decode(f)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.photos[path] = img
	c.mu.Unlock()

	return img, nil
}

// Len returns the number of cached photos.
func (c *PhotoCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.photos)
}

// Clear removes all photos from the cache.
func (c *PhotoCache) Clear() {
	c.mu.Lock()
	c.photos = make(map[string]*image.NRGBA)
	c.mu.Unlock()
}

// Evict removes a specific photo from the cache by its path.
// If the path is not in the cache, this method does nothing.
func (c *PhotoCache) Evict(path string) {
	c.mu.Lock()
	delete(c.photos, path)
	c.mu.Unlock()
}

// Decode reads an encoded photo and returns it normalized.
func Decode(r io.Reader) (*image.NRGBA, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode photo: %w", err)
	}
	return Normalize(img), nil
}

// DecodeBytes is Decode over an in-memory upload.
func DecodeBytes(data []byte) (*image.NRGBA, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("failed to decode photo: empty upload")
	}
	return Decode(bytes.NewReader(data))
}

// Normalize returns img as an *image.NRGBA with bounds starting at (0,0).
// Images that already satisfy this are returned unchanged.
func Normalize(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Bounds().Min == (image.Point{}) {
		return n
	}
	return imaging.Clone(img)
}

// Clone returns a deep copy of img as an *image.NRGBA with bounds starting
// at (0,0).
func Clone(img image.Image) *image.NRGBA {
	return imaging.Clone(img)
}

// PhotoInfo contains metadata about a loaded card photo.
type PhotoInfo struct {
	// Width is the photo width in pixels.
	Width int `json:"width"`

	// Height is the photo height in pixels.
	Height int `json:"height"`

	// Format is derived from the file extension: "png", "jpeg", "gif", or "unknown".
	Format string `json:"format"`

	// Megapixels is Width*Height / 1e6, rounded to two decimals.
	Megapixels float64 `json:"megapixels"`

	// FileSizeBytes is the size of the photo file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadPhotoInfo loads a photo into the cache and returns its metadata.
func LoadPhotoInfo(cache *PhotoCache, path string) (*PhotoInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	format := "unknown"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		format = "png"
	case ".jpg", ".jpeg":
		format = "jpeg"
	case ".gif":
		format = "gif"
	}

	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	return &PhotoInfo{
		Width:         w,
		Height:        h,
		Format:        format,
		Megapixels:    float64(int(float64(w*h)/1e4+0.5)) / 100,
		FileSizeBytes: stat.Size(),
	}, nil
}
