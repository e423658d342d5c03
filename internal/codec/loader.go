package codec

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ironsheep/image-dither/internal/raster"
)

// Load opens and decodes the image file at path.
//
// A missing or unreadable file is reported as a plain wrapped error; a file
// that exists but cannot be parsed is reported as *DecodeError.
func Load(path string) (*raster.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	b, err := DecodeImage(f)
	if err != nil {
		var de *DecodeError
		if errors.As(err, &de) {
			de.Source = path
		}
		return nil, err
	}
	return b, nil
}

// BufferCache keeps decoded buffers keyed by file path so repeated
// operations on the same file skip disk I/O and decoding.
//
// Buffers are mutable and single-owner, so Load hands out a fresh copy each
// time. The cached original is never exposed.
//
// BufferCache is safe for concurrent use.
//
// # Memory Management
//
// Entries stay until Evict or Clear. A buffer costs 8 bytes per sample, so
// a 4000x3000 RGB image occupies roughly 288 MB.
type BufferCache struct {
	mu      sync.RWMutex
	buffers map[string]*raster.Buffer
}

// NewBufferCache creates an empty cache.
func NewBufferCache() *BufferCache {
	return &BufferCache{
		buffers: make(map[string]*raster.Buffer),
	}
}

// Load returns a private copy of the buffer for path, decoding the file on
// first use.
func (c *BufferCache) Load(path string) (*raster.Buffer, error) {
	c.mu.RLock()
	if b, ok := c.buffers[path]; ok {
		c.mu.RUnlock()
		return b.Clone(), nil
	}
	c.mu.RUnlock()

	b, err := Load(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.buffers[path] = b
	c.mu.Unlock()

	return b.Clone(), nil
}

// Clear drops every cached buffer.
func (c *BufferCache) Clear() {
	c.mu.Lock()
	c.buffers = make(map[string]*raster.Buffer)
	c.mu.Unlock()
}

// Evict drops the buffer cached for path, if any.
func (c *BufferCache) Evict(path string) {
	c.mu.Lock()
	delete(c.buffers, path)
	c.mu.Unlock()
}

// Len reports the number of cached buffers.
func (c *BufferCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.buffers)
}

// ImageInfo describes an image file as the codec sees it.
type ImageInfo struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	// Channels is 1 (grey), 3 (RGB) or 4 (RGBA).
	Channels int `json:"channels"`

	// Format is detected from the file extension: "png", "jpeg", "gif", "bmp" or "unknown".
	Format string `json:"format"`

	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads path through the cache and reports its metadata.
func LoadImageInfo(cache *BufferCache, path string) (*ImageInfo, error) {
	b, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	format := "unknown"
	switch filepath.Ext(path) {
	case ".png":
		format = "png"
	case ".jpg", ".jpeg":
		format = "jpeg"
	case ".gif":
		format = "gif"
	case ".bmp":
		format = "bmp"
	}

	return &ImageInfo{
		Width:         b.Width(),
		Height:        b.Height(),
		Channels:      b.Channels(),
		Format:        format,
		FileSizeBytes: stat.Size(),
	}, nil
}
