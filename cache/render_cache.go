// Package cache provides an optional render cache for consumers that
// repeatedly render the same template instance — typically replaying an
// EVTX channel whose records reuse a handful of templates. Cached entries
// hold the rendered XML bytes compressed through a pluggable codec; the
// cache never affects decode semantics, only whether a rendering is
// recomputed.
package cache

import (
	"fmt"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/libyal/libfwevt-sub000/compress"
	"github.com/libyal/libfwevt-sub000/errs"
	"github.com/libyal/libfwevt-sub000/format"
	"github.com/libyal/libfwevt-sub000/internal/options"
)

// Key identifies one cached rendering: the template definition it came
// from, a digest of the value bytes substituted into it, and the text
// encoding it was rendered to.
type Key struct {
	DefinitionOffset int
	ValuesDigest     uint64
	Encoding         format.EncodingType
}

// ValuesDigest hashes a template instance's raw value bytes for use in a
// Key. Two instances of the same template with equal value bytes render
// identically, so the digest plus the definition offset fully determine the
// output.
func ValuesDigest(valueData []byte) uint64 {
	return xxhash.Sum64(valueData)
}

// RenderCache stores compressed rendered documents. It is safe for
// concurrent use.
type RenderCache struct {
	mu      sync.RWMutex
	entries map[Key][]byte
	codec   compress.Codec
}

// cacheConfig holds the options New accepts.
type cacheConfig struct {
	compression format.CompressionType
}

// Option configures a RenderCache.
type Option = options.Option[*cacheConfig]

// WithCompression selects the codec cached renderings are stored with. The
// default is Zstd.
func WithCompression(compression format.CompressionType) Option {
	return options.NoError(func(c *cacheConfig) {
		c.compression = compression
	})
}

// New creates an empty RenderCache.
func New(opts ...Option) (*RenderCache, error) {
	cfg := &cacheConfig{compression: format.CompressionZstd}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	codec, err := compress.GetCodec(cfg.compression)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidArgument, err)
	}

	return &RenderCache{
		entries: make(map[Key][]byte),
		codec:   codec,
	}, nil
}

// Get returns the cached rendering for key, decompressed, or false when the
// key has never been stored.
func (c *RenderCache) Get(key Key) ([]byte, bool) {
	c.mu.RLock()
	compressed, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	rendered, err := c.codec.Decompress(compressed)
	if err != nil {
		// A decompression failure means the entry is unusable; drop it so the
		// caller re-renders and overwrites it.
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()

		return nil, false
	}

	return rendered, true
}

// Put stores a rendering under key, replacing any previous entry.
func (c *RenderCache) Put(key Key, rendered []byte) error {
	compressed, err := c.codec.Compress(rendered)
	if err != nil {
		return err
	}

	// The no-op codec returns the caller's slice; copy so a later caller
	// mutation cannot corrupt the cache.
	stored := make([]byte, len(compressed))
	copy(stored, compressed)

	c.mu.Lock()
	c.entries[key] = stored
	c.mu.Unlock()

	return nil
}

// Len returns the number of cached entries.
func (c *RenderCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
