// Package compress provides the pluggable compression codecs used by the
// render cache to store rendered XML documents compactly.
//
// Rendered EVTX documents are repetitive text, usually a few hundred bytes
// to a few KiB, which compresses well under any of the supported
// algorithms. Zstd gives the best ratio, S2 and LZ4 trade ratio for speed,
// and the no-op codec exists for callers who want the cache without the
// CPU cost.
package compress

import (
	"fmt"

	"github.com/libyal/libfwevt-sub000/format"
)

// Compressor compresses a rendered-document payload.
type Compressor interface {
	// Compress compresses data and returns the result. The input is not
	// modified. The returned slice is newly allocated and owned by the
	// caller, except for NoOpCompressor, which returns data itself.
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a payload previously produced by the matching
// Compressor.
type Decompressor interface {
	// Decompress decompresses data and returns the original bytes, failing
	// if the data is corrupted or was compressed with a different algorithm.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions. Every implementation in this package is
// safe for concurrent use.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec creates a Codec for the given compression type. target names
// the intended usage and only appears in error messages.
func CreateCodec(compressionType format.CompressionType, target string) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("invalid %s compression: %s", target, compressionType)
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves a shared built-in Codec for the specified compression
// type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}
