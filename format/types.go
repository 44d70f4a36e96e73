package format

type (
	EncodingType    uint8
	CompressionType uint8
)

const (
	EncodingUtf8  EncodingType = 0x1 // EncodingUtf8 represents UTF-8 rendered XML text.
	EncodingUtf16 EncodingType = 0x2 // EncodingUtf16 represents UTF-16 rendered XML text.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

func (e EncodingType) String() string {
	switch e {
	case EncodingUtf8:
		return "Utf8"
	case EncodingUtf16:
		return "Utf16"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
