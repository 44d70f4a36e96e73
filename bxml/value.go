package bxml

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/libyal/libfwevt-sub000/format"
	"github.com/libyal/libfwevt-sub000/guid"
	"github.com/libyal/libfwevt-sub000/internal/pool"
)

// ValueEncoding is the byte-level encoding hint attached to a Value's raw
// data.
type ValueEncoding uint8

const (
	// EncodingLittleEndian marks fixed-width little-endian scalar payloads.
	EncodingLittleEndian ValueEncoding = iota

	// EncodingUTF16LE marks UTF-16 little-endian character payloads.
	EncodingUTF16LE

	// EncodingByteStream marks single-byte character payloads interpreted
	// through the evaluator's fallback codepage.
	EncodingByteStream
)

// Value is one typed value fragment of a Tag: the declared scalar type plus
// the raw payload bytes it was cut from. Formatting to text is deferred
// until Format is called, so building a tree never pays for string
// conversion of values nobody renders.
type Value struct {
	Type     format.ValueType
	Encoding ValueEncoding
	Data     []byte
}

// fixedValueSize returns the mandatory payload width of a scalar value
// type, or 0 when the width is carried by the declared substitution size
// instead (strings, binary data, security identifiers, Size).
func fixedValueSize(t format.ValueType) int {
	switch t {
	case format.ValueInt8, format.ValueUInt8:
		return 1
	case format.ValueInt16, format.ValueUInt16:
		return 2
	case format.ValueInt32, format.ValueUInt32, format.ValueFloat32:
		return 4
	case format.ValueInt64, format.ValueUInt64, format.ValueFloat64:
		return 8
	case format.ValueBoolean:
		return 4
	case format.ValueGuid:
		return 16
	case format.ValueFiletime:
		return 8
	case format.ValueSystemtime:
		return 16
	default:
		return 0
	}
}

// valueEncoding picks the encoding hint matching a scalar value type.
func valueEncoding(t format.ValueType) ValueEncoding {
	switch t {
	case format.ValueStringUtf16:
		return EncodingUTF16LE
	case format.ValueStringByteStream:
		return EncodingByteStream
	default:
		return EncodingLittleEndian
	}
}

// Format renders the value as text. Malformed payloads (wrong width for the
// declared type) render as an empty string rather than failing: width
// validation already happened during substitution, so a mismatch here can
// only come from a caller constructing Values by hand.
func (v Value) Format() string {
	d := v.Data

	switch v.Type {
	case format.ValueNull:
		return ""

	case format.ValueStringUtf16:
		return decodeUTF16LE(d)

	case format.ValueStringByteStream:
		return decodeByteStream(d)

	case format.ValueInt8:
		if len(d) < 1 {
			return ""
		}
		return strconv.FormatInt(int64(int8(d[0])), 10)

	case format.ValueUInt8:
		if len(d) < 1 {
			return ""
		}
		return strconv.FormatUint(uint64(d[0]), 10)

	case format.ValueInt16:
		if len(d) < 2 {
			return ""
		}
		return strconv.FormatInt(int64(int16(le16(d))), 10)

	case format.ValueUInt16:
		if len(d) < 2 {
			return ""
		}
		return strconv.FormatUint(uint64(le16(d)), 10)

	case format.ValueInt32:
		if len(d) < 4 {
			return ""
		}
		return strconv.FormatInt(int64(int32(le32(d))), 10)

	case format.ValueUInt32:
		if len(d) < 4 {
			return ""
		}
		return strconv.FormatUint(uint64(le32(d)), 10)

	case format.ValueInt64:
		if len(d) < 8 {
			return ""
		}
		return strconv.FormatInt(int64(le64(d)), 10)

	case format.ValueUInt64:
		if len(d) < 8 {
			return ""
		}
		return strconv.FormatUint(le64(d), 10)

	case format.ValueFloat32:
		if len(d) < 4 {
			return ""
		}
		return strconv.FormatFloat(float64(math.Float32frombits(le32(d))), 'f', -1, 32)

	case format.ValueFloat64:
		if len(d) < 8 {
			return ""
		}
		return strconv.FormatFloat(math.Float64frombits(le64(d)), 'f', -1, 64)

	case format.ValueBoolean:
		if len(d) < 4 {
			return ""
		}
		if le32(d) != 0 {
			return "true"
		}
		return "false"

	case format.ValueBinaryData:
		return strings.ToUpper(hexEncode(d))

	case format.ValueGuid:
		if len(d) < guid.Size {
			return ""
		}
		g, err := guid.Parse(d)
		if err != nil {
			return ""
		}
		return "{" + strings.ToUpper(g.String()) + "}"

	case format.ValueSize:
		switch len(d) {
		case 4:
			return strconv.FormatUint(uint64(le32(d)), 10)
		case 8:
			return strconv.FormatUint(le64(d), 10)
		default:
			return ""
		}

	case format.ValueFiletime:
		if len(d) < 8 {
			return ""
		}
		return formatFiletime(le64(d))

	case format.ValueSystemtime:
		if len(d) < 16 {
			return ""
		}
		return formatSystemtime(d)

	case format.ValueNtSecurityIdentifier:
		return formatSecurityIdentifier(d)

	default:
		return ""
	}
}

func le16(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}

func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func le64(b []byte) uint64 {
	return uint64(le32(b)) | uint64(le32(b[4:]))<<32
}

const hexDigits = "0123456789abcdef"

func hexEncode(b []byte) string {
	out, release := pool.GetByteSlice(len(b) * 2)
	defer release()

	for i, c := range b {
		out[i*2] = hexDigits[c>>4]
		out[i*2+1] = hexDigits[c&0x0F]
	}

	return string(out)
}

// decodeByteStream interprets single-byte string data through the Latin-1
// repertoire, which covers the ASCII range every observed fallback codepage
// shares.
func decodeByteStream(b []byte) string {
	runes := make([]rune, 0, len(b))
	for _, c := range b {
		runes = append(runes, rune(c))
	}

	return string(runes)
}

// filetimeEpochDelta is the number of 100ns intervals between the Windows
// FILETIME epoch (1601-01-01) and the Unix epoch (1970-01-01).
const filetimeEpochDelta = 116444736000000000

// formatFiletime renders a FILETIME (100ns intervals since 1601-01-01 UTC)
// as an ISO 8601 timestamp with nanosecond precision and a timezone
// indicator.
func formatFiletime(ft uint64) string {
	ticks := int64(ft) - filetimeEpochDelta
	sec := ticks / 10_000_000
	nsec := (ticks % 10_000_000) * 100
	t := time.Unix(sec, nsec).UTC()

	return t.Format("2006-01-02T15:04:05.000000000Z")
}

// formatSystemtime renders a 16-byte SYSTEMTIME record as an ISO 8601
// timestamp with millisecond precision.
func formatSystemtime(d []byte) string {
	year := le16(d[0:2])
	month := le16(d[2:4])
	// d[4:6] is the day-of-week, which ISO 8601 does not carry.
	day := le16(d[6:8])
	hour := le16(d[8:10])
	minute := le16(d[10:12])
	second := le16(d[12:14])
	milli := le16(d[14:16])

	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d.%03dZ",
		year, month, day, hour, minute, second, milli)
}

// formatSecurityIdentifier renders an NT security identifier in its
// conventional S-R-I-S... form. Truncated data renders as an empty string.
func formatSecurityIdentifier(d []byte) string {
	if len(d) < 8 {
		return ""
	}
	revision := d[0]
	count := int(d[1])
	if len(d) < 8+count*4 {
		return ""
	}

	// The 48-bit identifier authority is stored big-endian.
	var authority uint64
	for _, c := range d[2:8] {
		authority = authority<<8 | uint64(c)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "S-%d-%d", revision, authority)
	for i := 0; i < count; i++ {
		fmt.Fprintf(&sb, "-%d", le32(d[8+i*4:]))
	}

	return sb.String()
}
