package bxml

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/libyal/libfwevt-sub000/format"
)

func TestValueFormat(t *testing.T) {
	cases := []struct {
		name string
		typ  format.ValueType
		data []byte
		want string
	}{
		{"null", format.ValueNull, nil, ""},
		{"string utf16", format.ValueStringUtf16, utf16leBytes("hello"), "hello"},
		{"string bytestream", format.ValueStringByteStream, []byte("ascii"), "ascii"},
		{"int8 negative", format.ValueInt8, []byte{0xFF}, "-1"},
		{"uint8", format.ValueUInt8, []byte{0xFF}, "255"},
		{"int16", format.ValueInt16, u16le(0x8000), "-32768"},
		{"uint16", format.ValueUInt16, u16le(65535), "65535"},
		{"int32", format.ValueInt32, u32le(0xFFFFFFFF), "-1"},
		{"uint32", format.ValueUInt32, u32le(7), "7"},
		{"int64", format.ValueInt64, concat(u32le(0xFFFFFFFE), u32le(0xFFFFFFFF)), "-2"},
		{"uint64", format.ValueUInt64, concat(u32le(1), u32le(1)), "4294967297"},
		{"float32", format.ValueFloat32, u32le(0x3FC00000), "1.5"},
		{"float64", format.ValueFloat64, concat(u32le(0), u32le(0x3FF80000)), "1.5"},
		{"bool true", format.ValueBoolean, u32le(1), "true"},
		{"bool false", format.ValueBoolean, u32le(0), "false"},
		{"binary", format.ValueBinaryData, []byte{0xDE, 0xAD}, "DEAD"},
		{"size 32", format.ValueSize, u32le(42), "42"},
		{"size 64", format.ValueSize, concat(u32le(42), u32le(0)), "42"},
		{
			"guid",
			format.ValueGuid,
			[]byte{0x06, 0xa2, 0xea, 0x53, 0xfc, 0x6c, 0x42, 0xe5, 0x91, 0x76, 0x18, 0x74, 0x9a, 0xb2, 0xca, 0x13},
			"{53EAA206-6CFC-E542-9176-18749AB2CA13}",
		},
		{
			"filetime epoch",
			format.ValueFiletime,
			concat(u32le(0xD53E8000), u32le(0x019DB1DE)), // 116444736000000000
			"1970-01-01T00:00:00.000000000Z",
		},
		{
			"systemtime",
			format.ValueSystemtime,
			concat(u16le(2024), u16le(1), u16le(1), u16le(15), u16le(10), u16le(30), u16le(45), u16le(123)),
			"2024-01-15T10:30:45.123Z",
		},
		{
			"sid",
			format.ValueNtSecurityIdentifier,
			concat(
				[]byte{0x01, 0x02},
				[]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x05},
				u32le(32), u32le(544),
			),
			"S-1-5-32-544",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			v := Value{Type: c.typ, Data: c.data}
			require.Equal(t, c.want, v.Format())
		})
	}
}

func TestValueFormat_Truncated(t *testing.T) {
	// Width validation happens during substitution; hand-built short values
	// degrade to an empty rendering instead of panicking.
	for _, typ := range []format.ValueType{
		format.ValueInt32, format.ValueUInt64, format.ValueFloat64,
		format.ValueGuid, format.ValueFiletime, format.ValueSystemtime,
		format.ValueNtSecurityIdentifier, format.ValueSize,
	} {
		v := Value{Type: typ, Data: []byte{0x01}}
		require.Equal(t, "", v.Format(), "type %s", typ)
	}
}

func TestFixedValueSize(t *testing.T) {
	require.Equal(t, 1, fixedValueSize(format.ValueInt8))
	require.Equal(t, 2, fixedValueSize(format.ValueUInt16))
	require.Equal(t, 4, fixedValueSize(format.ValueBoolean))
	require.Equal(t, 8, fixedValueSize(format.ValueFiletime))
	require.Equal(t, 16, fixedValueSize(format.ValueSystemtime))
	require.Equal(t, 0, fixedValueSize(format.ValueStringUtf16))
	require.Equal(t, 0, fixedValueSize(format.ValueSize))
	require.Equal(t, 0, fixedValueSize(format.ValueNtSecurityIdentifier))
}
