package format

import "fmt"

// ValueType is the declared type of a template value or a Value token
// payload.
type ValueType uint8

const (
	ValueNull                  ValueType = 0x00
	ValueStringUtf16           ValueType = 0x01
	ValueStringByteStream      ValueType = 0x02
	ValueInt8                  ValueType = 0x03
	ValueUInt8                 ValueType = 0x04
	ValueInt16                 ValueType = 0x05
	ValueUInt16                ValueType = 0x06
	ValueInt32                 ValueType = 0x07
	ValueUInt32                ValueType = 0x08
	ValueInt64                 ValueType = 0x09
	ValueUInt64                ValueType = 0x0A
	ValueFloat32               ValueType = 0x0B
	ValueFloat64               ValueType = 0x0C
	ValueBoolean               ValueType = 0x0D
	ValueBinaryData            ValueType = 0x0E
	ValueGuid                  ValueType = 0x0F
	ValueSize                  ValueType = 0x10
	ValueFiletime              ValueType = 0x11
	ValueSystemtime            ValueType = 0x14
	ValueNtSecurityIdentifier  ValueType = 0x15
	ValueBinaryXml             ValueType = 0x21
)

// arrayFlag is the high bit of a value type byte: when set, the value is an
// array of the base type rather than a single instance.
const arrayFlag ValueType = 0x80

// BaseType strips the array flag, returning the scalar type this value's
// elements share.
func (v ValueType) BaseType() ValueType {
	return v &^ arrayFlag
}

// IsArray reports whether the high bit marking an array of fixed-size
// elements is set.
func (v ValueType) IsArray() bool {
	return v&arrayFlag != 0
}

// Valid reports whether v (after stripping any array flag) is one of the
// built-in value types.
func (v ValueType) Valid() bool {
	switch v.BaseType() {
	case ValueNull, ValueStringUtf16, ValueStringByteStream,
		ValueInt8, ValueUInt8, ValueInt16, ValueUInt16,
		ValueInt32, ValueUInt32, ValueInt64, ValueUInt64,
		ValueFloat32, ValueFloat64, ValueBoolean, ValueBinaryData,
		ValueGuid, ValueSize, ValueFiletime, ValueSystemtime,
		ValueNtSecurityIdentifier, ValueBinaryXml:
		return true
	default:
		return false
	}
}

func (v ValueType) String() string {
	suffix := ""
	if v.IsArray() {
		suffix = "[]"
	}

	switch v.BaseType() {
	case ValueNull:
		return "Null"
	case ValueStringUtf16:
		return "StringUtf16" + suffix
	case ValueStringByteStream:
		return "StringByteStream" + suffix
	case ValueInt8:
		return "Int8" + suffix
	case ValueUInt8:
		return "UInt8" + suffix
	case ValueInt16:
		return "Int16" + suffix
	case ValueUInt16:
		return "UInt16" + suffix
	case ValueInt32:
		return "Int32" + suffix
	case ValueUInt32:
		return "UInt32" + suffix
	case ValueInt64:
		return "Int64" + suffix
	case ValueUInt64:
		return "UInt64" + suffix
	case ValueFloat32:
		return "Float32" + suffix
	case ValueFloat64:
		return "Float64" + suffix
	case ValueBoolean:
		return "Boolean"
	case ValueBinaryData:
		return "BinaryData"
	case ValueGuid:
		return "Guid" + suffix
	case ValueSize:
		return "Size"
	case ValueFiletime:
		return "Filetime" + suffix
	case ValueSystemtime:
		return "Systemtime" + suffix
	case ValueNtSecurityIdentifier:
		return "NtSecurityIdentifier"
	case ValueBinaryXml:
		return "BinaryXml"
	default:
		return fmt.Sprintf("Unknown(0x%02X)", uint8(v))
	}
}
