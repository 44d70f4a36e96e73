package manifest

import "github.com/libyal/libfwevt-sub000/guid"

// Channel is a CHAN section record: an identifier bound to a channel name
// string and an optional message table identifier.
type Channel struct {
	Identifier uint32
	NameOffset uint32
	Unknown1   uint32
	MessageID  uint32
}

// Event is an EVNT section record.
//
// The six bytes immediately after the identifier are a discriminated union
// whose active interpretation is not recorded anywhere in the record
// itself. Rather than guess, this type keeps the raw bytes and exposes both
// documented views through EventView1 and EventView2; callers pick whichever
// matches their context.
type Event struct {
	Identifier     uint16
	unionRaw       [6]byte
	Keywords       uint64
	MessageID      uint32
	TemplateOffset uint32
	OpcodeOffset   uint32
	LevelOffset    uint32
	TaskOffset     uint32
	Unknown1       uint32
	Unknown2       uint32
	Flags          uint32
}

// Version returns the event's version, the first byte of the union. It is
// the same byte EventView2 reports as Version.
func (e Event) Version() uint8 {
	return e.unionRaw[0]
}

// EventView1 is the {unknown, qualifiers, unknown} interpretation of an
// Event's union bytes.
type EventView1 struct {
	Unknown1   uint16
	Qualifiers uint16
	Unknown2   uint16
}

// EventView2 is the {version, channel, level, opcode, task} interpretation
// of an Event's union bytes.
type EventView2 struct {
	Version uint8
	Channel uint8
	Level   uint8
	Opcode  uint8
	Task    uint16
}

// ViewAsQualifiers returns the union bytes read as EventView1.
func (e Event) ViewAsQualifiers() EventView1 {
	return EventView1{
		Unknown1:   le16(e.unionRaw[0:2]),
		Qualifiers: le16(e.unionRaw[2:4]),
		Unknown2:   le16(e.unionRaw[4:6]),
	}
}

// ViewAsChannelLevelOpcodeTask returns the union bytes read as EventView2.
func (e Event) ViewAsChannelLevelOpcodeTask() EventView2 {
	return EventView2{
		Version: e.unionRaw[0],
		Channel: e.unionRaw[1],
		Level:   e.unionRaw[2],
		Opcode:  e.unionRaw[3],
		Task:    le16(e.unionRaw[4:6]),
	}
}

func le16(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}

// Keyword is a KEYW section record: a 64-bit keyword bitmask, its message
// table identifier, and an optional name data_offset.
type Keyword struct {
	ID         uint64
	MessageID  uint32
	DataOffset uint32
}

// Level is a LEVL section record.
type Level struct {
	ID         uint32
	MessageID  uint32
	DataOffset uint32
}

// Opcode is an OPCO section record.
type Opcode struct {
	ID         uint32
	MessageID  uint32
	DataOffset uint32
}

// Task is a TASK section record.
type Task struct {
	ID         uint32
	MessageID  uint32
	GUID       guid.GUID
	DataOffset uint32
}

// Map is a MAPS section record. The value-map and bitmap encodings are not
// part of this decoder's scope; only the record's raw bytes (starting at
// its signature) are preserved, matching the source's own "TODO implement
// map support" note.
type Map struct {
	Offset int
	Raw    []byte
}

// Template is a TTBL section record header (TEMP). The binary-XML body
// that follows the header is left unparsed until evaluation time.
type Template struct {
	Offset         int
	Size           uint32
	NumDescriptors uint32
	NumNames       uint32
	ItemsOffset    uint32
	Unknown1       uint32
	Identifier     guid.GUID
	Body           []byte
}
