package manifest

import (
	"fmt"

	"github.com/libyal/libfwevt-sub000/bytespan"
	"github.com/libyal/libfwevt-sub000/errs"
	"github.com/libyal/libfwevt-sub000/guid"
)

// fixedSectionHeader is the common prefix shared by CHAN, EVNT, KEYW, LEVL,
// OPCO and TASK: a four-byte signature, a declared section size, and a
// record count. EVNT carries one extra reserved word, widening the header
// from 12 to 16 bytes.
type fixedSectionHeader struct {
	sectionSize uint32
	count       uint32
}

// readFixedSectionHeader validates and consumes a fixed-shape section
// header at the cursor's current position, which must already sit at the
// section's signature.
func readFixedSectionHeader(c *bytespan.Cursor, span *bytespan.Span, sig string, headerSize int) (fixedSectionHeader, error) {
	if err := c.RequireSignature(sig); err != nil {
		return fixedSectionHeader{}, err
	}

	sectionSize, err := c.U32LE()
	if err != nil {
		return fixedSectionHeader{}, err
	}

	count, err := c.U32LE()
	if err != nil {
		return fixedSectionHeader{}, err
	}

	if headerSize == 16 {
		if err := c.Skip(4); err != nil { // EVNT's extra reserved word
			return fixedSectionHeader{}, err
		}
	}

	if sectionSize != 0 {
		if int(sectionSize) < headerSize || int(sectionSize) >= span.Len() {
			return fixedSectionHeader{}, fmt.Errorf("%w: section size %d invalid for header of %d bytes in a %d-byte buffer",
				errs.ErrValueOutOfBounds, sectionSize, headerSize, span.Len())
		}
	}

	return fixedSectionHeader{sectionSize: sectionSize, count: count}, nil
}

// parseFixedSection reads count fixed-size records immediately following a
// section header, decrementing a remaining-bytes budget derived from the
// header's declared section size (when present) so that a record whose
// declared count overruns the section is rejected before it is read.
func parseFixedSection[T any](
	span *bytespan.Span,
	offset int,
	sig string,
	headerSize, recordSize int,
	readRecord func(*bytespan.Cursor) (T, error),
) ([]T, error) {
	c := bytespan.NewCursor(span)
	c.Seek(offset)

	header, err := readFixedSectionHeader(c, span, sig, headerSize)
	if err != nil {
		return nil, err
	}

	count := int(header.count)
	if count < 0 || count > (1<<31)/recordSize {
		return nil, fmt.Errorf("%w: record count %d overflows for record size %d", errs.ErrValueOutOfBounds, header.count, recordSize)
	}
	if c.Remaining() < count*recordSize {
		return nil, fmt.Errorf("%w: %d records of %d bytes exceed remaining buffer of %d bytes",
			errs.ErrValueOutOfBounds, count, recordSize, c.Remaining())
	}

	var sectionRemaining int
	trackRemaining := header.sectionSize != 0
	if trackRemaining {
		sectionRemaining = int(header.sectionSize) - headerSize
	}

	records := make([]T, 0, count)
	for i := 0; i < count; i++ {
		if trackRemaining && sectionRemaining < recordSize {
			return nil, fmt.Errorf("%w: section has %d bytes remaining, record %d needs %d", errs.ErrValueOutOfBounds, sectionRemaining, i, recordSize)
		}

		rec, err := readRecord(c)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)

		if trackRemaining {
			sectionRemaining -= recordSize
		}
	}

	return records, nil
}

// validateDataOffset checks that a record's optional name/data offset, if
// non-zero, refers to a valid {u32 size, bytes...} block inside span.
func validateDataOffset(span *bytespan.Span, dataOffset uint32) error {
	if dataOffset == 0 {
		return nil
	}

	size, err := span.U32LE(int(dataOffset))
	if err != nil {
		return err
	}
	if _, err := span.Slice(int(dataOffset)+4, int(size)); err != nil {
		return err
	}

	return nil
}

func readChannel(c *bytespan.Cursor) (Channel, error) {
	id, err := c.U32LE()
	if err != nil {
		return Channel{}, err
	}
	nameOffset, err := c.U32LE()
	if err != nil {
		return Channel{}, err
	}
	unknown1, err := c.U32LE()
	if err != nil {
		return Channel{}, err
	}
	messageID, err := c.U32LE()
	if err != nil {
		return Channel{}, err
	}

	return Channel{Identifier: id, NameOffset: nameOffset, Unknown1: unknown1, MessageID: messageID}, nil
}

func readEvent(c *bytespan.Cursor) (Event, error) {
	id, err := c.U16LE()
	if err != nil {
		return Event{}, err
	}
	unionRaw, err := c.Slice(6)
	if err != nil {
		return Event{}, err
	}
	keywords, err := c.U64LE()
	if err != nil {
		return Event{}, err
	}
	messageID, err := c.U32LE()
	if err != nil {
		return Event{}, err
	}
	templateOffset, err := c.U32LE()
	if err != nil {
		return Event{}, err
	}
	opcodeOffset, err := c.U32LE()
	if err != nil {
		return Event{}, err
	}
	levelOffset, err := c.U32LE()
	if err != nil {
		return Event{}, err
	}
	taskOffset, err := c.U32LE()
	if err != nil {
		return Event{}, err
	}
	unknown1, err := c.U32LE()
	if err != nil {
		return Event{}, err
	}
	unknown2, err := c.U32LE()
	if err != nil {
		return Event{}, err
	}
	flags, err := c.U32LE()
	if err != nil {
		return Event{}, err
	}

	ev := Event{
		Identifier:     id,
		Keywords:       keywords,
		MessageID:      messageID,
		TemplateOffset: templateOffset,
		OpcodeOffset:   opcodeOffset,
		LevelOffset:    levelOffset,
		TaskOffset:     taskOffset,
		Unknown1:       unknown1,
		Unknown2:       unknown2,
		Flags:          flags,
	}
	copy(ev.unionRaw[:], unionRaw)

	return ev, nil
}

func readKeyword(c *bytespan.Cursor) (Keyword, error) {
	id, err := c.U64LE()
	if err != nil {
		return Keyword{}, err
	}
	messageID, err := c.U32LE()
	if err != nil {
		return Keyword{}, err
	}
	dataOffset, err := c.U32LE()
	if err != nil {
		return Keyword{}, err
	}

	return Keyword{ID: id, MessageID: messageID, DataOffset: dataOffset}, nil
}

func readLevel(c *bytespan.Cursor) (Level, error) {
	id, err := c.U32LE()
	if err != nil {
		return Level{}, err
	}
	messageID, err := c.U32LE()
	if err != nil {
		return Level{}, err
	}
	dataOffset, err := c.U32LE()
	if err != nil {
		return Level{}, err
	}

	return Level{ID: id, MessageID: messageID, DataOffset: dataOffset}, nil
}

func readOpcode(c *bytespan.Cursor) (Opcode, error) {
	id, err := c.U32LE()
	if err != nil {
		return Opcode{}, err
	}
	messageID, err := c.U32LE()
	if err != nil {
		return Opcode{}, err
	}
	dataOffset, err := c.U32LE()
	if err != nil {
		return Opcode{}, err
	}

	return Opcode{ID: id, MessageID: messageID, DataOffset: dataOffset}, nil
}

func readTask(c *bytespan.Cursor) (Task, error) {
	id, err := c.U32LE()
	if err != nil {
		return Task{}, err
	}
	messageID, err := c.U32LE()
	if err != nil {
		return Task{}, err
	}
	guidBytes, err := c.Slice(guid.Size)
	if err != nil {
		return Task{}, err
	}
	g, err := guid.Parse(guidBytes)
	if err != nil {
		return Task{}, err
	}
	dataOffset, err := c.U32LE()
	if err != nil {
		return Task{}, err
	}

	return Task{ID: id, MessageID: messageID, GUID: g, DataOffset: dataOffset}, nil
}

const (
	channelHeaderSize = 12
	channelRecordSize = 16
	eventHeaderSize   = 16
	eventRecordSize   = 48
	keywordHeaderSize = 12
	keywordRecordSize = 16
	levelHeaderSize   = 12
	levelRecordSize   = 12
	opcodeHeaderSize  = 12
	opcodeRecordSize  = 12
	taskHeaderSize    = 12
	taskRecordSize    = 28
)

func parseChannels(span *bytespan.Span, offset int) ([]Channel, error) {
	return parseFixedSection(span, offset, "CHAN", channelHeaderSize, channelRecordSize, readChannel)
}

func parseEvents(span *bytespan.Span, offset int) ([]Event, error) {
	return parseFixedSection(span, offset, "EVNT", eventHeaderSize, eventRecordSize, readEvent)
}

func parseKeywords(span *bytespan.Span, offset int) ([]Keyword, error) {
	return parseFixedSection(span, offset, "KEYW", keywordHeaderSize, keywordRecordSize, readKeyword)
}

func parseLevels(span *bytespan.Span, offset int) ([]Level, error) {
	return parseFixedSection(span, offset, "LEVL", levelHeaderSize, levelRecordSize, readLevel)
}

func parseOpcodes(span *bytespan.Span, offset int) ([]Opcode, error) {
	return parseFixedSection(span, offset, "OPCO", opcodeHeaderSize, opcodeRecordSize, readOpcode)
}

func parseTasks(span *bytespan.Span, offset int) ([]Task, error) {
	return parseFixedSection(span, offset, "TASK", taskHeaderSize, taskRecordSize, readTask)
}
