package manifest

import (
	"fmt"

	"github.com/libyal/libfwevt-sub000/bytespan"
	"github.com/libyal/libfwevt-sub000/errs"
	"github.com/libyal/libfwevt-sub000/guid"
)

const (
	providerHeaderSize = 20
	descriptorSlotSize = 8
)

// section tags, compared big-endian so their ASCII letters read left to
// right (see bytespan.Span.U32BE).
const (
	tagChannels  uint32 = 0x4348414E // "CHAN"
	tagEvents    uint32 = 0x45564E54 // "EVNT"
	tagKeywords  uint32 = 0x4B455957 // "KEYW"
	tagLevels    uint32 = 0x4C45564C // "LEVL"
	tagMaps      uint32 = 0x4D415053 // "MAPS"
	tagOpcodes   uint32 = 0x4F50434F // "OPCO"
	tagTasks     uint32 = 0x5441534B // "TASK"
	tagTemplates uint32 = 0x5454424C // "TTBL"
)

// Provider is one provider's worth of event metadata: a GUID and the eight
// ordered sections reachable from its descriptor table.
type Provider struct {
	GUID guid.GUID

	Channels  []Channel
	Events    []Event
	Keywords  []Keyword
	Levels    []Level
	Maps      []Map
	Opcodes   []Opcode
	Tasks     []Task
	Templates []Template

	channelsOffset  uint32
	eventsOffset    uint32
	keywordsOffset  uint32
	levelsOffset    uint32
	mapsOffset      uint32
	opcodesOffset   uint32
	tasksOffset     uint32
	templatesOffset uint32
}

// TemplateByOffset returns the template whose Offset equals offset, or
// false if none matches. Lookup is a linear scan, matching the read-mostly,
// small-n shape of a provider's template set.
func (p *Provider) TemplateByOffset(offset int) (Template, bool) {
	for _, t := range p.Templates {
		if t.Offset == offset {
			return t, true
		}
	}

	return Template{}, false
}

// EventByIdentifier returns the event whose Identifier equals id, or false
// if none matches.
func (p *Provider) EventByIdentifier(id uint16) (Event, bool) {
	for _, e := range p.Events {
		if e.Identifier == id {
			return e, true
		}
	}

	return Event{}, false
}

// parseProvider reads a provider record at offset: a 20-byte header, its
// descriptor table, then each section reachable from a non-zero recorded
// offset.
func parseProvider(span *bytespan.Span, offset int) (Provider, error) {
	c := bytespan.NewCursor(span)
	c.Seek(offset)

	if err := c.RequireSignature("WEVT"); err != nil {
		return Provider{}, err
	}
	if _, err := c.U32LE(); err != nil { // size
		return Provider{}, err
	}
	if _, err := c.U32LE(); err != nil { // message id
		return Provider{}, err
	}
	nDescriptors, err := c.U32LE()
	if err != nil {
		return Provider{}, err
	}
	nUnknown2, err := c.U32LE()
	if err != nil {
		return Provider{}, err
	}

	if nDescriptors > (1<<32-1)/descriptorSlotSize {
		return Provider{}, fmt.Errorf("%w: descriptor count %d overflows", errs.ErrValueOutOfBounds, nDescriptors)
	}
	descriptorTableSize := int(nDescriptors) * descriptorSlotSize
	if c.Remaining() < descriptorTableSize {
		return Provider{}, fmt.Errorf("%w: descriptor table of %d bytes exceeds remaining %d",
			errs.ErrValueOutOfBounds, descriptorTableSize, c.Remaining())
	}

	var p Provider
	for i := uint32(0); i < nDescriptors; i++ {
		sectionOffset, err := c.U32LE()
		if err != nil {
			return Provider{}, err
		}
		if _, err := c.U32LE(); err != nil { // unknown1
			return Provider{}, err
		}

		if int64(sectionOffset)+4 > int64(span.Len()) {
			return Provider{}, fmt.Errorf("%w: descriptor %d section offset %d in a %d-byte buffer",
				errs.ErrValueOutOfBounds, i, sectionOffset, span.Len())
		}
		tag, err := span.U32BE(int(sectionOffset))
		if err != nil {
			return Provider{}, err
		}

		switch tag {
		case tagChannels:
			p.channelsOffset = sectionOffset
		case tagEvents:
			p.eventsOffset = sectionOffset
		case tagKeywords:
			p.keywordsOffset = sectionOffset
		case tagLevels:
			p.levelsOffset = sectionOffset
		case tagMaps:
			p.mapsOffset = sectionOffset
		case tagOpcodes:
			p.opcodesOffset = sectionOffset
		case tagTasks:
			p.tasksOffset = sectionOffset
		case tagTemplates:
			p.templatesOffset = sectionOffset
		default:
			// Unknown descriptor tags are a forward-compatibility hatch and
			// are ignored, not rejected.
		}
	}

	skipBytes := int(nUnknown2) * 4
	if err := c.Skip(skipBytes); err != nil {
		return Provider{}, err
	}

	if err := p.readSections(span); err != nil {
		return Provider{}, err
	}

	return p, nil
}

// readSections dispatches to each section subparser in the fixed order
// channels -> events -> keywords -> levels -> maps -> opcodes -> tasks ->
// templates, for every section whose offset was recorded as non-zero.
func (p *Provider) readSections(span *bytespan.Span) error {
	if p.channelsOffset != 0 {
		channels, err := parseChannels(span, int(p.channelsOffset))
		if err != nil {
			return err
		}
		for _, ch := range channels {
			if err := validateDataOffset(span, ch.NameOffset); err != nil {
				return err
			}
		}
		p.Channels = channels
	}

	if p.eventsOffset != 0 {
		events, err := parseEvents(span, int(p.eventsOffset))
		if err != nil {
			return err
		}
		p.Events = events
	}

	if p.keywordsOffset != 0 {
		keywords, err := parseKeywords(span, int(p.keywordsOffset))
		if err != nil {
			return err
		}
		for _, kw := range keywords {
			if err := validateDataOffset(span, kw.DataOffset); err != nil {
				return err
			}
		}
		p.Keywords = keywords
	}

	if p.levelsOffset != 0 {
		levels, err := parseLevels(span, int(p.levelsOffset))
		if err != nil {
			return err
		}
		for _, lvl := range levels {
			if err := validateDataOffset(span, lvl.DataOffset); err != nil {
				return err
			}
		}
		p.Levels = levels
	}

	if p.mapsOffset != 0 {
		maps, err := parseMaps(span, int(p.mapsOffset))
		if err != nil {
			return err
		}
		p.Maps = maps
	}

	if p.opcodesOffset != 0 {
		opcodes, err := parseOpcodes(span, int(p.opcodesOffset))
		if err != nil {
			return err
		}
		for _, op := range opcodes {
			if err := validateDataOffset(span, op.DataOffset); err != nil {
				return err
			}
		}
		p.Opcodes = opcodes
	}

	if p.tasksOffset != 0 {
		tasks, err := parseTasks(span, int(p.tasksOffset))
		if err != nil {
			return err
		}
		for _, tk := range tasks {
			if err := validateDataOffset(span, tk.DataOffset); err != nil {
				return err
			}
		}
		p.Tasks = tasks
	}

	if p.templatesOffset != 0 {
		templates, err := parseTemplates(span, int(p.templatesOffset))
		if err != nil {
			return err
		}
		p.Templates = templates
	}

	return nil
}
