package manifest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/libyal/libfwevt-sub000/errs"
	"github.com/libyal/libfwevt-sub000/guid"
)

// On-disk (mixed-endian) GUID bytes; they decode to
// 06a2ea53-fc6c-42e5-9176-18749ab2ca13 and
// 278a1233-f665-5252-0ba7-2bca597433a8 respectively.
var (
	providerGUIDBytes = []byte{
		0x53, 0xea, 0xa2, 0x06, 0x6c, 0xfc, 0xe5, 0x42,
		0x91, 0x76, 0x18, 0x74, 0x9a, 0xb2, 0xca, 0x13,
	}
	templateGUIDBytes = []byte{
		0x33, 0x12, 0x8a, 0x27, 0x65, 0xf6, 0x52, 0x52,
		0x0b, 0xa7, 0x2b, 0xca, 0x59, 0x74, 0x33, 0xa8,
	}
)

func u16le(v uint16) []byte {
	return []byte{byte(v), byte(v >> 8)}
}

func u32le(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

func u64le(v uint64) []byte {
	return append(u32le(uint32(v)), u32le(uint32(v>>32))...)
}

// fixtureLayout records where the builder placed each region so corruption
// tests can overwrite precise spots.
type fixtureLayout struct {
	providerOffset   int
	descriptorOffset int
	templateOffset   int
}

// buildManifestFixture assembles a single-provider manifest: one event with
// identifier 1 bound to one template, and empty CHAN, KEYW, LEVL, OPCO and
// TASK sections.
func buildManifestFixture(t *testing.T) ([]byte, fixtureLayout) {
	t.Helper()

	const (
		crimSize  = 16
		entrySize = 20
		wevtSize  = 20
		nSections = 7
		descSize  = nSections * 8
	)

	providerOffset := crimSize + entrySize
	descriptorOffset := providerOffset + wevtSize
	sectionStart := descriptorOffset + descSize

	// Section payloads, laid out in descriptor order.
	template := concatBytes(
		[]byte("TEMP"), u32le(40),
		u32le(0), u32le(0), u32le(0), u32le(0),
		templateGUIDBytes,
	)

	chanOffset := sectionStart
	chanSection := concatBytes([]byte("CHAN"), u32le(12), u32le(0))

	evntOffset := chanOffset + len(chanSection)
	ttblOffset := 0 // patched below once earlier sections are sized

	keywSection := concatBytes([]byte("KEYW"), u32le(12), u32le(0))
	levlSection := concatBytes([]byte("LEVL"), u32le(12), u32le(0))
	opcoSection := concatBytes([]byte("OPCO"), u32le(12), u32le(0))
	taskSection := concatBytes([]byte("TASK"), u32le(12), u32le(0))

	evntRecord := func(templateOffset uint32) []byte {
		return concatBytes(
			u16le(1),                     // identifier
			[]byte{1, 0, 0, 0, 0, 0},     // union, version 1 in the second view
			u64le(0),                     // keywords
			u32le(0),                     // message identifier
			u32le(templateOffset),        // template offset
			u32le(0), u32le(0), u32le(0), // opcode, level, task offsets
			u32le(0), u32le(0),           // unknown
			u32le(0),                     // flags
		)
	}

	evntSection := concatBytes([]byte("EVNT"), u32le(16+48), u32le(1), u32le(0),
		evntRecord(0))

	keywOffset := evntOffset + len(evntSection)
	levlOffset := keywOffset + len(keywSection)
	opcoOffset := levlOffset + len(levlSection)
	taskOffset := opcoOffset + len(opcoSection)
	ttblOffset = taskOffset + len(taskSection)
	templateOffset := ttblOffset + 12

	// Rebuild the event record now that the template offset is known.
	evntSection = concatBytes([]byte("EVNT"), u32le(16+48), u32le(1), u32le(0),
		evntRecord(uint32(templateOffset)))

	ttblSection := concatBytes([]byte("TTBL"), u32le(uint32(12+len(template))), u32le(1), template)

	data := concatBytes(
		[]byte("CRIM"), u32le(0), u16le(1), u16le(0), u32le(1),
		providerGUIDBytes, u32le(uint32(providerOffset)),
		[]byte("WEVT"), u32le(0), u32le(0), u32le(nSections), u32le(0),
		u32le(uint32(chanOffset)), u32le(0),
		u32le(uint32(evntOffset)), u32le(0),
		u32le(uint32(keywOffset)), u32le(0),
		u32le(uint32(levlOffset)), u32le(0),
		u32le(uint32(opcoOffset)), u32le(0),
		u32le(uint32(taskOffset)), u32le(0),
		u32le(uint32(ttblOffset)), u32le(0),
		chanSection, evntSection, keywSection, levlSection,
		opcoSection, taskSection, ttblSection,
		make([]byte, 8),
	)

	// Patch the declared total size now that the layout is final.
	copy(data[4:8], u32le(uint32(len(data))))

	return data, fixtureLayout{
		providerOffset:   providerOffset,
		descriptorOffset: descriptorOffset,
		templateOffset:   templateOffset,
	}
}

func concatBytes(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}

	return out
}

func TestParse_LiteralFixture(t *testing.T) {
	m, err := Parse(manifestFixture)
	require.NoError(t, err)
	require.Len(t, m.Providers, 1)

	p := m.Providers[0]
	require.Equal(t, "06a2ea53-fc6c-42e5-9176-18749ab2ca13", p.GUID.String())

	require.Len(t, p.Events, 1)
	ev := p.Events[0]
	require.Equal(t, uint16(1), ev.Identifier)
	require.Equal(t, uint8(1), ev.Version())
	require.Equal(t, uint8(1), ev.ViewAsChannelLevelOpcodeTask().Version)
	require.Equal(t, uint32(0xB0010001), ev.MessageID)
	require.Equal(t, uint32(120), ev.TemplateOffset)
	require.Zero(t, ev.Keywords)
	require.Zero(t, ev.Flags)

	require.Len(t, p.Templates, 1)
	tmpl := p.Templates[0]
	require.Equal(t, 120, tmpl.Offset)
	require.Equal(t, uint32(324), tmpl.Size)
	require.Equal(t, "278a1233-f665-5252-0ba7-2bca597433a8", tmpl.Identifier.String())

	require.Empty(t, p.Channels)
	require.Empty(t, p.Keywords)
	require.Empty(t, p.Levels)
	require.Empty(t, p.Opcodes)
	require.Empty(t, p.Tasks)

	linked, ok := p.TemplateByOffset(int(ev.TemplateOffset))
	require.True(t, ok)
	require.True(t, linked.Identifier.Equal(tmpl.Identifier))
}

func TestParse_LiteralFixtureCorruptedSignature(t *testing.T) {
	data := append([]byte{}, manifestFixture...)
	copy(data[0:4], []byte{0xFF, 0xFF, 0xFF, 0xFF})

	m, err := Parse(data)
	require.ErrorIs(t, err, errs.ErrUnsupportedSignature)
	require.Empty(t, m.Providers)
}

func TestParse_LiteralFixtureOutOfBoundsDescriptor(t *testing.T) {
	// The descriptor table starts 20 bytes into the provider record at
	// offset 36.
	data := append([]byte{}, manifestFixture...)
	copy(data[56:60], []byte{0xFF, 0xFF, 0xFF, 0xFF})

	_, err := Parse(data)
	require.ErrorIs(t, err, errs.ErrValueOutOfBounds)
}

func TestParse_Fixture(t *testing.T) {
	data, layout := buildManifestFixture(t)

	m, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, m.Providers, 1)

	p := m.Providers[0]
	wantGUID, err := guid.Parse(providerGUIDBytes)
	require.NoError(t, err)
	require.True(t, p.GUID.Equal(wantGUID))

	require.Len(t, p.Events, 1)
	require.Equal(t, uint16(1), p.Events[0].Identifier)

	require.Len(t, p.Templates, 1)
	wantTemplateGUID, err := guid.Parse(templateGUIDBytes)
	require.NoError(t, err)
	require.True(t, p.Templates[0].Identifier.Equal(wantTemplateGUID))
	require.Equal(t, layout.templateOffset, p.Templates[0].Offset)

	require.Empty(t, p.Channels)
	require.Empty(t, p.Keywords)
	require.Empty(t, p.Levels)
	require.Empty(t, p.Opcodes)
	require.Empty(t, p.Tasks)
	require.Empty(t, m.DuplicateGUIDs())
}

func TestParse_Lookups(t *testing.T) {
	data, layout := buildManifestFixture(t)

	m, err := Parse(data)
	require.NoError(t, err)

	p := m.Providers[0]

	ev, ok := p.EventByIdentifier(1)
	require.True(t, ok)
	require.Equal(t, uint32(layout.templateOffset), ev.TemplateOffset)

	_, ok = p.EventByIdentifier(2)
	require.False(t, ok)

	tmpl, ok := p.TemplateByOffset(int(ev.TemplateOffset))
	require.True(t, ok)
	wantTemplateGUID, err := guid.Parse(templateGUIDBytes)
	require.NoError(t, err)
	require.True(t, tmpl.Identifier.Equal(wantTemplateGUID))

	byGUID, ok := m.ProviderByGUID(p.GUID)
	require.True(t, ok)
	require.True(t, byGUID.GUID.Equal(p.GUID))
}

func TestParse_Idempotent(t *testing.T) {
	first, err := Parse(manifestFixture)
	require.NoError(t, err)
	second, err := Parse(manifestFixture)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestParse_CorruptedSignature(t *testing.T) {
	data, _ := buildManifestFixture(t)
	copy(data[0:4], []byte{0xFF, 0xFF, 0xFF, 0xFF})

	m, err := Parse(data)
	require.ErrorIs(t, err, errs.ErrUnsupportedSignature)
	require.Empty(t, m.Providers)
}

func TestParse_OutOfBoundsDescriptor(t *testing.T) {
	data, layout := buildManifestFixture(t)
	copy(data[layout.descriptorOffset:layout.descriptorOffset+4], []byte{0xFF, 0xFF, 0xFF, 0xFF})

	_, err := Parse(data)
	require.ErrorIs(t, err, errs.ErrValueOutOfBounds)
}

func TestParse_CorruptedSectionSignature(t *testing.T) {
	data, layout := buildManifestFixture(t)

	// The first descriptor points at the CHAN section; overwrite that
	// section's signature. The descriptor dispatch silently skips the now
	// unknown tag, so the provider simply has no channels.
	chanOffset := int(uint32(data[layout.descriptorOffset]) |
		uint32(data[layout.descriptorOffset+1])<<8 |
		uint32(data[layout.descriptorOffset+2])<<16 |
		uint32(data[layout.descriptorOffset+3])<<24)
	copy(data[chanOffset:chanOffset+4], []byte("XXXX"))

	m, err := Parse(data)
	require.NoError(t, err)
	require.Empty(t, m.Providers[0].Channels)
}

func TestParse_TruncatedInput(t *testing.T) {
	data, _ := buildManifestFixture(t)

	_, err := Parse(data[:10])
	require.Error(t, err)

	_, err = Parse(data[:40])
	require.Error(t, err)
}

func TestParse_NilInput(t *testing.T) {
	_, err := Parse(nil)
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestParse_GUIDCollisions(t *testing.T) {
	data, layout := buildManifestFixture(t)

	// Rewrite the container for two provider entries pointing at the same
	// provider record. Both carry the same GUID, which the tracker reports
	// without failing the parse.
	entry := concatBytes(providerGUIDBytes, u32le(uint32(layout.providerOffset+20)))
	doubled := concatBytes(
		[]byte("CRIM"), u32le(0), u16le(1), u16le(0), u32le(2),
		entry, entry,
		data[layout.providerOffset:],
	)

	m, err := Parse(doubled)
	require.NoError(t, err)
	require.Len(t, m.Providers, 2)
	require.Len(t, m.DuplicateGUIDs(), 1)

	m, err = Parse(doubled, WithGUIDCollisionTracking(false))
	require.NoError(t, err)
	require.Empty(t, m.DuplicateGUIDs())
}
