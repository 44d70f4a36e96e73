package fwevt

import (
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/require"

	"github.com/libyal/libfwevt-sub000/bxml"
	"github.com/libyal/libfwevt-sub000/format"
)

func u16le(v uint16) []byte {
	return []byte{byte(v), byte(v >> 8)}
}

func u32le(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

func utf16leBytes(s string) []byte {
	units := utf16.Encode([]rune(s))
	b := make([]byte, 0, len(units)*2)
	for _, u := range units {
		b = append(b, byte(u), byte(u>>8))
	}

	return b
}

func concatBytes(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}

	return out
}

// buildTemplateManifest assembles a one-provider manifest whose single
// section is a template table holding one template with a real binary-XML
// body: an empty element named EventData, in the offset-carrying layout
// WEVT template bodies use.
func buildTemplateManifest() []byte {
	const (
		providerOffset = 36 // CRIM header + one provider entry
		ttblOffset     = providerOffset + 20 + 8
		templateOffset = ttblOffset + 12
		bodyOffset     = templateOffset + 40
	)

	// Name record: unknown word, hash, character count, UTF-16LE characters,
	// NUL terminator.
	name := concatBytes(u32le(0), u16le(0), u16le(9), utf16leBytes("EventData"), u16le(0))
	nameOffset := bodyOffset + 4 + 1 + 4 + 4

	elementSize := 4 + len(name) + 1
	element := concatBytes(
		[]byte{0x01}, u32le(uint32(elementSize)),
		u32le(uint32(nameOffset)), name,
		[]byte{0x03},
	)
	body := concatBytes([]byte{0x0F, 0x01, 0x01, 0x00}, element, []byte{0x00})

	template := concatBytes(
		[]byte("TEMP"), u32le(uint32(40+len(body))),
		u32le(0), u32le(1), u32le(0), u32le(0),
		make([]byte, 16),
		body,
	)

	data := concatBytes(
		[]byte("CRIM"), u32le(0), u16le(1), u16le(0), u32le(1),
		make([]byte, 16), u32le(providerOffset),
		[]byte("WEVT"), u32le(0), u32le(0), u32le(1), u32le(0),
		u32le(ttblOffset), u32le(0),
		[]byte("TTBL"), u32le(uint32(12+len(template))), u32le(1),
		template,
		make([]byte, 8),
	)
	copy(data[4:8], u32le(uint32(len(data))))

	return data
}

func TestParseManifest_EvaluateTemplate(t *testing.T) {
	data := buildTemplateManifest()

	m, err := ParseManifest(data)
	require.NoError(t, err)
	require.Len(t, m.Providers, 1)
	require.Len(t, m.Providers[0].Templates, 1)

	tmpl := m.Providers[0].Templates[0]
	doc, err := EvaluateTemplate(data, tmpl)
	require.NoError(t, err)
	require.NotNil(t, doc.Root)
	require.Equal(t, "EventData", doc.Root.NameString())
	require.Equal(t, "<EventData/>", string(doc.UTF8XML()))
}

func buildSimpleDocument() []byte {
	name := concatBytes(u16le(0), u16le(4), utf16leBytes("Data"), u16le(0))
	value := concatBytes([]byte{0x05, 0x01}, u16le(2), utf16leBytes("hi"))
	elementSize := len(name) + 1 + len(value) + 1
	element := concatBytes(
		[]byte{0x01}, u32le(uint32(elementSize)),
		name,
		[]byte{0x02}, value, []byte{0x04},
	)

	return concatBytes([]byte{0x0F, 0x01, 0x01, 0x00}, element, []byte{0x00}, make([]byte, 4))
}

func TestReadXMLDocument(t *testing.T) {
	doc, err := ReadXMLDocument(buildSimpleDocument(), 0, 0)
	require.NoError(t, err)
	require.Equal(t, "Data", doc.Root.NameString())
	require.Equal(t, "<Data>hi</Data>", string(doc.UTF8XML()))

	utf16XML := doc.UTF16XML()
	require.Len(t, utf16XML, len("<Data>hi</Data>"))
}

func TestReadXMLDocumentWithTemplateValues(t *testing.T) {
	name := concatBytes(u16le(0), u16le(4), utf16leBytes("Data"), u16le(0))
	subst := concatBytes([]byte{0x0D}, u16le(0), []byte{0x01})
	elementSize := len(name) + 1 + len(subst) + 1
	element := concatBytes(
		[]byte{0x01}, u32le(uint32(elementSize)),
		name,
		[]byte{0x02}, subst, []byte{0x04},
	)
	stream := concatBytes([]byte{0x0F, 0x01, 0x01, 0x00}, element)

	valueData := utf16leBytes("filled")
	data := concatBytes(stream, valueData)

	values := []bxml.TemplateValue{{
		Offset: len(stream),
		Size:   len(valueData),
		Type:   format.ValueStringUtf16,
	}}

	doc, err := ReadXMLDocumentWithTemplateValues(data, 0, 0, values)
	require.NoError(t, err)
	require.Equal(t, "filled", doc.Root.ValueString())
}
