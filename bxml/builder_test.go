package bxml

import "unicode/utf16"

// Builders assembling binary-XML streams byte by byte for the evaluator
// tests. All builders use the layout without data offsets or dependency
// identifiers unless a test constructs records by hand.

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

// buildTestName builds a name record: zero hash, character count, UTF-16LE
// characters, NUL terminator.
func buildTestName(name string) []byte {
	chars := utf16leBytes(name)
	b := append([]byte{0, 0}, u16le(uint16(len(chars)/2))...)
	b = append(b, chars...)

	return append(b, 0, 0)
}

// buildValueToken builds a Value token holding a UTF-16 string.
func buildValueToken(s string) []byte {
	chars := utf16leBytes(s)
	b := append([]byte{0x05, 0x01}, u16le(uint16(len(chars)/2))...)

	return append(b, chars...)
}

// buildSubst builds a normal or optional substitution token.
func buildSubst(normal bool, index uint16, valueType byte) []byte {
	tok := byte(0x0E)
	if normal {
		tok = 0x0D
	}
	b := append([]byte{tok}, u16le(index)...)

	return append(b, valueType)
}

// buildAttr builds an attribute: name plus its value or substitution token.
func buildAttr(name string, valueToken []byte) []byte {
	b := append([]byte{0x06}, buildTestName(name)...)

	return append(b, valueToken...)
}

// buildElem builds an element. content nil means an empty element closed
// with CloseEmptyElementTag; otherwise content tokens are framed between
// CloseStartElementTag and EndElementTag.
func buildElem(name string, attrs [][]byte, content []byte) []byte {
	nm := buildTestName(name)

	tok := byte(0x01)
	var attrBlock []byte
	if len(attrs) > 0 {
		tok = 0x41
		var ab []byte
		for _, a := range attrs {
			ab = append(ab, a...)
		}
		attrBlock = append(u32le(uint32(len(ab))), ab...)
	}

	var body []byte
	if content == nil {
		body = []byte{0x03}
	} else {
		body = append([]byte{0x02}, content...)
		body = append(body, 0x04)
	}

	size := len(nm) + len(attrBlock) + len(body)
	out := append([]byte{tok}, u32le(uint32(size))...)
	out = append(out, nm...)
	out = append(out, attrBlock...)

	return append(out, body...)
}

// buildEntityRef builds an entity reference token.
func buildEntityRef(name string) []byte {
	return append([]byte{0x09}, buildTestName(name)...)
}

// buildFragment wraps inner tokens in a fragment header.
func buildFragment(inner []byte) []byte {
	return append([]byte{0x0F, 0x01, 0x01, 0x00}, inner...)
}

// buildDoc terminates fragments with an end-of-file token plus trailing
// padding. The padding keeps the final element's size heuristic from
// misreading the size field position when the element sits at the very end
// of the buffer, the same slack an element inside a larger chunk would
// naturally have.
func buildDoc(fragments ...[]byte) []byte {
	var out []byte
	for _, f := range fragments {
		out = append(out, f...)
	}
	out = append(out, 0x00)

	return append(out, 0, 0, 0, 0)
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}

	return out
}
