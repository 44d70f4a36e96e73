package bxml

import (
	"fmt"

	"github.com/libyal/libfwevt-sub000/bytespan"
	"github.com/libyal/libfwevt-sub000/errs"
	"github.com/libyal/libfwevt-sub000/format"
)

// Recursion bounds. Element nesting and template-instance nesting are
// independent axes; the array bound caps how many times a single element or
// attribute block may repeat while draining an array-typed template value.
const (
	// ElementRecursionDepth bounds element nesting.
	ElementRecursionDepth = 500

	// TemplateInstanceRecursionDepth bounds template-instance nesting.
	TemplateInstanceRecursionDepth = 10

	// TemplateValueArrayRecursionDepth bounds per-call template-value-array
	// expansion loops.
	TemplateValueArrayRecursionDepth = 256
)

// evaluator walks a tokenized binary-XML stream and builds the Tag tree.
// One evaluator serves one Read call; it holds no state beyond the
// configuration and the document under construction, and both recursion
// depths travel as explicit arguments.
type evaluator struct {
	span  *bytespan.Span
	flags format.EvaluatorFlag
	doc   *Document

	// codepage is the fallback for byte-stream string values. Rendering
	// currently decodes them through the Latin-1 repertoire, which all the
	// observed fallback codepages agree on for the range that appears in
	// event names and paths; the configured value is kept so the contract
	// matches the on-disk format's expectations.
	codepage int

	maxElementDepth          int
	maxTemplateInstanceDepth int
	maxValueArrayDepth       int
}

// readDocument is the top-level token loop: only FragmentHeader and
// EndOfFile may appear here. It returns the total number of bytes consumed.
func (e *evaluator) readDocument(offset int) (int, error) {
	pos := offset
	for pos < e.span.Len() {
		tok, err := ReadToken(e.span, pos)
		if err != nil {
			return 0, err
		}

		switch tok.Type() {
		case format.TokenEndOfFile:
			pos++
			return pos - offset, nil

		case format.TokenFragmentHeader:
			n, err := e.readFragment(pos, nil, nil, 0, 0)
			if err != nil {
				return 0, err
			}
			pos += n

		default:
			return 0, fmt.Errorf("%w: token %s at document level", errs.ErrUnsupportedToken, tok.Type())
		}
	}

	return pos - offset, nil
}

// readFragment reads a 4-byte fragment header followed by either an element
// or a template instance.
func (e *evaluator) readFragment(pos int, values []TemplateValue, parent *Tag, elemDepth, tmplDepth int) (int, error) {
	n, err := e.readFragmentHeader(pos)
	if err != nil {
		return 0, err
	}

	tok, err := ReadToken(e.span, pos+n)
	if err != nil {
		return 0, err
	}

	var m int
	switch tok.Type() {
	case format.TokenOpenStartElementTag:
		m, err = e.readElement(pos+n, tok, values, parent, elemDepth+1, tmplDepth)
	case format.TokenTemplateInstance:
		m, err = e.readTemplateInstance(pos+n, parent, elemDepth, tmplDepth+1)
	default:
		return 0, fmt.Errorf("%w: token %s after fragment header", errs.ErrUnsupportedToken, tok.Type())
	}
	if err != nil {
		return 0, err
	}

	return n + m, nil
}

// readFragmentHeader validates the 4-byte fragment header {type, major,
// minor, flags}. The version and flag bytes are not interpreted.
func (e *evaluator) readFragmentHeader(pos int) (int, error) {
	if _, err := e.span.Slice(pos, 4); err != nil {
		return 0, err
	}

	return 4, nil
}

// readElement reads an element token at pos. The element repeats while an
// array-typed template value substituted inside it still has unconsumed
// entries; each pass re-walks the same bytes and appends a fresh tag.
func (e *evaluator) readElement(pos int, tok Token, values []TemplateValue, parent *Tag, elemDepth, tmplDepth int) (int, error) {
	if elemDepth > e.maxElementDepth {
		return 0, fmt.Errorf("%w: element nesting deeper than %d", errs.ErrRecursionLimitExceeded, e.maxElementDepth)
	}

	dataSize := e.span.Len() - pos
	tvOffset := 0
	consumed := 0

	for iter := 0; ; iter++ {
		if iter > e.maxValueArrayDepth {
			return 0, fmt.Errorf("%w: template value array expanded more than %d times", errs.ErrRecursionLimitExceeded, e.maxValueArrayDepth)
		}

		tag := &Tag{Kind: KindElement}

		// The dependency identifier between the type byte and the size field
		// is optional; its presence is detected by reading the size at both
		// candidate positions and keeping the layout whose size fits the
		// remaining buffer.
		sizeOffset := 1
		elementSize32, err := e.span.U32LE(pos + sizeOffset)
		if err != nil {
			return 0, err
		}
		if dataSize > 7 && int(elementSize32) > dataSize-7 {
			sizeOffset = 3
			elementSize32, err = e.span.U32LE(pos + sizeOffset)
			if err != nil {
				return 0, err
			}
		}
		elementSize := int(elementSize32)

		// The type byte, optional dependency id, and size field are not
		// counted by the declared element size.
		cur := pos + sizeOffset + 4

		var nameOffset int
		if e.flags.Has(format.FlagHasDataOffsets) {
			no, err := e.span.U32LE(cur)
			if err != nil {
				return 0, err
			}
			nameOffset = int(no)
			cur += 4
			elementSize -= 4
		} else {
			nameOffset = cur
		}
		if nameOffset > cur {
			return 0, fmt.Errorf("%w: element name offset %d ahead of cursor %d", errs.ErrValueOutOfBounds, nameOffset, cur)
		}

		name, nameSize, err := e.readName(nameOffset)
		if err != nil {
			return 0, err
		}
		tag.Name = name
		if nameOffset == cur {
			cur += nameSize
			elementSize -= nameSize
		}

		if tok.HasMoreData() {
			als, err := e.span.U32LE(cur)
			if err != nil {
				return 0, err
			}
			cur += 4
			elementSize -= 4

			attrListSize := int(als)
			if attrListSize > e.span.Len()-cur {
				return 0, fmt.Errorf("%w: attribute list of %d bytes exceeds remaining buffer", errs.ErrValueOutOfBounds, attrListSize)
			}
			for attrListSize > 0 {
				atok, err := ReadToken(e.span, cur)
				if err != nil {
					return 0, err
				}
				if atok.Type() != format.TokenAttribute {
					return 0, fmt.Errorf("%w: token %s in attribute list", errs.ErrUnsupportedToken, atok.Type())
				}

				n, err := e.readAttribute(cur, values, tag, elemDepth, tmplDepth)
				if err != nil {
					return 0, err
				}
				cur += n
				elementSize -= n
				if attrListSize < n {
					return 0, fmt.Errorf("%w: attribute overruns its list by %d bytes", errs.ErrValueOutOfBounds, n-attrListSize)
				}
				attrListSize -= n
			}
		}

		ctok, err := ReadToken(e.span, cur)
		if err != nil {
			return 0, err
		}
		closeType := ctok.Type()
		if closeType != format.TokenCloseStartElementTag && closeType != format.TokenCloseEmptyElementTag {
			return 0, fmt.Errorf("%w: token %s where element close was expected", errs.ErrUnsupportedToken, closeType)
		}
		cur++
		elementSize--

		if elementSize < 0 {
			return 0, fmt.Errorf("%w: element size smaller than its own name and attribute data", errs.ErrValueOutOfBounds)
		}

		keep := true

		if closeType == format.TokenCloseStartElementTag {
			for elementSize > 0 {
				stok, err := ReadToken(e.span, cur)
				if err != nil {
					return 0, err
				}

				var n int
				done := false

				switch stok.Type() {
				case format.TokenOpenStartElementTag:
					n, err = e.readElement(cur, stok, values, tag, elemDepth+1, tmplDepth)

				case format.TokenCloseEmptyElementTag, format.TokenEndElementTag:
					n = 1
					done = true

				case format.TokenCDataSection:
					if tvOffset != 0 {
						return 0, fmt.Errorf("%w: CDATA inside array expansion", errs.ErrValueOutOfBounds)
					}
					n, err = e.readCDataSection(cur, tag)

				case format.TokenPITarget:
					if tvOffset != 0 {
						return 0, fmt.Errorf("%w: PI inside array expansion", errs.ErrValueOutOfBounds)
					}
					n, err = e.readPI(cur, tag)

				case format.TokenCharacterReference:
					if tvOffset != 0 {
						return 0, fmt.Errorf("%w: character reference inside array expansion", errs.ErrValueOutOfBounds)
					}
					n, err = e.readCharacterReference(cur, tag)

				case format.TokenEntityReference:
					if tvOffset != 0 {
						return 0, fmt.Errorf("%w: entity reference inside array expansion", errs.ErrValueOutOfBounds)
					}
					n, err = e.readEntityReference(cur, tag)

				case format.TokenValue:
					if tvOffset != 0 {
						return 0, fmt.Errorf("%w: value token inside array expansion", errs.ErrValueOutOfBounds)
					}
					n, err = e.readValueToken(cur, tag)

				case format.TokenNormalSubstitution:
					n, _, err = e.readSubstitution(cur, true, values, &tvOffset, tag, elemDepth, tmplDepth)

				case format.TokenOptionalSubstitution:
					var bound bool
					n, bound, err = e.readSubstitution(cur, false, values, &tvOffset, tag, elemDepth, tmplDepth)
					if err == nil && !bound {
						keep = false
					}

				default:
					return 0, fmt.Errorf("%w: token %s inside element", errs.ErrUnsupportedToken, stok.Type())
				}
				if err != nil {
					return 0, err
				}

				cur += n
				if elementSize < n {
					return 0, fmt.Errorf("%w: element content overruns declared size by %d bytes", errs.ErrValueOutOfBounds, n-elementSize)
				}
				elementSize -= n

				if done {
					break
				}
			}
		}

		if elementSize > 0 {
			return 0, fmt.Errorf("%w: element ended with %d declared bytes unread", errs.ErrValueOutOfBounds, elementSize)
		}

		consumed = cur - pos

		if keep {
			switch {
			case parent != nil:
				parent.Children = append(parent.Children, tag)
			case e.doc.Root == nil:
				e.doc.Root = tag
			}
		}

		if tvOffset == 0 {
			break
		}
	}

	return consumed, nil
}

// readAttribute reads one attribute: a name followed by exactly one value
// or substitution. When the substitution consumed one element of an
// array-typed template value and entries remain, the next attribute block
// in the stream is read for the following element.
func (e *evaluator) readAttribute(pos int, values []TemplateValue, tag *Tag, elemDepth, tmplDepth int) (int, error) {
	cur := pos
	tvOffset := 0

	for iter := 0; ; iter++ {
		if iter > e.maxValueArrayDepth {
			return 0, fmt.Errorf("%w: template value array expanded more than %d times", errs.ErrRecursionLimitExceeded, e.maxValueArrayDepth)
		}

		cur++ // attribute token byte

		var nameOffset int
		if e.flags.Has(format.FlagHasDataOffsets) {
			no, err := e.span.U32LE(cur)
			if err != nil {
				return 0, err
			}
			nameOffset = int(no)
			cur += 4
		} else {
			nameOffset = cur
		}
		if nameOffset > cur {
			return 0, fmt.Errorf("%w: attribute name offset %d ahead of cursor %d", errs.ErrValueOutOfBounds, nameOffset, cur)
		}

		attr := &Tag{Kind: KindElement}
		name, nameSize, err := e.readName(nameOffset)
		if err != nil {
			return 0, err
		}
		attr.Name = name
		if nameOffset == cur {
			cur += nameSize
		}

		stok, err := ReadToken(e.span, cur)
		if err != nil {
			return 0, err
		}

		var n int
		keep := true

		switch stok.Type() {
		case format.TokenValue:
			if tvOffset != 0 {
				return 0, fmt.Errorf("%w: value token inside array expansion", errs.ErrValueOutOfBounds)
			}
			n, err = e.readValueToken(cur, attr)

		case format.TokenNormalSubstitution:
			n, _, err = e.readSubstitution(cur, true, values, &tvOffset, attr, elemDepth, tmplDepth)

		case format.TokenOptionalSubstitution:
			var bound bool
			n, bound, err = e.readSubstitution(cur, false, values, &tvOffset, attr, elemDepth, tmplDepth)
			if err == nil && !bound {
				keep = false
			}

		default:
			return 0, fmt.Errorf("%w: token %s as attribute value", errs.ErrUnsupportedToken, stok.Type())
		}
		if err != nil {
			return 0, err
		}
		cur += n

		if keep {
			tag.Attributes = append(tag.Attributes, attr)
		}

		if tvOffset == 0 {
			break
		}
	}

	return cur - pos, nil
}

// readValueToken reads a Value token: {type, value type, n_chars} plus the
// character payload. UTF-16 strings are the only value type that appears in
// Value tokens; every other type enters the tree via substitution.
func (e *evaluator) readValueToken(pos int, tag *Tag) (int, error) {
	vt, err := e.span.U8(pos + 1)
	if err != nil {
		return 0, err
	}
	if format.ValueType(vt) != format.ValueStringUtf16 {
		return 0, fmt.Errorf("%w: value token of type 0x%02x", errs.ErrUnsupportedValueType, vt)
	}

	nChars, err := e.span.U16LE(pos + 2)
	if err != nil {
		return 0, err
	}

	data, err := e.span.Slice(pos+4, int(nChars)*2)
	if err != nil {
		return 0, err
	}
	tag.Values = append(tag.Values, Value{
		Type:     format.ValueStringUtf16,
		Encoding: EncodingUTF16LE,
		Data:     data,
	})

	return 4 + int(nChars)*2, nil
}

// readCDataSection reads a CDATA section: {type, n_chars} plus UTF-16LE
// characters. The owning tag becomes a CDATA node carrying the text.
func (e *evaluator) readCDataSection(pos int, tag *Tag) (int, error) {
	nChars, err := e.span.U16LE(pos + 1)
	if err != nil {
		return 0, err
	}

	data, err := e.span.Slice(pos+3, int(nChars)*2)
	if err != nil {
		return 0, err
	}
	tag.Kind = KindCData
	tag.Values = append(tag.Values, Value{
		Type:     format.ValueStringUtf16,
		Encoding: EncodingUTF16LE,
		Data:     data,
	})

	return 3 + int(nChars)*2, nil
}

// readCharacterReference reads a 16-bit character reference and stores it
// as the literal text "&#<hex>;".
func (e *evaluator) readCharacterReference(pos int, tag *Tag) (int, error) {
	codepoint, err := e.span.U16LE(pos + 1)
	if err != nil {
		return 0, err
	}

	text := fmt.Sprintf("&#%x;", codepoint)
	tag.Values = append(tag.Values, Value{
		Type:     format.ValueStringUtf16,
		Encoding: EncodingUTF16LE,
		Data:     encodeUTF16LE(text),
	})

	return 3, nil
}

// readEntityReference resolves an entity reference against the fixed table
// of the five predefined XML entities and appends the replacement text to
// the owning tag's values. Unknown entity names are fatal.
func (e *evaluator) readEntityReference(pos int, tag *Tag) (int, error) {
	cur := pos + 1

	var nameOffset int
	if e.flags.Has(format.FlagHasDataOffsets) {
		no, err := e.span.U32LE(cur)
		if err != nil {
			return 0, err
		}
		nameOffset = int(no)
		cur += 4
	} else {
		nameOffset = cur
	}
	if nameOffset > cur {
		return 0, fmt.Errorf("%w: entity name offset %d ahead of cursor %d", errs.ErrValueOutOfBounds, nameOffset, cur)
	}

	name, nameSize, err := e.readName(nameOffset)
	if err != nil {
		return 0, err
	}
	if nameOffset == cur {
		cur += nameSize
	}

	replacement, ok := resolveEntity(decodeUTF16LE(name))
	if !ok {
		return 0, fmt.Errorf("%w: entity %q", errs.ErrUnsupportedEntity, decodeUTF16LE(name))
	}

	tag.Values = append(tag.Values, Value{
		Type:     format.ValueStringUtf16,
		Encoding: EncodingUTF16LE,
		Data:     encodeUTF16LE(replacement),
	})

	return cur - pos, nil
}

// readPI reads a processing instruction: a PITarget token carrying the
// instruction name, then a PIData token carrying the instruction text. The
// PI node is appended to parent.
func (e *evaluator) readPI(pos int, parent *Tag) (int, error) {
	cur := pos + 1

	var nameOffset int
	if e.flags.Has(format.FlagHasDataOffsets) {
		no, err := e.span.U32LE(cur)
		if err != nil {
			return 0, err
		}
		nameOffset = int(no)
		cur += 4
	} else {
		nameOffset = cur
	}
	if nameOffset > cur {
		return 0, fmt.Errorf("%w: PI name offset %d ahead of cursor %d", errs.ErrValueOutOfBounds, nameOffset, cur)
	}

	pi := &Tag{Kind: KindPI}
	name, nameSize, err := e.readName(nameOffset)
	if err != nil {
		return 0, err
	}
	pi.Name = name
	if nameOffset == cur {
		cur += nameSize
	}

	dtok, err := ReadToken(e.span, cur)
	if err != nil {
		return 0, err
	}
	if dtok.Type() != format.TokenPIData {
		return 0, fmt.Errorf("%w: token %s where PI data was expected", errs.ErrUnsupportedToken, dtok.Type())
	}

	nChars, err := e.span.U16LE(cur + 1)
	if err != nil {
		return 0, err
	}
	data, err := e.span.Slice(cur+3, int(nChars)*2)
	if err != nil {
		return 0, err
	}
	pi.Values = append(pi.Values, Value{
		Type:     format.ValueStringUtf16,
		Encoding: EncodingUTF16LE,
		Data:     data,
	})
	cur += 3 + int(nChars)*2

	parent.Children = append(parent.Children, pi)

	return cur - pos, nil
}

// readSubstitution reads a 4-byte substitution token {type, value index,
// value type} and binds the referenced template value into tag. The
// returned bound flag is false only for an optional substitution whose
// template value is Null; the caller then discards the surrounding tag.
func (e *evaluator) readSubstitution(pos int, normal bool, values []TemplateValue, tvOffset *int, tag *Tag, elemDepth, tmplDepth int) (int, bool, error) {
	index, err := e.span.U16LE(pos + 1)
	if err != nil {
		return 0, false, err
	}
	declaredType, err := e.span.U8(pos + 3)
	if err != nil {
		return 0, false, err
	}

	bound, err := e.substituteTemplateValue(values, int(index), format.ValueType(declaredType), normal, tvOffset, tag, elemDepth, tmplDepth)
	if err != nil {
		return 0, false, err
	}

	return 4, bound, nil
}

// substituteTemplateValue binds template value [index] into tag.
//
// The declared type from the substitution token is advisory only; the value
// array's own type wins, mirroring how records in the wild disagree between
// the two. A Null value binds an empty value under a normal substitution
// and nothing at all under an optional one. A BinaryXml value re-enters the
// evaluator on the value's bytes. An array-flagged value consumes one
// element per pass (strings: all remaining entries at once) and tracks its
// progress through tvOffset.
func (e *evaluator) substituteTemplateValue(values []TemplateValue, index int, declaredType format.ValueType, normal bool, tvOffset *int, tag *Tag, elemDepth, tmplDepth int) (bool, error) {
	_ = declaredType

	if index < 0 || index >= len(values) {
		return false, fmt.Errorf("%w: template value index %d of %d", errs.ErrValueOutOfBounds, index, len(values))
	}
	tv := values[index]

	if tv.Type == format.ValueNull {
		*tvOffset = 0
		if !normal {
			return false, nil
		}
		tag.Flags |= FlagIsTemplateDefinition
		tag.Values = append(tag.Values, Value{Type: format.ValueNull})

		return true, nil
	}
	if !tv.Type.Valid() {
		return false, fmt.Errorf("%w: template value type 0x%02x", errs.ErrUnsupportedValueType, uint8(tv.Type))
	}

	if tv.Type == format.ValueBinaryXml {
		if err := e.substituteBinaryXml(tv, values, tag, elemDepth, tmplDepth); err != nil {
			return false, err
		}
		tag.Flags |= FlagIsTemplateDefinition

		return true, nil
	}

	base := tv.Type.BaseType()
	fixed := fixedValueSize(base)
	enc := valueEncoding(base)

	if base == format.ValueSize && tv.Size != 4 && tv.Size != 8 {
		return false, fmt.Errorf("%w: size value of %d bytes", errs.ErrUnsupportedValueType, tv.Size)
	}

	if tv.Type.IsArray() {
		off := *tvOffset
		if tv.Size > 0 {
			if off >= tv.Size {
				return false, fmt.Errorf("%w: template value offset %d beyond value of %d bytes", errs.ErrValueOutOfBounds, off, tv.Size)
			}
			remaining := tv.Size - off

			if base == format.ValueStringUtf16 || base == format.ValueStringByteStream {
				if base == format.ValueStringUtf16 && remaining%2 != 0 {
					return false, fmt.Errorf("%w: odd UTF-16 string array of %d bytes", errs.ErrValueOutOfBounds, remaining)
				}
				data, err := e.span.Slice(tv.Offset+off, remaining)
				if err != nil {
					return false, err
				}
				appendStringArrayValues(tag, data, base, enc)
				off += remaining
			} else {
				if fixed > remaining {
					return false, fmt.Errorf("%w: array element of %d bytes with %d remaining", errs.ErrValueOutOfBounds, fixed, remaining)
				}
				data, err := e.span.Slice(tv.Offset+off, fixed)
				if err != nil {
					return false, err
				}
				tag.Values = append(tag.Values, Value{Type: base, Encoding: enc, Data: data})
				off += fixed
			}
		}
		if off == tv.Size {
			off = 0
		}
		*tvOffset = off
	} else {
		if fixed != 0 && fixed != tv.Size {
			return false, fmt.Errorf("%w: value of %d bytes where type 0x%02x needs %d", errs.ErrValueOutOfBounds, tv.Size, uint8(base), fixed)
		}
		if base == format.ValueStringUtf16 && tv.Size%2 != 0 {
			return false, fmt.Errorf("%w: odd UTF-16 string of %d bytes", errs.ErrValueOutOfBounds, tv.Size)
		}
		if tv.Size > 0 {
			data, err := e.span.Slice(tv.Offset, tv.Size)
			if err != nil {
				return false, err
			}
			tag.Values = append(tag.Values, Value{Type: base, Encoding: enc, Data: data})
		}
	}

	tag.Flags |= FlagIsTemplateDefinition

	return true, nil
}

// substituteBinaryXml recursively evaluates a BinaryXml template value's
// bytes, inheriting both depth counters.
func (e *evaluator) substituteBinaryXml(tv TemplateValue, values []TemplateValue, tag *Tag, elemDepth, tmplDepth int) error {
	tok, err := ReadToken(e.span, tv.Offset)
	if err != nil {
		return err
	}

	switch tok.Type() {
	case format.TokenOpenStartElementTag:
		_, err = e.readElement(tv.Offset, tok, values, tag, elemDepth+1, tmplDepth)
	case format.TokenFragmentHeader:
		_, err = e.readFragment(tv.Offset, nil, tag, elemDepth, tmplDepth)
	case format.TokenTemplateInstance:
		_, err = e.readTemplateInstance(tv.Offset, tag, elemDepth, tmplDepth+1)
	default:
		return fmt.Errorf("%w: token %s at start of nested binary XML", errs.ErrUnsupportedToken, tok.Type())
	}

	return err
}

// appendStringArrayValues splits NUL-separated string array data into
// individual value entries. A missing final terminator is tolerated; the
// trailing run still becomes an entry.
func appendStringArrayValues(tag *Tag, data []byte, base format.ValueType, enc ValueEncoding) {
	if base == format.ValueStringUtf16 {
		start := 0
		for i := 0; i+1 < len(data); i += 2 {
			if data[i] == 0 && data[i+1] == 0 {
				tag.Values = append(tag.Values, Value{Type: base, Encoding: enc, Data: data[start:i]})
				start = i + 2
			}
		}
		if start < len(data) {
			tag.Values = append(tag.Values, Value{Type: base, Encoding: enc, Data: data[start:]})
		}

		return
	}

	start := 0
	for i := 0; i < len(data); i++ {
		if data[i] == 0 {
			tag.Values = append(tag.Values, Value{Type: base, Encoding: enc, Data: data[start:i]})
			start = i + 1
		}
	}
	if start < len(data) {
		tag.Values = append(tag.Values, Value{Type: base, Encoding: enc, Data: data[start:]})
	}
}

// readTemplateInstance reads a template instance: a 10-byte header pointing
// at a template definition, the instance's value array, and a walk of the
// definition's fragment with those values bound.
//
// The definition may sit right at the cursor or earlier in the buffer. When
// it is inline, the value array follows the definition, so values are read
// first and the walk seeks back; when it is a back-reference, the value
// array sits at the cursor and only the values count toward consumed bytes.
func (e *evaluator) readTemplateInstance(pos int, parent *Tag, elemDepth, tmplDepth int) (int, error) {
	if tmplDepth > e.maxTemplateInstanceDepth {
		return 0, fmt.Errorf("%w: template instances nested deeper than %d", errs.ErrRecursionLimitExceeded, e.maxTemplateInstanceDepth)
	}

	if _, err := e.span.Slice(pos, 10); err != nil {
		return 0, err
	}
	defOffset32, err := e.span.U32LE(pos + 6)
	if err != nil {
		return 0, err
	}
	defOffset := int(defOffset32)

	cur := pos + 10
	consumed := 10

	if defOffset >= e.span.Len() {
		return 0, fmt.Errorf("%w: template definition offset %d in a %d-byte buffer", errs.ErrValueOutOfBounds, defOffset, e.span.Len())
	}
	if defOffset > cur {
		consumed += defOffset - cur
		cur = defOffset
	}

	if _, err := e.span.Slice(defOffset, 24); err != nil {
		return 0, err
	}
	defSize32, err := e.span.U32LE(defOffset + 20)
	if err != nil {
		return 0, err
	}
	defSize := int(defSize32)
	if defSize > e.span.Len() {
		return 0, fmt.Errorf("%w: template definition of %d bytes in a %d-byte buffer", errs.ErrValueOutOfBounds, defSize, e.span.Len())
	}

	inline := defOffset == cur
	valuesPos := cur
	if inline {
		valuesPos = cur + 24 + defSize
	}

	values, release, valuesSize, err := e.readTemplateInstanceValues(valuesPos)
	if err != nil {
		return 0, err
	}
	defer release()
	consumed += valuesSize

	walk := defOffset + 24
	n, err := e.readFragmentHeader(walk)
	if err != nil {
		return 0, err
	}
	walk += n

	tok, err := ReadToken(e.span, walk)
	if err != nil {
		return 0, err
	}
	if tok.Type() != format.TokenOpenStartElementTag {
		return 0, fmt.Errorf("%w: token %s at start of template definition", errs.ErrUnsupportedToken, tok.Type())
	}
	m, err := e.readElement(walk, tok, values, parent, elemDepth+1, tmplDepth)
	if err != nil {
		return 0, err
	}
	walk += m

	etok, err := ReadToken(e.span, walk)
	if err != nil {
		return 0, err
	}
	if etok.Type() != format.TokenEndOfFile {
		return 0, fmt.Errorf("%w: token %s where template definition should end", errs.ErrUnsupportedToken, etok.Type())
	}
	walk++

	if inline {
		consumed += walk - defOffset
	}

	return consumed, nil
}

// readTemplateInstanceValues reads a value descriptor block: a count, that
// many {size, type, unknown} descriptors, then the value bytes laid
// back-to-back. The returned release function recycles the value array once
// the caller is done walking the definition.
func (e *evaluator) readTemplateInstanceValues(pos int) ([]TemplateValue, func(), int, error) {
	noop := func() {}

	nValues32, err := e.span.U32LE(pos)
	if err != nil {
		return nil, noop, 0, err
	}
	nValues := int(nValues32)
	cur := pos + 4

	if nValues > e.span.Len()/4 {
		return nil, noop, 0, fmt.Errorf("%w: %d template value descriptors in a %d-byte buffer", errs.ErrValueOutOfBounds, nValues, e.span.Len())
	}
	if _, err := e.span.Slice(cur, nValues*4); err != nil {
		return nil, noop, 0, err
	}

	values, release := templateValuePool.Get(nValues)
	totalDataSize := 0
	for i := 0; i < nValues; i++ {
		size, err := e.span.U16LE(cur)
		if err != nil {
			release()
			return nil, noop, 0, err
		}
		typ, err := e.span.U8(cur + 2)
		if err != nil {
			release()
			return nil, noop, 0, err
		}
		cur += 4

		values[i] = TemplateValue{Size: int(size), Type: format.ValueType(typ)}
		totalDataSize += int(size)
	}

	if _, err := e.span.Slice(cur, totalDataSize); err != nil {
		release()
		return nil, noop, 0, err
	}
	for i := range values {
		if values[i].Size == 0 {
			continue
		}
		values[i].Offset = cur
		cur += values[i].Size
	}

	return values, release, cur - pos, nil
}
