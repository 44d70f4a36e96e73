package bxml

import (
	"unicode/utf16"

	"github.com/libyal/libfwevt-sub000/internal/pool"
)

// UTF8XML renders the document as a UTF-8 XML string. Rendering is
// deterministic: the same tree always produces the same bytes, and only the
// five predefined XML entities are escaped.
func (d *Document) UTF8XML() []byte {
	if d.Root == nil {
		return nil
	}

	buf := pool.GetRenderBuffer()
	defer pool.PutRenderBuffer(buf)

	renderTag(buf, d.Root, 0)

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())

	return out
}

// UTF16XML renders the document as UTF-16 code units, converted from the
// UTF-8 rendering.
func (d *Document) UTF16XML() []uint16 {
	utf8XML := d.UTF8XML()
	if utf8XML == nil {
		return nil
	}

	return utf16.Encode([]rune(string(utf8XML)))
}

func renderTag(buf *pool.ByteBuffer, tag *Tag, depth int) {
	switch tag.Kind {
	case KindCData:
		renderIndent(buf, depth)
		buf.WriteString("<![CDATA[")
		buf.WriteString(tag.ValueString())
		buf.WriteString("]]>")

	case KindPI:
		renderIndent(buf, depth)
		buf.WriteString("<?")
		buf.WriteString(tag.NameString())
		if s := tag.ValueString(); s != "" {
			buf.WriteString(" ")
			buf.WriteString(s)
		}
		buf.WriteString("?>")

	default:
		renderElement(buf, tag, depth)
	}
}

func renderElement(buf *pool.ByteBuffer, tag *Tag, depth int) {
	name := tag.NameString()

	renderIndent(buf, depth)
	buf.WriteString("<")
	buf.WriteString(name)
	for _, attr := range tag.Attributes {
		buf.WriteString(" ")
		buf.WriteString(attr.NameString())
		buf.WriteString("=\"")
		writeEscaped(buf, attr.ValueString())
		buf.WriteString("\"")
	}

	value := tag.ValueString()
	if len(tag.Children) == 0 && value == "" {
		buf.WriteString("/>")

		return
	}
	buf.WriteString(">")

	writeEscaped(buf, value)

	if len(tag.Children) > 0 {
		for _, child := range tag.Children {
			buf.WriteString("\n")
			renderTag(buf, child, depth+1)
		}
		buf.WriteString("\n")
		renderIndent(buf, depth)
	}

	buf.WriteString("</")
	buf.WriteString(name)
	buf.WriteString(">")
}

func renderIndent(buf *pool.ByteBuffer, depth int) {
	for i := 0; i < depth; i++ {
		buf.WriteString("  ")
	}
}

// writeEscaped writes s with the five XML entities escaped. Nothing else is
// transformed.
func writeEscaped(buf *pool.ByteBuffer, s string) {
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&apos;")
		default:
			buf.B = append(buf.B, string(r)...)
		}
	}
}
