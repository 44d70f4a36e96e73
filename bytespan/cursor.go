package bytespan

// Cursor is a sequential read position over a Span. Every read advances the
// position by the number of bytes consumed; Seek repositions it explicitly,
// which the manifest parsers use to jump to a record or section at an
// absolute offset (a provider record, a section named by the descriptor
// table, the next template of a TTBL section). The binary-XML evaluator does
// not use a Cursor; it reads through a Span at absolute offsets.
type Cursor struct {
	span *Span
	pos  int
}

// NewCursor creates a Cursor over span starting at offset 0.
func NewCursor(span *Span) *Cursor {
	return &Cursor{span: span}
}

// Span returns the underlying Span.
func (c *Cursor) Span() *Span {
	return c.span
}

// Tell returns the current read position.
func (c *Cursor) Tell() int {
	return c.pos
}

// Seek repositions the cursor to an absolute offset. It does not itself
// validate the offset; the next read will fail if it is out of bounds.
func (c *Cursor) Seek(p int) {
	c.pos = p
}

// Remaining returns the number of bytes between the current position and
// the end of the buffer.
func (c *Cursor) Remaining() int {
	return c.span.Len() - c.pos
}

// U8 reads one byte and advances the cursor.
func (c *Cursor) U8() (uint8, error) {
	v, err := c.span.U8(c.pos)
	if err != nil {
		return 0, err
	}
	c.pos++

	return v, nil
}

// U16LE reads a little-endian uint16 and advances the cursor.
func (c *Cursor) U16LE() (uint16, error) {
	v, err := c.span.U16LE(c.pos)
	if err != nil {
		return 0, err
	}
	c.pos += 2

	return v, nil
}

// U32LE reads a little-endian uint32 and advances the cursor.
func (c *Cursor) U32LE() (uint32, error) {
	v, err := c.span.U32LE(c.pos)
	if err != nil {
		return 0, err
	}
	c.pos += 4

	return v, nil
}

// U64LE reads a little-endian uint64 and advances the cursor.
func (c *Cursor) U64LE() (uint64, error) {
	v, err := c.span.U64LE(c.pos)
	if err != nil {
		return 0, err
	}
	c.pos += 8

	return v, nil
}

// Slice reads n raw bytes and advances the cursor.
func (c *Cursor) Slice(n int) ([]byte, error) {
	b, err := c.span.Slice(c.pos, n)
	if err != nil {
		return nil, err
	}
	c.pos += n

	return b, nil
}

// RequireSignature checks the four bytes at the current position and, on
// success, advances the cursor past them.
func (c *Cursor) RequireSignature(sig string) error {
	if err := c.span.RequireSignature(c.pos, sig); err != nil {
		return err
	}
	c.pos += 4

	return nil
}

// Skip advances the cursor by n bytes without reading, failing if that
// would move past the end of the buffer.
func (c *Cursor) Skip(n int) error {
	if _, err := c.span.Slice(c.pos, n); err != nil {
		return err
	}
	c.pos += n

	return nil
}
