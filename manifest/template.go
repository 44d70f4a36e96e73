package manifest

import (
	"fmt"

	"github.com/libyal/libfwevt-sub000/bytespan"
	"github.com/libyal/libfwevt-sub000/errs"
	"github.com/libyal/libfwevt-sub000/guid"
)

// parseTemplate reads a single TEMP record at offset: a 40-byte header
// carrying the template's own size, its descriptor and name counts, and its
// GUID. The binary-XML body following the header is recorded as an opaque
// byte slice; evaluating it is the bxml package's job and happens on
// demand, not during manifest parsing.
func parseTemplate(span *bytespan.Span, offset int) (Template, error) {
	c := bytespan.NewCursor(span)
	c.Seek(offset)

	if err := c.RequireSignature("TEMP"); err != nil {
		return Template{}, err
	}
	size, err := c.U32LE()
	if err != nil {
		return Template{}, err
	}
	if size < templateHeaderSize {
		return Template{}, fmt.Errorf("%w: template size %d smaller than its own header", errs.ErrValueOutOfBounds, size)
	}

	nDescriptors, err := c.U32LE()
	if err != nil {
		return Template{}, err
	}
	nNames, err := c.U32LE()
	if err != nil {
		return Template{}, err
	}
	itemsOffset, err := c.U32LE()
	if err != nil {
		return Template{}, err
	}
	unknown1, err := c.U32LE()
	if err != nil {
		return Template{}, err
	}
	guidBytes, err := c.Slice(guid.Size)
	if err != nil {
		return Template{}, err
	}
	g, err := guid.Parse(guidBytes)
	if err != nil {
		return Template{}, err
	}

	body, err := span.Slice(offset, int(size))
	if err != nil {
		return Template{}, err
	}

	return Template{
		Offset:         offset,
		Size:           size,
		NumDescriptors: nDescriptors,
		NumNames:       nNames,
		ItemsOffset:    itemsOffset,
		Unknown1:       unknown1,
		Identifier:     g,
		Body:           body[templateHeaderSize:],
	}, nil
}
