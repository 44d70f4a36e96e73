package manifest

import (
	"fmt"

	"github.com/libyal/libfwevt-sub000/bytespan"
	"github.com/libyal/libfwevt-sub000/errs"
)

const (
	ttblHeaderSize     = 12
	templateHeaderSize = 40
)

// parseTemplates reads the TTBL section at offset: a 12-byte header
// followed by n_templates templates, each self-describing its own total
// byte size so templates need not be uniformly sized or aligned.
func parseTemplates(span *bytespan.Span, offset int) ([]Template, error) {
	c := bytespan.NewCursor(span)
	c.Seek(offset)

	if err := c.RequireSignature("TTBL"); err != nil {
		return nil, err
	}
	sectionSize, err := c.U32LE()
	if err != nil {
		return nil, err
	}
	nTemplates, err := c.U32LE()
	if err != nil {
		return nil, err
	}

	sectionRemaining := span.Len() - c.Tell()
	if sectionSize != 0 {
		if int(sectionSize) < ttblHeaderSize {
			return nil, fmt.Errorf("%w: template table size %d smaller than its own header", errs.ErrValueOutOfBounds, sectionSize)
		}
		sectionRemaining = int(sectionSize) - ttblHeaderSize
	}

	templates := make([]Template, 0, nTemplates)
	for i := uint32(0); i < nTemplates; i++ {
		tmpl, err := parseTemplate(span, c.Tell())
		if err != nil {
			return nil, err
		}
		if int(tmpl.Size) > sectionRemaining {
			return nil, fmt.Errorf("%w: template of %d bytes with %d bytes left in its table",
				errs.ErrValueOutOfBounds, tmpl.Size, sectionRemaining)
		}
		sectionRemaining -= int(tmpl.Size)
		templates = append(templates, tmpl)
		c.Seek(tmpl.Offset + int(tmpl.Size))
	}

	return templates, nil
}

