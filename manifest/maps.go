package manifest

import (
	"fmt"

	"github.com/libyal/libfwevt-sub000/bytespan"
	"github.com/libyal/libfwevt-sub000/errs"
)

const mapsHeaderSize = 16

// parseMaps reads the MAPS section at offset. Unlike the other fixed-shape
// sections, MAPS records are not laid out contiguously: after the header
// comes a vector of (n_maps-1) absolute offsets for every map after the
// first, which itself sits immediately after that vector. Each map's
// internal structure beyond its four-byte signature is not decoded here —
// full value-map/bitmap parsing is left as future work; this preserves the
// raw bytes starting at the map's own signature.
func parseMaps(span *bytespan.Span, offset int) ([]Map, error) {
	c := bytespan.NewCursor(span)
	c.Seek(offset)

	if err := c.RequireSignature("MAPS"); err != nil {
		return nil, err
	}
	if _, err := c.U32LE(); err != nil { // section_size, unused beyond presence
		return nil, err
	}
	nMaps, err := c.U32LE()
	if err != nil {
		return nil, err
	}
	if _, err := c.U32LE(); err != nil { // reserved word rounding header to 16 bytes
		return nil, err
	}

	if nMaps == 0 {
		return nil, nil
	}

	offsets := make([]int, nMaps)
	// offsets[0] is the first map's position, immediately after the offset
	// vector; offsets[1:] come from the (n_maps-1) stored 32-bit words.
	firstMapOffset := c.Tell() + int(nMaps-1)*4
	offsets[0] = firstMapOffset

	for i := 1; i < int(nMaps); i++ {
		o, err := c.U32LE()
		if err != nil {
			return nil, err
		}
		offsets[i] = int(o)
	}

	maps := make([]Map, 0, nMaps)
	for _, o := range offsets {
		sig, err := span.Slice(o, 4)
		if err != nil {
			return nil, err
		}
		if len(sig) != 4 {
			return nil, fmt.Errorf("%w: map signature truncated at offset %d", errs.ErrTruncatedInput, o)
		}

		maps = append(maps, Map{Offset: o, Raw: sig})
	}

	return maps, nil
}
