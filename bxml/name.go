package bxml

import (
	"fmt"

	"github.com/libyal/libfwevt-sub000/errs"
	"github.com/libyal/libfwevt-sub000/format"
)

// readName reads a name record at an absolute offset:
//
//	[u32 unknown]  only when FlagHasDataOffsets is set
//	u16 hash       stored verbatim, never verified
//	u16 n_chars
//	UTF-16LE chars, n_chars+1 code units, the final one 0x0000
//
// It returns the character payload without the terminating code unit and
// the record's total size in bytes.
func (e *evaluator) readName(offset int) ([]byte, int, error) {
	cur := offset
	if e.flags.Has(format.FlagHasDataOffsets) {
		cur += 4
	}

	nChars, err := e.span.U16LE(cur + 2)
	if err != nil {
		return nil, 0, err
	}
	if nChars == 0 {
		return nil, 0, fmt.Errorf("%w: empty name at offset %d", errs.ErrValueOutOfBounds, offset)
	}
	cur += 4

	byteLen := (int(nChars) + 1) * 2
	data, err := e.span.Slice(cur, byteLen)
	if err != nil {
		return nil, 0, err
	}

	return data[:int(nChars)*2], cur - offset + byteLen, nil
}
