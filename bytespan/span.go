// Package bytespan implements the bounds-checked byte-slice reader that
// every manifest and binary-XML parser in this module is built on.
//
// A Span is an immutable view over a caller-supplied buffer. Every read is
// validated against the buffer length before any data is touched; nothing
// in this package ever indexes the underlying slice without a preceding
// bounds check, and integer overflow in offset+length arithmetic is
// detected rather than silently wrapping. No other package in this module
// is allowed to index a parser's input buffer directly — all access goes
// through a Span.
package bytespan

import (
	"fmt"
	"math"

	"github.com/libyal/libfwevt-sub000/endian"
	"github.com/libyal/libfwevt-sub000/errs"
)

// Span is an immutable bounds-checked view over a byte slice.
//
// Span itself carries no read position; use Cursor for sequential reads
// that advance an offset, or call Span's absolute-offset methods directly
// when an offset is already in hand (e.g. a data_offset recovered from a
// previously-parsed record).
type Span struct {
	data []byte
}

// New wraps data in a Span. data is not copied; the caller must not mutate
// it while the Span or any value derived from it is in use.
func New(data []byte) (*Span, error) {
	if data == nil {
		return nil, fmt.Errorf("%w: nil buffer", errs.ErrInvalidArgument)
	}
	if len(data) > math.MaxInt32 {
		return nil, fmt.Errorf("%w: buffer of %d bytes exceeds maximum supported size", errs.ErrInvalidArgument, len(data))
	}

	return &Span{data: data}, nil
}

// Len returns the total length of the underlying buffer.
func (s *Span) Len() int {
	return len(s.data)
}

// Bytes returns the entire underlying buffer. Callers must treat it as
// read-only.
func (s *Span) Bytes() []byte {
	return s.data
}

// checkedEnd computes p+n, failing with ErrValueOutOfBounds if the addition
// would overflow or if n is negative, before any comparison against the
// buffer length is made.
func checkedEnd(p, n int) (int, error) {
	if p < 0 || n < 0 {
		return 0, fmt.Errorf("%w: negative offset or length", errs.ErrValueOutOfBounds)
	}
	// Detect overflow in p+n using uint64 arithmetic, which cannot wrap for
	// any pair of non-negative ints on a 64-bit platform.
	end := uint64(p) + uint64(n)
	if end > uint64(math.MaxInt) {
		return 0, fmt.Errorf("%w: offset %d + length %d overflows", errs.ErrValueOutOfBounds, p, n)
	}

	return int(end), nil
}

// Slice returns a sub-slice data[p:p+n], failing if p+n overflows or falls
// outside the buffer.
func (s *Span) Slice(p, n int) ([]byte, error) {
	end, err := checkedEnd(p, n)
	if err != nil {
		return nil, err
	}
	if end > len(s.data) {
		return nil, fmt.Errorf("%w: slice [%d:%d] exceeds buffer of %d bytes", errs.ErrValueOutOfBounds, p, end, len(s.data))
	}

	return s.data[p:end], nil
}

// u8 through u64le below read a fixed-width little-endian integer at
// absolute offset p. They fail with ErrTruncatedInput, not
// ErrValueOutOfBounds, because a read past the end of a shorter-than-
// expected buffer is a truncation, not a malformed offset.

func (s *Span) fixed(p, width int) ([]byte, error) {
	end, err := checkedEnd(p, width)
	if err != nil {
		return nil, err
	}
	if end > len(s.data) {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", errs.ErrTruncatedInput, width, p, len(s.data)-p)
	}

	return s.data[p:end], nil
}

// U8 reads a single byte at offset p.
func (s *Span) U8(p int) (uint8, error) {
	b, err := s.fixed(p, 1)
	if err != nil {
		return 0, err
	}

	return b[0], nil
}

// U16LE reads a little-endian uint16 at offset p.
func (s *Span) U16LE(p int) (uint16, error) {
	b, err := s.fixed(p, 2)
	if err != nil {
		return 0, err
	}

	return endian.GetLittleEndianEngine().Uint16(b), nil
}

// U32LE reads a little-endian uint32 at offset p.
func (s *Span) U32LE(p int) (uint32, error) {
	b, err := s.fixed(p, 4)
	if err != nil {
		return 0, err
	}

	return endian.GetLittleEndianEngine().Uint32(b), nil
}

// U64LE reads a little-endian uint64 at offset p.
func (s *Span) U64LE(p int) (uint64, error) {
	b, err := s.fixed(p, 8)
	if err != nil {
		return 0, err
	}

	return endian.GetLittleEndianEngine().Uint64(b), nil
}

// U32BE reads a big-endian uint32 at offset p. The sole use in this module
// is comparing a provider descriptor's four-byte section tag (spec.md
// §4.2) so its ASCII letters read naturally left to right.
func (s *Span) U32BE(p int) (uint32, error) {
	b, err := s.fixed(p, 4)
	if err != nil {
		return 0, err
	}

	return endian.GetBigEndianEngine().Uint32(b), nil
}

// MatchSignature reports whether the four bytes at offset p equal the ASCII
// signature sig (e.g. "CRIM", "WEVT", "CHAN"). sig must be exactly 4 bytes.
func (s *Span) MatchSignature(p int, sig string) (bool, error) {
	if len(sig) != 4 {
		return false, fmt.Errorf("%w: signature %q is not 4 bytes", errs.ErrInvalidArgument, sig)
	}

	b, err := s.fixed(p, 4)
	if err != nil {
		return false, err
	}

	return b[0] == sig[0] && b[1] == sig[1] && b[2] == sig[2] && b[3] == sig[3], nil
}

// RequireSignature is MatchSignature followed by a failure if it didn't
// match, for the common case where a mismatched signature is immediately
// fatal to the caller.
func (s *Span) RequireSignature(p int, sig string) error {
	ok, err := s.MatchSignature(p, sig)
	if err != nil {
		return err
	}
	if !ok {
		actual, _ := s.fixed(p, 4)

		return fmt.Errorf("%w: expected %q at offset %d, found %q", errs.ErrUnsupportedSignature, sig, p, actual)
	}

	return nil
}
