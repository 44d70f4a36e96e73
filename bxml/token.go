package bxml

import (
	"fmt"

	"github.com/libyal/libfwevt-sub000/bytespan"
	"github.com/libyal/libfwevt-sub000/errs"
	"github.com/libyal/libfwevt-sub000/format"
)

// Token is one binary-XML token: a single leading byte whose low six bits
// select the token type and whose top bits carry flags. Only a fixed set of
// type/flag combinations is valid; ReadToken rejects everything else before
// any token-specific parsing happens.
type Token struct {
	// Raw is the token byte exactly as it appears in the stream, flags
	// included.
	Raw uint8
}

// Type returns the token's type with any flag bits stripped.
func (t Token) Type() format.TokenType {
	return format.TokenType(t.Raw & format.TokenTypeMask)
}

// HasMoreData reports whether the token's more-data flag is set. On an
// element token it announces a trailing attribute list.
func (t Token) HasMoreData() bool {
	return t.Raw&format.HasMoreDataFlag != 0
}

// validTokenByte reports whether the stream may legally contain this token
// byte. The plain types 0x00..0x0F are always valid; the more-data flag is
// only meaningful on the subset of types listed here.
func validTokenByte(raw uint8) bool {
	if raw <= uint8(format.TokenFragmentHeader) {
		return true
	}
	switch raw {
	case uint8(format.TokenOpenStartElementTag) | format.HasMoreDataFlag,
		uint8(format.TokenCloseStartElementTag) | format.HasMoreDataFlag,
		uint8(format.TokenValue) | format.HasMoreDataFlag,
		uint8(format.TokenAttribute) | format.HasMoreDataFlag,
		uint8(format.TokenCDataSection) | format.HasMoreDataFlag,
		uint8(format.TokenCharacterReference) | format.HasMoreDataFlag,
		uint8(format.TokenPITarget) | format.HasMoreDataFlag,
		uint8(format.TokenPIData) | format.HasMoreDataFlag:
		return true
	default:
		return false
	}
}

// ReadToken classifies the token byte at offset. It does not consume any of
// the token's body; callers dispatch on Type and parse the body themselves.
func ReadToken(span *bytespan.Span, offset int) (Token, error) {
	raw, err := span.U8(offset)
	if err != nil {
		return Token{}, err
	}
	if !validTokenByte(raw) {
		return Token{}, fmt.Errorf("%w: token type 0x%02x at offset %d", errs.ErrUnsupportedToken, raw, offset)
	}

	return Token{Raw: raw}, nil
}
