// Package errs defines the sentinel error values returned by the manifest
// and binary-XML parsers.
//
// Every error a caller can usefully switch on is a package-level value here;
// call sites wrap it with additional context using fmt.Errorf("%w: ...", ...)
// so that errors.Is / errors.As keep working against these sentinels.
package errs

import "errors"

var (
	// ErrInvalidArgument is returned for a nil required input or an impossible
	// size (e.g. a declared length larger than the maximum slice size).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrTruncatedInput is returned when a fixed-width read would pass the end
	// of the buffer.
	ErrTruncatedInput = errors.New("truncated input")

	// ErrValueOutOfBounds is returned when a declared offset, count or size
	// refers outside the buffer, or an addition used to validate it would
	// overflow.
	ErrValueOutOfBounds = errors.New("value out of bounds")

	// ErrUnsupportedSignature is returned when a container or section
	// signature does not match its expected four-byte tag.
	ErrUnsupportedSignature = errors.New("unsupported signature")

	// ErrUnsupportedToken is returned when a binary-XML token type byte is
	// not one of the recognized token types.
	ErrUnsupportedToken = errors.New("unsupported token")

	// ErrUnsupportedValueType is returned when a template value's declared
	// type is not one of the recognized value types.
	ErrUnsupportedValueType = errors.New("unsupported value type")

	// ErrUnsupportedEntity is returned when an entity reference name is not
	// one of the five fixed XML entities.
	ErrUnsupportedEntity = errors.New("unsupported entity")

	// ErrRecursionLimitExceeded is returned when element nesting,
	// template-instance nesting, or template-value-array expansion exceeds
	// its configured bound.
	ErrRecursionLimitExceeded = errors.New("recursion limit exceeded")
)
