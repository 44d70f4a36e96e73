// Package bxml evaluates the Binary XML substream used by Windows Event
// Log records and WEVT template definitions, turning a tokenized fragment
// plus an optional template-value array into a Tag tree, and rendering that
// tree back to textual XML.
//
// Evaluation is a pure function over a byte slice: no I/O, no global state,
// and every read goes through a bytespan.Span so a hostile input can fail
// but never read out of bounds. Recursion is bounded independently on
// element nesting, template-instance nesting, and template-value-array
// expansion.
package bxml

import (
	"fmt"

	"github.com/libyal/libfwevt-sub000/bytespan"
	"github.com/libyal/libfwevt-sub000/errs"
	"github.com/libyal/libfwevt-sub000/format"
	"github.com/libyal/libfwevt-sub000/internal/options"
)

// DefaultASCIICodepage is the fallback codepage used for byte-stream
// strings when the caller does not name one.
const DefaultASCIICodepage = 1252

// Document is an evaluated binary-XML document: the root tag plus the
// number of input bytes the evaluation consumed.
type Document struct {
	Root *Tag

	size int
}

// Size returns the number of bytes of input the evaluation consumed. For
// Read this includes the terminating end-of-file token; for
// ReadWithTemplateValues with a value array, it covers the single fragment
// only.
func (d *Document) Size() int {
	return d.size
}

// readConfig holds the options Read accepts.
type readConfig struct {
	codepage                 int
	maxElementDepth          int
	maxTemplateInstanceDepth int
	maxValueArrayDepth       int
}

func defaultReadConfig() *readConfig {
	return &readConfig{
		codepage:                 DefaultASCIICodepage,
		maxElementDepth:          ElementRecursionDepth,
		maxTemplateInstanceDepth: TemplateInstanceRecursionDepth,
		maxValueArrayDepth:       TemplateValueArrayRecursionDepth,
	}
}

// ReadOption configures a call to Read or ReadWithTemplateValues.
type ReadOption = options.Option[*readConfig]

// WithASCIICodepage sets the fallback codepage used for byte-stream string
// values.
func WithASCIICodepage(codepage int) ReadOption {
	return options.NoError(func(c *readConfig) {
		c.codepage = codepage
	})
}

// WithElementRecursionDepth overrides the element nesting bound.
func WithElementRecursionDepth(depth int) ReadOption {
	return options.New(func(c *readConfig) error {
		if depth < 1 {
			return fmt.Errorf("%w: element recursion depth %d", errs.ErrInvalidArgument, depth)
		}
		c.maxElementDepth = depth

		return nil
	})
}

// WithTemplateInstanceRecursionDepth overrides the template-instance
// nesting bound.
func WithTemplateInstanceRecursionDepth(depth int) ReadOption {
	return options.New(func(c *readConfig) error {
		if depth < 1 {
			return fmt.Errorf("%w: template instance recursion depth %d", errs.ErrInvalidArgument, depth)
		}
		c.maxTemplateInstanceDepth = depth

		return nil
	})
}

// WithTemplateValueArrayRecursionDepth overrides the template-value-array
// expansion bound.
func WithTemplateValueArrayRecursionDepth(depth int) ReadOption {
	return options.New(func(c *readConfig) error {
		if depth < 1 {
			return fmt.Errorf("%w: template value array recursion depth %d", errs.ErrInvalidArgument, depth)
		}
		c.maxValueArrayDepth = depth

		return nil
	})
}

// Read evaluates the binary-XML stream in data starting at offset, with no
// externally supplied template values. Template instances inside the stream
// still bind their own embedded value arrays.
func Read(data []byte, offset int, flags format.EvaluatorFlag, opts ...ReadOption) (*Document, error) {
	return ReadWithTemplateValues(data, offset, flags, nil, opts...)
}

// ReadWithTemplateValues evaluates the binary-XML stream in data starting
// at offset, binding substitution tokens against values.
func ReadWithTemplateValues(data []byte, offset int, flags format.EvaluatorFlag, values []TemplateValue, opts ...ReadOption) (*Document, error) {
	cfg := defaultReadConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	if !flags.Valid() {
		return nil, fmt.Errorf("%w: evaluator flags 0x%08x", errs.ErrInvalidArgument, uint32(flags))
	}

	span, err := bytespan.New(data)
	if err != nil {
		return nil, err
	}
	if offset < 0 || offset >= span.Len() {
		return nil, fmt.Errorf("%w: offset %d in a %d-byte buffer", errs.ErrValueOutOfBounds, offset, span.Len())
	}

	doc := &Document{}
	e := &evaluator{
		span:                     span,
		flags:                    flags,
		codepage:                 cfg.codepage,
		doc:                      doc,
		maxElementDepth:          cfg.maxElementDepth,
		maxTemplateInstanceDepth: cfg.maxTemplateInstanceDepth,
		maxValueArrayDepth:       cfg.maxValueArrayDepth,
	}

	if values == nil {
		doc.size, err = e.readDocument(offset)
	} else {
		// An external value array skips the document loop: the stream is a
		// single fragment whose substitutions bind against the supplied
		// values.
		doc.size, err = e.readFragmentWithValues(offset, values)
	}
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// readFragmentWithValues is the externally-parameterized entry: one
// fragment (or end-of-file) evaluated against a caller-supplied value
// array.
func (e *evaluator) readFragmentWithValues(offset int, values []TemplateValue) (int, error) {
	tok, err := ReadToken(e.span, offset)
	if err != nil {
		return 0, err
	}

	switch tok.Type() {
	case format.TokenEndOfFile:
		return 1, nil
	case format.TokenFragmentHeader:
		return e.readFragment(offset, values, nil, 0, 0)
	default:
		return 0, fmt.Errorf("%w: token %s at document level", errs.ErrUnsupportedToken, tok.Type())
	}
}
