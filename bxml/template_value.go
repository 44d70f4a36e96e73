package bxml

import (
	"github.com/libyal/libfwevt-sub000/format"
	"github.com/libyal/libfwevt-sub000/internal/pool"
)

// TemplateValue is one entry of a template instance's value array: a typed
// window into the evaluator's input buffer. The declared type decides how
// substitution consumes the window — Null means "no substitution",
// BinaryXml means "evaluate the window as nested binary XML", and an
// array-flagged type is consumed one element per substitution pass.
//
// A zero-size value keeps Offset at 0, meaning "no data".
type TemplateValue struct {
	Offset int
	Size   int
	Type   format.ValueType
}

// templateValuePool recycles the per-instance value arrays; one is borrowed
// for every template instance the evaluator enters and returned when that
// instance's definition has been fully walked.
var templateValuePool = pool.NewSlicePool[TemplateValue]()
